// Package corpusd provides the boardcorpus application: it wires the
// pipeline collaborators from CLI options, runs the build, and writes the
// requested outputs.
package corpusd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kart-io/logger"

	"github.com/tablewise/boardcorpus/internal/augment"
	"github.com/tablewise/boardcorpus/internal/corpus"
	"github.com/tablewise/boardcorpus/internal/metadata"
	"github.com/tablewise/boardcorpus/internal/model"
	"github.com/tablewise/boardcorpus/internal/preprocess"
	"github.com/tablewise/boardcorpus/internal/source"
	"github.com/tablewise/boardcorpus/internal/store"
	"github.com/tablewise/boardcorpus/pkg/component/mongodb"
	"github.com/tablewise/boardcorpus/pkg/infra/app"
	"github.com/tablewise/boardcorpus/pkg/infra/pool"
	"github.com/tablewise/boardcorpus/pkg/utils/json"
)

const (
	appName        = "boardcorpus"
	appDescription = `boardcorpus - board game review corpus builder

Builds a labeled review corpus from local API and crawler dumps:
merges and deduplicates the two sources, corrects sentiment class
imbalance per game, preprocesses reviews across a worker pool, and
assembles a queryable corpus that can be exported to JSON or MongoDB.`
)

// NewApp creates the application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithShortDescription("Build a labeled board game review corpus"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run executes one corpus build with the given options.
func Run(opts *Options) error {
	printBanner()

	// 1. Initialize logging.
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Flush() }()
	logger.Infow("Starting corpus build", "games", opts.Games, "source", opts.Source)

	ctx := context.Background()

	// 2. Wire the pipeline collaborators.
	strategy, err := model.ParseStrategy(opts.BalanceStrategy)
	if err != nil {
		return err
	}
	mode, err := corpus.ParseSourceMode(opts.Source)
	if err != nil {
		return err
	}

	var augmenter corpus.Augmenter
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.AugmentEnable {
		augmenter = augment.New(seed)
		logger.Info("Text augmentation enabled")
	}

	src := source.New(opts.APIDir, opts.CrawlerDir)
	pre := preprocess.New(preprocess.DefaultOptions())
	meta := metadata.New(opts.APIDir, opts.RanksCSV, opts.StatsCSV)
	pipeline := corpus.NewPipeline(src, pre, meta)
	logger.Info("Pipeline collaborators initialized")

	// 3. Build the corpus.
	result, err := pipeline.Build(ctx, corpus.BuildOptions{
		GameIDs: opts.Games,
		Source:  mode,
		Strict:  opts.Strict,
		Balance: corpus.BalanceOptions{
			Strategy:                  strategy,
			TargetRatio:               opts.TargetRatio,
			MinSamples:                opts.MinSamples,
			MaxAugmentationsPerReview: opts.AugmentMaxPerReview,
			Augmenter:                 augmenter,
			LanguageOf: func(r model.Review) string {
				return preprocess.DetectLanguage(r.Comment)
			},
			Rand: rand.New(rand.NewSource(seed)),
		},
		Process: corpus.ProcessOptions{
			Parallel:   opts.Parallel,
			MaxWorkers: opts.MaxWorkers,
		},
	})
	if err != nil {
		return fmt.Errorf("building corpus: %w", err)
	}

	// 4. Write outputs.
	if err := writeOutputs(ctx, opts, result); err != nil {
		return err
	}

	// 5. Optional statistics summary.
	if opts.ShowStats {
		logStats(result.Corpus)
	}

	logger.Infow("Corpus build finished",
		"documents", result.TotalDocuments,
		"games", len(result.Corpus.Games),
	)
	return nil
}

// writeOutputs runs the enabled output writers as independent side tasks on
// a background pool. The first failure wins; the rest still finish.
func writeOutputs(ctx context.Context, opts *Options, result *corpus.BuildResult) error {
	var tasks []func() error
	if opts.SaveJSON {
		tasks = append(tasks, func() error {
			return saveCorpusJSON(result.Corpus, opts.OutputDir, opts.OutputName)
		})
	}
	if opts.SaveReport {
		tasks = append(tasks, func() error {
			return saveBalanceReport(result, opts.OutputDir)
		})
	}
	if opts.SaveMongo {
		tasks = append(tasks, func() error {
			return saveToMongo(ctx, opts, result.Corpus)
		})
	}
	if len(tasks) == 0 {
		return nil
	}

	p, err := pool.New("outputs", pool.BackgroundPool, pool.BackgroundConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := p.ReleaseTimeout(30 * time.Second); err != nil {
			logger.Warnw("Output pool release timed out", "error", err)
		}
	}()

	errs := make(chan error, len(tasks))
	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		submitErr := p.SubmitWithContext(ctx, func() {
			defer wg.Done()
			errs <- task()
		})
		if submitErr != nil {
			wg.Done()
			errs <- submitErr
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}

	st := p.Stats()
	logger.Infow("Outputs written",
		"tasks", st.Submitted,
		"completed", st.Completed,
	)
	return nil
}

func saveCorpusJSON(c *model.Corpus, dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	data, err := c.Export()
	if err != nil {
		return fmt.Errorf("exporting corpus: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing corpus: %w", err)
	}
	logger.Infow("Corpus saved", "path", path, "documents", c.NumDocuments())
	return nil
}

func saveBalanceReport(result *corpus.BuildResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding balance report: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("balance_report_%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing balance report: %w", err)
	}
	logger.Infow("Balance report saved", "path", path)
	return nil
}

func saveToMongo(ctx context.Context, opts *Options, c *model.Corpus) error {
	client, err := mongodb.New(opts.MongoDB)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer func() { _ = client.Close() }()

	st := store.New(client)
	if err := st.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := st.Save(ctx, c); err != nil {
		return err
	}
	logger.Infow("Corpus saved to MongoDB", "database", opts.MongoDB.Database, "documents", c.NumDocuments())
	return nil
}

// logStats summarizes the built corpus through its query surface.
func logStats(c *model.Corpus) {
	labelDist := map[string]int{}
	for label, n := range c.LabelDistribution() {
		labelDist[string(label)] = n
	}

	top := c.MostCommon(15)
	topWords := make([]string, 0, len(top))
	for _, wc := range top {
		topWords = append(topWords, fmt.Sprintf("%s:%d", wc.Word, wc.Count))
	}

	logger.Infow("Corpus statistics",
		"documents", c.NumDocuments(),
		"rated", c.NumRated(),
		"commented", c.NumCommented(),
		"rated_and_commented", c.NumRatedAndCommented(),
		"unique_users", len(c.UniqueUsers()),
		"repeated_users", len(c.RepeatedUsers()),
		"label_distribution", labelDist,
		"lexical_diversity", c.LexicalDiversity(),
		"hapaxes", len(c.Hapaxes()),
		"top_words", topWords,
	)
}

func printBanner() {
	fmt.Printf("Starting %s %s...\n", appName, app.GetVersion())
}
