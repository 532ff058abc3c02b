package corpusd

import (
	"fmt"

	"github.com/tablewise/boardcorpus/internal/corpus"
	"github.com/tablewise/boardcorpus/internal/model"
	"github.com/tablewise/boardcorpus/pkg/options"
	logoptions "github.com/tablewise/boardcorpus/pkg/options/logger"
	mongodboptions "github.com/tablewise/boardcorpus/pkg/options/mongodb"
)

// Options aggregates every flag group of the boardcorpus binary.
type Options struct {
	// Corpus selection
	Games      []int64 `mapstructure:"games"`
	Source     string  `mapstructure:"source"`
	Parallel   bool    `mapstructure:"parallel"`
	MaxWorkers int     `mapstructure:"max-workers"`
	Strict     bool    `mapstructure:"strict"`

	// Balancing
	BalanceStrategy string  `mapstructure:"balance-strategy"`
	MinSamples      int     `mapstructure:"min-samples"`
	TargetRatio     float64 `mapstructure:"target-ratio"`
	Seed            int64   `mapstructure:"seed"`

	// Augmentation
	AugmentEnable       bool `mapstructure:"augment-enable"`
	AugmentMaxPerReview int  `mapstructure:"augment-max-per-review"`

	// Data inputs
	APIDir     string `mapstructure:"api-dir"`
	CrawlerDir string `mapstructure:"crawler-dir"`
	RanksCSV   string `mapstructure:"ranks-csv"`
	StatsCSV   string `mapstructure:"stats-csv"`

	// Output
	OutputDir  string `mapstructure:"output-dir"`
	OutputName string `mapstructure:"output-name"`
	SaveJSON   bool   `mapstructure:"save-json"`
	SaveMongo  bool   `mapstructure:"save-mongo"`
	SaveReport bool   `mapstructure:"save-report"`
	ShowStats  bool   `mapstructure:"stats"`

	Log     *logoptions.Options     `mapstructure:"log"`
	MongoDB *mongodboptions.Options `mapstructure:"mongodb"`
}

var _ options.CliOptions = (*Options)(nil)

// NewOptions returns the defaults.
func NewOptions() *Options {
	return &Options{
		Source:              string(corpus.SourceCombined),
		Parallel:            true,
		MaxWorkers:          4,
		BalanceStrategy:     string(model.StrategyUndersample),
		MinSamples:          30,
		AugmentMaxPerReview: 2,
		APIDir:              "data/api",
		CrawlerDir:          "data/crawler",
		OutputDir:           "corpora",
		OutputName:          "bgg_corpus.json",
		Log:                 logoptions.NewOptions(),
		MongoDB:             mongodboptions.NewOptions(),
	}
}

// Flags returns the grouped flag sets.
func (o *Options) Flags() options.NamedFlagSets {
	var fss options.NamedFlagSets

	fs := fss.FlagSet("corpus")
	fs.Int64SliceVar(&o.Games, "games", o.Games, "Game ids to process (e.g. --games 2,224517).")
	fs.StringVar(&o.Source, "source", o.Source, "Source of reviews (crawler|api|combined).")
	fs.BoolVar(&o.Parallel, "parallel", o.Parallel, "Process reviews across a worker pool.")
	fs.IntVar(&o.MaxWorkers, "max-workers", o.MaxWorkers, "Maximum workers for parallel processing.")
	fs.BoolVar(&o.Strict, "strict", o.Strict, "Abort on the first per-review or per-game error.")

	fs = fss.FlagSet("balance")
	fs.StringVar(&o.BalanceStrategy, "balance-strategy", o.BalanceStrategy, "Balance strategy (oversample|undersample|hybrid).")
	fs.IntVar(&o.MinSamples, "min-samples", o.MinSamples, "Floor under which buckets are never undersampled.")
	fs.Float64Var(&o.TargetRatio, "target-ratio", o.TargetRatio, "Target ratio for the hybrid strategy (0 = auto).")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "Seed for reproducible sampling (0 = time-seeded).")

	fs = fss.FlagSet("augment")
	fs.BoolVar(&o.AugmentEnable, "augment-enable", o.AugmentEnable, "Use text augmentation for oversampling.")
	fs.IntVar(&o.AugmentMaxPerReview, "augment-max-per-review", o.AugmentMaxPerReview, "Maximum variants requested per source review.")

	fs = fss.FlagSet("data")
	fs.StringVar(&o.APIDir, "api-dir", o.APIDir, "Directory containing API review and metadata dumps.")
	fs.StringVar(&o.CrawlerDir, "crawler-dir", o.CrawlerDir, "Directory containing crawler review dumps.")
	fs.StringVar(&o.RanksCSV, "ranks-csv", o.RanksCSV, "CSV export of game rankings (optional).")
	fs.StringVar(&o.StatsCSV, "stats-csv", o.StatsCSV, "CSV export of game statistics (optional).")

	fs = fss.FlagSet("output")
	fs.StringVar(&o.OutputDir, "output-dir", o.OutputDir, "Directory for JSON outputs.")
	fs.StringVar(&o.OutputName, "output-name", o.OutputName, "Output corpus filename.")
	fs.BoolVar(&o.SaveJSON, "save-json", o.SaveJSON, "Save the corpus as a JSON file.")
	fs.BoolVar(&o.SaveMongo, "save-mongo", o.SaveMongo, "Save the corpus to MongoDB.")
	fs.BoolVar(&o.SaveReport, "save-report", o.SaveReport, "Save the balance report as JSON.")
	fs.BoolVar(&o.ShowStats, "stats", o.ShowStats, "Log corpus statistics after building.")

	o.MongoDB.AddFlags(fss.FlagSet("mongodb"))
	o.Log.AddFlags(fss.FlagSet("logs"))

	return fss
}

// Complete fills derived and environment-sourced values.
func (o *Options) Complete() error {
	return o.MongoDB.Complete()
}

// Validate checks flag consistency before the run starts.
func (o *Options) Validate() error {
	if len(o.Games) == 0 {
		return fmt.Errorf("at least one game id is required (--games)")
	}
	if _, err := model.ParseStrategy(o.BalanceStrategy); err != nil {
		return err
	}
	if _, err := corpus.ParseSourceMode(o.Source); err != nil {
		return err
	}
	if o.MinSamples < 0 {
		return fmt.Errorf("min-samples must be >= 0")
	}
	if o.TargetRatio < 0 || o.TargetRatio > 1 {
		return fmt.Errorf("target-ratio must be in [0,1]")
	}
	if o.MaxWorkers <= 0 {
		return fmt.Errorf("max-workers must be > 0")
	}
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if o.SaveMongo {
		if errs := o.MongoDB.Validate(); len(errs) > 0 {
			return fmt.Errorf("mongodb options: %v", errs)
		}
	}
	return nil
}
