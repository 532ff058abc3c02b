package corpusd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewise/boardcorpus/internal/corpus"
	"github.com/tablewise/boardcorpus/internal/model"
)

// Run must reject unparseable options itself, not rely on the bootstrap
// having validated them first.
func TestRunRejectsInvalidStrategy(t *testing.T) {
	opts := NewOptions()
	opts.Games = []int64{13}
	opts.BalanceStrategy = "smote"

	err := Run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smote")
}

func TestRunRejectsInvalidSourceMode(t *testing.T) {
	opts := NewOptions()
	opts.Games = []int64{13}
	opts.Source = "scraper"

	err := Run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper")
}

func TestWriteOutputsThroughPool(t *testing.T) {
	dir := t.TempDir()
	opts := NewOptions()
	opts.OutputDir = dir
	opts.SaveJSON = true
	opts.SaveReport = true

	c := model.NewCorpus()
	g := model.NewGameCorpus(13, nil)
	g.Add(model.Document{Review: model.Review{ID: "r1", Username: "alice", Rating: 8, Comment: "fine"}})
	c.Append(*g)

	result := &corpus.BuildResult{
		Corpus: c,
		Stats:  model.NewBalanceStats(model.StrategyUndersample),
		Report: &corpus.ProcessReport{},
	}

	require.NoError(t, writeOutputs(context.Background(), opts, result))

	_, err := os.Stat(filepath.Join(dir, opts.OutputName))
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var reports int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "balance_report_") {
			reports++
		}
	}
	assert.Equal(t, 1, reports)
}

func TestWriteOutputsNothingEnabled(t *testing.T) {
	opts := NewOptions()
	opts.OutputDir = t.TempDir()

	require.NoError(t, writeOutputs(context.Background(), opts, &corpus.BuildResult{}))

	entries, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{
			name:   "defaults with games",
			mutate: func(o *Options) { o.Games = []int64{13} },
		},
		{
			name:    "no games",
			mutate:  func(o *Options) {},
			wantErr: true,
		},
		{
			name: "unknown strategy",
			mutate: func(o *Options) {
				o.Games = []int64{13}
				o.BalanceStrategy = "smote"
			},
			wantErr: true,
		},
		{
			name: "unknown source",
			mutate: func(o *Options) {
				o.Games = []int64{13}
				o.Source = "scraper"
			},
			wantErr: true,
		},
		{
			name: "negative min samples",
			mutate: func(o *Options) {
				o.Games = []int64{13}
				o.MinSamples = -1
			},
			wantErr: true,
		},
		{
			name: "target ratio out of range",
			mutate: func(o *Options) {
				o.Games = []int64{13}
				o.TargetRatio = 1.5
			},
			wantErr: true,
		},
		{
			name: "zero workers",
			mutate: func(o *Options) {
				o.Games = []int64{13}
				o.MaxWorkers = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.mutate(opts)
			err := opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
