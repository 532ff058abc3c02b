// Package preprocess is the default implementation of the linguistic
// preprocessing port: cleaning, language detection, tokenization, sentence
// splitting, and pattern extraction. The payload it produces is opaque to
// the core pipeline.
package preprocess

import (
	"context"

	"github.com/samber/lo"

	"github.com/tablewise/boardcorpus/internal/model"
)

// Options configures the Processor.
type Options struct {
	Lowercase       bool
	RemoveStopwords bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{Lowercase: true, RemoveStopwords: true}
}

// Processor turns one Review into one Document. Deterministic for identical
// input and safe for concurrent use: it holds no mutable state.
type Processor struct {
	opts Options
}

// New creates a Processor.
func New(opts Options) *Processor {
	return &Processor{opts: opts}
}

// Process implements the preprocessing port. A review without text yields a
// document with an empty analysis; the raw review is still carried so
// rating-only records survive into the corpus.
func (p *Processor) Process(ctx context.Context, review model.Review) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}

	doc := model.Document{Review: review}
	if !review.Commented() {
		doc.Language = "unknown"
		return doc, nil
	}

	patterns := extractPatterns(review.Comment)
	clean := normalizeText(review.Comment, p.opts.Lowercase)
	tokens := tokenize(clean)
	lang := detectLanguage(tokens)

	contentTokens := tokens
	if p.opts.RemoveStopwords {
		contentTokens = removeStopwords(tokens, lang)
	}

	doc.CleanText = clean
	doc.Language = lang
	doc.Processed = map[string]interface{}{
		"sentences":           splitSentences(clean),
		"tokens":              tokens,
		"tokens_no_stopwords": contentTokens,
		"patterns":            patterns,
		"linguistic_features": features(tokens, contentTokens, splitSentences(clean)),
	}

	return doc, nil
}

// features computes the lightweight numeric summary of one document.
func features(tokens, contentTokens, sentences []string) map[string]interface{} {
	totalLen := 0
	for _, t := range tokens {
		totalLen += len([]rune(t))
	}
	avgLen := 0.0
	if len(tokens) > 0 {
		avgLen = float64(totalLen) / float64(len(tokens))
	}
	diversity := 0.0
	if len(tokens) > 0 {
		diversity = float64(len(lo.Uniq(tokens))) / float64(len(tokens))
	}

	return map[string]interface{}{
		"num_tokens":         len(tokens),
		"num_content_tokens": len(contentTokens),
		"num_sentences":      len(sentences),
		"avg_token_length":   avgLen,
		"lexical_diversity":  diversity,
	}
}
