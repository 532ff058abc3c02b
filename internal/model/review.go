// Package model defines the corpus data hierarchy: Review, Document,
// GameCorpus and Corpus, plus the balancing statistics report.
package model

import "strings"

// Review is one canonical user review for a game. Records produced by the
// augmenter carry IsAugmented and a back-reference to the review whose text
// they were derived from.
type Review struct {
	ID            string  `json:"id,omitempty" bson:"id,omitempty"`
	Username      string  `json:"username" bson:"username"`
	Rating        float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment       string  `json:"comment,omitempty" bson:"comment,omitempty"`
	Timestamp     string  `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	GameID        int64   `json:"game_id" bson:"game_id"`
	IsAugmented   bool    `json:"is_augmented,omitempty" bson:"is_augmented,omitempty"`
	AugmentedFrom string  `json:"augmented_from,omitempty" bson:"augmented_from,omitempty"`
}

// Rated reports whether the review carries a usable rating.
// Ratings live in [1,10]; zero means the source had none.
func (r Review) Rated() bool {
	return r.Rating > 0
}

// Commented reports whether the review carries non-blank text.
func (r Review) Commented() bool {
	return strings.TrimSpace(r.Comment) != ""
}

// Label derives the sentiment class from the rating. Unrated reviews have
// no class and return the zero Label.
func (r Review) Label() Label {
	if !r.Rated() {
		return ""
	}
	return LabelForRating(r.Rating)
}
