package model

// Document is the result of running the preprocessing port on one Review.
// It is the sole long-lived holder of its Review. The Processed payload is
// opaque to the core: its structure is fixed by the preprocessing
// implementation, keyed by feature name.
type Document struct {
	Review    Review                 `json:"review" bson:"review"`
	CleanText string                 `json:"clean_text,omitempty" bson:"clean_text,omitempty"`
	Language  string                 `json:"language,omitempty" bson:"language,omitempty"`
	Processed map[string]interface{} `json:"processed,omitempty" bson:"processed,omitempty"`
}

// GameID returns the identifier of the reviewed game.
func (d Document) GameID() int64 {
	return d.Review.GameID
}

// Label returns the sentiment class of the backing review.
func (d Document) Label() Label {
	return d.Review.Label()
}

// Tokens returns the token list from the processed payload, or nil.
func (d Document) Tokens() []string {
	return stringSlice(d.Processed["tokens"])
}

// ContentTokens returns tokens with stopwords removed, or nil.
func (d Document) ContentTokens() []string {
	return stringSlice(d.Processed["tokens_no_stopwords"])
}

// Sentences returns the sentence list from the processed payload, or nil.
func (d Document) Sentences() []string {
	return stringSlice(d.Processed["sentences"])
}

// stringSlice coerces a processed-payload value to []string. After a JSON
// import the payload holds []interface{} instead of []string, so both
// shapes are accepted.
func stringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
