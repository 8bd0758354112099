package speller

import "srmorph/internal/fsa"

type Config struct {
	Dialect        string
	DictionaryPath string
	// AcceptWords are never flagged and may be suggested.
	AcceptWords []string
	// Cache defaults to fsa.Shared.
	Cache *fsa.Cache
}

type Suggestion struct {
	Term     string  `json:"term"`
	Distance int     `json:"distance"`
	Cost     float64 `json:"cost"`
}
