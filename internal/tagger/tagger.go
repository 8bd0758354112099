// Package tagger assigns morphological analyses to word tokens from a
// compiled dictionary corrected by the manual override lists.
package tagger

import (
	"fmt"

	"srmorph/internal/fsa"
	"srmorph/internal/normalize"
	"srmorph/internal/override"
)

// Analysis is one reading of a token.
type Analysis struct {
	Surface string `json:"surface"`
	Lemma   string `json:"lemma"`
	Tag     string `json:"tag"`
}

// Config describes one dialect variant of the tagger.
type Config struct {
	Dialect        string
	DictionaryPath string
	// AdditionsPath and RemovalsPath may be empty when a variant has no
	// override list.
	AdditionsPath string
	RemovalsPath  string
	Locale        string
	RemovalMode   override.RemovalMode
	// Transliterate also looks up Serbian Latin tokens in Cyrillic.
	Transliterate bool
	// Extra is merged with the file lists, e.g. entries staged in Redis.
	Extra override.Lists
	// Cache defaults to fsa.Shared.
	Cache *fsa.Cache
}

// Tagger is immutable after New and safe for concurrent use.
type Tagger struct {
	cfg  Config
	dict *fsa.Dictionary
	over *override.Set
}

// New loads the dictionary and the override lists of cfg. Any failure to
// read them is returned; there is no degraded mode.
func New(cfg Config) (*Tagger, error) {
	if cfg.DictionaryPath == "" {
		return nil, fmt.Errorf("tagger %s: no dictionary configured", cfg.Dialect)
	}
	cache := cfg.Cache
	if cache == nil {
		cache = fsa.Shared
	}
	dict, err := cache.Load(fsa.CacheKey{Path: cfg.DictionaryPath, Dialect: cfg.Dialect})
	if err != nil {
		return nil, fmt.Errorf("tagger %s: %w", cfg.Dialect, err)
	}
	lists, err := override.LoadFiles(cfg.AdditionsPath, cfg.RemovalsPath)
	if err != nil {
		return nil, fmt.Errorf("tagger %s: %w", cfg.Dialect, err)
	}
	return &Tagger{
		cfg:  cfg,
		dict: dict,
		over: override.NewSet(lists.Merge(cfg.Extra), cfg.RemovalMode),
	}, nil
}

// Dialect returns the configured dialect name.
func (t *Tagger) Dialect() string { return t.cfg.Dialect }

// Locale returns the configured locale.
func (t *Tagger) Locale() string { return t.cfg.Locale }

// Analyze returns every analysis of token. Unknown tokens yield an empty
// slice.
func (t *Tagger) Analyze(token string) []Analysis {
	out := []Analysis{}
	if token == "" {
		return out
	}
	type reading struct{ lemma, tag string }
	seen := make(map[reading]struct{})
	for _, key := range t.keys(token) {
		for _, e := range t.lookup(key) {
			r := reading{e.Lemma, e.Tag}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, Analysis{Surface: token, Lemma: e.Lemma, Tag: e.Tag})
		}
	}
	return out
}

// AnalyzeTokens analyzes each token in turn.
func (t *Tagger) AnalyzeTokens(tokens []string) [][]Analysis {
	out := make([][]Analysis, len(tokens))
	for i, tok := range tokens {
		out[i] = t.Analyze(tok)
	}
	return out
}

// lookup is the override-corrected dictionary lookup of one key.
func (t *Tagger) lookup(key string) []override.Entry {
	raw := t.dict.Lookup(key)
	entries := make([]override.Entry, len(raw))
	for i, e := range raw {
		entries[i] = override.Entry{Form: key, Lemma: e.Stem, Tag: e.Tag}
	}
	return t.over.Apply(key, entries)
}

// keys lists the lookup keys of token without repetition: as written,
// lower-cased, then the Cyrillic forms of both when transliteration applies.
func (t *Tagger) keys(token string) []string {
	word := normalize.NFC(token)
	keys := []string{word}
	add := func(k string) {
		for _, have := range keys {
			if have == k {
				return
			}
		}
		keys = append(keys, k)
	}
	add(normalize.Lower(word))
	if t.cfg.Transliterate && normalize.IsLatin(word) {
		for _, k := range append([]string(nil), keys...) {
			add(normalize.ToCyrillic(k))
		}
	}
	return keys
}
