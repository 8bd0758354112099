// Package speller checks words against a compiled word list and suggests
// corrections within a bounded edit distance.
//
// Candidates come from a symmetric-delete index built once at construction
// plus single adjacent transpositions. They are ranked by edit distance,
// then by a keyboard-weighted distance, then lexically.
package speller

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"srmorph/internal/fsa"
	"srmorph/internal/normalize"
	"srmorph/pkg/options"
)

// Speller is immutable after New and safe for concurrent use.
type Speller struct {
	cfg  Config
	opts options.SpellerOptions
	dict *fsa.Dictionary

	accept map[string]struct{} // lower-cased accepted words
	extra  []string            // accepted words absent from dict

	// deletes maps the hash of a delete variant of a lower-cased word prefix
	// to word ids. Ids below dict.Len() are dictionary keys, the rest index
	// extra.
	deletes    map[uint32][]uint32
	maxWordLen int

	suggestions *lru.Cache[string, []Suggestion]
}

// New loads the speller dictionary and indexes it.
func New(cfg Config, opts ...options.Options) (*Speller, error) {
	if cfg.DictionaryPath == "" {
		return nil, fmt.Errorf("speller %s: no dictionary configured", cfg.Dialect)
	}
	cache := cfg.Cache
	if cache == nil {
		cache = fsa.Shared
	}
	dict, err := cache.Load(fsa.CacheKey{Path: cfg.DictionaryPath, Dialect: cfg.Dialect})
	if err != nil {
		return nil, fmt.Errorf("speller %s: %w", cfg.Dialect, err)
	}

	s := &Speller{
		cfg:     cfg,
		opts:    options.Resolve(opts...),
		dict:    dict,
		accept:  make(map[string]struct{}, len(cfg.AcceptWords)),
		deletes: make(map[uint32][]uint32, dict.Len()*4),
	}
	if s.opts.CacheSize > 0 {
		s.suggestions, err = lru.New[string, []Suggestion](s.opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("speller %s: suggestion cache: %w", cfg.Dialect, err)
		}
	}

	dict.Each(func(i int, key string) bool {
		s.index(uint32(i), key)
		return true
	})
	for _, w := range cfg.AcceptWords {
		w = normalize.NFC(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		lw := normalize.Lower(w)
		if _, dup := s.accept[lw]; dup {
			continue
		}
		s.accept[lw] = struct{}{}
		if dict.Contains(w) || dict.Contains(lw) {
			continue
		}
		s.index(uint32(dict.Len()+len(s.extra)), w)
		s.extra = append(s.extra, w)
	}
	return s, nil
}

func (s *Speller) index(id uint32, word string) {
	lw := normalize.Lower(word)
	if n := utf8.RuneCountInString(lw); n > s.maxWordLen {
		s.maxWordLen = n
	}
	prefix := truncateToRunes(lw, s.opts.PrefixLength)
	for _, del := range append(generateDeletes(prefix, s.opts.MaxEditDistance), prefix) {
		h := fnvHash(del)
		s.deletes[h] = append(s.deletes[h], id)
	}
}

func (s *Speller) word(id uint32) string {
	if n := uint32(s.dict.Len()); id >= n {
		return s.extra[id-n]
	}
	return s.dict.Key(int(id))
}

// Dialect returns the configured dialect name.
func (s *Speller) Dialect() string { return s.cfg.Dialect }

// IsMisspelled reports whether word should be flagged. Empty and short
// words, words with digits and words without letters are never flagged.
func (s *Speller) IsMisspelled(word string) bool {
	w := normalize.NFC(word)
	if w == "" || utf8.RuneCountInString(w) < s.opts.MinWordLength || normalize.HasDigit(w) {
		return false
	}
	if strings.IndexFunc(w, unicode.IsLetter) < 0 {
		return false
	}
	return !s.known(w)
}

func (s *Speller) known(w string) bool {
	lw := normalize.Lower(w)
	if s.dict.Contains(w) || s.dict.Contains(lw) {
		return true
	}
	if _, ok := s.accept[lw]; ok {
		return true
	}
	if s.opts.Transliterate && normalize.IsLatin(w) {
		cw, clw := normalize.ToCyrillic(w), normalize.ToCyrillic(lw)
		if s.dict.Contains(cw) || s.dict.Contains(clw) {
			return true
		}
		if _, ok := s.accept[clw]; ok {
			return true
		}
	}
	return false
}

// Suggest returns ranked corrections for a misspelled word, with the case
// of word carried over. Correct words and words without candidates yield
// nil.
func (s *Speller) Suggest(word string) []Suggestion {
	if !s.IsMisspelled(word) {
		return nil
	}
	w := normalize.NFC(word)
	if s.suggestions != nil {
		if v, ok := s.suggestions.Get(w); ok {
			return append([]Suggestion(nil), v...)
		}
	}
	res := s.suggest(w)
	if s.suggestions != nil {
		s.suggestions.Add(w, res)
	}
	return append([]Suggestion(nil), res...)
}

func (s *Speller) suggest(w string) []Suggestion {
	input := normalize.Lower(w)
	if s.opts.Transliterate && normalize.IsLatin(input) {
		input = normalize.ToCyrillic(input)
	}
	inputLen := utf8.RuneCountInString(input)
	maxDist := s.opts.MaxEditDistance

	var scored []Suggestion
	seen := make(map[string]struct{})
	consider := func(term string) {
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		lt := normalize.Lower(term)
		diff := inputLen - utf8.RuneCountInString(lt)
		if diff < 0 {
			diff = -diff
		}
		if diff > maxDist {
			return
		}
		d := unitDL(input, lt)
		if d == 0 || d > maxDist {
			return
		}
		scored = append(scored, Suggestion{Term: term, Distance: d, Cost: s.weightedDL(input, lt)})
	}

	for _, sw := range adjacentSwaps(input) {
		if s.dict.Contains(sw) {
			consider(sw)
		}
	}
	if inputLen-maxDist <= s.maxWordLen {
		prefix := truncateToRunes(input, s.opts.PrefixLength)
		variants := append(generateDeletes(prefix, maxDist), prefix)
		for _, del := range variants {
			for _, id := range s.deletes[fnvHash(del)] {
				consider(s.word(id))
			}
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.Term < b.Term
	})

	out := make([]Suggestion, 0, s.opts.MaxSuggestions)
	emitted := make(map[string]struct{})
	for _, c := range scored {
		if len(out) >= s.opts.MaxSuggestions {
			break
		}
		c.Term = normalize.ApplyCase(w, c.Term)
		if _, dup := emitted[c.Term]; dup {
			continue
		}
		emitted[c.Term] = struct{}{}
		out = append(out, c)
	}
	return out
}

// truncateToRunes returns s truncated to at most n runes.
func truncateToRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// generateDeletes returns every distinct string obtained by deleting 1 to
// dist runes from s.
func generateDeletes(s string, dist int) []string {
	if dist == 0 || s == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	level := []string{s}
	for depth := 0; depth < dist; depth++ {
		var next []string
		for _, w := range level {
			r := []rune(w)
			for i := range r {
				del := string(r[:i]) + string(r[i+1:])
				if _, ok := seen[del]; ok {
					continue
				}
				seen[del] = struct{}{}
				out = append(out, del)
				next = append(next, del)
			}
		}
		level = next
	}
	return out
}
