// Package synth generates surface forms from a lemma and a target tag.
//
// Tags are looked up in a synthesis dictionary whose keys are lemma|tag and
// whose entries carry the surface form as stem. Wildcard patterns are
// expanded against the tag enumeration file first.
package synth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"srmorph/internal/fsa"
	"srmorph/internal/normalize"
	"srmorph/internal/override"
)

// ErrNoTags is returned when the tag enumeration file lists no tags.
var ErrNoTags = errors.New("synth: tag list is empty")

// Config describes one dialect variant of the synthesizer.
type Config struct {
	Dialect        string
	DictionaryPath string
	TagsPath       string
	AdditionsPath  string
	RemovalsPath   string
	RemovalMode    override.RemovalMode
	Extra          override.Lists
	// Cache defaults to fsa.Shared.
	Cache *fsa.Cache
}

// Synthesizer is immutable after New and safe for concurrent use.
type Synthesizer struct {
	dialect string
	dict    *fsa.Dictionary
	tags    []string
	tagSet  map[string]struct{}
	over    *override.Set
}

// New loads the synthesis dictionary, the tag list and the override files.
func New(cfg Config) (*Synthesizer, error) {
	if cfg.DictionaryPath == "" || cfg.TagsPath == "" {
		return nil, fmt.Errorf("synthesizer %s: dictionary and tag list are required", cfg.Dialect)
	}
	cache := cfg.Cache
	if cache == nil {
		cache = fsa.Shared
	}
	dict, err := cache.Load(fsa.CacheKey{Path: cfg.DictionaryPath, Dialect: cfg.Dialect})
	if err != nil {
		return nil, fmt.Errorf("synthesizer %s: %w", cfg.Dialect, err)
	}
	tags, err := LoadTags(cfg.TagsPath)
	if err != nil {
		return nil, fmt.Errorf("synthesizer %s: %w", cfg.Dialect, err)
	}
	lists, err := override.LoadFiles(cfg.AdditionsPath, cfg.RemovalsPath)
	if err != nil {
		return nil, fmt.Errorf("synthesizer %s: %w", cfg.Dialect, err)
	}
	s := &Synthesizer{
		dialect: cfg.Dialect,
		dict:    dict,
		tags:    tags,
		tagSet:  make(map[string]struct{}, len(tags)),
		over:    override.NewSet(lists.Merge(cfg.Extra), cfg.RemovalMode),
	}
	for _, t := range tags {
		s.tagSet[t] = struct{}{}
	}
	return s, nil
}

// LoadTags reads a tag enumeration file: one tag per line, blank lines
// ignored, duplicates collapsed, file order kept.
func LoadTags(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tag list: %w", err)
	}
	defer f.Close()

	var tags []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		tag := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tag list %s: %w", path, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTags)
	}
	return tags, nil
}

// Dialect returns the configured dialect name.
func (s *Synthesizer) Dialect() string { return s.dialect }

// Tags returns the enumerated tags in file order.
func (s *Synthesizer) Tags() []string {
	return append([]string(nil), s.tags...)
}

// Synthesize returns the forms of lemma carrying a tag matched by pattern.
// A pattern is an exact tag or contains the wildcards '*' (any run of
// characters) and '?' (one character). No match yields an empty slice.
func (s *Synthesizer) Synthesize(lemma, pattern string) []string {
	if lemma == "" || pattern == "" {
		return []string{}
	}
	if !strings.ContainsAny(pattern, "*?") {
		return s.forms(lemma, []string{pattern})
	}
	re, err := wildcard(pattern)
	if err != nil {
		return []string{}
	}
	return s.forms(lemma, s.matching(re))
}

// SynthesizeRegexp is Synthesize with tags selected by an anchored regular
// expression. An invalid expression yields an empty slice.
func (s *Synthesizer) SynthesizeRegexp(lemma, expr string) []string {
	if lemma == "" || expr == "" {
		return []string{}
	}
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return []string{}
	}
	return s.forms(lemma, s.matching(re))
}

func (s *Synthesizer) matching(re *regexp.Regexp) []string {
	var out []string
	for _, t := range s.tags {
		if re.MatchString(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Synthesizer) forms(lemma string, tags []string) []string {
	lemma = normalize.NFC(lemma)
	out := []string{}
	seen := make(map[string]struct{})
	add := func(form string) {
		if _, dup := seen[form]; dup {
			return
		}
		seen[form] = struct{}{}
		out = append(out, form)
	}
	for _, tag := range tags {
		for _, e := range s.dict.Lookup(fsa.SynthesisKey(lemma, tag)) {
			if s.over.Removed(override.Entry{Form: e.Stem, Lemma: lemma, Tag: tag}) {
				continue
			}
			add(e.Stem)
		}
		for _, form := range s.over.FormsFor(lemma, tag) {
			add(form)
		}
	}
	return out
}

func wildcard(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Known reports whether tag is listed in the tag enumeration file.
func (s *Synthesizer) Known(tag string) bool {
	_, ok := s.tagSet[tag]
	return ok
}
