// Package language assembles the Serbian pipeline for one dialect:
// tokenizer, tagger, synthesizer and the spelling rule.
package language

import (
	"context"
	"fmt"

	"srmorph/internal/fsa"
	"srmorph/internal/override"
	"srmorph/internal/rules"
	"srmorph/internal/speller"
	"srmorph/internal/synth"
	"srmorph/internal/tagger"
	"srmorph/internal/tokenize"
	"srmorph/pkg/options"
)

type Options struct {
	// Root is the resource directory that resource names resolve against.
	Root        string
	Dialect     Dialect
	RemovalMode override.RemovalMode
	// Transliterate lets Serbian Latin input match Cyrillic dictionaries.
	Transliterate bool
	// Overrides are merged with the dialect's override files.
	Overrides   override.Lists
	AcceptWords []string
	Speller     []options.Options
	// Cache defaults to fsa.Shared.
	Cache *fsa.Cache
}

// Language is immutable after New and safe for concurrent use.
type Language struct {
	dialect Dialect
	tagger  *tagger.Tagger
	synth   *synth.Synthesizer
	speller *speller.Speller
	rules   []rules.Rule
}

// New loads every resource of opts.Dialect below opts.Root.
func New(opts Options) (*Language, error) {
	d := opts.Dialect
	if d.Name == "" {
		d = Ekavian
	}
	res := func(name string) string { return Resolve(opts.Root, name) }

	tg, err := tagger.New(tagger.Config{
		Dialect:        d.Name,
		DictionaryPath: res(d.Dictionary),
		AdditionsPath:  res(d.Additions),
		RemovalsPath:   res(d.Removals),
		Locale:         d.Locale,
		RemovalMode:    opts.RemovalMode,
		Transliterate:  opts.Transliterate,
		Extra:          opts.Overrides,
		Cache:          opts.Cache,
	})
	if err != nil {
		return nil, err
	}
	sy, err := synth.New(synth.Config{
		Dialect:        d.Name,
		DictionaryPath: res(d.Synthesis),
		TagsPath:       res(TagsResource),
		AdditionsPath:  res(d.Additions),
		RemovalsPath:   res(d.Removals),
		RemovalMode:    opts.RemovalMode,
		Extra:          opts.Overrides,
		Cache:          opts.Cache,
	})
	if err != nil {
		return nil, err
	}
	spOpts := append([]options.Options(nil), opts.Speller...)
	if opts.Transliterate {
		spOpts = append(spOpts, options.WithTransliteration())
	}
	sp, err := speller.New(speller.Config{
		Dialect:        d.Name,
		DictionaryPath: res(d.Speller),
		AcceptWords:    opts.AcceptWords,
		Cache:          opts.Cache,
	}, spOpts...)
	if err != nil {
		return nil, err
	}
	return &Language{
		dialect: d,
		tagger:  tg,
		synth:   sy,
		speller: sp,
		rules:   []rules.Rule{rules.NewSpellerRule(sp)},
	}, nil
}

func (l *Language) Dialect() Dialect                { return l.dialect }
func (l *Language) Tagger() *tagger.Tagger          { return l.tagger }
func (l *Language) Synthesizer() *synth.Synthesizer { return l.synth }
func (l *Language) Speller() *speller.Speller       { return l.speller }
func (l *Language) Rules() []rules.Rule             { return l.rules }

// Token is a token with its analyses; only words carry analyses.
type Token struct {
	tokenize.Token
	Analyses []tagger.Analysis `json:"analyses,omitempty"`
}

type Result struct {
	Text    string            `json:"text"`
	Tokens  []Token           `json:"tokens"`
	Matches []rules.RuleMatch `json:"matches"`
}

// Check tokenizes and tags text and runs every rule over it.
func (l *Language) Check(text string) Result {
	toks := tokenize.Tokenize(text)
	res := Result{Text: text, Tokens: make([]Token, len(toks)), Matches: []rules.RuleMatch{}}
	for i, t := range toks {
		res.Tokens[i].Token = t
		if t.Kind == tokenize.Word {
			res.Tokens[i].Analyses = l.tagger.Analyze(t.Text)
		}
	}
	for _, r := range l.rules {
		res.Matches = append(res.Matches, r.Match(toks)...)
	}
	return res
}

// CheckBatch checks texts on a pool of workers and returns the results in
// input order.
func (l *Language) CheckBatch(ctx context.Context, texts []string, workers int) ([]Result, error) {
	out := make([]Result, len(texts))
	if len(texts) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := newWorkerPool(workers, 0)
	pool.start(ctx)
	for i, text := range texts {
		i, text := i, text
		if err := pool.submit(ctx, func(context.Context) { out[i] = l.Check(text) }); err != nil {
			pool.close()
			return nil, fmt.Errorf("check batch: %w", err)
		}
	}
	pool.close()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check batch: %w", err)
	}
	return out, nil
}

// SelfTest runs the examples of every rule.
func (l *Language) SelfTest() error {
	for _, r := range l.rules {
		if err := rules.SelfTest(r); err != nil {
			return err
		}
	}
	return nil
}
