// Package options configures the speller through functional options.
package options

var DefaultOptions = SpellerOptions{
	MaxEditDistance: 2,
	PrefixLength:    7,
	MaxSuggestions:  5,
	MinWordLength:   2,
	TransposeCost:   0.6,
	InsDelCost:      0.9,
	KeyboardNearSub: 0.6,
	CacheSize:       4096,
	Transliterate:   false,
}

type SpellerOptions struct {
	MaxEditDistance int // upper bound, capped at 3
	PrefixLength    int // runes of each word indexed for delete generation
	MaxSuggestions  int
	MinWordLength   int // shorter words are never flagged
	TransposeCost   float64
	InsDelCost      float64
	KeyboardNearSub float64 // substitution cost between adjacent keys
	CacheSize       int     // suggestion cache entries, 0 disables the cache
	Transliterate   bool    // accept Serbian Latin spellings of Cyrillic words
}

type Options interface {
	Apply(options *SpellerOptions)
}

type FuncConfig struct {
	ops func(options *SpellerOptions)
}

func (w FuncConfig) Apply(conf *SpellerOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *SpellerOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Resolve applies opts on top of DefaultOptions.
func Resolve(opts ...Options) SpellerOptions {
	o := DefaultOptions
	for _, opt := range opts {
		opt.Apply(&o)
	}
	if o.MaxEditDistance < 0 {
		o.MaxEditDistance = 0
	}
	if o.MaxEditDistance > 3 {
		o.MaxEditDistance = 3
	}
	if o.PrefixLength < o.MaxEditDistance+1 {
		o.PrefixLength = o.MaxEditDistance + 1
	}
	return o
}

func WithMaxEditDistance(d int) Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.MaxEditDistance = d
	})
}

func WithPrefixLength(prefixLength int) Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.PrefixLength = prefixLength
	})
}

func WithMaxSuggestions(n int) Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.MaxSuggestions = n
	})
}

func WithMinWordLength(n int) Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.MinWordLength = n
	})
}

// WithEditCosts sets the weights of the keyboard-aware distance used to
// order suggestions of equal edit distance.
func WithEditCosts(transpose, insDel, nearSub float64) Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.TransposeCost = transpose
		options.InsDelCost = insDel
		options.KeyboardNearSub = nearSub
	})
}

func WithCacheSize(n int) Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.CacheSize = n
	})
}

func WithoutCache() Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.CacheSize = 0
	})
}

func WithTransliteration() Options {
	return NewFuncOption(func(options *SpellerOptions) {
		options.Transliterate = true
	})
}
