package options

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Options
		want SpellerOptions
	}{
		{"defaults", nil, DefaultOptions},
		{
			"overrides",
			[]Options{WithMaxEditDistance(1), WithMaxSuggestions(3), WithTransliteration(), WithoutCache()},
			func() SpellerOptions {
				o := DefaultOptions
				o.MaxEditDistance = 1
				o.MaxSuggestions = 3
				o.Transliterate = true
				o.CacheSize = 0
				return o
			}(),
		},
		{
			"clamped",
			[]Options{WithMaxEditDistance(9), WithPrefixLength(1)},
			func() SpellerOptions {
				o := DefaultOptions
				o.MaxEditDistance = 3
				o.PrefixLength = 4
				return o
			}(),
		},
		{
			"costs",
			[]Options{WithEditCosts(0.5, 1, 0.4), WithMinWordLength(3), WithCacheSize(10)},
			func() SpellerOptions {
				o := DefaultOptions
				o.TransposeCost, o.InsDelCost, o.KeyboardNearSub = 0.5, 1, 0.4
				o.MinWordLength = 3
				o.CacheSize = 10
				return o
			}(),
		},
	}
	for _, tt := range tests {
		if got := Resolve(tt.opts...); got != tt.want {
			t.Errorf("%s: Resolve = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
