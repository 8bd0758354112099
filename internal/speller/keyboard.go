package speller

import (
	"math"
	"unicode"
)

// Serbian Cyrillic and Serbian Latin (QWERTZ) layouts share one grid.
var keyboardRows = [][]string{
	{"љњертзуиопшђ", "асдфгхјклчћж", "ѕџцвбнм"},
	{"qwertzuiopšđ", "asdfghjklčćž", "yxcvbnm"},
}

var keyPos = func() map[rune][2]int {
	m := make(map[rune][2]int)
	for _, layout := range keyboardRows {
		for r, row := range layout {
			c := 0
			for _, ch := range row {
				m[ch] = [2]int{r, c}
				c++
			}
		}
	}
	return m
}()

// Phonetically close letters commonly confused in writing.
var confusable = map[[2]rune]float64{
	{'ч', 'ћ'}: 0.3, {'ћ', 'ч'}: 0.3,
	{'џ', 'ђ'}: 0.3, {'ђ', 'џ'}: 0.3,
	{'č', 'ć'}: 0.3, {'ć', 'č'}: 0.3,
	{'ј', 'и'}: 0.4, {'и', 'ј'}: 0.4,
	{'j', 'i'}: 0.4, {'i', 'j'}: 0.4,
}

func keyDistance(a, b rune) float64 {
	pa, oka := keyPos[unicode.ToLower(a)]
	pb, okb := keyPos[unicode.ToLower(b)]
	if !oka || !okb {
		return 2.5
	}
	dr := float64(pa[0] - pb[0])
	dc := float64(pa[1] - pb[1])
	return math.Sqrt(dr*dr + dc*dc)
}

func (s *Speller) substitutionCost(a, b rune) float64 {
	a, b = unicode.ToLower(a), unicode.ToLower(b)
	if a == b {
		return 0
	}
	if v, ok := confusable[[2]rune{a, b}]; ok {
		return v
	}
	d := keyDistance(a, b)
	switch {
	case d <= 1.0:
		return s.opts.KeyboardNearSub
	case d <= 1.5:
		return 0.8
	case d <= 2.2:
		return 1.2
	}
	return 1.8
}
