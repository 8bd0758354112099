// Package normalize prepares Serbian word forms for dictionary lookup:
// Unicode NFC composition, lower-casing and Latin-to-Cyrillic
// transliteration of the Serbian (gajica) alphabet.
//
// All functions are safe for concurrent use.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NFC returns s in Unicode normalization form C. Dictionaries are compiled
// from NFC text, so decomposed input (e.g. "ć") must be composed
// before lookup.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Lower returns s lower-cased.
func Lower(s string) string {
	return strings.ToLower(s)
}

// digraphSplits are word parts where d+ž, n+j or l+j straddle a prefix
// boundary and stay two letters in Cyrillic.
var digraphSplits = [][2]string{
	{"nadživ", "наджив"},
	{"nadžnj", "наджњ"},
	{"odžali", "оджали"},
	{"podžanr", "поджанр"},
	{"podžup", "поджуп"},
	{"injek", "инјек"},
	{"injunk", "инјунк"},
	{"konjug", "конјуг"},
	{"konjunk", "конјунк"},
	{"vanjezi", "ванјези"},
}

var latinPairs = []string{
	"DŽ", "Џ", "Dž", "Џ", "dž", "џ",
	"LJ", "Љ", "Lj", "Љ", "lj", "љ",
	"NJ", "Њ", "Nj", "Њ", "nj", "њ",
	"Ǆ", "Џ", "ǅ", "Џ", "ǆ", "џ",
	"Ǉ", "Љ", "ǈ", "Љ", "ǉ", "љ",
	"Ǌ", "Њ", "ǋ", "Њ", "ǌ", "њ",
	"Đ", "Ђ", "Ð", "Ђ", "đ", "ђ",
	"A", "А", "B", "Б", "V", "В", "G", "Г", "D", "Д", "E", "Е",
	"Ž", "Ж", "Z", "З", "I", "И", "J", "Ј", "K", "К", "L", "Л",
	"M", "М", "N", "Н", "O", "О", "P", "П", "R", "Р", "S", "С",
	"T", "Т", "Ć", "Ћ", "U", "У", "F", "Ф", "H", "Х", "C", "Ц",
	"Č", "Ч", "Š", "Ш",
	"a", "а", "b", "б", "v", "в", "g", "г", "d", "д", "e", "е",
	"ž", "ж", "z", "з", "i", "и", "j", "ј", "k", "к", "l", "л",
	"m", "м", "n", "н", "o", "о", "p", "п", "r", "р", "s", "с",
	"t", "т", "ć", "ћ", "u", "у", "f", "ф", "h", "х", "c", "ц",
	"č", "ч", "š", "ш",
	"ﬂ", "фл",
}

// latinReplacer maps Serbian Latin letters to Cyrillic. strings.Replacer
// prefers earlier arguments at the same position, so the split exceptions
// (lower, title and upper case) go first, then digraphs, then single letters.
var latinReplacer = newLatinReplacer()

func newLatinReplacer() *strings.Replacer {
	var pairs []string
	for _, sp := range digraphSplits {
		lat, cyr := sp[0], sp[1]
		pairs = append(pairs,
			strings.ToUpper(lat), strings.ToUpper(cyr),
			title(lat), title(cyr),
			lat, cyr,
		)
	}
	return strings.NewReplacer(append(pairs, latinPairs...)...)
}

func title(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// ToCyrillic transliterates Serbian Latin text to Cyrillic. Runes outside
// the Serbian Latin alphabet are kept as they are.
//
// Digraphs dž, lj and nj always become one letter except in the few prefixed
// stems listed in digraphSplits; other words where the pair crosses a
// morpheme boundary come out with the single letter.
func ToCyrillic(s string) string {
	return latinReplacer.Replace(NFC(s))
}

// IsLatin reports whether s contains at least one Latin letter and no
// Cyrillic letter.
func IsLatin(s string) bool {
	latin := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			return false
		case unicode.Is(unicode.Latin, r):
			latin = true
		}
	}
	return latin
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsTitle reports whether s starts with an upper-case letter followed by at
// least one lower-case letter.
func IsTitle(s string) bool {
	first := true
	upperFirst := false
	for _, r := range s {
		if first {
			upperFirst = unicode.IsUpper(r)
			first = false
			continue
		}
		if upperFirst && unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// IsUpper reports whether every letter of s is upper case and s has at least
// one letter.
func IsUpper(s string) bool {
	letter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			letter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letter
}

// ApplyCase transfers the case pattern of original (all upper, title or
// lower) onto word.
func ApplyCase(original, word string) string {
	if original == "" || word == "" {
		return word
	}
	if IsUpper(original) && len([]rune(original)) > 1 {
		return strings.ToUpper(word)
	}
	r := []rune(original)
	if unicode.IsUpper(r[0]) {
		w := []rune(word)
		w[0] = unicode.ToUpper(w[0])
		return string(w)
	}
	return word
}
