// Package tokenize splits text into word, number, space and punctuation
// tokens, keeping byte offsets into the input.
package tokenize

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	Word Kind = iota
	Number
	Space
	Punct
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Number:
		return "number"
	case Space:
		return "space"
	default:
		return "punct"
	}
}

type Token struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"` // byte offset in the input
	Kind   Kind   `json:"kind"`
}

var tokenRe = regexp.MustCompile(`[\p{L}\p{M}]+|\p{Nd}+|\s+|[^\s\p{L}\p{M}\p{Nd}]`)

// Tokenize returns the tokens of text. Concatenating their Text yields text.
func Tokenize(text string) []Token {
	locs := tokenRe.FindAllStringIndex(text, -1)
	out := make([]Token, 0, len(locs))
	for _, loc := range locs {
		tok := text[loc[0]:loc[1]]
		out = append(out, Token{Text: tok, Offset: loc[0], Kind: kindOf(tok)})
	}
	return out
}

// Words returns the text of the word tokens.
func Words(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		if t.Kind == Word {
			out = append(out, t.Text)
		}
	}
	return out
}

func kindOf(tok string) Kind {
	r, _ := utf8.DecodeRuneInString(tok)
	switch {
	case unicode.IsSpace(r):
		return Space
	case unicode.IsDigit(r):
		return Number
	case unicode.IsLetter(r) || unicode.IsMark(r):
		return Word
	}
	return Punct
}
