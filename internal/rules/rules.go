// Package rules defines checking rules run over tokenized text and the
// Serbian spelling rule.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"srmorph/internal/speller"
	"srmorph/internal/tokenize"
)

var (
	ErrMarker   = errors.New("rules: example needs exactly one <marker> span")
	ErrSelfTest = errors.New("rules: self-test failed")
)

const (
	markerOpen  = "<marker>"
	markerClose = "</marker>"
)

// Example is a documentation pair. Both texts mark the relevant span with
// <marker>...</marker>.
type Example struct {
	Wrong string `json:"wrong"`
	Fixed string `json:"fixed"`
}

// Unmark strips the marker tags from text and returns the plain text with
// the byte range the marker enclosed.
func Unmark(text string) (plain string, start, end int, err error) {
	start = strings.Index(text, markerOpen)
	if start < 0 || strings.Count(text, markerOpen) != 1 || strings.Count(text, markerClose) != 1 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrMarker, text)
	}
	rest := text[start+len(markerOpen):]
	n := strings.Index(rest, markerClose)
	if n < 0 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrMarker, text)
	}
	plain = text[:start] + rest[:n] + rest[n+len(markerClose):]
	return plain, start, start + n, nil
}

// RuleMatch is one problem found in the text.
type RuleMatch struct {
	RuleID       string   `json:"rule_id"`
	Message      string   `json:"message"`
	Offset       int      `json:"offset"` // byte offset in the checked text
	Length       int      `json:"length"`
	Token        string   `json:"token"`
	Replacements []string `json:"replacements"`
}

type Rule interface {
	ID() string
	Description() string
	Examples() []Example
	Match(tokens []tokenize.Token) []RuleMatch
}

// Speller is the capability the spelling rule needs.
type Speller interface {
	IsMisspelled(word string) bool
	Suggest(word string) []speller.Suggestion
}

// SelfTest runs every example of rule: the marked span of Wrong must be
// reported with the marked text of Fixed among the replacements, and Fixed
// must produce no match.
func SelfTest(rule Rule) error {
	for _, ex := range rule.Examples() {
		wrong, start, end, err := Unmark(ex.Wrong)
		if err != nil {
			return err
		}
		fixed, fs, fe, err := Unmark(ex.Fixed)
		if err != nil {
			return err
		}
		want := fixed[fs:fe]

		found := false
		for _, m := range rule.Match(tokenize.Tokenize(wrong)) {
			if m.Offset != start || m.Offset+m.Length != end {
				continue
			}
			for _, r := range m.Replacements {
				if r == want {
					found = true
				}
			}
			if !found {
				return fmt.Errorf("%w: %s: %q suggested %q, want %q", ErrSelfTest, rule.ID(), m.Token, m.Replacements, want)
			}
		}
		if !found {
			return fmt.Errorf("%w: %s: no match at %d-%d in %q", ErrSelfTest, rule.ID(), start, end, wrong)
		}
		if ms := rule.Match(tokenize.Tokenize(fixed)); len(ms) > 0 {
			return fmt.Errorf("%w: %s: corrected example %q still matches %q", ErrSelfTest, rule.ID(), fixed, ms[0].Token)
		}
	}
	return nil
}
