// Package override holds the manually curated corrections applied on top of
// a compiled dictionary: additions (analyses the dictionary lacks) and
// removals (analyses it should not return).
//
// Both lists are plain UTF-8 text, one tab-separated entry per line, read in
// Unicode NFC like the compiled dictionaries:
//
//	form<TAB>lemma<TAB>tag
//
// Additions need all three fields. A removal may name only the form, the
// form and lemma, or the full triple; it removes every dictionary analysis
// it matches. Blank lines and lines starting with '#' are ignored.
//
// The final analyses of a form are
//
//	(dictionary − removals) ∪ additions
//
// evaluated as sets, removal first. Line order has no influence.
package override

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"srmorph/internal/normalize"
)

// ErrSyntax is returned for malformed override lines.
var ErrSyntax = errors.New("override: syntax error")

// Entry is one (form, lemma, tag) triple.
type Entry struct {
	Form  string
	Lemma string
	Tag   string
}

// Removal names dictionary analyses to suppress. Empty Lemma or Tag match
// anything.
type Removal struct {
	Form  string
	Lemma string
	Tag   string
}

// RemovalMode selects how precisely removals match.
type RemovalMode int

const (
	// RemoveQualified removes exactly what a line names: the whole form,
	// form+lemma, or the full triple.
	RemoveQualified RemovalMode = iota
	// RemoveWholeForm treats every removal line as removing all analyses of
	// its form, ignoring lemma and tag.
	RemoveWholeForm
)

// ParseRemovalMode maps a configuration string to a RemovalMode.
func ParseRemovalMode(s string) (RemovalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "qualified", "entry":
		return RemoveQualified, nil
	case "form", "whole-form":
		return RemoveWholeForm, nil
	default:
		return RemoveQualified, fmt.Errorf("unknown removal mode %q", s)
	}
}

// Lists is the raw content of the override files.
type Lists struct {
	Additions []Entry
	Removals  []Removal
}

// Merge returns the concatenation of l and other.
func (l Lists) Merge(other Lists) Lists {
	return Lists{
		Additions: append(append([]Entry(nil), l.Additions...), other.Additions...),
		Removals:  append(append([]Removal(nil), l.Removals...), other.Removals...),
	}
}

// ParseAdditions reads an additions list. name is used in error messages.
func ParseAdditions(r io.Reader, name string) ([]Entry, error) {
	var out []Entry
	err := eachLine(r, name, func(lineNo int, fields []string) error {
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			return fmt.Errorf("%s:%d: %w: addition needs form, lemma and tag", name, lineNo, ErrSyntax)
		}
		out = append(out, Entry{Form: fields[0], Lemma: fields[1], Tag: fields[2]})
		return nil
	})
	return out, err
}

// ParseRemovals reads a removals list. name is used in error messages.
func ParseRemovals(r io.Reader, name string) ([]Removal, error) {
	var out []Removal
	err := eachLine(r, name, func(lineNo int, fields []string) error {
		if len(fields) > 3 || fields[0] == "" {
			return fmt.Errorf("%s:%d: %w: removal needs a form and at most lemma and tag", name, lineNo, ErrSyntax)
		}
		rm := Removal{Form: fields[0]}
		if len(fields) > 1 {
			rm.Lemma = fields[1]
		}
		if len(fields) > 2 {
			rm.Tag = fields[2]
		}
		out = append(out, rm)
		return nil
	})
	return out, err
}

func eachLine(r io.Reader, name string, fn func(lineNo int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = normalize.NFC(strings.TrimSpace(fields[i]))
		}
		if err := fn(lineNo, fields); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// LoadFiles reads the additions and removals files. An empty path means the
// list is not configured; a configured but missing file is an error.
func LoadFiles(additionsPath, removalsPath string) (Lists, error) {
	var l Lists
	if additionsPath != "" {
		f, err := os.Open(additionsPath)
		if err != nil {
			return Lists{}, fmt.Errorf("open additions: %w", err)
		}
		l.Additions, err = ParseAdditions(f, additionsPath)
		f.Close()
		if err != nil {
			return Lists{}, err
		}
	}
	if removalsPath != "" {
		f, err := os.Open(removalsPath)
		if err != nil {
			return Lists{}, fmt.Errorf("open removals: %w", err)
		}
		l.Removals, err = ParseRemovals(f, removalsPath)
		f.Close()
		if err != nil {
			return Lists{}, err
		}
	}
	return l, nil
}
