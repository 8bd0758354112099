// Package lexicon reads morphological word lists and compiles them into the
// dictionaries used by the tagger, synthesizer and speller.
//
// Input lines are tab separated:
//
//	form<TAB>lemma<TAB>tag[<TAB>frequency]
package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"srmorph/internal/fsa"
	"srmorph/internal/normalize"
)

type Line struct {
	Form  string
	Lemma string
	Tag   string
	Freq  int
}

type ParseOptions struct {
	// ToCyrillic transliterates Serbian Latin forms and lemmas.
	ToCyrillic bool
	// MaxLines stops after that many input lines when positive.
	MaxLines int
}

// Stats counts the lines read by Parse.
type Stats struct {
	Total     int
	Matched   int
	Unmatched []string
}

// Parse reads a word list. Lines that do not have three or four fields are
// collected in Stats.Unmatched rather than failing the whole list.
func Parse(r io.Reader, opts ParseOptions) ([]Line, Stats, error) {
	var (
		out   []Line
		stats Stats
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if opts.MaxLines > 0 && stats.Total >= opts.MaxLines {
			break
		}
		stats.Total++
		raw := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		l, ok := parseLine(raw)
		if !ok {
			stats.Unmatched = append(stats.Unmatched, raw)
			continue
		}
		if opts.ToCyrillic {
			l.Form = normalize.ToCyrillic(l.Form)
			l.Lemma = normalize.ToCyrillic(l.Lemma)
		} else {
			l.Form = normalize.NFC(l.Form)
			l.Lemma = normalize.NFC(l.Lemma)
		}
		stats.Matched++
		out = append(out, l)
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read word list: %w", err)
	}
	return out, stats, nil
}

func parseLine(raw string) (Line, bool) {
	fields := strings.Split(raw, "\t")
	if len(fields) < 3 || len(fields) > 4 {
		return Line{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	l := Line{Form: fields[0], Lemma: fields[1], Tag: fields[2]}
	if l.Form == "" || l.Lemma == "" || l.Tag == "" {
		return Line{}, false
	}
	if len(fields) == 4 && fields[3] != "" {
		f, err := strconv.Atoi(fields[3])
		if err != nil || f < 0 {
			return Line{}, false
		}
		l.Freq = f
	}
	return l, true
}

// TaggingRecords maps each form to its (lemma, tag) readings.
func TaggingRecords(lines []Line) []fsa.Record {
	out := make([]fsa.Record, len(lines))
	for i, l := range lines {
		out[i] = fsa.Record{Key: l.Form, Stem: l.Lemma, Tag: l.Tag}
	}
	return out
}

// SpellingRecords lists the distinct forms with a frequency of at least
// minFreq.
func SpellingRecords(lines []Line, minFreq int) []fsa.Record {
	seen := make(map[string]struct{})
	var out []fsa.Record
	for _, l := range lines {
		if l.Freq < minFreq {
			continue
		}
		if _, dup := seen[l.Form]; dup {
			continue
		}
		seen[l.Form] = struct{}{}
		out = append(out, fsa.Record{Key: l.Form})
	}
	return out
}

// Tags returns the distinct tags, sorted.
func Tags(lines []Line) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lines {
		if _, dup := seen[l.Tag]; dup {
			continue
		}
		seen[l.Tag] = struct{}{}
		out = append(out, l.Tag)
	}
	sort.Strings(out)
	return out
}

// Layout names the files Compile writes. Empty paths are skipped.
type Layout struct {
	Tagger  string
	Synth   string
	Tags    string
	Speller string
	// MinSpellerFreq filters rare forms out of the speller dictionary.
	MinSpellerFreq int
}

// Compile writes every dictionary named by layout, creating directories as
// needed.
func Compile(layout Layout, lines []Line) error {
	records := TaggingRecords(lines)
	outputs := []struct {
		path  string
		write func(string) error
	}{
		{layout.Tagger, func(p string) error { return fsa.BuildFile(p, records) }},
		{layout.Synth, func(p string) error { return fsa.BuildFile(p, fsa.SynthesisRecords(records)) }},
		{layout.Tags, func(p string) error { return WriteTags(p, Tags(lines)) }},
		{layout.Speller, func(p string) error { return fsa.BuildFile(p, SpellingRecords(lines, layout.MinSpellerFreq)) }},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
			return fmt.Errorf("compile %s: %w", o.path, err)
		}
		if err := o.write(o.path); err != nil {
			return fmt.Errorf("compile %s: %w", o.path, err)
		}
	}
	return nil
}

// WriteTags writes one tag per line.
func WriteTags(path string, tags []string) error {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
