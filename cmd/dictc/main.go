// Command dictc compiles a tab-separated word list into the binary
// dictionaries of one dialect:
//
//	go run ./cmd/dictc -input serbian-ekavian.txt -root resources -dialect ekavian
//
// Input lines are form<TAB>lemma<TAB>tag[<TAB>frequency]. Empty override
// files are created when missing so the result loads as is.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"srmorph/internal/language"
	"srmorph/internal/lexicon"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "dictc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("dictc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "word list to compile")
	root := fs.String("root", "resources", "resource directory to write into")
	dialect := fs.String("dialect", "ekavian", "ekavian or jekavian")
	cyrillic := fs.Bool("cyrillic", false, "transliterate Latin forms and lemmas to Cyrillic")
	minFreq := fs.Int("min-freq", 0, "drop forms rarer than this from the speller dictionary")
	maxLines := fs.Int("n", 0, "stop after n input lines (0 reads everything)")
	verbose := fs.Bool("v", false, "log lines that do not parse")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("usage: dictc -input <file> [-root dir] [-dialect name]")
	}
	d, err := language.DialectByName(*dialect)
	if err != nil {
		return err
	}

	f, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	lines, stats, err := lexicon.Parse(f, lexicon.ParseOptions{ToCyrillic: *cyrillic, MaxLines: *maxLines})
	if err != nil {
		return err
	}
	if *verbose {
		for _, u := range stats.Unmatched {
			log.Printf("unmatched: %q", u)
		}
	}

	res := func(name string) string { return language.Resolve(*root, name) }
	layout := lexicon.Layout{
		Tagger:         res(d.Dictionary),
		Synth:          res(d.Synthesis),
		Tags:           res(language.TagsResource),
		Speller:        res(d.Speller),
		MinSpellerFreq: *minFreq,
	}
	if err := lexicon.Compile(layout, lines); err != nil {
		return err
	}
	for _, p := range []string{res(d.Additions), res(d.Removals)} {
		if err := touch(p); err != nil {
			return err
		}
	}
	log.Printf("Finished processing %s, total %d lines, %d matching lines", *input, stats.Total, stats.Matched)
	return nil
}

func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
