// Command srmorph runs the Serbian morphology pipeline from the command line.
//
// Usage:
//
//	srmorph [flags] analyze <word>...
//	srmorph [flags] synthesize [-regexp] <lemma> <tag>
//	srmorph [flags] check [text]      (reads stdin without text)
//	srmorph [flags] tags
//	srmorph [flags] selftest
//
// Results are printed as JSON, one document per line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"srmorph/internal/config"
	"srmorph/internal/language"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("srmorph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", os.Getenv("SRMORPH_CONFIG"), "path to YAML config file")
	root := fs.String("resources", "", "resource directory (overrides config)")
	dialect := fs.String("dialect", "", "ekavian or jekavian (overrides config)")
	translit := fs.Bool("latin", false, "accept Serbian Latin input")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: srmorph [flags] analyze|synthesize|check|tags|selftest ...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "srmorph: %v\n", err)
		return 1
	}
	if *root != "" {
		cfg.Resources = *root
	}
	if *dialect != "" {
		cfg.Dialect = *dialect
	}
	if *translit {
		cfg.Transliterate = true
	}
	opts, err := cfg.LanguageOptions()
	if err != nil {
		fmt.Fprintf(stderr, "srmorph: %v\n", err)
		return 1
	}
	lang, err := language.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "srmorph: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "analyze":
		if len(rest) == 0 {
			fmt.Fprintf(stderr, "Usage: srmorph analyze <word>...\n")
			return 2
		}
		for _, w := range rest {
			if err := enc.Encode(map[string]any{"word": w, "analyses": lang.Tagger().Analyze(w)}); err != nil {
				fmt.Fprintf(stderr, "srmorph: %v\n", err)
				return 1
			}
		}
	case "synthesize":
		sf := flag.NewFlagSet("synthesize", flag.ContinueOnError)
		sf.SetOutput(stderr)
		useRegexp := sf.Bool("regexp", false, "treat the tag as a regular expression")
		if err := sf.Parse(rest); err != nil {
			return 2
		}
		if sf.NArg() != 2 {
			fmt.Fprintf(stderr, "Usage: srmorph synthesize [-regexp] <lemma> <tag>\n")
			return 2
		}
		lemma, tag := sf.Arg(0), sf.Arg(1)
		var forms []string
		if *useRegexp {
			forms = lang.Synthesizer().SynthesizeRegexp(lemma, tag)
		} else {
			forms = lang.Synthesizer().Synthesize(lemma, tag)
		}
		if forms == nil {
			forms = []string{}
		}
		if err := enc.Encode(map[string]any{"lemma": lemma, "tag": tag, "forms": forms}); err != nil {
			fmt.Fprintf(stderr, "srmorph: %v\n", err)
			return 1
		}
	case "check":
		text := strings.Join(rest, " ")
		if text == "" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				fmt.Fprintf(stderr, "srmorph: read stdin: %v\n", err)
				return 1
			}
			text = string(b)
		}
		if err := enc.Encode(lang.Check(text)); err != nil {
			fmt.Fprintf(stderr, "srmorph: %v\n", err)
			return 1
		}
	case "tags":
		for _, t := range lang.Synthesizer().Tags() {
			fmt.Fprintln(stdout, t)
		}
	case "selftest":
		if err := lang.SelfTest(); err != nil {
			fmt.Fprintf(stderr, "srmorph: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "ok: %s\n", lang.Dialect().Name)
	default:
		fmt.Fprintf(stderr, "srmorph: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	return 0
}
