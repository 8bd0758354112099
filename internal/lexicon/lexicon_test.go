package lexicon

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"srmorph/internal/fsa"
	"srmorph/internal/synth"
)

const sample = "# form\tlemma\ttag\tfreq\n" +
	"bitke\tbitka\tNoun:f:sg:gen\t120\n" +
	"bitke\tbitka\tNoun:f:pl:nom\t120\n" +
	"Beograd\tBeograd\tNoun:m:sg:nom:prop\t900\n" +
	"njegov\tnjegov\tPron:poss\t3\n" +
	"broken line\n" +
	"рат\tрат\tNoun:m:sg:nom\n" +
	"рата\tрат\tNoun:m:sg:gen\tmany\n"

func TestParse(t *testing.T) {
	t.Parallel()

	lines, stats, err := Parse(strings.NewReader(sample), ParseOptions{ToCyrillic: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Line{
		{Form: "битке", Lemma: "битка", Tag: "Noun:f:sg:gen", Freq: 120},
		{Form: "битке", Lemma: "битка", Tag: "Noun:f:pl:nom", Freq: 120},
		{Form: "Београд", Lemma: "Београд", Tag: "Noun:m:sg:nom:prop", Freq: 900},
		{Form: "његов", Lemma: "његов", Tag: "Pron:poss", Freq: 3},
		{Form: "рат", Lemma: "рат", Tag: "Noun:m:sg:nom"},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Parse = %+v, want %+v", lines, want)
	}
	if stats.Total != 7 || stats.Matched != 5 || len(stats.Unmatched) != 2 {
		t.Errorf("stats = %+v", stats)
	}

	lines, _, err = Parse(strings.NewReader(sample), ParseOptions{MaxLines: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Form != "bitke" {
		t.Errorf("Parse(MaxLines 2) = %+v", lines)
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	lines, _, err := Parse(strings.NewReader(sample), ParseOptions{ToCyrillic: true})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	layout := Layout{
		Tagger:         filepath.Join(dir, "sr", "dictionary", "ekavian", "serbian.dict"),
		Synth:          filepath.Join(dir, "sr", "dictionary", "ekavian", "serbian_synth.dict"),
		Tags:           filepath.Join(dir, "sr", "dictionary", "serbian_synth_tags.txt"),
		Speller:        filepath.Join(dir, "sr", "hunspell", "sr_RS.dict"),
		MinSpellerFreq: 10,
	}
	if err := Compile(layout, lines); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tagDict, err := fsa.Open(layout.Tagger)
	if err != nil {
		t.Fatal(err)
	}
	defer tagDict.Close()
	if got := tagDict.Lookup("битке"); len(got) != 2 {
		t.Errorf("tagger Lookup(битке) = %+v", got)
	}

	spell, err := fsa.Open(layout.Speller)
	if err != nil {
		t.Fatal(err)
	}
	defer spell.Close()
	if !spell.Contains("битке") || !spell.Contains("Београд") || spell.Contains("његов") || spell.Contains("рат") {
		t.Error("speller dictionary does not honour the frequency threshold")
	}

	s, err := synth.New(synth.Config{Dialect: "ekavian", DictionaryPath: layout.Synth, TagsPath: layout.Tags, Cache: fsa.NewCache()})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Synthesize("рат", "Noun:m:*"); !reflect.DeepEqual(got, []string{"рат"}) {
		t.Errorf("Synthesize(рат) = %v", got)
	}
	if got := s.Tags(); !reflect.DeepEqual(got, Tags(lines)) {
		t.Errorf("Tags = %v", got)
	}
}
