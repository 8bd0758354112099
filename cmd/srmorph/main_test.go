package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"srmorph/internal/language"
	"srmorph/internal/lexicon"
)

// wordList covers the rule's example sentence so selftest passes.
const wordList = "" +
	"изгубила\tизгубити\tVerb:past:f:sg\t50\n" +
	"све\tсав\tPron:n:pl:acc\t500\n" +
	"сам\tбити\tVerb:aux:1:sg\t900\n" +
	"ал\tали\tConj\t40\n" +
	"још\tјош\tAdv\t300\n" +
	"водим\tводити\tVerb:pres:1:sg\t30\n" +
	"битке\tбитка\tNoun:f:sg:gen\t120\n" +
	"битка\tбитка\tNoun:f:sg:nom\t80\n" +
	"рат\tрат\tNoun:m:sg:nom\t200\n" +
	"рата\tрат\tNoun:m:sg:gen\t150\n"

func writeResources(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range language.Dialects() {
		lines, _, err := lexicon.Parse(strings.NewReader(wordList), lexicon.ParseOptions{})
		if err != nil {
			t.Fatal(err)
		}
		err = lexicon.Compile(lexicon.Layout{
			Tagger:  language.Resolve(root, d.Dictionary),
			Synth:   language.Resolve(root, d.Synthesis),
			Tags:    language.Resolve(root, language.TagsResource),
			Speller: language.Resolve(root, d.Speller),
		}, lines)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range []string{d.Additions, d.Removals} {
			if err := os.WriteFile(language.Resolve(root, p), nil, 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root
}

func TestRun(t *testing.T) {
	t.Setenv("SRMORPH_CONFIG", "")
	root := writeResources(t)

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
	}{
		{"analyze", []string{"analyze", "рат"}, "", 0, `"lemma":"рат"`},
		{"analyze latin", []string{"-latin", "analyze", "rat"}, "", 0, `"lemma":"рат"`},
		{"analyze unknown", []string{"analyze", "ђак"}, "", 0, `"analyses":[]`},
		{"synthesize", []string{"synthesize", "битка", "Noun:f:sg:gen"}, "", 0, `"forms":["битке"]`},
		{"synthesize regexp", []string{"synthesize", "-regexp", "рат", "Noun:m:sg:gen"}, "", 0, `"forms":["рата"]`},
		{"check stdin", []string{"check"}, "бткие", 0, `"token":"бткие"`},
		{"tags", []string{"tags"}, "", 0, "Noun:m:sg:nom\n"},
		{"selftest jekavian", []string{"-dialect", "jekavian", "selftest"}, "", 0, "ok: jekavian"},
		{"unknown command", []string{"frobnicate"}, "", 2, ""},
		{"no command", nil, "", 2, ""},
		{"synthesize usage", []string{"synthesize", "битка"}, "", 2, ""},
		{"bad dialect", []string{"-dialect", "ikavian", "tags"}, "", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append([]string{"-resources", root}, tt.args...)
			code := run(args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("exit = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestRunCheckJSON(t *testing.T) {
	t.Setenv("SRMORPH_CONFIG", "")
	root := writeResources(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-resources", root, "check", "рат", "бткие"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d: %s", code, stderr.String())
	}
	var res language.Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Text != "рат бткие" || len(res.Matches) != 1 {
		t.Errorf("result = %+v", res)
	}
}
