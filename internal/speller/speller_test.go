package speller

import (
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"srmorph/internal/fsa"
	"srmorph/pkg/options"
)

var sampleWords = []string{
	"изгубила", "све", "сам", "битке", "битка", "битку", "ал", "још", "водим", "рат",
	"рата", "Београд", "материјал", "из", "Википедије", "слободне", "енциклопедије",
}

func writeDict(t *testing.T, words []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sr_RS.dict")
	recs := make([]fsa.Record, len(words))
	for i, w := range words {
		recs[i] = fsa.Record{Key: w}
	}
	if err := fsa.BuildFile(path, recs); err != nil {
		t.Fatal(err)
	}
	return path
}

func newSpeller(t *testing.T, cfg Config, opts ...options.Options) *Speller {
	t.Helper()
	if cfg.DictionaryPath == "" {
		cfg.DictionaryPath = writeDict(t, sampleWords)
	}
	if cfg.Cache == nil {
		cfg.Cache = fsa.NewCache()
	}
	sp, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sp
}

func terms(ss []Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Term
	}
	return out
}

func TestIsMisspelled(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian", AcceptWords: []string{"Његош"}})
	tests := []struct {
		word string
		want bool
	}{
		{"битке", false},
		{"Битке", false},
		{"БИТКЕ", false},
		{"изгубила", false},
		{"Изгубила", false},
		{"београд", true},
		{"Београд", false},
		{"бткие", true},
		{"бикте", true},
		{"његош", false},
		{"", false},
		{"и", false},
		{"1991", false},
		{"рат2", false},
		{"...", false},
		{"bitke", true},
	}
	for _, tt := range tests {
		if got := sp.IsMisspelled(tt.word); got != tt.want {
			t.Errorf("IsMisspelled(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestTransliteration(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian"}, options.WithTransliteration())
	if sp.IsMisspelled("bitke") || sp.IsMisspelled("Beograd") {
		t.Error("Latin spelling of known word flagged")
	}
	if got := terms(sp.Suggest("bitek")); len(got) == 0 || got[0] != "битке" {
		t.Errorf("Suggest(bitek) = %v", got)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian"})
	tests := []struct {
		word  string
		first string
	}{
		{"бикте", "битке"},
		{"бткие", "битке"},
		{"Бткие", "Битке"},
		{"ВОДИИМ", "ВОДИМ"},
		{"сттам", "сам"},
		{"рта", "рат"},
	}
	for _, tt := range tests {
		got := sp.Suggest(tt.word)
		if len(got) == 0 || got[0].Term != tt.first {
			t.Errorf("Suggest(%q) = %v, want first %q", tt.word, terms(got), tt.first)
		}
	}

	if got := sp.Suggest("битке"); got != nil {
		t.Errorf("Suggest(known) = %v, want nil", got)
	}
	if got := sp.Suggest("шшшшшшшшш"); len(got) != 0 {
		t.Errorf("Suggest(far) = %v, want none", got)
	}
}

func TestSuggestRanking(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian"}, options.WithMaxSuggestions(10))
	got := sp.Suggest("битко")
	if len(got) < 3 {
		t.Fatalf("Suggest(битко) = %v", terms(got))
	}
	for i := 1; i < len(got); i++ {
		a, b := got[i-1], got[i]
		if a.Distance > b.Distance || (a.Distance == b.Distance && a.Cost > b.Cost) {
			t.Errorf("suggestions out of order: %+v before %+v", a, b)
		}
	}
	for _, s := range got {
		if s.Distance < 1 || s.Distance > 2 {
			t.Errorf("suggestion %+v outside edit distance", s)
		}
	}

	limited := newSpeller(t, Config{Dialect: "ekavian"}, options.WithMaxSuggestions(1))
	if got := limited.Suggest("битко"); len(got) != 1 {
		t.Errorf("MaxSuggestions(1) returned %v", terms(got))
	}
}

func TestAcceptWordsSuggested(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian", AcceptWords: []string{"Његош", " ", "битке"}})
	if got := terms(sp.Suggest("Његшо")); !reflect.DeepEqual(got, []string{"Његош"}) {
		t.Errorf("Suggest(Његшо) = %v", got)
	}
}

func TestSuggestCached(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian"}, options.WithCacheSize(2))
	first := sp.Suggest("бткие")
	first[0].Term = "mutated"
	if second := sp.Suggest("бткие"); second[0].Term != "битке" {
		t.Errorf("cached suggestion mutated: %v", terms(second))
	}
	if sp.suggestions.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", sp.suggestions.Len())
	}

	uncached := newSpeller(t, Config{Dialect: "ekavian"}, options.WithoutCache())
	if uncached.suggestions != nil {
		t.Error("cache created with size 0")
	}
	if got := terms(uncached.Suggest("бткие")); len(got) == 0 || got[0] != "битке" {
		t.Errorf("uncached Suggest = %v", got)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Dialect: "ekavian"}); err == nil {
		t.Error("New without dictionary succeeded")
	}
	_, err := New(Config{
		Dialect:        "ekavian",
		DictionaryPath: filepath.Join(t.TempDir(), "missing.dict"),
		Cache:          fsa.NewCache(),
	})
	if err == nil {
		t.Error("New with missing dictionary succeeded")
	}
}

func TestDistances(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"битке", "битке", 0},
		{"бикте", "битке", 1},
		{"бткие", "битке", 2},
		{"", "рат", 3},
		{"рат", "", 3},
		{"рат", "рата", 1},
	}
	for _, tt := range tests {
		if got := unitDL(tt.a, tt.b); got != tt.want {
			t.Errorf("unitDL(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	sp := &Speller{opts: options.DefaultOptions}
	if got := sp.weightedDL("бикте", "битке"); got != options.DefaultOptions.TransposeCost {
		t.Errorf("weightedDL(swap) = %v", got)
	}
	near := sp.weightedDL("битко", "битки") // о and и are neighbours on the top row
	far := sp.weightedDL("битко", "битка")
	if near >= far {
		t.Errorf("near substitution %v not cheaper than far %v", near, far)
	}
	if sp.substitutionCost('ч', 'ћ') >= sp.substitutionCost('ч', 'м') {
		t.Error("confusable letters should be cheap to substitute")
	}
}

func TestGenerateDeletes(t *testing.T) {
	t.Parallel()

	got := generateDeletes("рат", 1)
	want := []string{"ат", "рт", "ра"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("generateDeletes = %v, want %v", got, want)
	}
	if n := len(generateDeletes("рат", 2)); n != 6 {
		t.Errorf("generateDeletes(рат, 2) has %d variants, want 6", n)
	}
	if generateDeletes("рат", 0) != nil {
		t.Error("distance 0 produced deletes")
	}
	if got := truncateToRunes("материјал", 4); got != "мате" {
		t.Errorf("truncateToRunes = %q", got)
	}
}

func TestSpellerConcurrent(t *testing.T) {
	t.Parallel()

	sp := newSpeller(t, Config{Dialect: "ekavian"}, options.WithCacheSize(4))
	words := []string{"бткие", "бикте", "рта", "битке", "Бткие", "водмим", "слободне"}
	want := make([][]Suggestion, len(words))
	for i, w := range words {
		want[i] = sp.Suggest(w)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				for i, w := range words {
					if got := sp.Suggest(w); !reflect.DeepEqual(got, want[i]) {
						t.Errorf("concurrent Suggest(%q) = %v, want %v", w, got, want[i])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
