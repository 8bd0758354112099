package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"srmorph/internal/fsa"
	"srmorph/internal/language"
	"srmorph/internal/lexicon"
	"srmorph/internal/override"
)

const wordList = "" +
	"битке\tбитка\tNoun:f:sg:gen\t120\n" +
	"битке\tбитка\tNoun:f:pl:acc\t120\n" +
	"битка\tбитка\tNoun:f:sg:nom\t80\n" +
	"рат\tрат\tNoun:m:sg:nom\t200\n" +
	"рата\tрат\tNoun:m:sg:gen\t150\n" +
	"сам\tбити\tVerb:aux:1:sg\t900\n"

func newTestApp(t *testing.T) (*app, *miniredis.Miniredis) {
	t.Helper()
	root := t.TempDir()
	d := language.Ekavian
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
	lang, err := language.New(language.Options{Root: root, Dialect: d, Cache: fsa.NewCache()})
	if err != nil {
		t.Fatal(err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &app{lang: lang, store: override.NewStore(client, "test")}, mr
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeHandler(t *testing.T) {
	a, _ := newTestApp(t)
	h := newMux(a)

	rec := do(t, h, http.MethodGet, "/api/v1/analyze?"+url.Values{"word": {"битке"}}.Encode(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp analyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Word != "битке" || len(resp.Analyses) != 2 {
		t.Errorf("got %+v, want two analyses of битке", resp)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/analyze", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing word: status = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/analyze?word=x", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: status = %d, want 405", rec.Code)
	}
}

func TestSynthesizeHandler(t *testing.T) {
	a, _ := newTestApp(t)
	h := newMux(a)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"exact", synthTarget("битка", "Noun:f:sg:gen", false), []string{"битке"}},
		{"wildcard", synthTarget("битка", "Noun:f:sg:*", false), []string{"битка", "битке"}},
		{"regexp", synthTarget("рат", "Noun:m:sg:(nom|gen)", true), []string{"рат", "рата"}},
		{"unknown", synthTarget("битка", "Verb", false), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			var resp synthesizeResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			got := resp.Forms
			if got == nil {
				got = []string{}
			}
			if !sameSet(got, tt.want) {
				t.Errorf("forms = %v, want %v", got, tt.want)
			}
		})
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/synthesize?"+url.Values{"lemma": {"битка"}}.Encode(), nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing tag: status = %d, want 400", rec.Code)
	}
}

func TestCheckHandler(t *testing.T) {
	a, _ := newTestApp(t)
	h := newMux(a)

	rec := do(t, h, http.MethodPost, "/api/v1/check", map[string]string{"text": "бткие рата"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var res language.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Token != "бткие" {
		t.Fatalf("matches = %+v, want one on бткие", res.Matches)
	}
	if r := res.Matches[0].Replacements; len(r) == 0 || r[0] != "битке" {
		t.Errorf("replacements = %v, want битке first", r)
	}

	if rec := do(t, h, http.MethodPost, "/api/v1/check", map[string]string{"text": "  "}); rec.Code != http.StatusBadRequest {
		t.Errorf("blank text: status = %d, want 400", rec.Code)
	}
}

func TestCheckBatchHandler(t *testing.T) {
	a, _ := newTestApp(t)
	h := newMux(a)

	rec := do(t, h, http.MethodPost, "/api/v1/check/batch", map[string]any{"texts": []string{"рат", "бткие"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Results []language.Result `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 || len(resp.Results[0].Matches) != 0 || len(resp.Results[1].Matches) != 1 {
		t.Errorf("results = %+v", resp.Results)
	}

	big := make([]string, maxBatch+1)
	if rec := do(t, h, http.MethodPost, "/api/v1/check/batch", map[string]any{"texts": big}); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized batch: status = %d, want 413", rec.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	a, _ := newTestApp(t)
	h := newMux(a)

	huge := strings.Repeat("рат ", maxBodyBytes/len("рат ")+1)
	tests := []struct {
		target string
		body   any
	}{
		{"/api/v1/check", map[string]string{"text": huge}},
		{"/api/v1/check/batch", map[string]any{"texts": []string{huge}}},
		{"/api/v1/overrides", overrideRequest{Kind: "spelling", Line: huge}},
	}
	for _, tt := range tests {
		if rec := do(t, h, http.MethodPost, tt.target, tt.body); rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("%s: status = %d, want 413", tt.target, rec.Code)
		}
	}
}

func TestOverridesHandler(t *testing.T) {
	a, mr := newTestApp(t)
	h := newMux(a)

	line := "битци\tбитка\tNoun:f:pl:nom"
	rec := do(t, h, http.MethodPost, "/api/v1/overrides", overrideRequest{Kind: "added", Line: line})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", rec.Code, rec.Body)
	}
	if ok, _ := mr.SIsMember("test:ekavian:added", line); !ok {
		t.Error("line not staged in redis")
	}

	rec = do(t, h, http.MethodGet, "/api/v1/overrides?kind=added", nil)
	var listed map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(listed["lines"], []string{line}) {
		t.Errorf("lines = %v", listed["lines"])
	}

	if rec := do(t, h, http.MethodDelete, "/api/v1/overrides", overrideRequest{Kind: "added", Line: line}); rec.Code != http.StatusOK {
		t.Errorf("DELETE status = %d", rec.Code)
	}
	if ok, _ := mr.SIsMember("test:ekavian:added", line); ok {
		t.Error("line still staged after DELETE")
	}

	bad := []struct {
		name string
		req  overrideRequest
	}{
		{"unknown kind", overrideRequest{Kind: "other", Line: "рат"}},
		{"addition without tag", overrideRequest{Kind: "added", Line: "битци\tбитка"}},
		{"spelling with space", overrideRequest{Kind: "spelling", Line: "два речи"}},
		{"empty line", overrideRequest{Kind: "removed", Line: ""}},
	}
	for _, tt := range bad {
		if rec := do(t, h, http.MethodPost, "/api/v1/overrides", tt.req); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestOverridesWithoutStore(t *testing.T) {
	a, _ := newTestApp(t)
	a.store = nil
	rec := do(t, newMux(a), http.MethodGet, "/api/v1/overrides?kind=added", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestLoadStaged(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := t.Context()
	if err := a.store.Add(ctx, "ekavian", override.KindAdded, "битци\tбитка\tNoun:f:pl:nom"); err != nil {
		t.Fatal(err)
	}
	if err := a.store.Add(ctx, "ekavian", override.KindSpelling, "Његош"); err != nil {
		t.Fatal(err)
	}
	opts := language.Options{Dialect: language.Ekavian}
	loadStaged(a.store, &opts)
	if len(opts.Overrides.Additions) != 1 || opts.Overrides.Additions[0].Form != "битци" {
		t.Errorf("additions = %+v", opts.Overrides.Additions)
	}
	if !reflect.DeepEqual(opts.AcceptWords, []string{"Његош"}) {
		t.Errorf("accept words = %v", opts.AcceptWords)
	}
}

func synthTarget(lemma, tag string, useRegexp bool) string {
	q := url.Values{"lemma": {lemma}, "tag": {tag}}
	if useRegexp {
		q.Set("regexp", "true")
	}
	return "/api/v1/synthesize?" + q.Encode()
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := make(map[string]int, len(a))
	for _, s := range a {
		m[s]++
	}
	for _, s := range b {
		m[s]--
	}
	for _, n := range m {
		if n != 0 {
			return false
		}
	}
	return true
}
