package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"srmorph/internal/language"
	"srmorph/internal/override"
	"srmorph/internal/tagger"
)

const (
	maxBatch     = 256
	maxBodyBytes = 1 << 20
)

type app struct {
	lang  *language.Language
	store *override.Store
}

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeResponse struct {
	Word     string            `json:"word"`
	Analyses []tagger.Analysis `json:"analyses"`
}

type synthesizeResponse struct {
	Lemma string   `json:"lemma"`
	Tag   string   `json:"tag"`
	Forms []string `json:"forms"`
}

type overrideRequest struct {
	Kind string `json:"kind"`
	Line string `json:"line"`
}

func newMux(a *app) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyze", a.handleAnalyze)
	mux.HandleFunc("/api/v1/synthesize", a.handleSynthesize)
	mux.HandleFunc("/api/v1/tags", a.handleTags)
	mux.HandleFunc("/api/v1/check", a.handleCheck)
	mux.HandleFunc("/api/v1/check/batch", a.handleCheckBatch)
	mux.HandleFunc("/api/v1/overrides", a.handleOverrides)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads at most maxBodyBytes of JSON from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDecodeError answers 413 for oversized bodies and 400 otherwise.
func writeDecodeError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, msg)
}

func (a *app) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Word: word, Analyses: a.lang.Tagger().Analyze(word)})
}

func (a *app) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	q := r.URL.Query()
	lemma, tag := strings.TrimSpace(q.Get("lemma")), strings.TrimSpace(q.Get("tag"))
	if lemma == "" || tag == "" {
		writeError(w, http.StatusBadRequest, "'lemma' and 'tag' query parameters are required")
		return
	}
	useRegexp, _ := strconv.ParseBool(q.Get("regexp"))
	sy := a.lang.Synthesizer()
	var forms []string
	if useRegexp {
		forms = sy.SynthesizeRegexp(lemma, tag)
	} else {
		forms = sy.Synthesize(lemma, tag)
	}
	writeJSON(w, http.StatusOK, synthesizeResponse{Lemma: lemma, Tag: tag, Forms: forms})
}

func (a *app) handleTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tags": a.lang.Synthesizer().Tags()})
}

func (a *app) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	const msg = "body must be JSON with a non-empty 'text' field"
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err, msg)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, a.lang.Check(req.Text))
}

func (a *app) handleCheckBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req struct {
		Texts   []string `json:"texts"`
		Workers int      `json:"workers"`
	}
	const msg = "body must be JSON with a non-empty 'texts' array"
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err, msg)
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if len(req.Texts) > maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, "too many texts in one batch")
		return
	}
	if req.Workers <= 0 || req.Workers > 16 {
		req.Workers = 4
	}
	results, err := a.lang.CheckBatch(r.Context(), req.Texts, req.Workers)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]language.Result{"results": results})
}

func (a *app) handleOverrides(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no override store configured")
		return
	}
	dialect := a.lang.Dialect().Name

	if r.Method == http.MethodGet {
		kind, err := override.ParseKind(r.URL.Query().Get("kind"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		members, err := a.store.Members(r.Context(), dialect, kind)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"lines": members})
		return
	}
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "GET, POST or DELETE required")
		return
	}

	var req overrideRequest
	const msg = "body must be JSON with 'kind' and a non-empty 'line'"
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err, msg)
		return
	}
	if strings.TrimSpace(req.Line) == "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	kind, err := override.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.Method == http.MethodDelete {
		if err := a.store.Remove(r.Context(), dialect, kind, req.Line); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := a.store.Add(r.Context(), dialect, kind, req.Line); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, override.ErrSyntax) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "staged"})
}
