//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type fakeTrial struct {
	NCTID         string   `json:"nctId"`
	BriefTitle    string   `json:"briefTitle"`
	Conditions    []string `json:"conditions,omitempty"`
	OverallStatus string   `json:"overallStatus"`
}

// fakeBackend serves /search, /version and /index-info from an in-memory trial list
type fakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	trials  []fakeTrial
	fail    bool
	queries []string
}

func newFakeBackend(t *testing.T, trials ...fakeTrial) *fakeBackend {
	t.Helper()
	b := &fakeBackend{trials: trials}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", b.handleSearch)
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version": "1.2.0"}`))
	})
	mux.HandleFunc("/index-info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"doc_count": 3, "size_in_bytes": 2048}`))
	})
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) handleSearch(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := r.URL.Query().Get("q")
	b.queries = append(b.queries, q)
	if b.fail {
		http.Error(w, "index offline", http.StatusInternalServerError)
		return
	}

	matches := []fakeTrial{}
	for _, trial := range b.trials {
		if strings.Contains(strings.ToLower(trial.BriefTitle), strings.ToLower(strings.TrimSpace(q))) {
			matches = append(matches, trial)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(matches)
}

func (b *fakeBackend) setFail(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = fail
}

func (b *fakeBackend) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}
