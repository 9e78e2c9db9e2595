package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"finsight/internal/domain"
)

type fakeAnswerer struct {
	answer  string
	err     error
	query   string
	history []domain.Turn
}

func (f *fakeAnswerer) Answer(_ context.Context, query string, history []domain.Turn) (string, error) {
	f.query = query
	f.history = history
	return f.answer, f.err
}

func newTestServer(a Answerer) *Server {
	return New(":0", []string{"*"}, a, zerolog.Nop())
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChat_Success(t *testing.T) {
	fake := &fakeAnswerer{answer: "Spotify reported strong Q3 results."}
	s := newTestServer(fake)

	rec := postChat(t, s, `{"query":"how was spotify q3","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != fake.answer {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if fake.query != "how was spotify q3" {
		t.Errorf("query not passed through, got %q", fake.query)
	}
	if len(fake.history) != 2 || fake.history[0].Role != domain.RoleUser {
		t.Errorf("history not passed through, got %+v", fake.history)
	}
}

func TestChat_NoEntityFound(t *testing.T) {
	s := newTestServer(&fakeAnswerer{err: domain.ErrNoEntityFound})

	rec := postChat(t, s, `{"query":"tell me about nothing"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestChat_InternalError(t *testing.T) {
	s := newTestServer(&fakeAnswerer{err: errors.New("provider down")})

	rec := postChat(t, s, `{"query":"anything"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "provider down") {
		t.Error("internal error details must not leak to the client")
	}
}

func TestChat_BadRequests(t *testing.T) {
	s := newTestServer(&fakeAnswerer{answer: "unused"})

	for _, body := range []string{`not json`, `{"query":""}`, `{"query":"   "}`} {
		if rec := postChat(t, s, body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestIndexPageServed(t *testing.T) {
	s := newTestServer(&fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>Finsight</title>") {
		t.Error("expected embedded index page")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
