package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postAsk(t *testing.T, mux *http.ServeMux, body string) (*httptest.ResponseRecorder, askResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp askResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding reply: %v", err)
		}
	}
	return rec, resp
}

func TestAskEndpoint(t *testing.T) {
	mux := newServeMux(testService(productionSource()))

	rec, resp := postAsk(t, mux, `{"question":"totall"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(resp.Reply, "FACTORY SUMMARY") {
		t.Fatalf("reply = %q", resp.Reply)
	}
}

func TestAskEndpointUnrecognized(t *testing.T) {
	mux := newServeMux(testService(productionSource()))
	rec, resp := postAsk(t, mux, `{"question":"what even is this"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even for unknown commands", rec.Code)
	}
	if resp.Reply != msgUnrecognized {
		t.Fatalf("reply = %q, want %q", resp.Reply, msgUnrecognized)
	}
}

func TestAskEndpointBadJSON(t *testing.T) {
	mux := newServeMux(testService(productionSource()))
	rec, resp := postAsk(t, mux, `{not json`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for malformed body", rec.Code)
	}
	if resp.Reply != msgUnrecognized {
		t.Fatalf("reply = %q, want unrecognized fallback", resp.Reply)
	}
}

func TestAskEndpointCORS(t *testing.T) {
	mux := newServeMux(testService(productionSource()))

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}

func TestAskEndpointMethodNotAllowed(t *testing.T) {
	mux := newServeMux(testService(productionSource()))
	req := httptest.NewRequest(http.MethodGet, "/ask", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405 for GET", rec.Code)
	}
}
