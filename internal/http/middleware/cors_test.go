package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, mw func(http.Handler) http.Handler, method, origin string, preflight bool) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/api/documents/extract", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)
	return rec, &called
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	mw := CORS([]string{"https://portal.homemedreview.example"})
	rec, called := corsRequest(t, mw, http.MethodPost, "https://portal.homemedreview.example", false)

	if !*called {
		t.Fatalf("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.homemedreview.example" {
		t.Fatalf("expected allow origin header, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" || rec.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatalf("expected allow methods and headers to be set")
	}
}

func TestCORSSkipsUnknownOrigin(t *testing.T) {
	mw := CORS([]string{"https://portal.homemedreview.example"})
	rec, called := corsRequest(t, mw, http.MethodPost, "https://evil.example", false)

	if !*called {
		t.Fatalf("expected handler to still be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header, got %q", got)
	}
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	mw := CORS([]string{"*"})
	rec, _ := corsRequest(t, mw, http.MethodGet, "https://anything.example", false)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anything.example" {
		t.Fatalf("expected origin echoed back, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	mw := CORS([]string{"https://portal.homemedreview.example"})
	rec, called := corsRequest(t, mw, http.MethodOptions, "https://portal.homemedreview.example", true)

	if *called {
		t.Fatalf("expected handler to not be called on preflight")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}
