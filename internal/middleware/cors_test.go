package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name       string
		method     string
		origin     string
		preflight  bool
		wantCode   int
		wantOrigin string
	}{
		{"no origin", http.MethodGet, "", false, http.StatusTeapot, ""},
		{"allowed", http.MethodGet, "http://localhost:3000", false, http.StatusTeapot, "http://localhost:3000"},
		{"foreign", http.MethodGet, "http://evil.test", false, http.StatusTeapot, ""},
		{"preflight", http.MethodOptions, "http://localhost:3000", true, http.StatusNoContent, "http://localhost:3000"},
		{"foreign preflight", http.MethodOptions, "http://evil.test", true, http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/api/categories", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if tt.preflight {
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tt.wantCode {
			t.Errorf("%s: code %d, want %d", tt.name, rr.Code, tt.wantCode)
		}
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
			t.Errorf("%s: allow-origin %q, want %q", tt.name, got, tt.wantOrigin)
		}
	}
}
