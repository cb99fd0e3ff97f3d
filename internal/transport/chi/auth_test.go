package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authProtected(t *testing.T, keys []string) http.Handler {
	t.Helper()
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BearerAuthMiddleware(keys)(ok)
}

func TestBearerAuthMiddleware_Disabled(t *testing.T) {
	h := authProtected(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/search", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("no configured keys must pass through, got %d", rec.Code)
	}
}

func TestBearerAuthMiddleware(t *testing.T) {
	h := authProtected(t, []string{"secret-key", ""})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid key", header: "Bearer secret-key", want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret-key", want: http.StatusUnauthorized},
		{name: "unknown key", header: "Bearer wrong", want: http.StatusUnauthorized},
		{name: "empty key never validates", header: "Bearer ", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/search", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestBearerAuthMiddleware_ExemptPaths(t *testing.T) {
	h := authProtected(t, []string{"secret-key"})

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s should bypass auth, got %d", path, rec.Code)
		}
	}
}
