package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{"empty list allows all", "example.com", nil, true},
		{"exact match", "example.com:8080", []string{"example.com:8080"}, true},
		{"host without port", "example.com", []string{"example.com:8080"}, true},
		{"host with port", "example.com:8080", []string{"example.com"}, true},
		{"ipv6 with port", "[::1]:8080", []string{"::1"}, true},
		{"ipv6 bare against bracketed", "::1", []string{"[::1]:8080"}, true},
		{"case insensitive", "Example.COM:8080", []string{"example.com"}, true},
		{"whitespace", "  example.com  ", []string{" example.com "}, true},
		{"second in list", "api.example.com", []string{"example.com", "api.example.com"}, true},
		{"no match", "evil.com", []string{"example.com"}, false},
		{"subdomain mismatch", "sub.example.com", []string{"example.com"}, false},
		{"different ipv6", "[::2]:8080", []string{"[::1]:8080"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHostAllowed(tt.host, tt.allowedHosts))
		})
	}
}

func TestHSTS(t *testing.T) {
	handler := HSTS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
}
