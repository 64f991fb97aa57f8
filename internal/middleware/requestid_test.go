package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func requestIDRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	r.GET("/ctx", func(c *gin.Context) {
		// The ID must also be reachable through the request context attrs.
		attrs := logger.FromContext(c.Request.Context())
		c.String(http.StatusOK, attrValue(attrs, "request_id"))
	})
	return r
}

func attrValue(attrs []slog.Attr, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value.String()
		}
	}
	return ""
}

func TestRequestID_GeneratesID(t *testing.T) {
	r := requestIDRouter(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	if len(body) != requestIDBytes*2 {
		t.Errorf("request ID length = %d (%q), want %d", len(body), body, requestIDBytes*2)
	}
	if got := w.Header().Get(requestIDHeader); got != body {
		t.Errorf("response header %s = %q, want %q", requestIDHeader, got, body)
	}
}

func TestRequestID_UntrustedUpstreamIgnored(t *testing.T) {
	r := requestIDRouter(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(requestIDHeader, "upstream-id-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() == "upstream-id-123" {
		t.Fatal("upstream ID reused without TrustUpstream")
	}
}

func TestRequestID_TrustedUpstream(t *testing.T) {
	trusted := RequestIDWithConfig(RequestIDConfig{TrustUpstream: true})

	tests := []struct {
		name     string
		upstream string
		reused   bool
	}{
		{"valid id reused", "upstream-id-123", true},
		{"boundary 64 chars reused", strings.Repeat("a", 64), true},
		{"too long rejected", strings.Repeat("a", 65), false},
		{"bad charset rejected", "bad_id", false},
		{"empty generates new", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requestIDRouter(trusted)

			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			if tt.upstream != "" {
				req.Header.Set(requestIDHeader, tt.upstream)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			body := w.Body.String()
			if tt.reused {
				if body != tt.upstream {
					t.Fatalf("request ID = %q, want upstream %q", body, tt.upstream)
				}
				return
			}
			if body == tt.upstream {
				t.Fatal("invalid upstream ID was reused")
			}
			if len(body) != requestIDBytes*2 {
				t.Fatalf("generated ID length = %d, want %d", len(body), requestIDBytes*2)
			}
		})
	}
}

func TestRequestID_StoredInGoContext(t *testing.T) {
	r := requestIDRouter(RequestIDWithConfig(RequestIDConfig{TrustUpstream: true}))

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	req.Header.Set(requestIDHeader, "ctx-test-456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "ctx-test-456" {
		t.Errorf("context request ID = %q, want %q", w.Body.String(), "ctx-test-456")
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	r := requestIDRouter(RequestID())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

		id := w.Body.String()
		if seen[id] {
			t.Fatalf("duplicate request ID: %q", id)
		}
		seen[id] = true
	}
}

func TestGetRequestID_WithoutMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/bare", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bare", nil))

	if w.Body.String() != "" {
		t.Errorf("request ID = %q, want empty", w.Body.String())
	}
}
