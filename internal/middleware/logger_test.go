package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLoggerRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated", incoming: "", keep: false},
		{name: "propagated", incoming: "req-123", keep: true},
		{name: "oversized replaced", incoming: strings.Repeat("x", maxRequestIDLen+1), keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inHandler string
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inHandler = RequestIDFromContext(r.Context())
				w.WriteHeader(http.StatusTeapot)
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got != inHandler {
				t.Errorf("response ID %q != context ID %q", got, inHandler)
			}
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("request ID = %q, want %q", got, tt.incoming)
				}
			} else if _, err := uuid.Parse(got); err != nil {
				t.Errorf("request ID %q is not a UUID: %v", got, err)
			}
			if rec.Code != http.StatusTeapot {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
			}
		})
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := RequestIDFromContext(req.Context()); id != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", id)
	}
}
