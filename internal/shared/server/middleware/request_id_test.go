package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDPropagatesOrAssigns(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "caller id", incoming: "req-123", keep: true},
		{name: "missing", incoming: "", keep: false},
		{name: "too long", incoming: strings.Repeat("a", 200), keep: false},
		{name: "control characters", incoming: "bad\tid", keep: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-Id", tc.incoming)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Header().Get("X-Request-Id")
			if got != resp.Body.String() {
				t.Fatalf("header %q and context %q differ", got, resp.Body.String())
			}
			if tc.keep && got != tc.incoming {
				t.Fatalf("expected %q to be kept, got %q", tc.incoming, got)
			}
			if !tc.keep {
				if _, err := uuid.Parse(got); err != nil {
					t.Fatalf("expected generated uuid, got %q", got)
				}
			}
		})
	}
}
