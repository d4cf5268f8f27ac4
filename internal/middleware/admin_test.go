package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAdminKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		configured string
		header     string
		want       int
	}{
		{"valid key", "0123456789abcdef", "0123456789abcdef", http.StatusOK},
		{"missing header", "0123456789abcdef", "", http.StatusUnauthorized},
		{"wrong key", "0123456789abcdef", "nope", http.StatusForbidden},
		{"no key configured", "", "anything", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/admin", AdminKeyMiddleware(tt.configured), func(c *gin.Context) { util.Success(c, nil) })

			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(util.AdminKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
