package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/ping", "204"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/ping", "204")))
}

func TestObserveMasteryUpdate(t *testing.T) {
	before := testutil.ToFloat64(DegenerateUpdates)
	ObserveMasteryUpdate("easy", true, 0.1, true)
	ObserveMasteryUpdate("easy", true, 0.1, false)

	assert.Equal(t, before+1, testutil.ToFloat64(DegenerateUpdates))
	assert.GreaterOrEqual(t, testutil.ToFloat64(MasteryUpdates.WithLabelValues("easy", "true")), 2.0)
}
