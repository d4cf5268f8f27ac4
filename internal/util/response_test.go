package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"adaptive_edu_backend/internal/engine"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", ErrAssessmentNotFound), http.StatusNotFound},
		{ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("select: %w", engine.ErrExhausted), http.StatusConflict},
		{ErrAssessmentComplete, http.StatusBadRequest},
		{ErrInvalidQuestionStep, http.StatusBadRequest},
		{fmt.Errorf("%w: bad band", ErrInvalidInput), http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 0.0, Percentage(1, 0))
	assert.Equal(t, 0.775, Round(0.77499999, 3))
	assert.Equal(t, 5, AtoiDefault("x", 5))
	assert.Equal(t, 12, AtoiDefault(" 12 ", 5))
	assert.True(t, AnswersMatch("  Print ", "print"))
	assert.False(t, AnswersMatch("prints", "print"))
}
