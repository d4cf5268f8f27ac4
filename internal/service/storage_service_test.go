package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveReportLocal(t *testing.T) {
	dir := t.TempDir()
	s := NewStorageService(&config.StorageConfig{Type: "local", LocalPath: dir, ReportPrefix: "reports"})

	url, err := s.ArchiveReport(context.Background(), &model.AssessmentResults{
		AssessmentID: "a1",
		UserID:       "u1",
		Subject:      "python",
		Score:        model.Score{Correct: 2, Total: 3, Percentage: 66.7},
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/reports/u1/a1.json", url)

	data, err := os.ReadFile(filepath.Join(dir, "reports", "u1", "a1.json"))
	require.NoError(t, err)
	var got model.AssessmentResults
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 66.7, got.Score.Percentage)

	require.NoError(t, s.Delete(context.Background(), s.ReportKey("u1", "a1")))
	_, err = os.Stat(filepath.Join(dir, "reports", "u1", "a1.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStorageFallsBackToLocal(t *testing.T) {
	s := NewStorageService(&config.StorageConfig{Type: "minio", LocalPath: t.TempDir()})
	_, ok := s.Provider.(*LocalStorageProvider)
	assert.True(t, ok)
}
