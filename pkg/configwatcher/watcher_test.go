package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"adaptive_edu_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	body := func(prior string) []byte {
		return []byte("server:\n  mode: test\nstorage:\n  local_path: " + filepath.ToSlash(filepath.Join(dir, "uploads")) + "\nengine:\n  prior: " + prior + "\n")
	}
	require.NoError(t, os.WriteFile(file, body("0.4"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// 给 watcher 一点时间注册
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, body("0.25"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 0.25, cfg.Engine.Prior)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
