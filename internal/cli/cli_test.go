package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverConfig(t *testing.T) {
	createDir := func(t *testing.T, files []string) string {
		dir := t.TempDir()
		for _, f := range files {
			err := os.WriteFile(filepath.Join(dir, f), []byte("model: x\n"), 0644)
			require.NoError(t, err)
		}
		return dir
	}

	t.Run("Prefers yaml", func(t *testing.T) {
		dir := createDir(t, []string{"mentor.json", "mentor.yaml"})
		assert.Equal(t, filepath.Join(dir, "mentor.yaml"), discoverConfig(dir))
	})

	t.Run("Falls back to json", func(t *testing.T) {
		dir := createDir(t, []string{"mentor.json", "other.yaml"})
		assert.Equal(t, filepath.Join(dir, "mentor.json"), discoverConfig(dir))
	})

	t.Run("Nothing found", func(t *testing.T) {
		dir := createDir(t, []string{"other.md"})
		assert.Empty(t, discoverConfig(dir))
	})
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mentor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\ncurriculum_dir: ./topics\n"), 0644))

	cfg, err := LoadConfig(Options{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Model)
	assert.Equal(t, "./topics", cfg.CurriculumDir)

	cfg, err = LoadConfig(Options{
		ConfigPath:     path,
		Model:          "from-flag",
		CurriculumPath: "course.yaml",
		RedisAddr:      "localhost:6379",
		Debug:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Model)
	assert.Equal(t, "course.yaml", cfg.CurriculumPath)
	assert.Empty(t, cfg.CurriculumDir, "an explicit catalog file replaces the directory")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestNewApp_Offline(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	app, logger, err := NewApp(context.Background(), Options{ConfigPath: writeConfig(t, "{}\n")})
	require.NoError(t, err)
	defer app.Close()
	assert.NotNil(t, logger)
	assert.False(t, app.Available())
	assert.NotEmpty(t, app.Curriculum.Modules)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mentor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(fmt.Errorf("input error: %w", io.EOF)))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc := NewSignalContext(parent)
	cancel()

	<-sc.Done()
	assert.Nil(t, sc.Signal())
}
