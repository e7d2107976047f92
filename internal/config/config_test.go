package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/studytrackr/internal/store"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, store.DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, store.AppName+".log", filepath.Base(cfg.Log.File))
	assert.Empty(t, cfg.ExportDir)
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	assert.Equal(t, configFile, filepath.Base(p))
	assert.Equal(t, store.AppName, filepath.Base(filepath.Dir(p)))
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/x.db\nlog:\n  json: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Default().Log.File, cfg.Log.File)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.DBPath = "/data/study.db"
	cfg.ExportDir = "/exports"
	cfg.Log.Level = "debug"

	require.NoError(t, Write(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestResolveExportDir(t *testing.T) {
	cfg := &Config{ExportDir: "/exports"}
	dir, err := cfg.ResolveExportDir()
	require.NoError(t, err)
	assert.Equal(t, "/exports", dir)

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg.ExportDir = ""
	dir, err = cfg.ResolveExportDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)
}
