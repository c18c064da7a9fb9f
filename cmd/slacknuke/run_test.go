package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aatumaykin/slacknuke/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoadHint_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	require.Error(t, err)

	assert.Contains(t, configLoadHint(err), "cp config.example.json config.json")
}

func TestConfigLoadHint_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)

	// The file exists; suggesting to recreate it from the example would be
	// misleading
	assert.Empty(t, configLoadHint(err))
}

func TestConfigLoadHint_UnrelatedError(t *testing.T) {
	assert.Empty(t, configLoadHint(os.ErrPermission))
}
