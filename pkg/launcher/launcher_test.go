package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyCommand(t *testing.T) {
	_, err := New(nil, "0.0.0.0", 8000, time.Second)
	assert.Error(t, err)
}

func TestCommandResolvesViaPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture script is unix-only")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "backend")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))
	t.Setenv("PATH", dir)

	l, err := New([]string{"backend", "serve", "--workers", "4"}, "0.0.0.0", 8000, time.Second)
	require.NoError(t, err)

	argv, err := l.Command()
	require.NoError(t, err)
	assert.Equal(t, []string{bin, "serve", "--workers", "4"}, argv)
}

func TestCommandMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	l, err := New([]string{"no-such-binary"}, "0.0.0.0", 8000, time.Second)
	require.NoError(t, err)

	_, err = l.Command()
	assert.Error(t, err)
}

func TestEnvironExportsListenAddress(t *testing.T) {
	l, err := New([]string{"backend"}, "0.0.0.0", 8000, time.Second)
	require.NoError(t, err)

	env := l.Environ()
	assert.Contains(t, env, "SERVER_HOST=0.0.0.0")
	assert.Contains(t, env, "SERVER_PORT=8000")
}

func TestMergeEnvOverrides(t *testing.T) {
	base := []string{"PATH=/bin", "SERVER_PORT=9999", "HOME=/root"}
	merged := mergeEnv(base, map[string]string{"SERVER_PORT": "8000", "SERVER_HOST": "0.0.0.0"})

	assert.Contains(t, merged, "SERVER_PORT=8000")
	assert.NotContains(t, merged, "SERVER_PORT=9999")
	assert.Contains(t, merged, "SERVER_HOST=0.0.0.0")
	assert.Contains(t, merged, "PATH=/bin")
	assert.Contains(t, merged, "HOME=/root")
}
