package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderArgs(t *testing.T) {
	got := ParseHeaderArgs([]string{
		"Authorization: Basic dXNlcjpwYXNz",
		"X-Empty:",
		"no-colon",
		" Referer : https://example.com/a:b ",
	})
	assert.Equal(t, map[string]string{
		"Authorization": "Basic dXNlcjpwYXNz",
		"X-Empty":       "",
		"Referer":       "https://example.com/a:b",
	}, got)
}

func TestTempPatternMatchesIsTempFile(t *testing.T) {
	dir := t.TempDir()
	f, err := os.CreateTemp(dir, TempPattern("report.pdf"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	name := filepath.Base(f.Name())
	assert.True(t, IsTempFile(name))
	assert.Regexp(t, `^report\.pdf\.mfdl-\d+\.tmp$`, name)
	assert.False(t, IsTempFile("report.pdf"))
	assert.False(t, IsTempFile("notes.tmp"))
}

func TestCleanTempFiles(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "report.pdf")
	stale := filepath.Join(dir, "report.pdf.mfdl-123.tmp")
	other := filepath.Join(dir, "scratch.tmp")
	for _, p := range []string{keep, stale, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	removed, err := CleanTempFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)
	assert.FileExists(t, keep)
	assert.FileExists(t, other)
	assert.NoFileExists(t, stale)
}

func TestCleanTempFilesMissingDir(t *testing.T) {
	_, err := CleanTempFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
