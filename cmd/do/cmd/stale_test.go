package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStale(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "repo.go")
	output := filepath.Join(dir, "mocks_test.go")

	require.NoError(t, os.WriteFile(source, []byte("package x\n"), 0o644))
	assert.True(t, Stale(output, source), "missing output")

	require.NoError(t, os.WriteFile(output, []byte("package x\n"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(source, past, past))
	assert.False(t, Stale(output, source))
	assert.False(t, Stale(output, dir))

	require.NoError(t, os.Chtimes(source, time.Now().Add(time.Hour), time.Now().Add(time.Hour)))
	assert.True(t, Stale(output, dir))
}

func TestIsOlder(t *testing.T) {
	dir := t.TempDir()
	templFile := filepath.Join(dir, "chat_feed.templ")
	generated := filepath.Join(dir, "chat_feed_templ.go")

	require.NoError(t, os.WriteFile(templFile, []byte("package ui\n"), 0o644))
	assert.True(t, isOlder(generated, templFile))

	require.NoError(t, os.WriteFile(generated, []byte("package ui\n"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(templFile, past, past))
	assert.False(t, isOlder(generated, templFile))
}
