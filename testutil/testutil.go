package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// BaseTime is a fixed modification time used to make mtime comparisons
// independent of filesystem timestamp resolution.
var BaseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// WriteFile creates name inside dir with the given content, sets its
// modification time to BaseTime and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "write %s", path)
	SetModTime(t, path, BaseTime)
	return path
}

// SetModTime sets both access and modification time of path.
func SetModTime(t *testing.T, path string, modTime time.Time) {
	t.Helper()

	require.NoError(t, os.Chtimes(path, modTime, modTime), "chtimes %s", path)
}

// Touch moves the modification time of path forward by d relative to its
// current modification time. A negative d moves it backward.
func Touch(t *testing.T, path string, d time.Duration) time.Time {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	modTime := info.ModTime().Add(d)
	SetModTime(t, path, modTime)
	return modTime
}

// Remove deletes path and fails the test on error.
func Remove(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.Remove(path), "remove %s", path)
}

// Mkdir creates a subdirectory of dir and returns its path.
func Mkdir(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.Mkdir(path, 0755))
	return path
}

// Chdir changes the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(orig)
	})
}

// SkipIfRoot skips tests that rely on permission checks, which root bypasses.
func SkipIfRoot(t *testing.T) {
	t.Helper()

	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed when running as root")
	}
}
