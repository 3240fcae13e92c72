package monitor

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/grovetools/pollwatch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(t *testing.T, dir string, ignore ...string) *Monitor {
	t.Helper()
	m, err := New(dir, Options{Ignore: ignore})
	require.NoError(t, err)
	return m
}

func TestMonitorScenario(t *testing.T) {
	dir := t.TempDir()
	m := newTestMonitor(t, dir)
	path := filepath.Join(m.Dir(), "a.txt")

	// Empty directory against the empty initial snapshot.
	assert.Empty(t, m.Detect())

	testutil.WriteFile(t, dir, "a.txt", "hello")
	assert.Equal(t, []Event{{Path: path, Kind: Created}}, m.Detect())

	testutil.Touch(t, path, time.Hour)
	assert.Equal(t, []Event{{Path: path, Kind: Modified}}, m.Detect())

	testutil.Remove(t, path)
	assert.Equal(t, []Event{{Path: path, Kind: Deleted}}, m.Detect())
	assert.NotContains(t, m.Snapshot(), path)

	assert.Empty(t, m.Detect())
}

func TestMonitorStableDirectoryYieldsNoEvents(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	testutil.WriteFile(t, dir, "b.txt", "b")
	m := newTestMonitor(t, dir)

	first := m.Detect()
	assert.Len(t, first, 2)
	for _, ev := range first {
		assert.Equal(t, Created, ev.Kind)
	}

	assert.Empty(t, m.Detect())
	assert.Empty(t, m.Detect())
}

func TestMonitorEarlierOrEqualMtimeIsNotModified(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)
	require.Len(t, m.Detect(), 1)

	testutil.Touch(t, path, -time.Hour)
	assert.Empty(t, m.Detect())

	// Same mtime as the stored (earlier) one.
	testutil.Touch(t, path, 0)
	assert.Empty(t, m.Detect())

	testutil.Touch(t, path, time.Second)
	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Modified}}, m.Detect())
}

func TestMonitorSnapshotReplacedWholesale(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)
	m.Detect()

	testutil.Remove(t, a)
	testutil.WriteFile(t, dir, "b.txt", "b")
	m.Detect()

	assert.Equal(t, Snapshot{filepath.Join(m.Dir(), "b.txt"): testutil.BaseTime}, normalize(m.Snapshot()))
	assert.Equal(t, normalize(Scan(m.Dir(), nil, nil)), normalize(m.Snapshot()))
}

// normalize strips monotonic and location data so snapshots compare with Equal.
func normalize(s Snapshot) Snapshot {
	out := make(Snapshot, len(s))
	for p, ts := range s {
		out[p] = ts.UTC()
	}
	return out
}

func TestMonitorSnapshotIsACopy(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)
	m.Detect()

	snap := m.Snapshot()
	for p := range snap {
		delete(snap, p)
	}

	assert.Len(t, m.Snapshot(), 1)
	assert.Empty(t, m.Detect())
}

func TestMonitorReportsAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)
	testutil.WriteFile(t, dir, "a.txt", "a")

	m := newTestMonitor(t, ".")
	require.True(t, filepath.IsAbs(m.Dir()))

	events := m.Detect()
	require.Len(t, events, 1)
	assert.True(t, filepath.IsAbs(events[0].Path))
	assert.Equal(t, "a.txt", filepath.Base(events[0].Path))
}

func TestScanSkipsNonRegularFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "file.txt", "x")
	sub := testutil.Mkdir(t, dir, "subdir")
	testutil.WriteFile(t, sub, "nested.txt", "not reported")

	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink(filepath.Join(dir, "file.txt"), filepath.Join(dir, "link.txt")))
	}

	snap := Scan(dir, nil, nil)

	assert.Len(t, snap, 1)
	assert.Contains(t, snap, filepath.Join(dir, "file.txt"))
}

func TestScanMissingDirectoryIsEmpty(t *testing.T) {
	snap := Scan(filepath.Join(t.TempDir(), "does-not-exist"), nil, nil)
	assert.NotNil(t, snap)
	assert.Empty(t, snap)
}

func TestScanIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "keep.txt", "x")
	testutil.WriteFile(t, dir, "editor.swp", "x")
	testutil.WriteFile(t, dir, ".DS_Store", "x")

	m := newTestMonitor(t, dir, "*.swp", ".DS_Store")
	events := m.Detect()

	require.Len(t, events, 1)
	assert.Equal(t, filepath.Join(m.Dir(), "keep.txt"), events[0].Path)
}

func TestNewRejectsInvalidIgnorePattern(t *testing.T) {
	_, err := New(t.TempDir(), Options{Ignore: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestMonitorDirectoryDisappears(t *testing.T) {
	parent := t.TempDir()
	dir := testutil.Mkdir(t, parent, "watched")
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)
	require.Len(t, m.Detect(), 1)

	require.NoError(t, os.RemoveAll(dir))

	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Deleted}}, m.Detect())
	assert.Empty(t, m.Detect())
}

func TestMonitorUnreadableMetadataCountsAsDeleted(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory search permission is a unix concept")
	}
	testutil.SkipIfRoot(t)

	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	m := newTestMonitor(t, dir)
	require.Len(t, m.Detect(), 1)

	// Readable but not searchable: names list, lstat fails.
	require.NoError(t, os.Chmod(dir, 0600))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Deleted}}, m.Detect())

	require.NoError(t, os.Chmod(dir, 0755))
	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Created}}, m.Detect())
}

// vanishingEntry is a directory entry whose file is gone by the time its
// metadata is read.
type vanishingEntry struct {
	fs.DirEntry
}

func (e vanishingEntry) Info() (fs.FileInfo, error) {
	return nil, &fs.PathError{Op: "lstat", Path: e.Name(), Err: fs.ErrNotExist}
}

func TestMonitorEntryVanishingBeforeStatCountsAsDeleted(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")
	testutil.WriteFile(t, dir, "b.txt", "b")
	m := newTestMonitor(t, dir)
	require.Len(t, m.Detect(), 2)

	m.readDir = func(name string) ([]fs.DirEntry, error) {
		entries, err := os.ReadDir(name)
		for i, entry := range entries {
			if entry.Name() == "a.txt" {
				entries[i] = vanishingEntry{entry}
			}
		}
		return entries, err
	}

	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Deleted}}, m.Detect())
	assert.NotContains(t, m.Snapshot(), filepath.Join(m.Dir(), "a.txt"))
	assert.Contains(t, m.Snapshot(), filepath.Join(m.Dir(), "b.txt"))

	m.readDir = os.ReadDir
	assert.Equal(t, []Event{{Path: filepath.Join(m.Dir(), "a.txt"), Kind: Created}}, m.Detect())
}

func TestScanKeepsPartialListing(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "a.txt", "a")

	readDir := func(name string) ([]fs.DirEntry, error) {
		entries, _ := os.ReadDir(name)
		return entries, &fs.PathError{Op: "readdirent", Path: name, Err: fs.ErrPermission}
	}

	snap := scan(dir, readDir, nil, nil)
	assert.Equal(t, Snapshot{path: testutil.BaseTime}, normalize(snap))
}
