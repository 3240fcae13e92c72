// Package monitor detects file changes in a single directory by comparing
// successive snapshots of file modification times.
package monitor

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Snapshot maps the path of every regular file directly inside a directory
// to its last modification time at the moment of the scan.
type Snapshot map[string]time.Time

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for path, modTime := range s {
		out[path] = modTime
	}
	return out
}

// Scan lists the immediate entries of dir and records the modification time
// of each regular file. It never fails: an unreadable directory yields an
// empty snapshot and entries whose metadata cannot be read are left out, so a
// file that vanishes between listing and stat simply counts as absent.
// Names matched by ignore are left out as well; a nil ignore matches nothing.
func Scan(dir string, ignore *Matcher, logger *logrus.Entry) Snapshot {
	return scan(dir, os.ReadDir, ignore, logger)
}

// readDirFunc lists a directory the way os.ReadDir does.
type readDirFunc func(name string) ([]fs.DirEntry, error)

func scan(dir string, readDir readDirFunc, ignore *Matcher, logger *logrus.Entry) Snapshot {
	if logger == nil {
		logger = discardLogger()
	}

	snap := make(Snapshot)

	// ReadDir returns whatever it managed to read alongside the error.
	entries, err := readDir(dir)
	if err != nil {
		logger.WithError(err).Debugf("Failed to read directory %s", dir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if ignore.Match(name) {
			continue
		}

		// Info uses lstat, so symlinks report their own mode and are dropped below.
		info, err := entry.Info()
		if err != nil {
			logger.WithError(err).Debugf("Skipping %s", name)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		snap[filepath.Join(dir, name)] = info.ModTime()
	}

	return snap
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
