package monitor

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options configures a Monitor.
type Options struct {
	// Ignore lists .dockerignore style patterns for names to leave out of scans.
	Ignore []string
	// Logger receives debug output about skipped entries. Defaults to a discarding logger.
	Logger *logrus.Entry
}

// Monitor holds the state carried from one poll cycle to the next: the
// directory being watched and the snapshot taken on the previous cycle.
//
// A Monitor is not safe for concurrent use. It is meant to be owned by the
// single loop that drives it.
type Monitor struct {
	dir      string
	ignore   *Matcher
	logger   *logrus.Entry
	readDir  readDirFunc
	previous Snapshot
}

// New creates a Monitor for dir with an empty previous snapshot. The
// directory is resolved to an absolute path so reported paths are absolute.
// The directory is not checked here; a missing directory scans as empty.
func New(dir string, opts Options) (*Monitor, error) {
	ignore, err := NewMatcher(opts.Ignore)
	if err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Monitor{
		dir:      dir,
		ignore:   ignore,
		logger:   logger,
		readDir:  os.ReadDir,
		previous: make(Snapshot),
	}, nil
}

// Dir returns the absolute path of the monitored directory.
func (m *Monitor) Dir() string {
	return m.dir
}

// Snapshot returns a copy of the snapshot taken on the most recent cycle.
func (m *Monitor) Snapshot() Snapshot {
	return m.previous.Clone()
}

// Detect scans the directory, diffs the result against the previous
// snapshot, and stores the new scan as the previous snapshot.
func (m *Monitor) Detect() []Event {
	current := scan(m.dir, m.readDir, m.ignore, m.logger)
	events := Diff(m.previous, current)
	m.previous = current

	if len(events) > 0 {
		m.logger.WithField("changes", len(events)).Debug("Detected changes")
	}
	return events
}
