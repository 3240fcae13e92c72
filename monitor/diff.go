package monitor

import (
	"fmt"
	"strings"
)

// Kind is the type of change observed for a file between two snapshots.
type Kind int

const (
	Created Kind = iota + 1
	Modified
	Deleted
)

// String returns the capitalized name of the kind, e.g. "Created".
func (k Kind) String() string {
	switch k {
	case Created:
		return "Created"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind in lower case for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Created, Modified, Deleted:
		return []byte(strings.ToLower(k.String())), nil
	default:
		return nil, fmt.Errorf("unknown change kind %d", int(k))
	}
}

// Event reports a single change to a single file.
type Event struct {
	Path string
	Kind Kind
}

// Diff compares the previous snapshot with the current one.
//
// A path only in curr is Created. A path in both whose time in curr is
// strictly after its time in prev is Modified; an equal or earlier time is no
// change. A path only in prev is Deleted. All Created and Modified events come
// before all Deleted events. Order within each group follows map iteration
// and is unspecified.
func Diff(prev, curr Snapshot) []Event {
	var events []Event

	for path, modTime := range curr {
		prevTime, ok := prev[path]
		switch {
		case !ok:
			events = append(events, Event{Path: path, Kind: Created})
		case modTime.After(prevTime):
			events = append(events, Event{Path: path, Kind: Modified})
		}
	}

	for path := range prev {
		if _, ok := curr[path]; !ok {
			events = append(events, Event{Path: path, Kind: Deleted})
		}
	}

	return events
}
