package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how events are written.
type Format string

const (
	// FormatText writes "File <Kind>: <quoted path>" lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want %q or %q)", s, FormatText, FormatJSON)
	}
}

// Printer writes poll results to an output stream.
type Printer struct {
	w      io.Writer
	format Format
	term   *termenv.Output
	now    func() time.Time
}

// NewPrinter returns a Printer writing to w. Kind labels are colored only
// when w is a terminal.
func NewPrinter(w io.Writer, format Format) *Printer {
	var opts []termenv.OutputOption
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	if format == "" {
		format = FormatText
	}
	return &Printer{
		w:      w,
		format: format,
		term:   termenv.NewOutput(w, opts...),
		now:    time.Now,
	}
}

type jsonRecord struct {
	Kind string    `json:"kind"`
	Path string    `json:"path"`
	Time time.Time `json:"time"`
}

// Banner announces the directory being monitored.
func (p *Printer) Banner(dir string) error {
	if p.format == FormatJSON {
		return json.NewEncoder(p.w).Encode(jsonRecord{Kind: "monitoring", Path: dir, Time: p.now()})
	}
	_, err := fmt.Fprintf(p.w, "Monitoring Directory: %s\n", dir)
	return err
}

// Print writes one line per event. It has the signature of an EmitFunc.
func (p *Printer) Print(events []Event) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.w)
		now := p.now()
		for _, ev := range events {
			kind, err := ev.Kind.MarshalText()
			if err != nil {
				return err
			}
			if err := enc.Encode(jsonRecord{Kind: string(kind), Path: ev.Path, Time: now}); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ev := range events {
		if _, err := fmt.Fprintf(p.w, "File %s: %q\n", p.label(ev.Kind), ev.Path); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) label(k Kind) string {
	var color string
	switch k {
	case Created:
		color = "2"
	case Modified:
		color = "3"
	case Deleted:
		color = "1"
	default:
		return k.String()
	}
	return p.term.String(k.String()).Foreground(p.term.Color(color)).String()
}
