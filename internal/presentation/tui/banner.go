package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"   __ _       _             ", "#34d399"},
	{"  / _| | ___ (_) ___  _   _ ", "#2dd4bf"},
	{" | |_| |/ _ \\| |/ _ \\| | | |", "#22d3ee"},
	{" |  _| | (_) | | (_) | |_| |", "#38bdf8"},
	{" |_| |_|\\___// |\\___/ \\__, |", "#60a5fa"},
	{"           |__/       |___/ ", "#818cf8"},
}

// PrintBanner writes the flojoy banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).Profile
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status prints a colored one-line outcome.
type Status struct {
	out *termenv.Output
}

// NewStatus writes status lines to w, colored when w supports it.
func NewStatus(w io.Writer) *Status {
	return &Status{out: termenv.NewOutput(w)}
}

// OK prints a success line.
func (s *Status) OK(format string, args ...any) {
	s.line("✔", "#22c55e", format, args...)
}

// Fail prints a failure line.
func (s *Status) Fail(format string, args ...any) {
	s.line("✘", "#ef4444", format, args...)
}

// Info prints a neutral line.
func (s *Status) Info(format string, args ...any) {
	s.line("•", "#94a3b8", format, args...)
}

func (s *Status) line(mark, color, format string, args ...any) {
	prefix := s.out.String(mark).Foreground(s.out.Color(color)).Bold()
	fmt.Fprintf(s.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
