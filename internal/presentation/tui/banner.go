package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the start-up banner.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.Profile
	lines := []struct {
		text  string
		color string
	}{
		{"  __  __            _             ", "#818cf8"},
		{" |  \\/  | ___ _ __ | |_ ___  _ __ ", "#a78bfa"},
		{" | |\\/| |/ _ \\ '_ \\| __/ _ \\| '__|", "#c084fc"},
		{" | |  | |  __/ | | | || (_) | |   ", "#e879f9"},
		{" |_|  |_|\\___|_| |_|\\__\\___/|_|   ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
