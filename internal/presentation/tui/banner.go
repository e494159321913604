package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"   __ _      _     _ _ _            ", "#38bdf8"},
	{"  / _(_)    | |   | | (_)           ", "#22d3ee"},
	{" | |_ _  ___| | __| | |_ _ __   ___ ", "#2dd4bf"},
	{" |  _| |/ _ \\ |/ _` | | | '_ \\ / _ \\", "#34d399"},
	{" | | | |  __/ | (_| | | | | | |  __/", "#4ade80"},
	{" |_| |_|\\___|_|\\__,_|_|_|_| |_|\\___|", "#a3e635"},
}

// PrintBanner writes the fieldline banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
