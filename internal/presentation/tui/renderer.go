package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or fallback when it has none.
func Width(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// NewRenderer returns a function that renders markdown using glamour,
// wrapped at width columns.
func NewRenderer(width int) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render, nil
}

// Markdown summarizes a trace record as a markdown document.
func Markdown(rec *domain.TraceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trace `%s`\n\n", rec.ID)
	fmt.Fprintf(&b, "Models: **%s** + **%s**\n\n", rec.Request.Internal.Name, rec.Request.External.Name)

	b.WriteString("| | |\n|---|---|\n")
	for _, row := range rows(rec) {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
	}
	if rec.Error != "" {
		fmt.Fprintf(&b, "\n> %s\n", rec.Error)
	}
	return b.String()
}

// Plain summarizes a trace record as aligned text lines.
func Plain(rec *domain.TraceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %s\n", "trace", rec.ID)
	fmt.Fprintf(&b, "%-12s %s + %s\n", "models", rec.Request.Internal.Name, rec.Request.External.Name)
	for _, row := range rows(rec) {
		fmt.Fprintf(&b, "%-12s %s\n", strings.ToLower(row[0]), row[1])
	}
	if rec.Error != "" {
		fmt.Fprintf(&b, "%-12s %s\n", "error", rec.Error)
	}
	return b.String()
}

// Write prints the record summary, rendered through glamour when pretty.
func Write(w io.Writer, rec *domain.TraceRecord, pretty bool, width int) error {
	if !pretty {
		_, err := io.WriteString(w, Plain(rec))
		return err
	}
	render, err := NewRenderer(width)
	if err != nil {
		return err
	}
	out, err := render(Markdown(rec))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func rows(rec *domain.TraceRecord) [][2]string {
	start := rec.Request.Config.Start
	out := [][2]string{
		{"Start", formatVec(start)},
	}
	res := rec.Result
	if res == nil {
		return out
	}
	return append(out,
		[2]string{"Reason", string(res.Reason)},
		[2]string{"Endpoint", fmt.Sprintf("%s r=%.4f", formatVec(res.Endpoint), res.Endpoint.Norm())},
		[2]string{"Points", humanize.Comma(int64(len(res.Points)))},
		[2]string{"Steps", fmt.Sprintf("%s (%s rejected)", humanize.Comma(int64(res.Steps)), humanize.Comma(int64(res.Rejected)))},
		[2]string{"Evaluations", humanize.Comma(int64(res.Evaluations))},
		[2]string{"Arc length", humanize.FormatFloat("#,###.###", res.ArcLength) + " Re"},
	)
}

func formatVec(v domain.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
