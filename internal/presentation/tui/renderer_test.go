package tui_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/fieldline/internal/presentation/tui"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *domain.TraceRecord {
	req := domain.NewTraceRequest(domain.Vec3{X: 3}, domain.Forward)
	return &domain.TraceRecord{
		ID:      "00000000deadbeef",
		Request: req,
		Result: &domain.TraceResult{
			Points:      make([]domain.Vec3, 1234),
			Endpoint:    domain.Vec3{Z: 1},
			Reason:      domain.ReasonInnerBoundary,
			Steps:       1233,
			Rejected:    7,
			Evaluations: 12345,
			ArcLength:   4.25,
		},
	}
}

func TestPlain(t *testing.T) {
	out := tui.Plain(sampleRecord())

	assert.Contains(t, out, "00000000deadbeef")
	assert.Contains(t, out, "dipole + zero")
	assert.Contains(t, out, "inner_boundary")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "(7 rejected)")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "r=1.0000")
	assert.NotContains(t, out, "error")
}

func TestPlain_Fatal(t *testing.T) {
	rec := sampleRecord()
	rec.Result.Reason = domain.ReasonDegenerateField
	rec.Error = "degenerate field: |B| = 0 nT"

	out := tui.Plain(rec)
	assert.Contains(t, out, "degenerate_field")
	assert.Contains(t, out, "degenerate field: |B| = 0 nT")
}

func TestMarkdown(t *testing.T) {
	md := tui.Markdown(sampleRecord())

	assert.True(t, strings.HasPrefix(md, "# Trace `00000000deadbeef`"))
	assert.Contains(t, md, "| Reason | inner_boundary |")
	assert.Contains(t, md, "| Arc length | 4.250 Re |")
}

func TestWrite(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tui.Write(&buf, sampleRecord(), false, 80))
		assert.Equal(t, tui.Plain(sampleRecord()), buf.String())
	})

	t.Run("Rendered", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tui.Write(&buf, sampleRecord(), true, 80))
		assert.Contains(t, buf.String(), "inner_boundary")
	})
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_| |_|")
}

func TestTerminalDetection(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, tui.IsTerminal(f))
	assert.Equal(t, 72, tui.Width(f, 72))
}
