package tui

import (
	"io"
	"strings"

	"github.com/aretw0/mentor/pkg/markdown"
	"github.com/muesli/termenv"
)

// BlockWriter renders tutor markdown for a terminal: paragraphs with bold emphasis,
// and code blocks in a labelled frame with their text passed through untouched.
type BlockWriter struct {
	out *termenv.Output

	// OnBlock, when set, is called once per rendered block.
	OnBlock func(kind markdown.NodeKind)
}

// NewBlockWriter styles for w using the given color profile.
// termenv.Ascii disables all styling.
func NewBlockWriter(w io.Writer, profile termenv.Profile) *BlockWriter {
	return &BlockWriter{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// Render converts markdown to styled text.
func (bw *BlockWriter) Render(text string) string {
	nodes := markdown.RenderNodes(text)
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if bw.OnBlock != nil {
			bw.OnBlock(n.Kind)
		}
		switch n.Kind {
		case markdown.NodeCode:
			parts = append(parts, bw.code(n.Label, n.Code))
		default:
			parts = append(parts, bw.paragraphs(n.Paragraphs))
		}
	}
	return strings.Trim(joinSpaced(parts), "\n")
}

// joinSpaced joins parts with a blank line between them. Newlines already at a
// boundary count toward it, so no part loses any of its own.
func joinSpaced(parts []string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			have := len(parts[i-1]) - len(strings.TrimRight(parts[i-1], "\n"))
			have += len(part) - len(strings.TrimLeft(part, "\n"))
			if have < 2 {
				b.WriteString(strings.Repeat("\n", 2-have))
			}
		}
		b.WriteString(part)
	}
	return b.String()
}

// Renderer adapts Render to the func(string) (string, error) shape used by the runner.
func (bw *BlockWriter) Renderer() func(string) (string, error) {
	return func(text string) (string, error) {
		return bw.Render(text), nil
	}
}

// Write renders text to the writer.
func (bw *BlockWriter) Write(text string) error {
	_, err := io.WriteString(bw.out, bw.Render(text)+"\n")
	return err
}

func (bw *BlockWriter) paragraphs(ps []markdown.Paragraph) string {
	rendered := make([]string, 0, len(ps))
	for _, p := range ps {
		var b strings.Builder
		for _, span := range p {
			if span.IsEmphasis() {
				b.WriteString(bw.out.String(span.Text).Bold().String())
				continue
			}
			b.WriteString(span.Text)
		}
		rendered = append(rendered, b.String())
	}
	return joinSpaced(rendered)
}

func (bw *BlockWriter) code(label, code string) string {
	p := bw.out.Profile
	var b strings.Builder
	b.WriteString(bw.out.String("┌─ " + label).Foreground(p.Color("#818cf8")).String())
	for _, line := range strings.Split(code, "\n") {
		b.WriteString("\n")
		b.WriteString(bw.out.String("│ ").Faint().String())
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(bw.out.String("└─").Faint().String())
	return b.String()
}
