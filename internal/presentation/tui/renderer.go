package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/mentor/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders full markdown using glamour.
// Styles follow the terminal background; plain selects the unstyled "notty" theme.
func NewRenderer(width int, plain bool) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if plain {
		opts = []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// CurriculumDocument formats the catalog as a markdown document.
func CurriculumDocument(c *domain.Curriculum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	if c.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Subtitle)
	}
	for _, m := range c.Modules {
		fmt.Fprintf(&b, "## %s\n\n", m.Title)
		for _, t := range m.Topics {
			fmt.Fprintf(&b, "- `%s` **%s**", t.ID, t.Title)
			if t.Description != "" {
				fmt.Fprintf(&b, ": %s", t.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
