package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mentor/pkg/domain"
)

// Overlay marks learner progress on the map.
type Overlay struct {
	CurrentTopic string
}

// GenerateMermaid produces a Mermaid flowchart of the curriculum as a learning path.
// Shapes:
// - Course: ((Circle))
// - Module: [[Subroutine]]
// - Topic: [Rectangle]
// Topics inside a module are chained in order; the hop to the next module is dotted.
func GenerateMermaid(c *domain.Curriculum, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if c == nil {
		return sb.String()
	}

	root := "course"
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", root, escapeLabel(c.Title)))

	var lastTopic string
	for _, m := range c.Modules {
		moduleID := "module_" + sanitizeMermaidID(m.ID)
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", moduleID, escapeLabel(m.Title)))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", root, moduleID))

		prev := moduleID
		for i, t := range m.Topics {
			topicID := "topic_" + sanitizeMermaidID(t.ID)
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", topicID, escapeLabel(t.Title)))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, topicID))
			if i == 0 && lastTopic != "" {
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", lastTopic, topicID))
			}
			prev = topicID
		}
		if len(m.Topics) > 0 {
			lastTopic = prev
		}
	}

	if overlay != nil && overlay.CurrentTopic != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class topic_%s current;\n", sanitizeMermaidID(overlay.CurrentTopic)))
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
