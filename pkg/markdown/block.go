package markdown

import "strings"

// DefaultLanguage labels code fences written without a language tag.
const DefaultLanguage = "text"

// Block is a display unit: a TextBlock or a CodeBlock.
type Block interface {
	block()
}

// TextBlock holds the paragraphs of one run of prose.
type TextBlock struct {
	Paragraphs []Paragraph
}

// CodeBlock holds a fenced code body with its outer whitespace trimmed.
// Language is the raw tag from the fence and may be empty; use Label for display.
type CodeBlock struct {
	Language string
	Code     string
}

func (TextBlock) block() {}
func (CodeBlock) block() {}

// Label returns the language shown on the code container.
func (c CodeBlock) Label() string {
	if c.Language == "" {
		return DefaultLanguage
	}
	return c.Language
}

// Render converts raw text into blocks in source order.
// Blank text runs, including those between adjacent fences, produce no block.
func Render(text string) []Block {
	var blocks []Block
	for _, seg := range Split(text) {
		switch s := seg.(type) {
		case TextSegment:
			if paragraphs := SplitParagraphs(s.Text); len(paragraphs) > 0 {
				blocks = append(blocks, TextBlock{Paragraphs: paragraphs})
			}
		case FenceSegment:
			blocks = append(blocks, CodeBlock{
				Language: s.Language,
				Code:     strings.TrimSpace(s.Body),
			})
		}
	}
	return blocks
}
