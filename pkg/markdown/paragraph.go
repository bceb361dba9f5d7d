package markdown

import "strings"

const paragraphSeparator = "\n\n"

// Paragraph is an ordered run of spans.
type Paragraph []Span

// SplitParagraphs breaks a text run on blank lines.
// A run that is blank after trimming yields no paragraphs. Zero-length pieces left by a
// leading or trailing separator are dropped; whitespace inside the remaining pieces is kept.
func SplitParagraphs(run string) []Paragraph {
	if strings.TrimSpace(run) == "" {
		return nil
	}

	pieces := strings.Split(run, paragraphSeparator)
	paragraphs := make([]Paragraph, 0, len(pieces))
	for _, p := range pieces {
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, Tokenize(p))
	}
	return paragraphs
}
