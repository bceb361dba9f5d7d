package markdown

import "regexp"

// emphasisPattern does not cross newlines and allows empty content ("****").
var emphasisPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// SpanKind distinguishes plain text from bold emphasis.
type SpanKind string

const (
	SpanPlain    SpanKind = "plain"
	SpanEmphasis SpanKind = "emphasis"
)

// Span is a piece of inline text.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// Plain returns a plain span.
func Plain(text string) Span { return Span{Kind: SpanPlain, Text: text} }

// Emphasis returns a bold span.
func Emphasis(text string) Span { return Span{Kind: SpanEmphasis, Text: text} }

// IsEmphasis reports whether the span renders bold.
func (s Span) IsEmphasis() bool { return s.Kind == SpanEmphasis }

// Tokenize splits a paragraph into plain and emphasis spans, left to right.
// Plain spans surround every emphasis span, even when empty, so a paragraph with n
// emphasis spans has 2n+1 spans. Text without a closed pair is one plain span.
func Tokenize(paragraph string) Paragraph {
	matches := emphasisPattern.FindAllStringSubmatchIndex(paragraph, -1)
	spans := make(Paragraph, 0, 2*len(matches)+1)

	last := 0
	for _, m := range matches {
		spans = append(spans,
			Plain(paragraph[last:m[0]]),
			Emphasis(paragraph[m[2]:m[3]]),
		)
		last = m[1]
	}
	return append(spans, Plain(paragraph[last:]))
}
