package markdown

import "regexp"

// fencePattern matches a fenced code block. The body is non-greedy, so a fence whose interior
// contains three backticks closes at the first of them.
var fencePattern = regexp.MustCompile("```(\\w*)\\n([\\s\\S]*?)```")

// Segment is a run of source text, either plain prose or a fenced code block.
type Segment interface {
	segment()
}

// TextSegment is the plain text found between fences.
type TextSegment struct {
	Text string
}

// FenceSegment is a fenced code block as written in the source.
// Language keeps the raw tag, which may be empty.
type FenceSegment struct {
	Language string
	Body     string
}

func (TextSegment) segment()  {}
func (FenceSegment) segment() {}

// Split partitions text into alternating text and fence segments in source order.
// A text segment precedes every fence and one trails the last fence, even when empty.
func Split(text string) []Segment {
	if text == "" {
		return nil
	}

	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	segments := make([]Segment, 0, 2*len(matches)+1)

	last := 0
	for _, m := range matches {
		segments = append(segments,
			TextSegment{Text: text[last:m[0]]},
			FenceSegment{Language: text[m[2]:m[3]], Body: text[m[4]:m[5]]},
		)
		last = m[1]
	}
	return append(segments, TextSegment{Text: text[last:]})
}
