package markdown

// NodeKind names the display container for a Node.
type NodeKind string

const (
	NodeText NodeKind = "text"
	NodeCode NodeKind = "code"
)

// Node is the display-ready form of a Block, suitable for JSON clients and terminal writers.
type Node struct {
	Kind       NodeKind    `json:"kind"`
	Label      string      `json:"label,omitempty"`
	Code       string      `json:"code,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
}

// Present maps blocks to nodes one to one, preserving order.
func Present(blocks []Block) []Node {
	nodes := make([]Node, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case TextBlock:
			nodes = append(nodes, Node{Kind: NodeText, Paragraphs: v.Paragraphs})
		case CodeBlock:
			nodes = append(nodes, Node{Kind: NodeCode, Label: v.Label(), Code: v.Code})
		}
	}
	return nodes
}

// RenderNodes is Render followed by Present.
func RenderNodes(text string) []Node {
	return Present(Render(text))
}
