package loam

// TopicMetadata is the frontmatter of a topic document.
// The document body becomes the topic's prompt context.
type TopicMetadata struct {
	ID          string `json:"id" mapstructure:"id"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description" mapstructure:"description"`

	// Module groups topics; modules appear in the order their first topic is listed.
	Module      string `json:"module" mapstructure:"module"`
	ModuleTitle string `json:"module_title" mapstructure:"module_title"`

	// Kind is empty for topics. "system" marks the document holding the tutor instruction.
	Kind string `json:"kind" mapstructure:"kind"`
}

const kindSystem = "system"
