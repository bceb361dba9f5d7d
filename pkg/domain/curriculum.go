package domain

// Topic is a single lesson in the curriculum.
type Topic struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`

	// PromptContext is the request sent to the model when the lesson is generated.
	PromptContext string `json:"prompt_context" yaml:"prompt_context" mapstructure:"prompt_context"`
}

// Module groups related topics in display order.
type Module struct {
	ID     string  `json:"id" yaml:"id" mapstructure:"id"`
	Title  string  `json:"title" yaml:"title" mapstructure:"title"`
	Topics []Topic `json:"topics" yaml:"topics" mapstructure:"topics"`
}

// Curriculum is the read-only course catalog.
type Curriculum struct {
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Modules  []Module `json:"modules" yaml:"modules"`

	// SystemInstruction configures the tutor persona for every model request.
	SystemInstruction string `json:"-" yaml:"system_instruction"`
}

// FindTopic looks a topic up by ID.
func (c *Curriculum) FindTopic(id string) (Topic, bool) {
	for _, m := range c.Modules {
		for _, t := range m.Topics {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Topic{}, false
}

// FirstTopic returns the first topic of the first non-empty module.
func (c *Curriculum) FirstTopic() (Topic, bool) {
	for _, m := range c.Modules {
		if len(m.Topics) > 0 {
			return m.Topics[0], true
		}
	}
	return Topic{}, false
}

// Topics flattens the catalog in display order.
func (c *Curriculum) Topics() []Topic {
	var topics []Topic
	for _, m := range c.Modules {
		topics = append(topics, m.Topics...)
	}
	return topics
}

// ModuleOf returns the module containing the topic.
func (c *Curriculum) ModuleOf(topicID string) (Module, bool) {
	for _, m := range c.Modules {
		for _, t := range m.Topics {
			if t.ID == topicID {
				return m, true
			}
		}
	}
	return Module{}, false
}
