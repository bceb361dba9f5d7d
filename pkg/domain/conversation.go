package domain

import "time"

// Conversation is one learner's tutoring session: the active topic, the generated lesson,
// the chat log and the model session backing it. It is process-local and never persisted.
type Conversation struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ActiveTopic *Topic    `json:"active_topic,omitempty"`
	View        ViewMode  `json:"view"`
	Messages    []Message `json:"messages"`

	Lesson        string `json:"lesson"`
	LessonLoading bool   `json:"lesson_loading"`
	ChatLoading   bool   `json:"chat_loading"`

	// Session is nil when the model could not be initialized.
	Session *ModelSession `json:"-"`
}

// Available reports whether questions can be sent to the model.
func (c *Conversation) Available() bool {
	return c.Session != nil
}

// Append adds a message to the end of the log.
func (c *Conversation) Append(m Message) {
	c.Messages = append(c.Messages, m)
}

// Replace swaps the message with the given ID for m, keeping its position.
// It reports whether the ID was found.
func (c *Conversation) Replace(id string, m Message) bool {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			c.Messages[i] = m
			return true
		}
	}
	return false
}

// Snapshot returns a copy that shares no mutable state with c.
func (c *Conversation) Snapshot() Conversation {
	out := *c
	out.Messages = append([]Message(nil), c.Messages...)
	if c.ActiveTopic != nil {
		t := *c.ActiveTopic
		out.ActiveTopic = &t
	}
	out.Session = c.Session.Clone()
	return out
}
