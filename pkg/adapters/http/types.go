package http

import (
	"time"

	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
)

type renderRequest struct {
	Text string `json:"text"`
}

type renderResponse struct {
	Nodes []markdown.Node `json:"nodes"`
}

type topicRequest struct {
	TopicID string `json:"topic_id"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type viewRequest struct {
	View domain.ViewMode `json:"view"`
}

type topicDetail struct {
	Topic       domain.Topic    `json:"topic"`
	ModuleID    string          `json:"module_id"`
	ModuleTitle string          `json:"module_title"`
	Lesson      string          `json:"lesson,omitempty"`
	LessonNodes []markdown.Node `json:"lesson_nodes,omitempty"`
}

type messageView struct {
	domain.Message
	Nodes []markdown.Node `json:"nodes"`
}

type conversationView struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Available     bool            `json:"available"`
	View          domain.ViewMode `json:"view"`
	ActiveTopic   *domain.Topic   `json:"active_topic,omitempty"`
	Lesson        string          `json:"lesson"`
	LessonNodes   []markdown.Node `json:"lesson_nodes,omitempty"`
	LessonLoading bool            `json:"lesson_loading"`
	ChatLoading   bool            `json:"chat_loading"`
	Messages      []messageView   `json:"messages"`
}
