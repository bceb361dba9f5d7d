package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/mentor/pkg/domain"
)

// Loader implements ports.CurriculumSource from an in-memory catalog.
type Loader struct {
	curriculum *domain.Curriculum
}

// NewLoader wraps an already built curriculum.
func NewLoader(c *domain.Curriculum) *Loader {
	return &Loader{curriculum: c}
}

// NewFromTopics builds a single-module curriculum, which keeps tests short.
func NewFromTopics(title string, topics ...domain.Topic) (*Loader, error) {
	for _, t := range topics {
		if t.ID == "" {
			return nil, fmt.Errorf("topic missing ID")
		}
	}
	return &Loader{curriculum: &domain.Curriculum{
		Title: title,
		Modules: []domain.Module{
			{ID: "m1", Title: title, Topics: topics},
		},
	}}, nil
}

// Curriculum returns the wrapped catalog.
func (l *Loader) Curriculum(ctx context.Context) (*domain.Curriculum, error) {
	if l.curriculum == nil {
		return nil, fmt.Errorf("no curriculum loaded")
	}
	return l.curriculum, nil
}
