package ports

import (
	"context"

	"github.com/aretw0/mentor/pkg/domain"
)

// CurriculumSource provides the course catalog.
type CurriculumSource interface {
	Curriculum(ctx context.Context) (*domain.Curriculum, error)
}
