package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/mentor/pkg/curriculum"
	"github.com/aretw0/mentor/pkg/domain"
)

// Loader adapts a Loam repository of markdown topic files to ports.CurriculumSource.
type Loader struct {
	Repo  *loam.TypedRepository[TopicMetadata]
	Title string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[TopicMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only repository rooted at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve curriculum path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	l := New(loam.NewTypedRepository[TopicMetadata](repo))
	l.Title = filepath.Base(absPath)
	return l, nil
}

// Curriculum builds the catalog from every topic document, ordered by document ID.
func (l *Loader) Curriculum(ctx context.Context) (*domain.Curriculum, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	c := &domain.Curriculum{Title: l.Title}
	index := make(map[string]int)
	seen := make(map[string]string)

	for _, doc := range docs {
		meta := doc.Data
		if meta.Kind == kindSystem {
			c.SystemInstruction = strings.TrimSpace(doc.Content)
			continue
		}
		if meta.Module == "" {
			continue
		}

		id := meta.ID
		if id == "" {
			id = doc.ID
		}
		id = trimExtension(id)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		pos, ok := index[meta.Module]
		if !ok {
			pos = len(c.Modules)
			index[meta.Module] = pos
			c.Modules = append(c.Modules, domain.Module{ID: meta.Module, Title: meta.ModuleTitle})
		}
		if c.Modules[pos].Title == "" {
			c.Modules[pos].Title = meta.ModuleTitle
		}

		title := meta.Title
		if title == "" {
			title = id
		}
		c.Modules[pos].Topics = append(c.Modules[pos].Topics, domain.Topic{
			ID:            id,
			Title:         title,
			Description:   meta.Description,
			PromptContext: strings.TrimSpace(doc.Content),
		})
	}

	if err := curriculum.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
