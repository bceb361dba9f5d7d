// Package curriculum loads the course catalog shown by the tutor.
package curriculum

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mentor/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed curriculum.yaml
var defaultCatalog []byte

// Default returns the built-in Unreal C++ course.
func Default() (*domain.Curriculum, error) {
	return Parse(defaultCatalog, ".yaml")
}

// Load reads a catalog file. JSON is used for ".json", YAML otherwise.
func Load(path string) (*domain.Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curriculum: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes and validates a catalog.
func Parse(data []byte, ext string) (*domain.Curriculum, error) {
	var c domain.Curriculum
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse curriculum json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse curriculum yaml: %w", err)
		}
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks IDs are present and unique and that every topic can be taught.
func Validate(c *domain.Curriculum) error {
	if len(c.Modules) == 0 {
		return fmt.Errorf("curriculum has no modules")
	}

	modules := make(map[string]bool)
	topics := make(map[string]string)
	for _, m := range c.Modules {
		if m.ID == "" {
			return fmt.Errorf("module %q is missing an id", m.Title)
		}
		if modules[m.ID] {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		modules[m.ID] = true

		for _, t := range m.Topics {
			if t.ID == "" {
				return fmt.Errorf("topic %q in module %s is missing an id", t.Title, m.ID)
			}
			if owner, ok := topics[t.ID]; ok {
				return fmt.Errorf("topic id %q is defined in both %s and %s", t.ID, owner, m.ID)
			}
			topics[t.ID] = m.ID
			if strings.TrimSpace(t.PromptContext) == "" {
				return fmt.Errorf("topic %s has no prompt context", t.ID)
			}
		}
	}
	return nil
}

// Source implements ports.CurriculumSource over a file or the built-in catalog.
type Source struct {
	Path string
}

// Curriculum loads Path, or the default catalog when Path is empty.
func (s Source) Curriculum(ctx context.Context) (*domain.Curriculum, error) {
	if s.Path == "" {
		return Default()
	}
	return Load(s.Path)
}
