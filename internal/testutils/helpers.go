package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TopicFile is one markdown document of a curriculum repository.
// Empty fields are left out of the frontmatter so loaders can apply their defaults.
type TopicFile struct {
	Name string `yaml:"-"`
	Body string `yaml:"-"`

	Kind        string `yaml:"kind,omitempty"`
	Module      string `yaml:"module,omitempty"`
	ModuleTitle string `yaml:"module_title,omitempty"`
	ID          string `yaml:"id,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Markdown renders the file as frontmatter followed by the body.
func (f TopicFile) Markdown() (string, error) {
	meta, err := yaml.Marshal(f)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("---\n")
	if string(meta) != "{}\n" {
		b.Write(meta)
	}
	b.WriteString("---\n")
	b.WriteString(f.Body)
	return b.String(), nil
}

// SystemFile holds the tutor persona of a curriculum.
func SystemFile(name, instruction string) TopicFile {
	return TopicFile{Name: name, Kind: "system", Body: instruction}
}

// GoCourse is a small two-module curriculum in listing order.
func GoCourse() []TopicFile {
	return []TopicFile{
		SystemFile("00-system.md", "You are a patient Go tutor."),
		{
			Name: "01-vars.md", Module: "basics", ModuleTitle: "Basics",
			ID: "vars", Title: "Variables", Description: "var and :=",
			Body: "Explain Go variable declarations.",
		},
		{
			Name: "02-funcs.md", Module: "basics", Title: "Functions",
			Body: "Explain Go functions.",
		},
		{
			Name: "03-chan.md", Module: "concurrency", ModuleTitle: "Concurrency",
			ID: "chan", Title: "Channels",
			Body: "Explain channels.",
		},
	}
}

// SetupCurriculumRepo creates a temporary Loam repository holding files and returns
// its absolute path and the initialized repository. It fails the test immediately on error.
func SetupCurriculumRepo(t *testing.T, files []TopicFile, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	for _, f := range files {
		content, err := f.Markdown()
		require.NoError(t, err, "Failed to render %s", f.Name)
		require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), []byte(content), 0644), "Failed to seed %s", f.Name)
	}
	return dir, repo
}
