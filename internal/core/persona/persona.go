// Package persona loads and validates the bundled agent persona documents:
// markdown files with YAML front matter describing an agent identity, its
// role, and the surfaces it watches.
package persona

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a persona does not exist.
var ErrNotFound = errors.New("persona not found")

// Frontmatter holds metadata parsed from a persona's YAML front matter.
type Frontmatter struct {
	Name     string   `yaml:"name"`
	Role     string   `yaml:"role"`
	Surfaces []string `yaml:"surfaces"`
}

// Persona is one agent identity document.
type Persona struct {
	// Name from front matter, falling back to the file basename.
	Name string
	// Role is a short description of the persona's function.
	Role string
	// Surfaces lists the surface keys this persona cares about.
	Surfaces []string
	// Path is the source file.
	Path string
	// Body is the markdown content below the front matter.
	Body string
}

// Load reads every .md file in dir, sorted by name. A missing directory
// yields an empty list, not an error.
func Load(dir string) ([]Persona, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read personas dir: %w", err)
	}

	var personas []Persona
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		p, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load persona %s: %w", entry.Name(), err)
		}
		personas = append(personas, p)
	}

	sort.Slice(personas, func(i, j int) bool { return personas[i].Name < personas[j].Name })

	return personas, nil
}

// Find returns the persona with the given name.
func Find(personas []Persona, name string) (Persona, error) {
	for _, p := range personas {
		if p.Name == name {
			return p, nil
		}
	}
	return Persona{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Match filters personas by a doublestar glob pattern against the persona
// name. An empty pattern matches everything.
func Match(personas []Persona, pattern string) ([]Persona, error) {
	if pattern == "" {
		return personas, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var matched []Persona
	for _, p := range personas {
		ok, err := doublestar.Match(pattern, p.Name)
		if err != nil {
			return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

// Validate checks a persona against the set of configured surface keys.
func (p Persona) Validate(knownSurfaces map[string]bool) error {
	if p.Role == "" {
		return fmt.Errorf("persona %q: role is required", p.Name)
	}

	for _, key := range p.Surfaces {
		if !knownSurfaces[key] {
			return fmt.Errorf("persona %q: unknown surface %q", p.Name, key)
		}
	}

	return nil
}

func loadFile(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, err
	}

	fm, body := parseFrontmatter(string(data))

	name := fm.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return Persona{
		Name:     name,
		Role:     fm.Role,
		Surfaces: fm.Surfaces,
		Path:     path,
		Body:     body,
	}, nil
}

// parseFrontmatter extracts YAML front matter delimited by "---" lines at
// the start of the document. Missing or malformed front matter produces
// zero values and the full content as body.
func parseFrontmatter(content string) (Frontmatter, string) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return Frontmatter{}, content
	}

	var lines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		lines = append(lines, line)
	}

	if !closed {
		return Frontmatter{}, content
	}

	var body strings.Builder
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteString("\n")
	}

	var fm Frontmatter
	_ = yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &fm)

	return fm, strings.TrimLeft(body.String(), "\n")
}
