package advisor

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultCategoriesYAML []byte

type categoriesYAML struct {
	Vocabulary []string       `yaml:"vocabulary"`
	Categories []categoryYAML `yaml:"categories"`
}

type categoryYAML struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Categories maps localized category names onto the catalog's canonical names.
// A Categories value is read-only after construction.
type Categories struct {
	vocabulary []string
	canonical  map[string]string
}

// DefaultCategories returns the table shipped with the package.
func DefaultCategories() *Categories {
	c, err := ParseCategories(defaultCategoriesYAML)
	if err != nil {
		panic(fmt.Sprintf("advisor: embedded categories: %v", err))
	}
	return c
}

// LoadCategories reads a category table from a YAML file.
func LoadCategories(path string) (*Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	return ParseCategories(data)
}

// ParseCategories builds a category table from YAML.
func ParseCategories(data []byte) (*Categories, error) {
	var raw categoriesYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse categories YAML: %w", err)
	}
	if len(raw.Categories) == 0 {
		return nil, fmt.Errorf("categories table is empty")
	}

	c := &Categories{canonical: make(map[string]string)}
	for _, cat := range raw.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category without name")
		}
		c.canonical[strings.ToLower(name)] = name
		for _, alias := range cat.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if existing, ok := c.canonical[key]; ok && existing != name {
				return nil, fmt.Errorf("alias %q maps to both %s and %s", alias, existing, name)
			}
			c.canonical[key] = name
		}
	}

	c.vocabulary = raw.Vocabulary
	if len(c.vocabulary) == 0 {
		for _, cat := range raw.Categories {
			c.vocabulary = append(c.vocabulary, cat.Name)
		}
	}
	return c, nil
}

// Canonical returns the catalog name for a category, or the input unchanged when unknown.
func (c *Categories) Canonical(name string) string {
	if canonical, ok := c.canonical[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// Vocabulary lists the category names offered to the model.
func (c *Categories) Vocabulary() []string {
	return append([]string(nil), c.vocabulary...)
}
