// Package catalog holds the static category-to-keyword catalogue that
// drives data fetching. The default catalogue is embedded; extra files can
// be merged in via glob patterns from the configuration.
package catalog

import (
	"embed"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"finsight/internal/domain"
)

//go:embed data/default.yaml
var defaultCatalog embed.FS

// Catalog is an immutable, ordered set of keyword categories. It is built
// once at startup and passed into the matcher; nothing mutates it afterwards.
type Catalog struct {
	categories []domain.KeywordCategory
	byID       map[string]int
}

type catalogFile struct {
	Categories []domain.KeywordCategory `yaml:"categories"`
}

// New builds a catalogue from an explicit category list.
func New(categories []domain.KeywordCategory) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(categories))}
	for _, cat := range categories {
		c.put(cat)
	}
	return c
}

// Default returns the embedded default catalogue.
func Default() (*Catalog, error) {
	data, err := defaultCatalog.ReadFile("data/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalogue: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalogue: %w", err)
	}

	return New(file.Categories), nil
}

// Load returns the default catalogue with any categories from files
// matching the given glob patterns merged on top. A category sharing an ID
// with an existing entry replaces it in place, keeping declaration order.
func Load(patterns []string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	for _, pattern := range patterns {
		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad catalogue pattern %q: %w", pattern, err)
		}
		for _, path := range paths {
			if err := c.mergeFile(path); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Catalog) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalogue file %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalogue file %s: %w", path, err)
	}

	for _, cat := range file.Categories {
		c.put(cat)
	}
	return nil
}

func (c *Catalog) put(cat domain.KeywordCategory) {
	if i, ok := c.byID[cat.ID]; ok {
		c.categories[i] = cat
		return
	}
	c.byID[cat.ID] = len(c.categories)
	c.categories = append(c.categories, cat)
}

// Categories returns categories in declaration order.
func (c *Catalog) Categories() []domain.KeywordCategory {
	return c.categories
}

// Get returns the category with the given ID.
func (c *Catalog) Get(id string) (domain.KeywordCategory, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.KeywordCategory{}, false
	}
	return c.categories[i], true
}
