package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Category is a forum or document category definition.
type Category struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type catalogFile struct {
	ForumCategories    []Category `json:"forum_categories"`
	DocumentCategories []Category `json:"document_categories"`
}

// Catalog holds the category definitions loaded at startup. Categories
// are static product configuration, not user data, so they live in a
// JSON file next to the binary rather than in the database.
type Catalog struct {
	mu       sync.RWMutex
	forum    map[string]Category
	document map[string]Category
}

func New() *Catalog {
	return &Catalog{
		forum:    make(map[string]Category),
		document: make(map[string]Category),
	}
}

func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse category catalog: %w", err)
	}

	cat := New()
	for _, c := range file.ForumCategories {
		cat.forum[c.Value] = c
	}
	for _, c := range file.DocumentCategories {
		cat.document[c.Value] = c
	}
	return cat, nil
}

// ForumCategories returns all forum category definitions.
func (c *Catalog) ForumCategories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Category, 0, len(c.forum))
	for _, cat := range c.forum {
		out = append(out, cat)
	}
	return out
}

// DocumentCategories returns all document category definitions.
func (c *Catalog) DocumentCategories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Category, 0, len(c.document))
	for _, cat := range c.document {
		out = append(out, cat)
	}
	return out
}

// ValidForumCategory reports whether value is a known forum category.
func (c *Catalog) ValidForumCategory(value string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.forum[value]
	return ok
}

// ValidDocumentCategory reports whether value is a known document category.
func (c *Catalog) ValidDocumentCategory(value string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.document[value]
	return ok
}
