// Package skills matches documents against a static, categorised catalog of skill phrases.
package skills

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category names a group of related skills in the catalog.
type Category string

const (
	ProgrammingLanguages Category = "programming_languages"
	WebTechnologies      Category = "web_technologies"
	Databases            Category = "databases"
	CloudPlatforms       Category = "cloud_platforms"
	DevOpsTools          Category = "devops_tools"
	DataScienceML        Category = "data_science_ml"
	BusinessIntelligence Category = "business_intelligence"
	MobileDevelopment    Category = "mobile_development"
	Testing              Category = "testing"
	Methodologies        Category = "methodologies"
	SoftSkills           Category = "soft_skills"
	OtherTechnical       Category = "other_technical"
)

// Categories lists every known category in display order.
var Categories = []Category{
	ProgrammingLanguages,
	WebTechnologies,
	Databases,
	CloudPlatforms,
	DevOpsTools,
	DataScienceML,
	BusinessIntelligence,
	MobileDevelopment,
	Testing,
	Methodologies,
	SoftSkills,
	OtherTechnical,
}

// ErrMalformedCatalog is returned when catalog data violates the catalog rules.
var ErrMalformedCatalog = errors.New("malformed skill catalog")

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Categories []struct {
		Name   string   `yaml:"name"`
		Skills []string `yaml:"skills"`
	} `yaml:"categories"`
}

// Catalog is an immutable, categorised list of lowercase skill phrases.
// It is safe for concurrent use.
type Catalog struct {
	categories []Category
	skills     map[Category][]string
	owner      map[string]Category
	position   map[string]int
}

// DefaultCatalog parses the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a YAML catalog from path. An empty path loads the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill catalog %q: %w", path, err)
	}

	return ParseCatalog(data)
}

// ParseCatalog builds a Catalog from YAML data. Unknown or repeated categories,
// empty or non-lowercase phrases and phrases listed twice are rejected with
// ErrMalformedCatalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}

	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrMalformedCatalog)
	}

	known := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		known[c] = true
	}

	c := &Catalog{
		skills:   make(map[Category][]string),
		owner:    make(map[string]Category),
		position: make(map[string]int),
	}

	for _, entry := range file.Categories {
		category := Category(strings.TrimSpace(entry.Name))
		if !known[category] {
			return nil, fmt.Errorf("%w: unknown category %q", ErrMalformedCatalog, entry.Name)
		}
		if _, seen := c.skills[category]; seen {
			return nil, fmt.Errorf("%w: category %q listed twice", ErrMalformedCatalog, category)
		}

		phrases := make([]string, 0, len(entry.Skills))
		for _, skill := range entry.Skills {
			if strings.TrimSpace(skill) == "" || skill != strings.TrimSpace(skill) {
				return nil, fmt.Errorf("%w: blank or padded skill %q in %s", ErrMalformedCatalog, skill, category)
			}
			if skill != strings.ToLower(skill) {
				return nil, fmt.Errorf("%w: skill %q in %s is not lowercase", ErrMalformedCatalog, skill, category)
			}
			if other, dup := c.owner[skill]; dup {
				return nil, fmt.Errorf("%w: skill %q listed in %s and %s", ErrMalformedCatalog, skill, other, category)
			}

			c.owner[skill] = category
			c.position[skill] = len(c.position)
			phrases = append(phrases, skill)
		}

		c.categories = append(c.categories, category)
		c.skills[category] = phrases
	}

	return c, nil
}

// Skills returns every phrase in catalog order.
func (c *Catalog) Skills() []string {
	out := make([]string, 0, len(c.position))
	for _, category := range c.categories {
		out = append(out, c.skills[category]...)
	}
	return out
}

// Len returns the number of phrases in the catalog.
func (c *Catalog) Len() int { return len(c.position) }

// Categories returns the categories present in the catalog.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// CategorySkills returns the phrases of one category.
func (c *Catalog) CategorySkills(category Category) []string {
	return append([]string(nil), c.skills[category]...)
}

// CategoryOf returns the category owning skill.
func (c *Catalog) CategoryOf(skill string) (Category, bool) {
	category, ok := c.owner[skill]
	return category, ok
}

// Database returns a copy of the catalog keyed by category name.
func (c *Catalog) Database() map[string][]string {
	out := make(map[string][]string, len(c.categories))
	for _, category := range c.categories {
		out[string(category)] = c.CategorySkills(category)
	}
	return out
}

// Categorize groups the skills of set by category, in catalog order. Skills
// unknown to the catalog are dropped.
func (c *Catalog) Categorize(set Set) map[Category][]string {
	out := make(map[Category][]string)
	for _, skill := range c.Ordered(set) {
		category, ok := c.CategoryOf(skill)
		if !ok {
			continue
		}
		out[category] = append(out[category], skill)
	}
	return out
}

// Ordered lists set in catalog order. Skills unknown to the catalog follow in
// lexical order.
func (c *Catalog) Ordered(set Set) []string {
	out := make([]string, 0, len(set))
	for skill := range set {
		out = append(out, skill)
	}

	sort.Slice(out, func(i, j int) bool {
		pi, iok := c.position[out[i]]
		pj, jok := c.position[out[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})

	return out
}
