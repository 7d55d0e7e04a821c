package seeders

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/fixtures.yaml
var defaultFixtures []byte

// Fixtures is the set of categories and sample recipes a run seeds.
type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	Recipes    []RecipeFixture   `yaml:"recipes"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// RecipeFixture names its category; the id is resolved at seed time.
type RecipeFixture struct {
	Title        string              `yaml:"title"`
	Description  string              `yaml:"description"`
	Instructions string              `yaml:"instructions"`
	PrepTime     int                 `yaml:"prep_time"`
	CookTime     int                 `yaml:"cook_time"`
	Servings     int                 `yaml:"servings"`
	Category     string              `yaml:"category"`
	Ingredients  []IngredientFixture `yaml:"ingredients"`
}

type IngredientFixture struct {
	Name   string  `yaml:"name"`
	Amount float64 `yaml:"amount"`
	Unit   string  `yaml:"unit"`
}

// DefaultFixtures returns the fixture set embedded in the binary.
func DefaultFixtures() (*Fixtures, error) {
	return LoadFixtures(bytes.NewReader(defaultFixtures))
}

// LoadFixturesFile reads a fixture document from path.
func LoadFixturesFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	defer f.Close()

	fx, err := LoadFixtures(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// LoadFixtures decodes and validates a YAML fixture document. Unknown keys
// are rejected.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("fixtures: empty document")
		}
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}

	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks names are present, category names are unique and
// quantities are not negative.
func (f *Fixtures) Validate() error {
	seen := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("fixtures: category %d: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("fixtures: category %q listed twice", name)
		}
		seen[name] = true
	}

	for i, r := range f.Recipes {
		if strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("fixtures: recipe %d: title is required", i)
		}
		if r.PrepTime < 0 || r.CookTime < 0 {
			return fmt.Errorf("fixtures: recipe %q: negative time", r.Title)
		}
		if r.Servings < 0 {
			return fmt.Errorf("fixtures: recipe %q: negative servings", r.Title)
		}
		for j, in := range r.Ingredients {
			if strings.TrimSpace(in.Name) == "" {
				return fmt.Errorf("fixtures: recipe %q ingredient %d: name is required", r.Title, j)
			}
			if in.Amount < 0 {
				return fmt.Errorf("fixtures: recipe %q ingredient %q: negative amount", r.Title, in.Name)
			}
		}
	}
	return nil
}
