package importer

import (
	"fmt"

	"github.com/pbaille/recipes/internal/domain"
	"github.com/pbaille/recipes/internal/keyedarchive"
	"github.com/pbaille/recipes/internal/plist"
	"github.com/pbaille/recipes/internal/project"
)

// Load reads a recipe archive file and returns its validated recipe boxes.
func Load(path string, opts ...keyedarchive.Option) ([]domain.RecipeBox, error) {
	raw, err := plist.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(raw, opts...)
}

// LoadBytes is Load for an archive already in memory.
func LoadBytes(data []byte, opts ...keyedarchive.Option) ([]domain.RecipeBox, error) {
	raw, err := plist.Parse(data)
	if err != nil {
		return nil, err
	}
	return Decode(raw, opts...)
}

// Decode resolves a parsed archive and projects it into recipe boxes.
func Decode(raw plist.Value, opts ...keyedarchive.Option) ([]domain.RecipeBox, error) {
	resolved, err := keyedarchive.Decode(raw, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	boxes, err := project.Recipes(resolved)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	return boxes, nil
}
