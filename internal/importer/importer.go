// Package importer persists projected recipe boxes a batch at a time so a
// caller can report progress between steps.
package importer

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pbaille/recipes/internal/domain"
)

const (
	DefaultBatchSize     = 5
	DefaultIngredientLRU = 1024
)

// ErrDone is returned by ImportOne once every recipe has been imported.
var ErrDone = errors.New("import already finished")

// Store is the persistence the importer writes through. ImportRecipe must
// write a recipe and its usages all or nothing.
type Store interface {
	CreateCategory(name string) (*domain.Category, error)
	GetOrCreateIngredient(name, category string) (*domain.StoredIngredient, error)
	ImportRecipe(ctx context.Context, categoryID string, r domain.Recipe, ingredientIDs []string) (*domain.StoredRecipe, error)
}

type Option func(*RecipeImporter)

// WithBatchSize sets how many recipes one ImportOne call writes.
func WithBatchSize(n int) Option {
	return func(i *RecipeImporter) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithIngredientCache sets the size of the ingredient id cache.
func WithIngredientCache(n int) Option {
	return func(i *RecipeImporter) {
		if n > 0 {
			i.cacheSize = n
		}
	}
}

type workingBox struct {
	categoryID string
	recipes    []domain.Recipe
}

// RecipeImporter writes recipe boxes into a Store. Each box becomes a
// recipe category.
type RecipeImporter struct {
	store     Store
	boxes     []domain.RecipeBox
	working   *workingBox
	batchSize int
	cacheSize int

	numImported int
	total       int

	// lower-cased ingredient name -> ingredient id
	ingredients *lru.Cache[string, string]
}

// New prepares an import of boxes. Nothing is written until ImportOne.
func New(s Store, boxes []domain.RecipeBox, opts ...Option) (*RecipeImporter, error) {
	imp := &RecipeImporter{
		store:     s,
		boxes:     boxes,
		batchSize: DefaultBatchSize,
		cacheSize: DefaultIngredientLRU,
		total:     domain.NumRecipes(boxes),
	}
	for _, opt := range opts {
		opt(imp)
	}

	cache, err := lru.New[string, string](imp.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create ingredient cache: %w", err)
	}
	imp.ingredients = cache

	return imp, nil
}

// Done reports whether every box has been written.
func (i *RecipeImporter) Done() bool {
	return len(i.boxes) == 0 && i.working == nil
}

// NumImported returns how many recipes have been written so far.
func (i *RecipeImporter) NumImported() int {
	return i.numImported
}

// Total returns the number of recipes in the import.
func (i *RecipeImporter) Total() int {
	return i.total
}

// PercentDone returns the imported fraction in [0, 1].
func (i *RecipeImporter) PercentDone() float64 {
	if i.total == 0 {
		return 1
	}
	return float64(i.numImported) / float64(i.total)
}

// ImportOne writes the next batch. Starting a box creates its category;
// the box is finished once all of its recipes are written.
func (i *RecipeImporter) ImportOne(ctx context.Context) error {
	if i.Done() {
		return ErrDone
	}

	if i.working == nil {
		box := i.boxes[0]
		i.boxes = i.boxes[1:]

		cat, err := i.store.CreateCategory(box.Name)
		if err != nil {
			return fmt.Errorf("import box %q: %w", box.Name, err)
		}
		i.working = &workingBox{categoryID: cat.ID, recipes: box.Recipes}
	}

	n := min(i.batchSize, len(i.working.recipes))
	for _, r := range i.working.recipes[:n] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.importRecipe(ctx, i.working.categoryID, r); err != nil {
			return fmt.Errorf("import recipe %q: %w", r.Name, err)
		}
		// a failed recipe leaves no rows, so a retry resumes with it
		i.working.recipes = i.working.recipes[1:]
		i.numImported++
	}

	if len(i.working.recipes) == 0 {
		i.working = nil
	}
	return nil
}

func (i *RecipeImporter) importRecipe(ctx context.Context, categoryID string, r domain.Recipe) error {
	// Ingredients are shared across recipes, so creating them ahead of the
	// recipe is safe to repeat.
	ids := make([]string, len(r.Ingredients))
	for n, ing := range r.Ingredients {
		id, err := i.ingredientID(ing)
		if err != nil {
			return err
		}
		ids[n] = id
	}
	_, err := i.store.ImportRecipe(ctx, categoryID, r, ids)
	return err
}

func (i *RecipeImporter) ingredientID(ing domain.Ingredient) (string, error) {
	if id, ok := i.ingredients.Get(ing.Name); ok {
		return id, nil
	}
	stored, err := i.store.GetOrCreateIngredient(ing.Name, ing.Category)
	if err != nil {
		return "", err
	}
	i.ingredients.Add(ing.Name, stored.ID)
	return stored.ID, nil
}

// Run steps the importer until it is done, calling progress after each
// step.
func (i *RecipeImporter) Run(ctx context.Context, progress func(*RecipeImporter)) error {
	for !i.Done() {
		if err := i.ImportOne(ctx); err != nil {
			return err
		}
		if progress != nil {
			progress(i)
		}
	}
	return nil
}
