package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/recipes/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecipeRoundTrip(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CreateCategory("Desserts")
	require.NoError(t, err)

	rec, err := s.CreateRecipe(cat.ID, domain.Recipe{
		Name:        "Cake",
		Description: "Bake at 350.",
		Duration:    domain.DurationReallyLong,
	})
	require.NoError(t, err)

	flour, err := s.GetOrCreateIngredient("flour", "Dry Goods")
	require.NoError(t, err)
	eggs, err := s.GetOrCreateIngredient("eggs", "")
	require.NoError(t, err)
	assert.Nil(t, eggs.Category)

	_, err = s.AddUsage(rec.ID, flour.ID, 2, domain.MeasurementCups)
	require.NoError(t, err)
	_, err = s.AddUsage(rec.ID, eggs.ID, 3, domain.MeasurementNone)
	require.NoError(t, err)

	got, err := s.GetRecipe(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cake", got.Name)
	assert.Equal(t, "Bake at 350.", got.Description)
	assert.Equal(t, domain.DurationReallyLong, got.Duration)
	assert.Equal(t, cat.ID, got.CategoryID)

	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "flour", got.Ingredients[0].Name)
	assert.Equal(t, 2.0, got.Ingredients[0].Quantity)
	assert.Equal(t, domain.MeasurementCups, got.Ingredients[0].Unit)
	assert.Equal(t, "eggs", got.Ingredients[1].Name)
	assert.Equal(t, domain.MeasurementNone, got.Ingredients[1].Unit)
}

func TestStore_ImportRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory("Desserts")
	require.NoError(t, err)
	flour, err := s.GetOrCreateIngredient("flour", "Dry Goods")
	require.NoError(t, err)

	cake := domain.Recipe{
		Name: "Cake",
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: 2, Measurement: domain.MeasurementCups},
		},
	}
	rec, err := s.ImportRecipe(ctx, cat.ID, cake, []string{flour.ID})
	require.NoError(t, err)
	require.Len(t, rec.Ingredients, 1)
	assert.Equal(t, "flour", rec.Ingredients[0].Name)

	got, err := s.GetRecipe(rec.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, domain.MeasurementCups, got.Ingredients[0].Unit)

	_, err = s.ImportRecipe(ctx, cat.ID, cake, nil)
	assert.EqualError(t, err, "import recipe: 0 ingredient ids for 1 ingredients")
}

func TestStore_ImportRecipeRollsBack(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CreateCategory("Desserts")
	require.NoError(t, err)
	flour, err := s.GetOrCreateIngredient("flour", "")
	require.NoError(t, err)

	pie := domain.Recipe{
		Name: "Pie",
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: 1},
			{Name: "ghost", Quantity: 1},
		},
	}
	// the second usage points at no ingredient row
	_, err = s.ImportRecipe(context.Background(), cat.ID, pie, []string{flour.ID, "no-such-ingredient"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert usage")

	recipes, err := s.ListRecipes("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	var usages int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM ingredient_usages").Scan(&usages))
	assert.Zero(t, usages)
}

func TestStore_GetOrCreateIngredientDeduplicates(t *testing.T) {
	s := newTestStore(t)

	a, err := s.GetOrCreateIngredient("butter", "Dairy")
	require.NoError(t, err)
	b, err := s.GetOrCreateIngredient("butter", "Other")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	require.NotNil(t, b.Category)
	assert.Equal(t, "Dairy", *b.Category)

	all, err := s.ListIngredients()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ListAndSearch(t *testing.T) {
	s := newTestStore(t)

	desserts, err := s.CreateCategory("Desserts")
	require.NoError(t, err)
	mains, err := s.CreateCategory("Mains")
	require.NoError(t, err)

	for _, name := range []string{"Cake", "Pie"} {
		_, err := s.CreateRecipe(desserts.ID, domain.Recipe{Name: name})
		require.NoError(t, err)
	}
	_, err = s.CreateRecipe(mains.ID, domain.Recipe{Name: "Stew", Description: "Slow cooked, serve with pie crust"})
	require.NoError(t, err)

	cats, err := s.ListCategories()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Desserts", cats[0].Name)
	assert.Equal(t, "Mains", cats[1].Name)

	all, err := s.ListRecipes("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Cake", all[0].Name)
	assert.Equal(t, "Stew", all[2].Name)

	page, err := s.ListRecipes("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Pie", page[0].Name)

	onlyMains, err := s.ListRecipes(mains.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, onlyMains, 1)
	assert.Equal(t, "Stew", onlyMains[0].Name)

	found, err := s.SearchRecipes("pie")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Pie", found[0].Name)
	assert.Equal(t, "Stew", found[1].Name)
}

func TestStore_ResolveRecipeID(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CreateCategory("Desserts")
	require.NoError(t, err)
	rec, err := s.CreateRecipe(cat.ID, domain.Recipe{Name: "Cake"})
	require.NoError(t, err)

	id, err := s.ResolveRecipeID(rec.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	_, err = s.ResolveRecipeID("zzzzzzzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ResolveRecipeID("")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetRecipe("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
