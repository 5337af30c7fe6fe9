package domain

import "time"

// RecipeBox is a named group of recipes read from an archive
type RecipeBox struct {
	Name    string   `json:"name" yaml:"name"`
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
}

// Recipe is one archived recipe with its ingredient list
type Recipe struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Duration    Duration     `json:"duration" yaml:"duration"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
}

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	Name        string      `json:"name" yaml:"name"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	Quantity    float64     `json:"quantity" yaml:"quantity"`
	Measurement Measurement `json:"measurement,omitempty" yaml:"measurement,omitempty"`
}

// NumRecipes counts the recipes across boxes
func NumRecipes(boxes []RecipeBox) int {
	n := 0
	for _, b := range boxes {
		n += len(b.Recipes)
	}
	return n
}

// Category is a stored recipe box
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredRecipe is a recipe as persisted, with its ingredient usages
type StoredRecipe struct {
	ID          string            `json:"id"`
	CategoryID  string            `json:"category_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Duration    Duration          `json:"duration"`
	CreatedAt   time.Time         `json:"created_at"`
	Ingredients []IngredientUsage `json:"ingredients,omitempty"`
}

// StoredIngredient is a deduplicated ingredient shared across recipes
type StoredIngredient struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category,omitempty"`
}

// IngredientUsage links a recipe to an ingredient with a quantity
type IngredientUsage struct {
	ID           string      `json:"id"`
	RecipeID     string      `json:"recipe_id"`
	IngredientID string      `json:"ingredient_id"`
	Name         string      `json:"name"`
	Quantity     float64     `json:"quantity"`
	Unit         Measurement `json:"unit,omitempty"`
}
