package archivetest

import howett "howett.net/plist"

type Box struct {
	Name    string
	Recipes []Recipe
}

type Recipe struct {
	Name        string
	Other       []byte
	Time        string
	Ingredients []Ingredient
}

// Ingredient.Quantity is stored as given: uint64 for an integer field,
// float64 for a real one.
type Ingredient struct {
	Name        string
	Category    string
	Quantity    any
	Measurement string
}

// RecipeArchive lays boxes out the way the recipe application archives
// them: a document object holding recipeBoxes, each box, recipe and
// ingredient carrying a properties dictionary.
func RecipeArchive(boxes ...Box) *RecipeDocument {
	b := NewBuilder()
	boxUIDs := make([]howett.UID, 0, len(boxes))
	for _, box := range boxes {
		boxUIDs = append(boxUIDs, addBox(b, box))
	}
	root := b.Object("RecipeDocument", map[string]any{
		"recipeBoxes": b.MutableArray(boxUIDs...),
	})
	return &RecipeDocument{Builder: b, Root: root}
}

// RecipeDocument is a built recipe archive.
type RecipeDocument struct {
	*Builder
	Root howett.UID
}

// Bytes encodes the document as a binary property list.
func (d *RecipeDocument) Bytes() ([]byte, error) {
	return d.Encode(d.Root)
}

func addBox(b *Builder, box Box) howett.UID {
	recipes := make([]howett.UID, 0, len(box.Recipes))
	for _, r := range box.Recipes {
		recipes = append(recipes, addRecipe(b, r))
	}
	props := b.MutableDictionary([]string{"Name"}, map[string]any{"Name": box.Name})
	return b.Object("RecipeBox", map[string]any{
		"properties": props,
		"recipes":    b.MutableArray(recipes...),
	})
}

func addRecipe(b *Builder, r Recipe) howett.UID {
	ingredients := make([]howett.UID, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ingredients = append(ingredients, addIngredient(b, i))
	}
	other := r.Other
	if other == nil {
		other = []byte{}
	}
	props := b.MutableDictionary(
		[]string{"Name", "Other", "Time"},
		map[string]any{
			"Name":  b.MutableString(r.Name),
			"Other": b.MutableData(other),
			"Time":  r.Time,
		},
	)
	return b.Object("Recipe", map[string]any{
		"properties":  props,
		"ingredients": b.MutableArray(ingredients...),
	})
}

func addIngredient(b *Builder, i Ingredient) howett.UID {
	props := b.MutableDictionary(
		[]string{"Name", "Catagory", "Quantity", "Measurement"},
		map[string]any{
			"Name":        i.Name,
			"Catagory":    i.Category,
			"Quantity":    i.Quantity,
			"Measurement": i.Measurement,
		},
	)
	return b.Object("Ingredient", map[string]any{"properties": props})
}

// Desserts is the single-box archive used across package tests.
func Desserts() *RecipeDocument {
	return RecipeArchive(Box{
		Name: "Desserts",
		Recipes: []Recipe{{
			Name:  "Cake",
			Other: []byte("Bake at 350."),
			Time:  "Short",
			Ingredients: []Ingredient{{
				Name:        "Flour",
				Category:    "Dry Goods",
				Quantity:    uint64(2),
				Measurement: "c.",
			}},
		}},
	})
}
