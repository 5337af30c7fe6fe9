// Package project turns a resolved recipe archive into domain records.
package project

import (
	"strings"

	"github.com/pbaille/recipes/internal/domain"
	"github.com/pbaille/recipes/internal/plist"
)

// Archive keys. "Catagory" is spelled the way the archiving application
// wrote it.
const (
	keyRecipeBoxes = "recipeBoxes"
	keyProperties  = "properties"
	keyRecipes     = "recipes"
	keyIngredients = "ingredients"

	propName        = "Name"
	propOther       = "Other"
	propTime        = "Time"
	propCategory    = "Catagory"
	propQuantity    = "Quantity"
	propMeasurement = "Measurement"
)

// Recipes reads every recipe box under root, keeping source order. root
// must already be resolved by keyedarchive.Decode.
func Recipes(root plist.Value) ([]domain.RecipeBox, error) {
	rootDict, err := plist.AsDictionary(root)
	if err != nil {
		return nil, err
	}
	boxes, err := dictionaries(rootDict, keyRecipeBoxes)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecipeBox, 0, len(boxes))
	for _, b := range boxes {
		box, err := recipeBox(b)
		if err != nil {
			return nil, err
		}
		out = append(out, box)
	}
	return out, nil
}

func dictionaries(d *plist.Dictionary, key string) ([]*plist.Dictionary, error) {
	a, err := d.GetArray(key)
	if err != nil {
		return nil, err
	}
	return a.Dictionaries()
}

func recipeBox(b *plist.Dictionary) (domain.RecipeBox, error) {
	props, err := b.GetDictionary(keyProperties)
	if err != nil {
		return domain.RecipeBox{}, err
	}
	name, err := props.GetString(propName)
	if err != nil {
		return domain.RecipeBox{}, err
	}
	recipes, err := dictionaries(b, keyRecipes)
	if err != nil {
		return domain.RecipeBox{}, err
	}

	box := domain.RecipeBox{Name: name, Recipes: make([]domain.Recipe, 0, len(recipes))}
	for _, r := range recipes {
		rec, err := recipe(r)
		if err != nil {
			return domain.RecipeBox{}, err
		}
		box.Recipes = append(box.Recipes, rec)
	}
	return box, nil
}

func recipe(r *plist.Dictionary) (domain.Recipe, error) {
	props, err := r.GetDictionary(keyProperties)
	if err != nil {
		return domain.Recipe{}, err
	}
	ingredients, err := dictionaries(r, keyIngredients)
	if err != nil {
		return domain.Recipe{}, err
	}

	name, err := props.GetString(propName)
	if err != nil {
		return domain.Recipe{}, err
	}
	description, err := props.GetText(propOther)
	if err != nil {
		return domain.Recipe{}, err
	}
	timeStr, err := props.GetString(propTime)
	if err != nil {
		return domain.Recipe{}, err
	}
	duration, ok := domain.ImportDuration(timeStr)
	if !ok {
		return domain.Recipe{}, &plist.UnrecognizedEnumValueError{Field: propTime, Value: timeStr}
	}

	rec := domain.Recipe{
		Name:        name,
		Description: description,
		Duration:    duration,
		Ingredients: make([]domain.Ingredient, 0, len(ingredients)),
	}
	for _, i := range ingredients {
		ing, err := ingredient(i)
		if err != nil {
			return domain.Recipe{}, err
		}
		rec.Ingredients = append(rec.Ingredients, ing)
	}
	return rec, nil
}

func ingredient(i *plist.Dictionary) (domain.Ingredient, error) {
	props, err := i.GetDictionary(keyProperties)
	if err != nil {
		return domain.Ingredient{}, err
	}
	name, err := props.GetString(propName)
	if err != nil {
		return domain.Ingredient{}, err
	}
	category, err := props.GetString(propCategory)
	if err != nil {
		return domain.Ingredient{}, err
	}
	quantity, err := props.GetNumber(propQuantity)
	if err != nil {
		return domain.Ingredient{}, err
	}
	abbrev, err := props.GetString(propMeasurement)
	if err != nil {
		return domain.Ingredient{}, err
	}

	measurement := domain.MeasurementNone
	if strings.TrimSpace(abbrev) != "" {
		m, ok := domain.ImportMeasurement(abbrev)
		if !ok {
			return domain.Ingredient{}, &plist.UnrecognizedEnumValueError{Field: propMeasurement, Value: abbrev}
		}
		measurement = m
	}

	return domain.Ingredient{
		Name:        strings.ToLower(name),
		Category:    category,
		Quantity:    quantity,
		Measurement: measurement,
	}, nil
}
