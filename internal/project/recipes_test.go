package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/recipes/internal/archivetest"
	"github.com/pbaille/recipes/internal/domain"
	"github.com/pbaille/recipes/internal/keyedarchive"
	"github.com/pbaille/recipes/internal/plist"
)

func ingredientTree(quantity plist.Value, measurement string) *plist.Dictionary {
	return plist.DictionaryOf("properties", plist.DictionaryOf(
		"Name", plist.String("Sugar"),
		"Catagory", plist.String("Baking"),
		"Quantity", quantity,
		"Measurement", plist.String(measurement),
	))
}

func recipeTree(time string, ingredients ...plist.Value) *plist.Dictionary {
	return plist.DictionaryOf(
		"properties", plist.DictionaryOf(
			"Name", plist.String("Pie"),
			"Other", plist.Data("Slice and serve."),
			"Time", plist.String(time),
		),
		"ingredients", plist.Array(ingredients),
	)
}

func rootTree(boxes ...plist.Value) *plist.Dictionary {
	return plist.DictionaryOf("recipeBoxes", plist.Array(boxes), "$class", plist.String("RecipeDocument"))
}

func boxTree(name string, recipes ...plist.Value) *plist.Dictionary {
	return plist.DictionaryOf(
		"properties", plist.DictionaryOf("Name", plist.String(name)),
		"recipes", plist.Array(recipes),
	)
}

func TestRecipes_EndToEnd(t *testing.T) {
	doc := archivetest.Desserts()
	raw, err := doc.Value(doc.Root)
	require.NoError(t, err)

	resolved, err := keyedarchive.Decode(raw)
	require.NoError(t, err)

	boxes, err := Recipes(resolved)
	require.NoError(t, err)

	assert.Equal(t, []domain.RecipeBox{{
		Name: "Desserts",
		Recipes: []domain.Recipe{{
			Name:        "Cake",
			Description: "Bake at 350.",
			Duration:    domain.DurationShort,
			Ingredients: []domain.Ingredient{{
				Name:        "flour",
				Category:    "Dry Goods",
				Quantity:    2,
				Measurement: domain.MeasurementCups,
			}},
		}},
	}}, boxes)
}

func TestRecipes_EncodedArchive(t *testing.T) {
	doc := archivetest.RecipeArchive(
		archivetest.Box{Name: "Mains", Recipes: []archivetest.Recipe{
			{Name: "Stew", Time: "Really Long", Ingredients: []archivetest.Ingredient{
				{Name: "Beef", Category: "Meat", Quantity: 1.5, Measurement: "lb."},
				{Name: "Onions", Category: "", Quantity: uint64(2), Measurement: " "},
			}},
			{Name: "Toast", Time: "Short"},
		}},
		archivetest.Box{Name: "Empty"},
	)
	data, err := doc.Bytes()
	require.NoError(t, err)

	raw, err := plist.Parse(data)
	require.NoError(t, err)
	resolved, err := keyedarchive.Decode(raw)
	require.NoError(t, err)
	boxes, err := Recipes(resolved)
	require.NoError(t, err)

	require.Len(t, boxes, 2)
	assert.Equal(t, "Mains", boxes[0].Name)
	assert.Equal(t, "Empty", boxes[1].Name)
	assert.Empty(t, boxes[1].Recipes)

	require.Len(t, boxes[0].Recipes, 2)
	stew := boxes[0].Recipes[0]
	assert.Equal(t, "Stew", stew.Name)
	assert.Equal(t, domain.DurationReallyLong, stew.Duration)
	assert.Equal(t, "", stew.Description)
	require.Len(t, stew.Ingredients, 2)
	assert.Equal(t, domain.Ingredient{Name: "beef", Category: "Meat", Quantity: 1.5, Measurement: domain.MeasurementPounds}, stew.Ingredients[0])
	assert.Equal(t, domain.Ingredient{Name: "onions", Quantity: 2, Measurement: domain.MeasurementNone}, stew.Ingredients[1])
	assert.Equal(t, "Toast", boxes[0].Recipes[1].Name)
}

func TestRecipes_QuantityIntegerOrReal(t *testing.T) {
	root := rootTree(boxTree("B", recipeTree("Short",
		ingredientTree(plist.UnsignedInteger(2), "c."),
		ingredientTree(plist.Real(2.5), "tsp."),
	)))

	boxes, err := Recipes(root)
	require.NoError(t, err)
	ings := boxes[0].Recipes[0].Ingredients
	require.Len(t, ings, 2)
	assert.Equal(t, 2.0, ings[0].Quantity)
	assert.Equal(t, 2.5, ings[1].Quantity)
	assert.Equal(t, domain.MeasurementTeaspoons, ings[1].Measurement)
}

func TestRecipes_BoxMissingName(t *testing.T) {
	box := plist.DictionaryOf(
		"properties", plist.DictionaryOf("Title", plist.String("Desserts"), "Color", plist.String("red")),
		"recipes", plist.Array{},
	)

	_, err := Recipes(rootTree(box))
	var nsk *plist.NoSuchKeyError
	require.True(t, errors.As(err, &nsk), "got %v", err)
	assert.Equal(t, "Name", nsk.Needle)
	assert.Equal(t, []string{"Title", "Color"}, nsk.Haystack)
}

func TestRecipes_Duration(t *testing.T) {
	boxes, err := Recipes(rootTree(boxTree("B", recipeTree("Really Long"))))
	require.NoError(t, err)
	assert.Equal(t, domain.DurationReallyLong, boxes[0].Recipes[0].Duration)

	boxes, err = Recipes(rootTree(boxTree("B", recipeTree("Forever"))))
	assert.Nil(t, boxes)
	var uev *plist.UnrecognizedEnumValueError
	require.True(t, errors.As(err, &uev), "got %v", err)
	assert.Equal(t, "Time", uev.Field)
	assert.Equal(t, "Forever", uev.Value)
	assert.ErrorIs(t, err, plist.ErrUnrecognizedEnumValue)
}

func TestRecipes_UnknownMeasurement(t *testing.T) {
	_, err := Recipes(rootTree(boxTree("B", recipeTree("Short", ingredientTree(plist.UnsignedInteger(1), "pinch")))))
	var uev *plist.UnrecognizedEnumValueError
	require.True(t, errors.As(err, &uev), "got %v", err)
	assert.Equal(t, "Measurement", uev.Field)
	assert.Equal(t, "pinch", uev.Value)
}

func TestRecipes_InvalidUTF8Description(t *testing.T) {
	r := recipeTree("Short")
	props, err := r.GetDictionary("properties")
	require.NoError(t, err)
	props.Set("Other", plist.Data{0xff, 0xfe})

	_, err = Recipes(rootTree(boxTree("B", r)))
	assert.ErrorIs(t, err, plist.ErrTextEncoding)
}

func TestRecipes_ShapeErrors(t *testing.T) {
	_, err := Recipes(plist.Array{})
	assert.ErrorIs(t, err, plist.ErrWrongType)

	_, err = Recipes(plist.DictionaryOf())
	assert.ErrorIs(t, err, plist.ErrNoSuchKey)

	_, err = Recipes(rootTree(plist.String("not a box")))
	assert.ErrorIs(t, err, plist.ErrWrongType)

	_, err = Recipes(rootTree(boxTree("B", recipeTree("Short", ingredientTree(plist.String("2"), "c.")))))
	var wt *plist.WrongTypeError
	require.True(t, errors.As(err, &wt))
	assert.Equal(t, plist.KindReal, wt.Expected)
	assert.Equal(t, plist.KindString, wt.Actual)
}
