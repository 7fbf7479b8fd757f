package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{`['eggs', 'spinach', 'butter']`, []string{"eggs", "spinach", "butter"}},
		{`["rice", "beans"]`, []string{"rice", "beans"}},
		{`chicken, garlic, lemon`, []string{"chicken", "garlic", "lemon"}},
		{``, nil},
		{`   `, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseIngredientList(tt.raw), "raw: %q", tt.raw)
	}
}

func TestStepCount(t *testing.T) {
	multi := Recipe{Steps: []string{"Whisk", "Cook", "Serve"}}
	assert.Equal(t, 3, multi.StepCount())

	prose := Recipe{Steps: []string{"Whisk the eggs. Melt butter in a pan. Pour and fold. Serve hot."}}
	assert.Equal(t, 4, prose.StepCount())

	single := Recipe{Steps: []string{"Blend everything"}}
	assert.Equal(t, 1, single.StepCount())

	none := Recipe{}
	assert.Equal(t, 0, none.StepCount())
}

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	products := writeTempCSV(t, "products.csv",
		"Category,Item,Price ($),unit,calories,protein_g\n"+
			"Dairy,Eggs,3.20,dozen,72,6.3\n"+
			"Produce,Spinach,2.50,bag,23,2.9\n"+
			",,,\n")
	recipes := writeTempCSV(t, "recipes.csv",
		"Recipe,Ingredients,Steps\n"+
			`Veggie Omelette,"['eggs', 'spinach']","Whisk the eggs. Cook until set."`+"\n")

	cat, err := Load(products, recipes)
	require.NoError(t, err)

	require.Len(t, cat.Products, 2, "blank rows are skipped")
	assert.Equal(t, "Eggs", cat.Products[0].Item)
	assert.Equal(t, 3.20, cat.Products[0].Price)
	assert.Equal(t, "eggs", cat.Products[0].Normalized)
	assert.Equal(t, 72.0, cat.Products[0].Nutrition.Calories)

	require.Len(t, cat.Recipes, 1)
	r := cat.Recipes[0]
	assert.Equal(t, "Veggie Omelette", r.Name)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "eggs", r.Ingredients[0].Normalized)
	assert.Equal(t, 2, r.StepCount())
}

func TestLoadAlternateHeaders(t *testing.T) {
	products := writeTempCSV(t, "products.csv",
		"category,item_name,price,unit_of_measure\nPantry,Rice,3.50,bag\n")
	recipes := writeTempCSV(t, "recipes.csv",
		"name,ingredients,steps\nFried Rice,\"rice, eggs\",Fry it all.\n")

	cat, err := Load(products, recipes)
	require.NoError(t, err)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, "Rice", cat.Products[0].Item)
	assert.Equal(t, "bag", cat.Products[0].Unit)
	require.Len(t, cat.Recipes, 1)
	assert.Equal(t, "Fried Rice", cat.Recipes[0].Name)
}

func TestChooseProductsCSVFallback(t *testing.T) {
	dir := t.TempDir()
	sample := filepath.Join(dir, "Sample_Grocery_Data.csv")
	require.NoError(t, os.WriteFile(sample, []byte("Item\n"), 0o644))

	assert.Equal(t, sample, ChooseProductsCSV("", dir))

	synthetic := filepath.Join(dir, "Synthetic_Grocery_Dataset.csv")
	require.NoError(t, os.WriteFile(synthetic, []byte("Item\n"), 0o644))
	assert.Equal(t, synthetic, ChooseProductsCSV("", dir), "synthetic dataset wins over sample data")

	assert.Equal(t, sample, ChooseProductsCSV(sample, dir), "explicit path wins")
}
