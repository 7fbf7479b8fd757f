package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"grocery-assistant/internal/pkg/common"
)

// csvRow 以欄名取值的一列資料
type csvRow struct {
	header map[string]int
	fields []string
}

// get 依序嘗試多個欄名，回傳第一個非空值
func (r *csvRow) get(names ...string) string {
	for _, name := range names {
		if idx, ok := r.header[name]; ok && idx < len(r.fields) {
			if v := strings.TrimSpace(r.fields[idx]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (r *csvRow) getFloat(names ...string) float64 {
	v, err := strconv.ParseFloat(r.get(names...), 64)
	if err != nil {
		return 0
	}
	return v
}

func readCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}

	rows := make([]csvRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		empty := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		rows = append(rows, csvRow{header: header, fields: rec})
	}
	return rows, nil
}

// ParseIngredientList 解析食譜的食材欄位
// 多數資料列是 Python 風格的單引號清單，先轉成 JSON 嘗試解析，失敗則退回逗號切分
func ParseIngredientList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	jsonLike := strings.ReplaceAll(raw, "'", `"`)
	var parsed []string
	if err := common.ParseJSON(jsonLike, &parsed); err == nil {
		out := make([]string, 0, len(parsed))
		for _, p := range parsed {
			if v := strings.TrimSpace(p); v != "" {
				out = append(out, v)
			}
		}
		return out
	}

	stripper := strings.NewReplacer("[", "", "]", "", `"`, "", "'", "")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(stripper.Replace(part)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ChooseProductsCSV 依優先序挑選商品 CSV
// 順序：明確指定路徑 > dataDir 下的 Synthetic_Grocery_Dataset.csv > 專案根目錄同名檔 > dataDir 下的 Sample_Grocery_Data.csv
func ChooseProductsCSV(explicit, dataDir string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
	}
	candidates := []string{
		filepath.Join(dataDir, "Synthetic_Grocery_Dataset.csv"),
		"Synthetic_Grocery_Dataset.csv",
		filepath.Join(dataDir, "Sample_Grocery_Data.csv"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// Load 載入商品與食譜目錄
func Load(productsPath, recipesPath string) (*Catalog, error) {
	productRows, err := readCSV(productsPath)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	products := make([]Product, 0, len(productRows))
	for _, row := range productRows {
		row := row
		item := row.get("Item", "item", "item_name")
		if item == "" {
			continue
		}
		products = append(products, Product{
			Category: row.get("Category", "category"),
			Item:     item,
			Price:    row.getFloat("Price ($)", "Price", "price"),
			Unit:     row.get("unit", "Unit", "unit_of_measure"),
			Nutrition: Nutrition{
				Calories: row.getFloat("calories", "Calories"),
				ProteinG: row.getFloat("protein_g", "Protein_g", "protein"),
				CarbsG:   row.getFloat("carbs_g", "Carbs_g", "carbohydrates"),
				FatG:     row.getFloat("fat_g", "Fat_g", "fat"),
				FiberG:   row.getFloat("fiber_g", "Fiber_g", "fiber"),
			},
			Normalized: NormalizeName(item),
		})
	}

	recipeRows, err := readCSV(recipesPath)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(recipeRows))
	for _, row := range recipeRows {
		row := row
		name := row.get("Recipe", "recipe", "Name", "name")
		if name == "" {
			continue
		}
		var ingredients []IngredientRef
		for _, ing := range ParseIngredientList(row.get("Ingredients", "ingredients")) {
			ingredients = append(ingredients, IngredientRef{
				Name:       ing,
				Normalized: NormalizeName(ing),
			})
		}
		var steps []string
		if s := row.get("Steps", "steps"); s != "" {
			steps = []string{s}
		}
		recipes = append(recipes, Recipe{
			Name:        name,
			Ingredients: ingredients,
			Steps:       steps,
		})
	}

	common.LogInfo("目錄載入完成",
		zap.String("products_csv", productsPath),
		zap.Int("商品數", len(products)),
		zap.Int("食譜數", len(recipes)),
	)

	return &Catalog{Products: products, Recipes: recipes}, nil
}
