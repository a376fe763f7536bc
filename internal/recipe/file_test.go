package recipe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/ottomeasure/internal/ingredient"
)

const scones = `
name: Cream Scones
servings: 8
tags: [baking]
ingredients:
  - line: "2 cups all-purpose flour"
  - line: "1/4 cup sugar"
  - name: heavy cream
    quantity: 1.25
    unit: cups
  - name: salt
    note: a pinch
  - line: "1/2 cup raisins"
    optional: true
steps:
  - Heat the oven to 425°F.
  - instruction: Bake until golden.
    duration: 15m
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestParseFile(t *testing.T) {
	rec, err := ParseFile(strings.NewReader(scones), ingredient.NewLineParser(nil), "cream-scones")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.ID != "cream-scones" || rec.Name != "Cream Scones" || rec.Servings != 8 {
		t.Fatalf("unexpected header: %+v", rec)
	}
	if len(rec.Ingredients) != 5 {
		t.Fatalf("expected 5 ingredients, got %d", len(rec.Ingredients))
	}

	flour := rec.Ingredients[0]
	if flour.Name != "all-purpose flour" || flour.Unit != "cups" || flour.Amount() != 2 {
		t.Fatalf("unexpected parsed line: %+v", flour)
	}
	cream := rec.Ingredients[2]
	if cream.Name != "heavy cream" || cream.Amount() != 1.25 {
		t.Fatalf("unexpected structured ingredient: %+v", cream)
	}
	if rec.Ingredients[3].HasQuantity() {
		t.Fatal("salt should have no quantity")
	}
	if !rec.Ingredients[4].Optional {
		t.Fatal("raisins should be optional")
	}

	if len(rec.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(rec.Steps))
	}
	if rec.Steps[1].Order != 2 || rec.Steps[1].Duration != 15*time.Minute {
		t.Fatalf("unexpected step: %+v", rec.Steps[1])
	}
}

func TestParseFileRejects(t *testing.T) {
	parser := ingredient.NewLineParser(nil)
	tests := map[string]string{
		"missing name":      "servings: 2\n",
		"unknown field":     "name: X\ncolour: red\n",
		"line and name":     "name: X\ningredients:\n  - line: 1 cup milk\n    name: milk\n",
		"bad line":          "name: X\ningredients:\n  - line: 2 cups\n",
		"negative quantity": "name: X\ningredients:\n  - name: milk\n    quantity: -1\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFile(strings.NewReader(src), parser, "x"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cream-scones.yaml", scones)
	writeFile(t, dir, "toast.yml", "id: buttered-toast\nname: Toast\ningredients:\n  - line: 1 tbsp butter\n")
	writeFile(t, dir, "README.md", "not a recipe")

	src, err := LoadDir(context.Background(), dir, ingredient.NewLineParser(nil), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	list, _ := src.List(context.Background())
	if len(list) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(list))
	}
	toast, err := src.Get(context.Background(), "buttered-toast")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if toast.Servings != 1 {
		t.Fatalf("expected default of 1 serving, got %d", toast.Servings)
	}

	writeFile(t, dir, "zz-dup.yaml", "id: buttered-toast\nname: Other Toast\n")
	if _, err := LoadDir(context.Background(), dir, ingredient.NewLineParser(nil), nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
