package atlas

import (
	"image"
	"testing"

	"chosenoffset.com/overworld/internal/render/rendertest"
)

func TestNewAtlasGrid(t *testing.T) {
	// 4x2 tiles of 16px, plus a partial column that must be ignored
	a, err := New(rendertest.NewImage(72, 32), 16, 16)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Columns != 4 || a.Rows != 2 {
		t.Errorf("Expected 4x2 grid, got %dx%d", a.Columns, a.Rows)
	}
	if a.TileCount() != 8 {
		t.Errorf("Expected 8 tiles, got %d", a.TileCount())
	}
}

func TestNewAtlasRejectsBadDimensions(t *testing.T) {
	if _, err := New(rendertest.NewImage(32, 32), 0, 16); err == nil {
		t.Error("Expected error for zero tile width")
	}
	if _, err := New(rendertest.NewImage(8, 8), 16, 16); err == nil {
		t.Error("Expected error for image smaller than a tile")
	}
	if _, err := New(nil, 16, 16); err == nil {
		t.Error("Expected error for nil image")
	}
}

func TestGetTileSubImage(t *testing.T) {
	a, err := New(rendertest.NewImage(64, 32), 16, 16)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sub, err := a.GetTileSubImage(5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := image.Rect(16, 16, 32, 32)
	if sub.Bounds() != want {
		t.Errorf("Expected bounds %v, got %v", want, sub.Bounds())
	}

	if _, err := a.GetTileSubImage(8); err == nil {
		t.Error("Expected error for index past the end of the sheet")
	}
	if _, err := a.GetTileSubImage(-1); err == nil {
		t.Error("Expected error for negative index")
	}
}

func TestTileDefinitionProperties(t *testing.T) {
	tile := TileDefinition{
		ID: 3,
		Properties: map[string]interface{}{
			"bool_prop":   true,
			"string_prop": "test_value",
		},
	}

	if !tile.GetTilePropertyBool("bool_prop", false) {
		t.Error("Expected bool_prop to be true")
	}
	if v, ok := tile.GetTileProperty("string_prop"); !ok || v != "test_value" {
		t.Errorf("Expected string_prop to be 'test_value', got %v", v)
	}

	// Missing and mistyped properties fall back to the default
	if !tile.GetTilePropertyBool("missing", true) {
		t.Error("Expected default for missing property")
	}
	if tile.GetTilePropertyBool("string_prop", false) {
		t.Error("Expected default for mistyped property")
	}
	if _, ok := (&TileDefinition{}).GetTileProperty("bool_prop"); ok {
		t.Error("Expected no properties on an empty definition")
	}
}

func TestTilesWithBool(t *testing.T) {
	a, _ := New(rendertest.NewImage(64, 16), 16, 16)
	a.SetTile(TileDefinition{ID: 1, Properties: map[string]interface{}{"collides": true}})
	a.SetTile(TileDefinition{ID: 2, Properties: map[string]interface{}{"collides": false}})
	a.SetTile(TileDefinition{ID: 3, Properties: map[string]interface{}{"collides": true}})

	set := a.TilesWithBool("collides")
	if len(set) != 2 || !set[1] || !set[3] {
		t.Errorf("Expected collides set {1, 3}, got %v", set)
	}
}
