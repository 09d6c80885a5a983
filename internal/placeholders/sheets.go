package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"chosenoffset.com/overworld/internal/entity"
)

// Tile indices in the generated tile sheet
const (
	TileGrass = iota
	TileGrassTuft
	TilePath
	TileWater
	TileWall
	TileCanopy
	TileTrunk
	TileRoof
	TileFlowers
)

// TileSheetColumns is the width of the tile sheet in tiles
const TileSheetColumns = 4

// Sheet rows for the two character sheets. The player sheet carries one side
// row facing left; the NPC sheet has all four directions.
var (
	PlayerRows = []entity.Direction{entity.DirDown, entity.DirUp, entity.DirLeft}
	NPCRows    = []entity.Direction{entity.DirDown, entity.DirUp, entity.DirLeft, entity.DirRight}
)

// WalkFrames is the number of columns in a character sheet
const WalkFrames = 4

// GenerateTileSheet creates tiles.png
func GenerateTileSheet() *image.RGBA {
	// Row 0: grass, grass tuft, path, water
	// Row 1: wall, tree canopy, tree trunk, roof
	// Row 2: flowers
	tiles := make([]*image.RGBA, 12)

	tiles[TileGrass] = CreateSolidTile(ColorPalette.Grass)
	tiles[TileGrassTuft] = CreatePatternedTile(ColorPalette.Grass, ColorPalette.GrassTuft, "dots")
	tiles[TilePath] = CreateSolidTile(ColorPalette.Path)
	tiles[TileWater] = CreatePatternedTile(ColorPalette.Water, Lighten(ColorPalette.Water, 0.4), "waves")

	tiles[TileWall] = CreateBorderedTile(ColorPalette.WallStone, Darken(ColorPalette.WallStone, 0.3), 1)
	tiles[TileCanopy] = CreateCircle(ColorPalette.Canopy, Darken(ColorPalette.Canopy, 0.6), TileSize/2-1)
	tiles[TileTrunk] = CreateTrunk()
	tiles[TileRoof] = CreatePatternedTile(ColorPalette.Roof, Darken(ColorPalette.Roof, 0.7), "shingles")

	tiles[TileFlowers] = CreatePatternedTile(ColorPalette.Grass, ColorPalette.Flower, "dots")

	return CreateAtlas(tiles, TileSheetColumns)
}

// CreateTrunk draws a tree trunk standing on grass
func CreateTrunk() *image.RGBA {
	img := CreateSolidTile(ColorPalette.Grass)
	for y := 0; y < TileSize-2; y++ {
		for x := TileSize/2 - 2; x < TileSize/2+2; x++ {
			img.Set(x, y, ColorPalette.Trunk)
		}
	}
	return img
}

// CreateCharacterFrame draws one frame of a round character facing dir.
// Steps 1 and 3 lift one foot so a four-frame row reads as a walk cycle.
func CreateCharacterFrame(body color.RGBA, dir entity.Direction, step int) *image.RGBA {
	img := CreateCircle(body, ColorPalette.Outline, TileSize/2-3)

	bob := 0
	if step%2 == 1 {
		bob = 1
	}
	eyeY := 6 + bob
	switch dir {
	case entity.DirDown:
		img.Set(6, eyeY, ColorPalette.Eye)
		img.Set(9, eyeY, ColorPalette.Eye)
	case entity.DirLeft:
		img.Set(5, eyeY, ColorPalette.Eye)
	case entity.DirRight:
		img.Set(10, eyeY, ColorPalette.Eye)
	case entity.DirUp:
		// Back of the head
		for x := 6; x <= 9; x++ {
			img.Set(x, 4, Darken(body, 0.6))
		}
	}

	leftFoot, rightFoot := TileSize-2, TileSize-2
	switch step % 4 {
	case 1:
		leftFoot--
	case 3:
		rightFoot--
	}
	img.Set(5, leftFoot, ColorPalette.Outline)
	img.Set(10, rightFoot, ColorPalette.Outline)

	return img
}

// GenerateCharacterSheet creates a sheet with one row per direction and
// WalkFrames columns. Column 0 doubles as the idle frame.
func GenerateCharacterSheet(body color.RGBA, rows []entity.Direction) *image.RGBA {
	tiles := make([]*image.RGBA, 0, len(rows)*WalkFrames)
	for _, dir := range rows {
		for step := 0; step < WalkFrames; step++ {
			tiles = append(tiles, CreateCharacterFrame(body, dir, step))
		}
	}
	return CreateAtlas(tiles, WalkFrames)
}

// GenerateAndSave generates every sheet and saves it to assetDir
func GenerateAndSave(assetDir string) error {
	fmt.Println("Generating placeholder sheets...")

	if err := os.MkdirAll(assetDir, 0755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	sheets := []struct {
		name string
		img  *image.RGBA
		desc string
	}{
		{"tiles.png", GenerateTileSheet(), "tile sheet"},
		{"player.png", GenerateCharacterSheet(ColorPalette.Player, PlayerRows), "player: down, up, side"},
		{"npc.png", GenerateCharacterSheet(ColorPalette.NPC, NPCRows), "npc: down, up, left, right"},
	}

	for _, s := range sheets {
		path := filepath.Join(assetDir, s.name)
		if err := SavePNG(s.img, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", s.name, err)
		}
		b := s.img.Bounds()
		fmt.Printf("✓ Generated %s (%dx%d pixels, %dx%d tiles @ %dpx, %s)\n",
			path, b.Dx(), b.Dy(), b.Dx()/TileSize, b.Dy()/TileSize, TileSize, s.desc)
	}

	fmt.Println("Placeholder sheets generated successfully!")
	return nil
}
