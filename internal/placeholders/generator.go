// Package placeholders draws the procedural art the overworld ships with: a
// tile sheet and character sprite sheets, written out as PNG files.
package placeholders

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// TileSize is the edge length of every placeholder tile and sprite frame
const TileSize = 16

// ColorPalette defines colors for the overworld theme
var ColorPalette = struct {
	Grass     color.RGBA
	GrassTuft color.RGBA
	Path      color.RGBA
	Water     color.RGBA
	WallStone color.RGBA
	Canopy    color.RGBA
	Trunk     color.RGBA
	Roof      color.RGBA
	Flower    color.RGBA

	// Characters
	Player  color.RGBA
	NPC     color.RGBA
	Outline color.RGBA
	Eye     color.RGBA
}{
	Grass:     color.RGBA{88, 160, 72, 255},
	GrassTuft: color.RGBA{64, 128, 52, 255},
	Path:      color.RGBA{196, 172, 120, 255},
	Water:     color.RGBA{60, 110, 200, 255},
	WallStone: color.RGBA{130, 125, 115, 255},
	Canopy:    color.RGBA{36, 100, 40, 255},
	Trunk:     color.RGBA{110, 72, 40, 255},
	Roof:      color.RGBA{170, 60, 50, 255},
	Flower:    color.RGBA{240, 220, 80, 255},

	Player:  color.RGBA{0, 200, 100, 255}, // Bright green
	NPC:     color.RGBA{220, 60, 60, 255}, // Red
	Outline: color.RGBA{20, 20, 20, 255},
	Eye:     color.RGBA{255, 255, 255, 255},
}

var transparent = color.RGBA{0, 0, 0, 0}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolidTile(fillColor)
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < TileSize; x++ {
			img.Set(x, i, borderColor)
			img.Set(x, TileSize-1-i, borderColor)
		}
		for y := 0; y < TileSize; y++ {
			img.Set(i, y, borderColor)
			img.Set(TileSize-1-i, y, borderColor)
		}
	}
	return img
}

// CreatePatternedTile creates a tile with a simple pattern
func CreatePatternedTile(baseColor, patternColor color.RGBA, pattern string) *image.RGBA {
	img := CreateSolidTile(baseColor)

	switch pattern {
	case "grid":
		for i := 0; i < TileSize; i += 4 {
			for x := 0; x < TileSize; x++ {
				img.Set(x, i, patternColor)
				img.Set(i, x, patternColor)
			}
		}
	case "dots":
		quarter := TileSize / 4
		threeQuarter := 3 * TileSize / 4
		for _, p := range []image.Point{{quarter, quarter}, {threeQuarter, quarter}, {quarter, threeQuarter}, {threeQuarter, threeQuarter}} {
			img.Set(p.X, p.Y, patternColor)
		}
	case "waves":
		for y := 3; y < TileSize; y += 6 {
			for x := 0; x < TileSize; x++ {
				if (x/3)%2 == 0 {
					img.Set(x, y, patternColor)
				} else {
					img.Set(x, y+1, patternColor)
				}
			}
		}
	case "shingles":
		for y := 0; y < TileSize; y += 4 {
			for x := 0; x < TileSize; x++ {
				img.Set(x, y, patternColor)
			}
			offset := (y / 4 % 2) * 4
			for x := offset; x < TileSize; x += 8 {
				for dy := 0; dy < 4; dy++ {
					img.Set(x, y+dy, patternColor)
				}
			}
		}
	}

	return img
}

// CreateCircle creates a circular sprite on a transparent tile
func CreateCircle(fillColor, outlineColor color.RGBA, radius int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{transparent}, image.Point{}, draw.Src)

	center := TileSize / 2
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			dx := x - center
			dy := y - center
			distSq := dx*dx + dy*dy

			if distSq <= radius*radius {
				img.Set(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.Set(x, y, outlineColor)
			}
		}
	}

	return img
}

// CreateAtlas creates a sheet from multiple tiles laid out row-major. Nil
// tiles are left transparent.
func CreateAtlas(tiles []*image.RGBA, columns int) *image.RGBA {
	rows := (len(tiles) + columns - 1) / columns
	atlas := image.NewRGBA(image.Rect(0, 0, columns*TileSize, rows*TileSize))
	draw.Draw(atlas, atlas.Bounds(), &image.Uniform{transparent}, image.Point{}, draw.Src)

	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		x := (i % columns) * TileSize
		y := (i / columns) * TileSize
		draw.Draw(atlas, image.Rect(x, y, x+TileSize, y+TileSize), tile, image.Point{}, draw.Src)
	}

	return atlas
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
