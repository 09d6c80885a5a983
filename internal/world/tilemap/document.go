package tilemap

import (
	"encoding/json"
	"strings"
)

// Tiled stores flip/rotation flags in the top bits of each gid.
const (
	flipHorizontal = 0x80000000
	flipVertical   = 0x40000000
	flipDiagonal   = 0x20000000
	flipMask       = flipHorizontal | flipVertical | flipDiagonal
)

// Layer types in the Tiled JSON format
const (
	layerTypeTiles   = "tilelayer"
	layerTypeObjects = "objectgroup"
)

// document is the subset of the Tiled JSON map format the runtime reads.
type document struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	TileWidth  int           `json:"tilewidth"`
	TileHeight int           `json:"tileheight"`
	Layers     []layerDoc    `json:"layers"`
	Tilesets   []tilesetDoc  `json:"tilesets"`
	Properties []propertyDoc `json:"properties"`
}

type layerDoc struct {
	Type       string        `json:"type"`
	Name       string        `json:"name"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Data       []uint32      `json:"data"`
	Visible    *bool         `json:"visible"`
	Properties []propertyDoc `json:"properties"`
	Objects    []objectDoc   `json:"objects"`
}

type objectDoc struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type tilesetDoc struct {
	FirstGID  int       `json:"firstgid"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Image     string    `json:"image"`
	Columns   int       `json:"columns"`
	TileCount int       `json:"tilecount"`
	Tiles     []tileDoc `json:"tiles"`
}

type tileDoc struct {
	ID         int           `json:"id"`
	Properties []propertyDoc `json:"properties"`
}

type propertyDoc struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MapLoadError{Reason: "failed to parse map document", Err: err}
	}
	return &doc, nil
}

// TilesetImage returns the image path of the map's first tileset, or an empty
// string when the document does not name one.
func TilesetImage(data []byte) (string, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return "", err
	}
	if len(doc.Tilesets) == 0 {
		return "", nil
	}
	return doc.Tilesets[0].Image, nil
}

// validateDocument checks that every section the runtime needs is present
func validateDocument(doc *document) error {
	if doc.Width <= 0 || doc.Height <= 0 {
		return loadErrorf("invalid map dimensions: %dx%d", doc.Width, doc.Height)
	}

	if doc.TileWidth <= 0 || doc.TileHeight <= 0 {
		return loadErrorf("invalid tile size: %dx%d", doc.TileWidth, doc.TileHeight)
	}

	if doc.TileWidth != doc.TileHeight {
		return loadErrorf("tiles must be square, got %dx%d", doc.TileWidth, doc.TileHeight)
	}

	if len(doc.Tilesets) == 0 {
		return loadErrorf("map has no tileset")
	}

	if doc.Tilesets[0].Source != "" {
		return loadErrorf("external tileset %q is not supported, embed it in the map", doc.Tilesets[0].Source)
	}

	var tileLayers, objectLayers int
	for _, l := range doc.Layers {
		switch l.Type {
		case layerTypeTiles:
			tileLayers++
			if len(l.Data) != l.Width*l.Height {
				return loadErrorf("layer %q has %d cells, expected %dx%d", l.Name, len(l.Data), l.Width, l.Height)
			}
		case layerTypeObjects:
			objectLayers++
		}
	}

	if tileLayers == 0 {
		return loadErrorf("map has no tile layers")
	}
	if objectLayers == 0 {
		return loadErrorf("map has no object layer with spawn points")
	}

	return nil
}

// isCollisionLayer reports whether a tile layer marks blocked cells rather
// than drawable tiles.
func (l *layerDoc) isCollisionLayer() bool {
	name := strings.ToLower(l.Name)
	if name == "collision" || name == "collisions" {
		return true
	}
	return boolProperty(l.Properties, "collision", false)
}

func (l *layerDoc) isVisible() bool {
	return l.Visible == nil || *l.Visible
}

func boolProperty(props []propertyDoc, name string, defaultVal bool) bool {
	for _, p := range props {
		if p.Name != name {
			continue
		}
		if b, ok := p.Value.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// propertyMap flattens Tiled's property list into the map form used by atlas.
func propertyMap(props []propertyDoc) map[string]interface{} {
	if len(props) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(props))
	for _, p := range props {
		m[p.Name] = p.Value
	}
	return m
}

// tileIndex converts a gid into an index into the first tileset. Empty cells
// map to Empty and gids below the tileset's range map to invalidCell.
func tileIndex(gid uint32, firstGID int) int {
	gid &^= flipMask
	if gid == 0 {
		return Empty
	}
	index := int(gid) - firstGID
	if index < 0 {
		return invalidCell
	}
	return index
}
