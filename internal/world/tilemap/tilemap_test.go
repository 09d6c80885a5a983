package tilemap

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/render/rendertest"
	"chosenoffset.com/overworld/internal/world/camera"
)

const testTileSize = 16

// borderedDoc builds a size x size map with a one-cell collision border, a
// ground layer of tile gid 1 everywhere and the given spawn points.
func borderedDoc(size int, spawns ...objectDoc) *document {
	ground := make([]uint32, size*size)
	walls := make([]uint32, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			ground[row*size+col] = 1
			if row == 0 || col == 0 || row == size-1 || col == size-1 {
				walls[row*size+col] = 2
			}
		}
	}

	return &document{
		Width:      size,
		Height:     size,
		TileWidth:  testTileSize,
		TileHeight: testTileSize,
		Layers: []layerDoc{
			{Type: layerTypeTiles, Name: "ground", Width: size, Height: size, Data: ground},
			{Type: layerTypeTiles, Name: "collisions", Width: size, Height: size, Data: walls},
			{Type: layerTypeObjects, Name: "spawns", Objects: spawns},
		},
		Tilesets: []tilesetDoc{{FirstGID: 1, Columns: 4, TileCount: 16}},
	}
}

func encode(t *testing.T, doc *document) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to encode map document: %v", err)
	}
	return data
}

func loadPrepared(t *testing.T, origin geom.Point, doc *document) *TileMap {
	t.Helper()
	m := New(origin)
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, doc)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.PrepareTiles(context.Background()); err != nil {
		t.Fatalf("PrepareTiles failed: %v", err)
	}
	return m
}

func TestLoadValidMap(t *testing.T) {
	doc := borderedDoc(12,
		objectDoc{Name: "player", X: 96, Y: 96},
		objectDoc{Name: "npc", X: 48, Y: 32},
	)
	m := loadPrepared(t, geom.Point{}, doc)

	if m.Width() != 12 || m.Height() != 12 || m.TileSize() != testTileSize {
		t.Errorf("Unexpected map geometry %dx%d @%d", m.Width(), m.Height(), m.TileSize())
	}

	// The collision layer is not a visual layer
	if len(m.Layers()) != 1 || m.Layers()[0].Name != "ground" {
		t.Errorf("Expected only the ground layer to be visual, got %d layers", len(m.Layers()))
	}

	spawns := m.SpawnPoints()
	if len(spawns) != 2 {
		t.Fatalf("Expected 2 spawn points, got %d", len(spawns))
	}
	if spawns[0] != (SpawnPoint{Name: "player", X: 96, Y: 96}) {
		t.Errorf("Unexpected first spawn point %+v", spawns[0])
	}
	if spawns[1].Name != "npc" {
		t.Errorf("Expected document order to be kept, got %q second", spawns[1].Name)
	}

	// Returned slice is a copy
	spawns[0].Name = "changed"
	if sp, _ := m.SpawnPoint("player"); sp.Name != "player" {
		t.Error("SpawnPoints must not expose internal state")
	}
}

func TestLoadRejectsMissingSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *document)
	}{
		{"zero width", func(d *document) { d.Width = 0 }},
		{"missing tile size", func(d *document) { d.TileWidth, d.TileHeight = 0, 0 }},
		{"non-square tiles", func(d *document) { d.TileHeight = 8 }},
		{"no tilesets", func(d *document) { d.Tilesets = nil }},
		{"external tileset", func(d *document) { d.Tilesets[0].Source = "tiles.tsx" }},
		{"no tile layers", func(d *document) { d.Layers = d.Layers[2:] }},
		{"no object layer", func(d *document) { d.Layers = d.Layers[:2] }},
		{"truncated layer data", func(d *document) { d.Layers[0].Data = d.Layers[0].Data[:10] }},
		{"no collision source", func(d *document) { d.Layers = append(d.Layers[:1], d.Layers[2]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := borderedDoc(6, objectDoc{Name: "player"})
			tt.mutate(doc)

			err := New(geom.Point{}).Load(rendertest.NewImage(64, 64), encode(t, doc))
			var loadErr *MapLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected MapLoadError, got %v", err)
			}
		})
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	err := New(geom.Point{}).Load(rendertest.NewImage(64, 64), []byte(`{"width": `))
	var loadErr *MapLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected MapLoadError, got %v", err)
	}
	if loadErr.Unwrap() == nil {
		t.Error("Expected JSON error to be wrapped")
	}
}

func TestLoadRequiresSheet(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	err := New(geom.Point{}).Load(nil, encode(t, doc))
	var loadErr *MapLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected MapLoadError, got %v", err)
	}
}

func TestPrepareTilesRejectsIndexOutsideSheet(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Layers[0].Data[5] = 17 // sheet has 16 tiles

	m := New(geom.Point{})
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, doc)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err := m.PrepareTiles(context.Background())
	var loadErr *MapLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected MapLoadError, got %v", err)
	}
}

func TestPrepareTilesRejectsGidBelowFirstGid(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Tilesets[0].FirstGID = 5
	for i := range doc.Layers[0].Data {
		doc.Layers[0].Data[i] = 5
	}
	doc.Layers[0].Data[0] = 3

	m := New(geom.Point{})
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, doc)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.PrepareTiles(context.Background()); err == nil {
		t.Error("Expected gid below firstgid to be rejected")
	}
}

func TestPrepareTilesRejectsLayerDimensionMismatch(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	extra := layerDoc{Type: layerTypeTiles, Name: "trees", Width: 2, Height: 2, Data: []uint32{0, 1, 1, 0}}
	doc.Layers = append(doc.Layers, extra)

	m := New(geom.Point{})
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, doc)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err := m.PrepareTiles(context.Background())
	var loadErr *MapLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected MapLoadError, got %v", err)
	}
}

func TestPrepareTilesRejectsColumnMismatch(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Tilesets[0].Columns = 8

	m := New(geom.Point{})
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, doc)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.PrepareTiles(context.Background()); err == nil {
		t.Error("Expected column mismatch to be rejected")
	}
}

func TestPrepareTilesRecordsFailureOnSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Tilesets[0].Columns = 8
	m := New(geom.Point{})
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, doc)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.PrepareTiles(context.Background()); err == nil {
		t.Fatal("Expected column mismatch to be rejected")
	}

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "tilemap.prepare" {
		t.Fatalf("Expected one tilemap.prepare span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("Expected error status, got %v", spans[0].Status())
	}
	if len(spans[0].Events()) == 0 {
		t.Error("Expected the error to be recorded as an event")
	}
}

func TestIsBlockedOutsideBounds(t *testing.T) {
	origin := geom.Point{X: 100, Y: -150}
	doc := borderedDoc(12, objectDoc{Name: "player", X: 96, Y: 96})
	m := loadPrepared(t, origin, doc)

	b := m.Bounds()
	outside := []geom.Point{
		{X: b.X - 0.5, Y: b.Y + 50},
		{X: b.X + b.W, Y: b.Y + 50},
		{X: b.X + 50, Y: b.Y - 1},
		{X: b.X + 50, Y: b.Y + b.H},
		{X: -10000, Y: 10000},
		{X: b.X - 1, Y: b.Y - 1},
	}
	for _, p := range outside {
		if !m.IsBlocked(p.X, p.Y) {
			t.Errorf("Expected point %v outside the map to be blocked", p)
		}
	}

	// Border is blocked, interior open
	if !m.IsBlocked(origin.X+1, origin.Y+1) {
		t.Error("Expected border cell to be blocked")
	}
	if m.IsBlocked(origin.X+16*5+3, origin.Y+16*6+3) {
		t.Error("Expected interior cell to be open")
	}
}

func TestCollidesTileSetBlocks(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	// Drop the collision layer and mark tile id 2 (gid 3) as collidable
	doc.Layers = append(doc.Layers[:1], doc.Layers[2])
	doc.Tilesets[0].Tiles = []tileDoc{{ID: 2, Properties: []propertyDoc{{Name: "collides", Type: "bool", Value: true}}}}
	doc.Layers[0].Data[1*4+2] = 3

	m := loadPrepared(t, geom.Point{}, doc)

	if !m.IsBlocked(2*16+1, 1*16+1) {
		t.Error("Expected cell holding a collides tile to be blocked")
	}
	if m.IsBlocked(1*16+1, 1*16+1) {
		t.Error("Expected plain ground cell to be open")
	}

	// collides=false on a tile does not block
	doc.Tilesets[0].Tiles = append(doc.Tilesets[0].Tiles,
		tileDoc{ID: 1, Properties: []propertyDoc{{Name: "collides", Type: "bool", Value: false}}})
	doc.Layers[0].Data[2*4+1] = 2
	m = loadPrepared(t, geom.Point{}, doc)
	if m.IsBlocked(1*16+1, 2*16+1) {
		t.Error("Expected collides=false tile to be open")
	}
	if !m.IsBlocked(2*16+1, 1*16+1) {
		t.Error("Expected collides tile to stay blocked")
	}
}

func TestFailedLoadLeavesMapUnchanged(t *testing.T) {
	noCollision := borderedDoc(4, objectDoc{Name: "player"})
	noCollision.Layers = append(noCollision.Layers[:1], noCollision.Layers[2])

	fresh := New(geom.Point{})
	if err := fresh.Load(rendertest.NewImage(64, 64), encode(t, noCollision)); err == nil {
		t.Fatal("Expected map without collision data to be rejected")
	}
	if !fresh.IsBlocked(1, 1) {
		t.Error("Expected an unloaded map to block everything")
	}
	if err := fresh.PrepareTiles(context.Background()); err == nil {
		t.Error("Expected PrepareTiles to fail after a failed Load")
	}

	m := loadPrepared(t, geom.Point{}, borderedDoc(4, objectDoc{Name: "player"}))
	if err := m.Load(rendertest.NewImage(64, 64), encode(t, noCollision)); err == nil {
		t.Fatal("Expected map without collision data to be rejected")
	}
	if !m.IsBlocked(1, 1) || m.IsBlocked(16+1, 16+1) {
		t.Error("Expected the previous map to survive a failed Load")
	}
	if m.Width() != 4 || len(m.Layers()) != 1 {
		t.Errorf("Expected previous layers, got width %d and %d layers", m.Width(), len(m.Layers()))
	}
}

func TestCollisionLayerByProperty(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Layers[1].Name = "walls"
	doc.Layers[1].Properties = []propertyDoc{{Name: "collision", Type: "bool", Value: true}}

	m := loadPrepared(t, geom.Point{}, doc)
	if len(m.Layers()) != 1 {
		t.Errorf("Expected property-flagged collision layer to be hidden, got %d layers", len(m.Layers()))
	}
	if !m.IsBlocked(0, 0) {
		t.Error("Expected border to be blocked")
	}
}

func TestFlipFlagsAreMasked(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Layers[0].Data[0] = 4 | flipHorizontal | flipDiagonal

	m := loadPrepared(t, geom.Point{}, doc)
	if got := m.Layers()[0].TileAt(0, 0); got != 3 {
		t.Errorf("Expected tile index 3 after masking flip flags, got %d", got)
	}
}

func TestCellGeometry(t *testing.T) {
	origin := geom.Point{X: 100, Y: -150}
	m := loadPrepared(t, origin, borderedDoc(4, objectDoc{Name: "player", X: 20, Y: 30}))

	if p := m.CellOrigin(2, 3); p != (geom.Point{X: 132, Y: -102}) {
		t.Errorf("Unexpected cell origin %v", p)
	}
	if col, row := m.CellAt(131.9, -102); col != 1 || row != 3 {
		t.Errorf("Expected cell (1, 3), got (%d, %d)", col, row)
	}
	if col, _ := m.CellAt(99, 0); col != -1 {
		t.Errorf("Expected negative column left of origin, got %d", col)
	}

	p, ok := m.SpawnWorld("player")
	if !ok || p != (geom.Point{X: 120, Y: -120}) {
		t.Errorf("Expected spawn at (120, -120), got %v (%v)", p, ok)
	}
	if _, ok := m.SpawnWorld("missing"); ok {
		t.Error("Expected missing spawn point to report false")
	}
}

type target struct{ pos geom.Point }

func (t *target) Position() geom.Point { return t.pos }

func TestDrawOffsetsAndCulls(t *testing.T) {
	m := loadPrepared(t, geom.Point{}, borderedDoc(12, objectDoc{Name: "player"}))

	// A 32x32 viewport whose top-left sits at world (8, 8) covers cells 0..2 on each axis
	cam := camera.New(32, 32, geom.Point{})
	cam.AttachTo(&target{pos: geom.Point{X: 24, Y: 24}})
	cam.Update()

	dst := rendertest.NewImage(32, 32)
	m.Draw(dst, cam)

	if len(dst.Calls) != 9 {
		t.Fatalf("Expected 9 culled draw calls, got %d", len(dst.Calls))
	}
	first := dst.Calls[0]
	if first.TX != -8 || first.TY != -8 {
		t.Errorf("Expected first tile at (-8, -8), got (%v, %v)", first.TX, first.TY)
	}
}

func TestDrawNothingWhenViewOutsideMap(t *testing.T) {
	m := loadPrepared(t, geom.Point{}, borderedDoc(4, objectDoc{Name: "player"}))

	cam := camera.New(32, 32, geom.Point{})
	cam.AttachTo(&target{pos: geom.Point{X: -500, Y: -500}})
	cam.Update()

	dst := rendertest.NewImage(32, 32)
	m.Draw(dst, cam)
	if len(dst.Calls) != 0 {
		t.Errorf("Expected no draw calls, got %d", len(dst.Calls))
	}
}

func TestDrawAboveLayersSeparately(t *testing.T) {
	doc := borderedDoc(2, objectDoc{Name: "player"})
	trees := layerDoc{
		Type:       layerTypeTiles,
		Name:       "treetops",
		Width:      2,
		Height:     2,
		Data:       []uint32{5, 0, 0, 0},
		Properties: []propertyDoc{{Name: "above", Type: "bool", Value: true}},
	}
	hidden := false
	roofs := layerDoc{Type: layerTypeTiles, Name: "roofs", Width: 2, Height: 2, Data: []uint32{6, 6, 6, 6}, Visible: &hidden}
	doc.Layers = append(doc.Layers, trees, roofs)

	m := loadPrepared(t, geom.Point{}, doc)

	cam := camera.New(64, 64, geom.Point{})
	cam.AttachTo(&target{pos: geom.Point{X: 16, Y: 16}})
	cam.Update()

	below := rendertest.NewImage(64, 64)
	m.Draw(below, cam)
	if len(below.Calls) != 4 {
		t.Errorf("Expected 4 ground tiles below entities, got %d", len(below.Calls))
	}

	above := rendertest.NewImage(64, 64)
	m.DrawAbove(above, cam)
	if len(above.Calls) != 1 {
		t.Errorf("Expected 1 treetop tile above entities, got %d", len(above.Calls))
	}
}

func TestPrepareTilesIsIdempotent(t *testing.T) {
	m := loadPrepared(t, geom.Point{}, borderedDoc(4, objectDoc{Name: "player"}))
	if err := m.PrepareTiles(context.Background()); err != nil {
		t.Errorf("Second PrepareTiles failed: %v", err)
	}
}

func TestTilesetImage(t *testing.T) {
	doc := borderedDoc(4, objectDoc{Name: "player"})
	doc.Tilesets[0].Image = "tiles.png"

	path, err := TilesetImage(encode(t, doc))
	if err != nil {
		t.Fatalf("TilesetImage failed: %v", err)
	}
	if path != "tiles.png" {
		t.Errorf("Expected tiles.png, got %q", path)
	}

	var loadErr *MapLoadError
	if _, err := TilesetImage([]byte("{")); !errors.As(err, &loadErr) {
		t.Errorf("Expected MapLoadError for malformed document, got %v", err)
	}
}
