package scene

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"chosenoffset.com/overworld/internal/assets"
	"chosenoffset.com/overworld/internal/config"
	"chosenoffset.com/overworld/internal/entity"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/telemetry"
	"chosenoffset.com/overworld/internal/world/camera"
	"chosenoffset.com/overworld/internal/world/tilemap"
)

// NPCRole is the spawn point the default NPC stands at.
const NPCRole = "npc"

// Preload runs the one-time load phase: sheet images, the map and sprite
// documents, tile slicing and animation tables. Any error aborts startup.
func Preload(ctx context.Context, cfg config.Config, input render.InputManager, loader render.ResourceLoader, docs fs.FS) (w *World, err error) {
	ctx, span := telemetry.Tracer("scene").Start(ctx, "world.preload")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "preload failed")
		}
		span.End()
	}()

	m, err := loadMap(ctx, cfg, loader, docs)
	if err != nil {
		return nil, err
	}

	player := entity.New(entity.Config{
		Name:          "player",
		Role:          PlayerSpawn,
		Speed:         cfg.PlayerSpeed,
		FrameInterval: cfg.FrameInterval,
	}, entity.NewPlayerController(input))
	if err := loadEntity(player, cfg, loader, docs, cfg.PlayerSheet); err != nil {
		return nil, err
	}

	npc := entity.New(entity.Config{
		Name:          "npc",
		Role:          NPCRole,
		Speed:         cfg.PlayerSpeed,
		FrameInterval: cfg.FrameInterval,
	}, entity.IdleController{})
	if err := loadEntity(npc, cfg, loader, docs, cfg.NPCSheet); err != nil {
		return nil, err
	}

	cam := camera.New(cfg.ScreenWidth, cfg.ScreenHeight, cfg.CameraBias)
	w, err = NewWorld(m, cam, player, []*entity.Entity{npc}, cfg.PlayerStart)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("player.id", player.ID),
		attribute.String("npc.id", npc.ID),
		attribute.Int("world.entity_count", 1+len(w.NPCs)),
	)
	log.Printf("Player %s at (%.0f, %.0f)", player.ID, player.Position().X, player.Position().Y)
	return w, nil
}

func loadMap(ctx context.Context, cfg config.Config, loader render.ResourceLoader, docs fs.FS) (*tilemap.TileMap, error) {
	doc, err := assets.ReadDocument(docs, cfg.MapPath)
	if err != nil {
		return nil, err
	}

	sheetPath, err := tilemap.TilesetImage(doc)
	if err != nil {
		return nil, err
	}
	if sheetPath == "" {
		sheetPath = cfg.TileSheet
	}
	sheet, err := assets.LoadImage(loader, filepath.Join(cfg.AssetDir, sheetPath))
	if err != nil {
		return nil, err
	}

	m := tilemap.New(cfg.MapOrigin)
	if err := m.Load(sheet, doc); err != nil {
		return nil, err
	}
	if err := m.PrepareTiles(ctx); err != nil {
		return nil, err
	}

	log.Printf("Loaded map: %s (%dx%d, %d layers, %d spawn points)",
		cfg.MapPath, m.Width(), m.Height(), len(m.Layers()), len(m.SpawnPoints()))
	return m, nil
}

func loadEntity(e *entity.Entity, cfg config.Config, loader render.ResourceLoader, docs fs.FS, docPath string) error {
	doc, err := assets.ReadDocument(docs, docPath)
	if err != nil {
		return err
	}
	sheetPath, err := entity.SheetImage(doc)
	if err != nil {
		return &assets.AssetLoadError{Path: docPath, Reason: "invalid sprite sheet document", Err: err}
	}
	if sheetPath == "" {
		return assets.Errorf(docPath, "sprite sheet document names no image")
	}

	imgPath := filepath.Join(cfg.AssetDir, sheetPath)
	sheet, err := assets.LoadImage(loader, imgPath)
	if err != nil {
		return err
	}
	if err := e.Load(imgPath, sheet, doc); err != nil {
		return err
	}
	if err := e.PrepareAnims(); err != nil {
		return err
	}

	log.Printf("Loaded sprite sheet: %s for %s", imgPath, e.Name)
	return nil
}
