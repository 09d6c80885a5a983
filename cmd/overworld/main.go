// Package main is the entry point for the overworld runtime.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"chosenoffset.com/overworld/data"
	"chosenoffset.com/overworld/internal/config"
	ebitenrender "chosenoffset.com/overworld/internal/render/ebiten"
	"chosenoffset.com/overworld/internal/scene"
	"chosenoffset.com/overworld/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mapPath := flag.String("map", cfg.MapPath, "map document to load")
	dataDir := flag.String("data", cfg.DataDir, "directory holding map and sprite documents (default: embedded)")
	assetDir := flag.String("assets", cfg.AssetDir, "directory holding sheet images")
	flag.Parse()
	cfg.MapPath = *mapPath
	cfg.DataDir = *dataDir
	cfg.AssetDir = *assetDir

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// run preloads the world and blocks in the game loop.
func run(ctx context.Context, cfg config.Config) error {
	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Running without tracing")
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	var docs fs.FS = data.FS()
	if cfg.DataDir != "" {
		docs = os.DirFS(cfg.DataDir)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	world, err := scene.Preload(ctx, cfg, inputMgr, loader, docs)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	manager := scene.NewManager(renderer, inputMgr, world, cfg.ScreenWidth, cfg.ScreenHeight)

	engine.SetWindowSize(cfg.ScreenWidth*cfg.WindowScale, cfg.ScreenHeight*cfg.WindowScale)
	engine.SetWindowTitle("Overworld")
	engine.SetWindowResizable(true)

	log.Println("Starting game...")
	if err := engine.RunGame(manager); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}
