// Package config reads runtime settings from the environment. A .env file in
// the working directory is loaded first for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"chosenoffset.com/overworld/internal/core/geom"
)

// Environment variable names
const (
	EnvScreenWidth   = "OVERWORLD_SCREEN_WIDTH"
	EnvScreenHeight  = "OVERWORLD_SCREEN_HEIGHT"
	EnvWindowScale   = "OVERWORLD_WINDOW_SCALE"
	EnvDataDir       = "OVERWORLD_DATA_DIR"
	EnvAssetDir      = "OVERWORLD_ASSET_DIR"
	EnvMap           = "OVERWORLD_MAP"
	EnvTileSheet     = "OVERWORLD_TILESHEET"
	EnvPlayerSheet   = "OVERWORLD_PLAYER_SHEET"
	EnvNPCSheet      = "OVERWORLD_NPC_SHEET"
	EnvMapOrigin     = "OVERWORLD_MAP_ORIGIN"
	EnvPlayerStart   = "OVERWORLD_PLAYER_START"
	EnvCameraBias    = "OVERWORLD_CAMERA_BIAS"
	EnvPlayerSpeed   = "OVERWORLD_PLAYER_SPEED"
	EnvFrameInterval = "OVERWORLD_FRAME_INTERVAL"
	EnvTelemetry     = "OVERWORLD_TELEMETRY"
)

// Config holds runtime configuration.
type Config struct {
	ScreenWidth  int
	ScreenHeight int
	WindowScale  int

	// DataDir holds the map and sprite-sheet documents. Empty means the
	// documents embedded in the binary.
	DataDir     string
	AssetDir    string // Directory sheet images are loaded from
	MapPath     string
	TileSheet   string // Used when the map's tileset names no image
	PlayerSheet string
	NPCSheet    string

	MapOrigin   geom.Point // World position of the map's top-left corner
	PlayerStart geom.Point // Used when the map has no "player" spawn point
	CameraBias  geom.Point

	PlayerSpeed   int // Pixels per step
	FrameInterval int // Ticks per animation frame

	Telemetry bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ScreenWidth:   512,
		ScreenHeight:  384,
		WindowScale:   2,
		AssetDir:      "assets",
		MapPath:       "world.json",
		TileSheet:     "tiles.png",
		PlayerSheet:   "player.json",
		NPCSheet:      "npc.json",
		MapOrigin:     geom.Point{X: 100, Y: -150},
		PlayerStart:   geom.Point{X: 150, Y: 200},
		CameraBias:    geom.Point{X: 100, Y: 0},
		PlayerSpeed:   2,
		FrameInterval: 8,
	}
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not fatal - variables may be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from defaults overridden by lookup. Empty values are
// treated as unset.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.int(EnvScreenWidth, &cfg.ScreenWidth)
	p.int(EnvScreenHeight, &cfg.ScreenHeight)
	p.int(EnvWindowScale, &cfg.WindowScale)
	p.string(EnvDataDir, &cfg.DataDir)
	p.string(EnvAssetDir, &cfg.AssetDir)
	p.string(EnvMap, &cfg.MapPath)
	p.string(EnvTileSheet, &cfg.TileSheet)
	p.string(EnvPlayerSheet, &cfg.PlayerSheet)
	p.string(EnvNPCSheet, &cfg.NPCSheet)
	p.point(EnvMapOrigin, &cfg.MapOrigin)
	p.point(EnvPlayerStart, &cfg.PlayerStart)
	p.point(EnvCameraBias, &cfg.CameraBias)
	p.int(EnvPlayerSpeed, &cfg.PlayerSpeed)
	p.int(EnvFrameInterval, &cfg.FrameInterval)
	p.bool(EnvTelemetry, &cfg.Telemetry)

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every numeric setting is usable.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{EnvScreenWidth, c.ScreenWidth},
		{EnvScreenHeight, c.ScreenHeight},
		{EnvWindowScale, c.WindowScale},
		{EnvPlayerSpeed, c.PlayerSpeed},
		{EnvFrameInterval, c.FrameInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.MapPath == "" {
		return fmt.Errorf("%s must not be empty", EnvMap)
	}
	return nil
}

// parser records the first error and ignores later variables.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(name string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) string(name string, dst *string) {
	if v, ok := p.get(name); ok {
		*dst = v
	}
}

func (p *parser) int(name string, dst *int) {
	v, ok := p.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
		return
	}
	*dst = n
}

func (p *parser) bool(name string, dst *bool) {
	v, ok := p.get(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
		return
	}
	*dst = b
}

// point parses "x,y".
func (p *parser) point(name string, dst *geom.Point) {
	v, ok := p.get(name)
	if !ok {
		return
	}
	xs, ys, found := strings.Cut(v, ",")
	if !found {
		p.err = fmt.Errorf("invalid %s %q: want x,y", name, v)
		return
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
		return
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
		return
	}
	*dst = geom.Point{X: x, Y: y}
}
