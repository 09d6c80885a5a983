package entity

import (
	"encoding/json"
	"fmt"

	"chosenoffset.com/overworld/internal/assets"
	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/world/atlas"
)

// sheetDoc is the JSON document describing a character sprite sheet.
//
//	{
//	  "image": "player.png",
//	  "frame_width": 16, "frame_height": 16,
//	  "animations": {"idle-down": [0], "walk-down": [0, 1, 2, 3], "idle-side": [8]},
//	  "mirror": {"walk-right": "walk-left"},
//	  "side_faces": "left",
//	  "box": {"x": 3, "y": 6, "w": 10, "h": 10}
//	}
//
// With no "animations" the sheet is read by row: down, up, left, right, where
// column 0 is the idle frame and every column is a walk frame. A three-row
// sheet draws right as the mirrored left row. "box" is the collision box
// relative to a frame's top-left; it defaults to the whole frame.
type sheetDoc struct {
	Image       string            `json:"image"`
	FrameWidth  int               `json:"frame_width"`
	FrameHeight int               `json:"frame_height"`
	Animations  map[string][]int  `json:"animations"`
	Mirror      map[string]string `json:"mirror"`
	SideFaces   string            `json:"side_faces"`
	Box         *boxDoc           `json:"box"`
}

type boxDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// bounds returns the collision box, or the whole frame when none is given.
func (d *sheetDoc) bounds() geom.Rect {
	if d.Box == nil {
		return geom.Rect{W: float64(d.FrameWidth), H: float64(d.FrameHeight)}
	}
	return geom.Rect{X: d.Box.X, Y: d.Box.Y, W: d.Box.W, H: d.Box.H}
}

// Anim is one resolved animation: its frames and whether they are drawn
// flipped horizontally.
type Anim struct {
	Frames   []render.Image
	Mirrored bool
}

// animSpec is an animation before its frames are sliced.
type animSpec struct {
	indices  []int
	mirrored bool
}

// SheetImage returns the image path a sprite-sheet document names. The path is
// empty when the document leaves it to the caller.
func SheetImage(doc []byte) (string, error) {
	var d sheetDoc
	if err := json.Unmarshal(doc, &d); err != nil {
		return "", err
	}
	return d.Image, nil
}

func decodeSheet(doc []byte) (*sheetDoc, error) {
	var d sheetDoc
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("failed to parse sprite sheet: %w", err)
	}
	if d.FrameWidth <= 0 || d.FrameHeight <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", d.FrameWidth, d.FrameHeight)
	}
	if d.SideFaces == "" {
		d.SideFaces = DirLeft.String()
	}
	if d.SideFaces != DirLeft.String() && d.SideFaces != DirRight.String() {
		return nil, fmt.Errorf("side_faces must be left or right, got %q", d.SideFaces)
	}
	if b := d.Box; b != nil {
		if b.W <= 0 || b.H <= 0 || b.X < 0 || b.Y < 0 ||
			b.X+b.W > float64(d.FrameWidth) || b.Y+b.H > float64(d.FrameHeight) {
			return nil, fmt.Errorf("box %+v does not fit a %dx%d frame", *b, d.FrameWidth, d.FrameHeight)
		}
	}
	for target, source := range d.Mirror {
		if !AnimState(target).Valid() || !AnimState(source).Valid() {
			return nil, fmt.Errorf("invalid mirror %q -> %q", target, source)
		}
	}
	return &d, nil
}

// resolveNamed looks up every state in an explicit animations map.
func (d *sheetDoc) resolveNamed() (map[AnimState]animSpec, error) {
	specs := make(map[AnimState]animSpec, len(AllStates))
	for _, s := range AllStates {
		if frames, ok := d.Animations[string(s)]; ok && len(frames) > 0 {
			specs[s] = animSpec{indices: frames}
		}
	}

	// "<mode>-side" covers left and right; the other side is drawn mirrored.
	for _, s := range AllStates {
		if _, ok := specs[s]; ok || !s.Direction().Horizontal() {
			continue
		}
		frames, ok := d.Animations[s.mode()+"-side"]
		if !ok || len(frames) == 0 {
			continue
		}
		specs[s] = animSpec{indices: frames, mirrored: s.Direction().String() != d.SideFaces}
	}

	for target, source := range d.Mirror {
		t := AnimState(target)
		if _, ok := specs[t]; ok {
			continue
		}
		src, ok := specs[AnimState(source)]
		if !ok {
			return nil, fmt.Errorf("mirror source %q has no frames", source)
		}
		specs[t] = animSpec{indices: src.indices, mirrored: !src.mirrored}
	}

	for _, s := range AllStates {
		if _, ok := specs[s]; !ok {
			return nil, fmt.Errorf("animation %q is not defined", s)
		}
	}
	return specs, nil
}

// resolveRows derives every state from the row layout of the sheet.
func resolveRows(a *atlas.Atlas) (map[AnimState]animSpec, error) {
	if a.Rows < 3 {
		return nil, fmt.Errorf("sheet has %d rows, need at least 3 (down, up, left)", a.Rows)
	}

	rows := map[Direction]int{DirDown: 0, DirUp: 1, DirLeft: 2, DirRight: 3}
	specs := make(map[AnimState]animSpec, len(AllStates))
	for _, d := range Directions {
		row, mirrored := rows[d], false
		if d == DirRight && a.Rows == 3 {
			row, mirrored = rows[DirLeft], true
		}
		walk := make([]int, a.Columns)
		for col := range walk {
			walk[col] = row*a.Columns + col
		}
		specs[IdleState(d)] = animSpec{indices: walk[:1], mirrored: mirrored}
		specs[WalkState(d)] = animSpec{indices: walk, mirrored: mirrored}
	}
	return specs, nil
}

// buildAnims slices every state's frames out of the sheet.
func buildAnims(sheetPath string, sheet render.Image, d *sheetDoc) (map[AnimState]*Anim, error) {
	a, err := atlas.New(sheet, d.FrameWidth, d.FrameHeight)
	if err != nil {
		return nil, &assets.AssetLoadError{Path: sheetPath, Reason: "invalid sprite sheet", Err: err}
	}

	var specs map[AnimState]animSpec
	if len(d.Animations) > 0 {
		specs, err = d.resolveNamed()
	} else {
		specs, err = resolveRows(a)
	}
	if err != nil {
		return nil, &assets.AssetLoadError{Path: sheetPath, Reason: "incomplete animation table", Err: err}
	}

	anims := make(map[AnimState]*Anim, len(specs))
	for state, spec := range specs {
		anim := &Anim{Mirrored: spec.mirrored, Frames: make([]render.Image, len(spec.indices))}
		for i, index := range spec.indices {
			img, err := a.GetTileSubImage(index)
			if err != nil {
				return nil, assets.Errorf(sheetPath, "animation %q frame %d: %v", state, i, err)
			}
			anim.Frames[i] = img
		}
		anims[state] = anim
	}
	return anims, nil
}
