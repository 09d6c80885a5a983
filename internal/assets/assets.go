// Package assets loads the images and documents needed by the preload phase
// and reports failures as AssetLoadError.
package assets

import (
	"fmt"
	"io/fs"

	"chosenoffset.com/overworld/internal/render"
)

// AssetLoadError reports a sprite sheet, tile sheet or document that could not
// be read or decoded. It is fatal to startup.
type AssetLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *AssetLoadError) Error() string {
	msg := "asset load failed"
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// Errorf builds an AssetLoadError with a formatted reason and no cause.
func Errorf(path, format string, args ...any) *AssetLoadError {
	return &AssetLoadError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// LoadImage loads an image through the renderer's resource loader.
func LoadImage(loader render.ResourceLoader, path string) (render.Image, error) {
	img, err := loader.LoadImage(path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Reason: "failed to decode image", Err: err}
	}
	w, h := img.Size()
	if w <= 0 || h <= 0 {
		return nil, Errorf(path, "image is empty (%dx%d)", w, h)
	}
	return img, nil
}

// ReadDocument reads a document from fsys.
func ReadDocument(fsys fs.FS, path string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Reason: "failed to read document", Err: err}
	}
	return data, nil
}
