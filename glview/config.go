package glview

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/slimegl/slimegl/la"
)

// Clipping planes used by the perspective camera.
const (
	nearPlane = 0.1
	farPlane  = 100
)

// Config configures the window and the camera used to display a texture on a fullscreen quad.
type Config struct {
	Width, Height int
	Title         string
	// Context cancels the render loop when done. May be nil.
	Context context.Context
	// Silent disables progress messages such as frame rate and snapshot file names.
	Silent bool
	// SpinDegPerSec rotates the quad about the Z axis.
	SpinDegPerSec float32
	// Perspective enables a perspective camera at Eye looking at the quad center.
	// When false the quad covers the whole window as is.
	Perspective bool
	// FovY is the vertical field of view in degrees of the perspective camera.
	FovY float32
	// Eye is the perspective camera position. The world is Z-up and the quad lies on the XY plane.
	Eye la.Vec3
	// SnapshotDir is where PNG snapshots are written when S is pressed.
	SnapshotDir string
	// Tint, if set, displays the texture red channel as an intensity of Tint
	// instead of drawing the texture colors directly.
	Tint color.Color
}

// DefaultConfig returns a 640x480 window configuration with a flat quad pipeline.
func DefaultConfig() Config {
	return Config{
		Width:       640,
		Height:      480,
		Title:       "slimegl",
		FovY:        60,
		Eye:         la.Vec3{Y: -2, Z: 1.5},
		SnapshotDir: ".",
	}
}

// Validate returns an error if the configuration can not be used to open a window.
func (cfg Config) Validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if !cfg.Perspective {
		return nil
	}
	switch {
	case cfg.FovY <= 0 || cfg.FovY >= 180:
		return errors.New("field of view must be within 0..180 degrees exclusive")
	case cfg.Eye.X == 0 && cfg.Eye.Y == 0:
		// View direction would be parallel to the world up axis.
		return errors.New("camera eye must not lie on the Z axis")
	}
	return nil
}

// MVP returns the model-view-projection matrix for the quad after elapsed
// seconds with the given viewport aspect ratio (width/height).
func (cfg Config) MVP(elapsed, aspect float32) la.Mat4 {
	model := la.ModelMat4(la.Vec3{}, cfg.SpinDegPerSec*elapsed)
	if !cfg.Perspective {
		return model
	}
	view := la.LookAt(cfg.Eye, la.Vec3{})
	proj := la.Perspective(cfg.FovY, aspect, nearPlane, farPlane)
	return la.Mul(proj, la.Mul(view, model))
}
