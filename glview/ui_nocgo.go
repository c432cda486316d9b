//go:build tinygo || !cgo

package glview

import "errors"

var errNoCGO = errors.New("windowing requires CGo and is not supported on TinyGo")

// Source is a texture producer displayed by [Window.Run].
type Source interface {
	Step(dt float32) error
	Texture() uint32
	Size() (width, height int)
}

type Window struct{}

// NewWindow requires cgo. It always returns an error on this build.
func NewWindow(cfg Config) (*Window, error) {
	return nil, errNoCGO
}

func (win *Window) Run(src Source) error { return errNoCGO }
func (win *Window) Close()               {}
