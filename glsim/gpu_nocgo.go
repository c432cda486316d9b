//go:build tinygo || !cgo

package glsim

import "errors"

var errNoCGO = errors.New("GPU simulation requires CGo and is not supported on TinyGo")

type Noise struct {
	cfg NoiseConfig
}

// NewNoise requires cgo. It always returns an error on this build.
func NewNoise(cfg NoiseConfig) (*Noise, error) {
	return nil, errNoCGO
}

func (n *Noise) Generate(seed uint32) error { return errNoCGO }
func (n *Noise) Step(dt float32) error      { return errNoCGO }
func (n *Noise) Texture() uint32            { return 0 }
func (n *Noise) Size() (width, height int)  { return n.cfg.Width, n.cfg.Height }
func (n *Noise) Delete()                    {}

type Slime struct {
	cfg SlimeConfig
}

// NewSlime requires cgo. It always returns an error on this build.
func NewSlime(cfg SlimeConfig) (*Slime, error) {
	return nil, errNoCGO
}

func (s *Slime) Step(dt float32) error                   { return errNoCGO }
func (s *Slime) Texture() uint32                         { return 0 }
func (s *Slime) Size() (width, height int)               { return s.cfg.Width, s.cfg.Height }
func (s *Slime) ReadAgents(dst []Agent) ([]Agent, error) { return nil, errNoCGO }
func (s *Slime) Delete()                                 {}
