package glsim

import (
	"math/rand"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// Agent is a single slime mold particle. Its memory layout matches the
// std430 Agent struct declared in agents.glsl.
type Agent struct {
	Pos ms2.Vec
	// Angle is the heading in radians measured counter-clockwise from +X.
	Angle float32
	_     float32
}

const agentSize = int(unsafe.Sizeof(Agent{}))

// SpawnAgents appends cfg.NumAgents agents placed according to cfg.Spawn to dst[:0] and returns the result.
func SpawnAgents(dst []Agent, cfg SlimeConfig, rng *rand.Rand) []Agent {
	dst = dst[:0]
	center := ms2.Vec{X: float32(cfg.Width) / 2, Y: float32(cfg.Height) / 2}
	radius := min(center.X, center.Y) * 2 / 3
	for i := 0; i < cfg.NumAgents; i++ {
		theta := 2 * math32.Pi * rng.Float32()
		var a Agent
		switch cfg.Spawn {
		case SpawnCenter:
			a.Pos = center
			a.Angle = theta
		case SpawnRandom:
			a.Pos = ms2.Vec{X: rng.Float32() * float32(cfg.Width), Y: rng.Float32() * float32(cfg.Height)}
			a.Angle = 2 * math32.Pi * rng.Float32()
		case SpawnCircle:
			r := radius * math32.Sqrt(rng.Float32())
			s, c := math32.Sincos(theta)
			a.Pos = ms2.Add(center, ms2.Scale(r, ms2.Vec{X: c, Y: s}))
			a.Angle = math32.Atan2(center.Y-a.Pos.Y, center.X-a.Pos.X)
		case SpawnRing:
			s, c := math32.Sincos(theta)
			a.Pos = ms2.Add(center, ms2.Scale(radius, ms2.Vec{X: c, Y: s}))
			a.Angle = theta
		}
		dst = append(dst, a)
	}
	return dst
}
