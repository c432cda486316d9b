package glsim

import (
	"errors"
	"fmt"
	"io/fs"
)

// NoiseConfig configures the static noise generator.
type NoiseConfig struct {
	Width, Height int
	// Seed offsets the hash used by the noise shader. Different seeds produce different images.
	Seed uint32
	// Shaders overrides the embedded GLSL sources. Must contain noise.glsl if set.
	Shaders fs.FS
}

// DefaultNoiseConfig returns a noise configuration for a texture of the given size.
func DefaultNoiseConfig(width, height int) NoiseConfig {
	return NoiseConfig{Width: width, Height: height, Seed: 1}
}

// Validate returns an error if the configuration can not be used to create a [Noise].
func (cfg NoiseConfig) Validate() error {
	return validateSize(cfg.Width, cfg.Height)
}

// SpawnMode selects the initial placement of slime agents.
type SpawnMode uint8

const (
	// SpawnCenter places all agents on the texture center facing random directions.
	SpawnCenter SpawnMode = iota
	// SpawnRandom places agents uniformly over the texture facing random directions.
	SpawnRandom
	// SpawnCircle places agents uniformly inside a centered disc facing the center.
	SpawnCircle
	// SpawnRing places agents on the edge of a centered circle facing outwards.
	SpawnRing
	spawnModeEnd
)

var spawnNames = [...]string{
	SpawnCenter: "center",
	SpawnRandom: "random",
	SpawnCircle: "circle",
	SpawnRing:   "ring",
}

func (m SpawnMode) String() string {
	if m >= spawnModeEnd {
		return fmt.Sprintf("SpawnMode(%d)", uint8(m))
	}
	return spawnNames[m]
}

// ParseSpawnMode returns the SpawnMode with the given name as returned by [SpawnMode.String].
func ParseSpawnMode(s string) (SpawnMode, error) {
	for i, name := range spawnNames {
		if name == s {
			return SpawnMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown spawn mode %q", s)
}

// SlimeConfig configures the slime mold trail simulation. Distances are in texels
// and rates are per second of simulated time.
type SlimeConfig struct {
	Width, Height int
	NumAgents     int
	Seed          int64
	Spawn         SpawnMode
	// MoveSpeed is the agent speed in texels per second.
	MoveSpeed float32
	// TurnSpeed is the maximum agent steering rate in radians per second.
	TurnSpeed float32
	// SensorAngle is the angle between the forward sensor and each side sensor in degrees.
	SensorAngle float32
	// SensorOffset is the distance from agent to its sensors.
	SensorOffset float32
	// SensorSize is the half width of the square sampled by each sensor. Zero samples a single texel.
	SensorSize int
	// DepositAmount is the trail intensity added by each agent per second. Trail values saturate at 1.
	DepositAmount float32
	// DecayRate is the trail intensity removed per second.
	DecayRate float32
	// DiffuseRate controls how fast the trail blends with its 3x3 neighbourhood.
	DiffuseRate float32
	// Shaders overrides the embedded GLSL sources. Must contain agents.glsl and diffuse.glsl if set.
	Shaders fs.FS
}

// DefaultSlimeConfig returns a simulation configuration that produces
// network-like trail patterns on a texture of the given size.
func DefaultSlimeConfig(width, height int) SlimeConfig {
	return SlimeConfig{
		Width:         width,
		Height:        height,
		NumAgents:     width * height / 4,
		Seed:          1,
		Spawn:         SpawnCircle,
		MoveSpeed:     40,
		TurnSpeed:     8,
		SensorAngle:   30,
		SensorOffset:  12,
		SensorSize:    1,
		DepositAmount: 4,
		DecayRate:     0.25,
		DiffuseRate:   6,
	}
}

// Validate returns an error if the configuration can not be used to create a [Slime].
func (cfg SlimeConfig) Validate() error {
	err := validateSize(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	switch {
	case cfg.NumAgents <= 0:
		return errors.New("number of agents must be positive")
	case cfg.Spawn >= spawnModeEnd:
		return fmt.Errorf("invalid spawn mode %d", cfg.Spawn)
	case cfg.MoveSpeed < 0 || cfg.TurnSpeed < 0:
		return errors.New("negative agent speed")
	case cfg.SensorAngle < 0 || cfg.SensorAngle > 180:
		return errors.New("sensor angle must be within 0..180 degrees")
	case cfg.SensorOffset < 0 || cfg.SensorSize < 0:
		return errors.New("negative sensor dimension")
	case cfg.SensorSize > maxSensorSize:
		return fmt.Errorf("sensor size exceeds maximum of %d", maxSensorSize)
	case cfg.DepositAmount < 0 || cfg.DecayRate < 0 || cfg.DiffuseRate < 0:
		return errors.New("negative trail rate")
	}
	return nil
}

const maxSensorSize = 8

func validateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	return nil
}
