package glsim

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"

	"github.com/slimegl/slimegl/glbuild"
)

//go:embed shaders/*.glsl
var embedded embed.FS

const (
	// Local work group size of the per-texel programs (noise and diffuse).
	texelInvoc = 16
	// Local work group size of the per-agent program.
	agentInvoc = 64
)

func shaderFS(override fs.FS) (fs.FS, error) {
	if override != nil {
		return override, nil
	}
	return fs.Sub(embedded, "shaders")
}

// readShader reads name from fsys and returns the compute source generated by p,
// NUL terminated as expected by glgl.
func readShader(fsys fs.FS, name string, p *glbuild.Programmer) (string, error) {
	body, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("reading shader: %w", err)
	}
	var buf bytes.Buffer
	_, err = p.WriteCompute(&buf, body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	buf.WriteByte(0)
	return buf.String(), nil
}

// ComputeSource returns the noise compute shader source with the configuration baked in.
func (cfg NoiseConfig) ComputeSource() (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	fsys, err := shaderFS(cfg.Shaders)
	if err != nil {
		return "", err
	}
	p := glbuild.NewDefaultProgrammer()
	p.SetComputeInvocations(texelInvoc, texelInvoc, 1)
	p.DefineInt("WIDTH", cfg.Width)
	p.DefineInt("HEIGHT", cfg.Height)
	return readShader(fsys, "noise.glsl", p)
}

// ComputeSources returns the agent update and trail diffusion compute shader
// sources with the configuration baked in.
func (cfg SlimeConfig) ComputeSources() (agents, diffuse string, err error) {
	if err := cfg.Validate(); err != nil {
		return "", "", err
	}
	fsys, err := shaderFS(cfg.Shaders)
	if err != nil {
		return "", "", err
	}
	p := glbuild.NewDefaultProgrammer()
	p.DefineInt("WIDTH", cfg.Width)
	p.DefineInt("HEIGHT", cfg.Height)

	p.SetComputeInvocations(agentInvoc, 1, 1)
	p.DefineInt("NUM_AGENTS", cfg.NumAgents)
	p.DefineFloat("MOVE_SPEED", cfg.MoveSpeed)
	p.DefineFloat("TURN_SPEED", cfg.TurnSpeed)
	p.DefineFloat("SENSOR_ANGLE", cfg.SensorAngle)
	p.DefineFloat("SENSOR_OFFSET", cfg.SensorOffset)
	p.DefineInt("SENSOR_SIZE", cfg.SensorSize)
	p.DefineFloat("DEPOSIT", cfg.DepositAmount)
	agents, err = readShader(fsys, "agents.glsl", p)
	if err != nil {
		return "", "", err
	}

	p.ResetDefines()
	p.SetComputeInvocations(texelInvoc, texelInvoc, 1)
	p.DefineInt("WIDTH", cfg.Width)
	p.DefineInt("HEIGHT", cfg.Height)
	p.DefineFloat("DIFFUSE_RATE", cfg.DiffuseRate)
	p.DefineFloat("DECAY_RATE", cfg.DecayRate)
	diffuse, err = readShader(fsys, "diffuse.glsl", p)
	if err != nil {
		return "", "", err
	}
	return agents, diffuse, nil
}
