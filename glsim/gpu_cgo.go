//go:build !tinygo && cgo

package glsim

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/slimegl/slimegl/glbuild"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// maxStep caps the simulated time of a single [Slime.Step] so that a stalled
// frame does not make agents jump across the texture.
const maxStep = 0.1

// Noise fills an RGBA32F texture with white noise using a compute shader.
// A current OpenGL 4.6 context is required to create and use a Noise.
type Noise struct {
	prog    glgl.Program
	seedLoc int32
	tex     uint32
	cfg     NoiseConfig
}

// NewNoise compiles the noise program, allocates its texture and generates the first image with cfg.Seed.
func NewNoise(cfg NoiseConfig) (*Noise, error) {
	src, err := cfg.ComputeSource()
	if err != nil {
		return nil, err
	}
	if err = checkInvocations(texelInvoc * texelInvoc); err != nil {
		return nil, err
	}
	prog, err := compileCompute(src)
	if err != nil {
		return nil, err
	}
	seedLoc, err := prog.UniformLocation("uSeed\x00")
	if err != nil {
		prog.Delete()
		return nil, err
	}
	tex := newTexture(cfg.Width, cfg.Height, gl.RGBA32F, gl.RGBA)
	if tex == 0 {
		prog.Delete()
		return nil, glErrOrMessage("creating noise texture got zero id")
	}
	n := &Noise{prog: prog, seedLoc: seedLoc, tex: tex, cfg: cfg}
	err = n.Generate(cfg.Seed)
	if err != nil {
		n.Delete()
		return nil, err
	}
	return n, nil
}

// Generate regenerates the noise image with the given seed.
func (n *Noise) Generate(seed uint32) error {
	n.prog.Bind()
	defer n.prog.Unbind()
	gl.Uniform1ui(n.seedLoc, seed)
	gl.BindImageTexture(0, n.tex, 0, false, 0, gl.WRITE_ONLY, gl.RGBA32F)
	gl.DispatchCompute(uint32(glbuild.WorkGroups(n.cfg.Width, texelInvoc)), uint32(glbuild.WorkGroups(n.cfg.Height, texelInvoc)), 1)
	gl.MemoryBarrier(gl.SHADER_IMAGE_ACCESS_BARRIER_BIT | gl.TEXTURE_FETCH_BARRIER_BIT)
	return glgl.Err()
}

// Step is a no-op since noise is static. It exists so Noise can be displayed by a render loop.
func (n *Noise) Step(dt float32) error { return nil }

// Texture returns the GL name of the RGBA32F noise texture.
func (n *Noise) Texture() uint32 { return n.tex }

// Size returns the texture dimensions.
func (n *Noise) Size() (width, height int) { return n.cfg.Width, n.cfg.Height }

// Delete frees GPU resources held by n.
func (n *Noise) Delete() {
	if n.tex != 0 {
		gl.DeleteTextures(1, &n.tex)
		n.tex = 0
	}
	deleteProgram(&n.prog)
}

// Slime runs the agent based slime mold simulation on the GPU. Agents live
// in a shader storage buffer and deposit onto a R32F trail texture which is
// diffused into a second texture every step. The two textures swap roles
// after each step.
type Slime struct {
	agentsProg  glgl.Program
	diffuseProg glgl.Program
	agentsDT    int32
	agentsTime  int32
	diffuseDT   int32
	ssbo        uint32
	trail       [2]uint32
	cur         int
	time        float32
	cfg         SlimeConfig
}

// NewSlime compiles the simulation programs, spawns the agents on the host
// and uploads them to the GPU. A current OpenGL 4.6 context is required.
func NewSlime(cfg SlimeConfig) (_ *Slime, err error) {
	agentSrc, diffuseSrc, err := cfg.ComputeSources()
	if err != nil {
		return nil, err
	}
	if err = checkInvocations(texelInvoc * texelInvoc); err != nil {
		return nil, err
	}
	s := &Slime{cfg: cfg}
	defer func() {
		if err != nil {
			s.Delete()
		}
	}()
	s.agentsProg, err = compileCompute(agentSrc)
	if err != nil {
		return nil, fmt.Errorf("agents program: %w", err)
	}
	s.diffuseProg, err = compileCompute(diffuseSrc)
	if err != nil {
		return nil, fmt.Errorf("diffuse program: %w", err)
	}
	s.agentsDT, err = s.agentsProg.UniformLocation("uDeltaTime\x00")
	if err != nil {
		return nil, err
	}
	s.agentsTime, err = s.agentsProg.UniformLocation("uTime\x00")
	if err != nil {
		return nil, err
	}
	s.diffuseDT, err = s.diffuseProg.UniformLocation("uDeltaTime\x00")
	if err != nil {
		return nil, err
	}

	agents := SpawnAgents(make([]Agent, 0, cfg.NumAgents), cfg, rand.New(rand.NewSource(cfg.Seed)))
	s.ssbo = loadSSBO(agents, 0, gl.DYNAMIC_COPY)
	if s.ssbo == 0 {
		return nil, glErrOrMessage("loading agents SSBO got zero id")
	}
	for i := range s.trail {
		s.trail[i] = newTexture(cfg.Width, cfg.Height, gl.R32F, gl.RED)
		if s.trail[i] == 0 {
			return nil, glErrOrMessage("creating trail texture got zero id")
		}
		gl.ClearTexImage(s.trail[i], 0, gl.RED, gl.FLOAT, nil)
	}
	err = glgl.Err()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Step advances the simulation by dt seconds: agents sense, steer, move and
// deposit, then the trail is diffused and decayed. Non-positive dt is ignored.
func (s *Slime) Step(dt float32) error {
	if dt <= 0 {
		return nil
	}
	dt = min(dt, maxStep)
	s.time += dt
	src, dst := s.trail[s.cur], s.trail[1-s.cur]

	s.agentsProg.Bind()
	gl.Uniform1f(s.agentsDT, dt)
	gl.Uniform1f(s.agentsTime, s.time)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, s.ssbo)
	gl.BindImageTexture(0, src, 0, false, 0, gl.READ_WRITE, gl.R32F)
	gl.DispatchCompute(uint32(glbuild.WorkGroups(s.cfg.NumAgents, agentInvoc)), 1, 1)
	gl.MemoryBarrier(gl.SHADER_IMAGE_ACCESS_BARRIER_BIT | gl.SHADER_STORAGE_BARRIER_BIT)
	s.agentsProg.Unbind()
	err := glgl.Err()
	if err != nil {
		return fmt.Errorf("agents pass: %w", err)
	}

	s.diffuseProg.Bind()
	gl.Uniform1f(s.diffuseDT, dt)
	gl.BindImageTexture(0, src, 0, false, 0, gl.READ_ONLY, gl.R32F)
	gl.BindImageTexture(1, dst, 0, false, 0, gl.WRITE_ONLY, gl.R32F)
	gl.DispatchCompute(uint32(glbuild.WorkGroups(s.cfg.Width, texelInvoc)), uint32(glbuild.WorkGroups(s.cfg.Height, texelInvoc)), 1)
	gl.MemoryBarrier(gl.SHADER_IMAGE_ACCESS_BARRIER_BIT | gl.TEXTURE_FETCH_BARRIER_BIT)
	s.diffuseProg.Unbind()
	err = glgl.Err()
	if err != nil {
		return fmt.Errorf("diffuse pass: %w", err)
	}
	s.cur = 1 - s.cur
	return nil
}

// Texture returns the GL name of the R32F texture holding the latest trail map.
func (s *Slime) Texture() uint32 { return s.trail[s.cur] }

// Size returns the trail texture dimensions.
func (s *Slime) Size() (width, height int) { return s.cfg.Width, s.cfg.Height }

// ReadAgents copies the current agent state from the GPU into dst[:0] and returns the result.
func (s *Slime) ReadAgents(dst []Agent) ([]Agent, error) {
	dst = append(dst[:0], make([]Agent, s.cfg.NumAgents)...)
	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)
	err := copySSBO(dst, s.ssbo)
	if err != nil {
		return nil, err
	}
	return dst, glgl.Err()
}

// Delete frees GPU resources held by s.
func (s *Slime) Delete() {
	for i := range s.trail {
		if s.trail[i] != 0 {
			gl.DeleteTextures(1, &s.trail[i])
			s.trail[i] = 0
		}
	}
	if s.ssbo != 0 {
		gl.DeleteBuffers(1, &s.ssbo)
		s.ssbo = 0
	}
	deleteProgram(&s.agentsProg)
	deleteProgram(&s.diffuseProg)
}

// deleteProgram deletes p if it was compiled and resets it to the zero value.
func deleteProgram(p *glgl.Program) {
	if p.ID() == 0 {
		return
	}
	p.Delete()
	*p = glgl.Program{}
}

func compileCompute(src string) (prog glgl.Program, err error) {
	prog, err = glgl.CompileProgram(glgl.ShaderSource{Compute: src})
	if err != nil {
		return prog, errors.New(src + "\n" + err.Error())
	}
	return prog, nil
}

func checkInvocations(n int) error {
	maxInvoc := int(glgl.MaxComputeInvocations())
	if maxInvoc < n {
		return fmt.Errorf("GPU supports %d compute invocations per work group, need %d", maxInvoc, n)
	}
	return nil
}

func newTexture(width, height int, internalFormat int32, format uint32) (tex uint32) {
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0, format, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func loadSSBO[T any](slice []T, base, usage uint32) (ssbo uint32) {
	var p runtime.Pinner
	p.Pin(&ssbo)
	gl.GenBuffers(1, &ssbo)
	p.Unpin()
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	size := len(slice) * elemSize[T]()
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, unsafe.Pointer(&slice[0]), usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, base, ssbo)
	return ssbo
}

func copySSBO[T any](dst []T, ssbo uint32) error {
	bufSize := elemSize[T]() * len(dst)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	ptr := gl.MapBufferRange(gl.SHADER_STORAGE_BUFFER, 0, bufSize, gl.MAP_READ_BIT)
	if ptr == nil {
		return glErrOrMessage("failed to map SSBO buffer during copy")
	}
	defer gl.UnmapBuffer(gl.SHADER_STORAGE_BUFFER)
	gpuBytes := unsafe.Slice((*byte)(ptr), bufSize)
	bufBytes := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), bufSize)
	copy(bufBytes, gpuBytes)
	return nil
}

func elemSize[T any]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
