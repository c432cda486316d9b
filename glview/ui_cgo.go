//go:build !tinygo && cgo

package glview

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// Source is a texture producer displayed by [Window.Run], such as the
// generators in package glsim.
type Source interface {
	// Step advances the source by dt seconds.
	Step(dt float32) error
	// Texture returns the GL name of the texture to display.
	Texture() uint32
	// Size returns the texture dimensions.
	Size() (width, height int)
}

// Window is a GLFW window with a current OpenGL 4.6 core context that
// draws a texture on a fullscreen quad. Window must be used from the thread
// that created it, which should be locked with runtime.LockOSThread.
type Window struct {
	win                                  *glfw.Window
	terminate                            func()
	prog                                 glgl.Program
	vao, vbo                             uint32
	mvpLoc, texLoc, colormapLoc, tintLoc int32
	cfg                                  Config
	log                                  func(args ...any)
}

// NewWindow opens a window, makes its GL context current and prepares the quad program.
// Textures may be created once NewWindow returns.
func NewWindow(cfg Config) (_ *Window, err error) {
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return nil, err
	}
	win := &Window{
		win:       window,
		terminate: term,
		cfg:       cfg,
		log: func(args ...any) {
			if !cfg.Silent {
				fmt.Println(args...)
			}
		},
	}
	defer func() {
		if err != nil {
			win.Close()
		}
	}()
	vert, frag, err := QuadSources()
	if err != nil {
		return nil, err
	}
	win.prog, err = glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vert,
		Fragment: frag,
	})
	if err != nil {
		return nil, fmt.Errorf("%s\n\n%s\n\n%w", vert, frag, err)
	}
	win.prog.Bind()
	for _, u := range []struct {
		dst  *int32
		name string
	}{
		{&win.mvpLoc, "uMVP\x00"},
		{&win.texLoc, "uTexture\x00"},
		{&win.colormapLoc, "uColormap\x00"},
		{&win.tintLoc, "uTint\x00"},
	} {
		*u.dst, err = win.prog.UniformLocation(u.name)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Tint != nil {
		r, g, b := colorToRGB(cfg.Tint)
		gl.Uniform1i(win.colormapLoc, 1)
		gl.Uniform3f(win.tintLoc, r, g, b)
	} else {
		gl.Uniform1i(win.colormapLoc, 0)
	}

	gl.GenVertexArrays(1, &win.vao)
	gl.BindVertexArray(win.vao)
	gl.GenBuffers(1, &win.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, win.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(QuadVertices), gl.Ptr(QuadVertices[:]), gl.STATIC_DRAW)
	const stride = 4 * 4
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	err = glgl.Err()
	if err != nil {
		return nil, fmt.Errorf("setting up quad: %w", err)
	}
	return win, nil
}

// Run displays src until the window is closed, Escape is pressed or the
// configured context is done. Each frame src is stepped by the elapsed
// time before drawing. Pressing S writes a PNG snapshot of the texture.
func (win *Window) Run(src Source) error {
	if src == nil {
		return errors.New("nil source")
	}
	window := win.win
	snapshotRequested := false
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyS:
			snapshotRequested = true
		}
	})
	defer window.SetKeyCallback(nil)

	ctx := win.cfg.Context
	start := glfw.GetTime()
	previousTime := start
	lastReport := start
	frame, reportFrames := 0, 0
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		currentTime := glfw.GetTime()
		elapsedTime := currentTime - previousTime
		previousTime = currentTime
		err := src.Step(float32(elapsedTime))
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		width, height := window.GetFramebufferSize()
		aspect := float32(1)
		if height > 0 {
			aspect = float32(width) / float32(height)
		}
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.1, 0.1, 0.1, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		win.prog.Bind()
		mvp := win.cfg.MVP(float32(currentTime-start), aspect)
		gl.UniformMatrix4fv(win.mvpLoc, 1, false, &mvp[0])
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, src.Texture())
		gl.Uniform1i(win.texLoc, 0)
		gl.BindVertexArray(win.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		gl.BindVertexArray(0)
		err = glgl.Err()
		if err != nil {
			return fmt.Errorf("drawing frame %d: %w", frame, err)
		}

		if snapshotRequested {
			snapshotRequested = false
			err = win.snapshot(src, frame)
			if err != nil {
				return err
			}
		}
		window.SwapBuffers()
		glfw.PollEvents()
		frame++
		reportFrames++
		if currentTime-lastReport >= 5 {
			win.log(fmt.Sprintf("frame %d: %.1f FPS", frame, float64(reportFrames)/(currentTime-lastReport)))
			lastReport = currentTime
			reportFrames = 0
		}
	}
	return nil
}

func (win *Window) snapshot(src Source, frame int) error {
	width, height := src.Size()
	data := make([]float32, 4*width*height)
	gl.BindTexture(gl.TEXTURE_2D, src.Texture())
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.FLOAT, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	err := glgl.Err()
	if err != nil {
		return fmt.Errorf("reading texture for snapshot: %w", err)
	}
	var conv func(float32) color.Color
	if win.cfg.Tint != nil {
		conv = ColorConversionTint(win.cfg.Tint)
	}
	filename := filepath.Join(win.cfg.SnapshotDir, fmt.Sprintf("snapshot-%05d.png", frame))
	err = WriteSnapshotFile(filename, width, height, data, conv, fmt.Sprintf("%s #%d", win.cfg.Title, frame))
	if err != nil {
		return err
	}
	win.log("wrote", filename)
	return nil
}

// Close releases the quad resources and terminates GLFW.
func (win *Window) Close() {
	if win.vbo != 0 {
		gl.DeleteBuffers(1, &win.vbo)
		win.vbo = 0
	}
	if win.vao != 0 {
		gl.DeleteVertexArrays(1, &win.vao)
		win.vao = 0
	}
	if win.prog.ID() != 0 {
		win.prog.Delete()
		win.prog = glgl.Program{}
	}
	if win.terminate != nil {
		win.terminate()
		win.terminate = nil
	}
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
