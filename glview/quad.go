package glview

import (
	"bytes"
	"embed"

	"github.com/slimegl/slimegl/glbuild"
)

//go:embed shaders/quad.vert shaders/quad.frag
var embedded embed.FS

// QuadVertices is a fullscreen quad made of two triangles. Each vertex is
// an interleaved clip space position (x, y) and texture coordinate (u, v).
var QuadVertices = [6 * 4]float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, -1, 0, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}

// QuadSources returns the NUL terminated vertex and fragment shader sources of the quad program.
func QuadSources() (vertex, fragment string, err error) {
	p := glbuild.NewDefaultProgrammer()
	vertex, err = readGraphics(p, "shaders/quad.vert")
	if err != nil {
		return "", "", err
	}
	fragment, err = readGraphics(p, "shaders/quad.frag")
	if err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

func readGraphics(p *glbuild.Programmer, name string) (string, error) {
	body, err := embedded.ReadFile(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	_, err = p.WriteGraphics(&buf, body)
	if err != nil {
		return "", err
	}
	buf.WriteByte(0)
	return buf.String(), nil
}
