package glbuild

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/slimegl/slimegl/la"
)

// VersionStr is the GLSL version directive written at the top of every shader.
const VersionStr = "#version 460\n"

// Programmer prepends a GLSL version header, compute work group layout and
// #define constants to hand written shader bodies. Defines are written in the
// order they were added so that later defines may reference earlier ones.
type Programmer struct {
	scratch []byte
	defines []define
	// Invocations size (local group size) to give each compute work group.
	invocX, invocY, invocZ int
}

type define struct {
	name  string
	value []byte
}

// NewDefaultProgrammer returns a Programmer with a 16x16 local work group size
// which suits compute shaders that write one texel per invocation.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 1024),
		invocX:  16,
		invocY:  16,
		invocZ:  1,
	}
}

// SetComputeInvocations sets the work group local-sizes. x*y*z must be less than maximum number of invocations.
func (p *Programmer) SetComputeInvocations(x, y, z int) {
	if x < 1 || y < 1 || z < 1 {
		panic("zero or negative invocation size")
	}
	p.invocX, p.invocY, p.invocZ = x, y, z
}

// ComputeInvocations returns the worker group invocation size in x y and z.
func (p *Programmer) ComputeInvocations() (int, int, int) {
	return p.invocX, p.invocY, p.invocZ
}

// DefineFloat adds a float constant #define. Redefining a name replaces its value.
func (p *Programmer) DefineFloat(name string, v float32) {
	p.setDefine(name, AppendFloat(nil, '-', '.', v))
}

// DefineInt adds an integer constant #define. Redefining a name replaces its value.
func (p *Programmer) DefineInt(name string, v int) {
	p.setDefine(name, strconv.AppendInt(nil, int64(v), 10))
}

// ResetDefines removes all defines from the Programmer.
func (p *Programmer) ResetDefines() {
	p.defines = p.defines[:0]
}

func (p *Programmer) setDefine(name string, value []byte) {
	for i := range p.defines {
		if p.defines[i].name == name {
			p.defines[i].value = value
			return
		}
	}
	p.defines = append(p.defines, define{name: name, value: value})
}

// WriteCompute writes a compute shader consisting of the version header,
// the local work group layout, the defines and finally body.
func (p *Programmer) WriteCompute(w io.Writer, body []byte) (int, error) {
	if len(body) == 0 {
		return 0, errors.New("empty compute shader body")
	} else if bytes.Contains(body, []byte("#version")) {
		return 0, errors.New("shader body must not contain #version directive")
	}
	b := append(p.scratch[:0], VersionStr...)
	b = fmt.Appendf(b, "layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;\n", p.invocX, p.invocY, p.invocZ)
	b = p.appendDefines(b)
	p.scratch = b
	n, err := w.Write(b)
	if err != nil {
		return n, err
	}
	ngot, err := w.Write(body)
	return n + ngot, err
}

// WriteGraphics writes a vertex or fragment shader consisting of the version
// header, the defines and body.
func (p *Programmer) WriteGraphics(w io.Writer, body []byte) (int, error) {
	if len(body) == 0 {
		return 0, errors.New("empty shader body")
	} else if bytes.Contains(body, []byte("#version")) {
		return 0, errors.New("shader body must not contain #version directive")
	}
	b := append(p.scratch[:0], VersionStr...)
	b = p.appendDefines(b)
	p.scratch = b
	n, err := w.Write(b)
	if err != nil {
		return n, err
	}
	ngot, err := w.Write(body)
	return n + ngot, err
}

func (p *Programmer) appendDefines(b []byte) []byte {
	for _, d := range p.defines {
		b = append(b, "#define "...)
		b = append(b, d.name...)
		b = append(b, ' ')
		b = append(b, d.value...)
		b = append(b, '\n')
	}
	return b
}

// WorkGroups returns the number of work groups of size local needed to cover n invocations.
func WorkGroups(n, local int) int {
	if local < 1 {
		panic("zero or negative local size")
	}
	return (n + local - 1) / local
}

// AppendDefineDecl appends a #define directive replacing aliasToDefine with aliasReplace.
func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	b = append(b, ' ')
	b = append(b, aliasReplace...)
	b = append(b, '\n')
	return b
}

// AppendVec3Decl appends a vec3 variable declaration initialized to v.
func AppendVec3Decl(b []byte, vec3Varname string, v la.Vec3) []byte {
	b = append(b, "vec3 "...)
	b = append(b, vec3Varname...)
	b = append(b, "=vec3("...)
	arr := v.Array()
	b = AppendFloats(b, ',', '-', '.', arr[:]...)
	b = append(b, ')', ';', '\n')
	return b
}

// AppendFloatDecl appends a float variable declaration initialized to v.
func AppendFloatDecl(b []byte, floatVarname string, v float32) []byte {
	b = append(b, "float "...)
	b = append(b, floatVarname...)
	b = append(b, '=')
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ';', '\n')
	return b
}

// AppendIntDecl appends an int variable declaration initialized to v.
func AppendIntDecl(b []byte, intVarname string, v int) []byte {
	b = append(b, "int "...)
	b = append(b, intVarname...)
	b = append(b, '=')
	b = strconv.AppendInt(b, int64(v), 10)
	b = append(b, ';', '\n')
	return b
}

// AppendMat4Decl appends a mat4 declaration. GLSL matrix constructors consume
// arguments column by column which matches the memory layout of [la.Mat4].
func AppendMat4Decl(b []byte, mat4Varname string, m44 la.Mat4) []byte {
	arr := m44.Array()
	b = append(b, "mat4 "...)
	b = append(b, mat4Varname...)
	b = append(b, "=mat4("...)
	b = AppendFloats(b, ',', '-', '.', arr[:]...)
	b = append(b, ')', ';', '\n')
	return b
}

const decimalDigits = 9

// AppendFloat appends v in fixed point notation with trailing zeros trimmed.
// neg and decimal replace the minus sign and decimal point characters, which
// lets callers build identifiers from float values.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

// AppendFloats appends s with [AppendFloat] formatting, separated by sep if non-zero.
func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}
