package shader

import (
	"fmt"

	"github.com/richinsley/gotriangle/glapi"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Kind returns the GL shader object type for the stage.
func (s Stage) Kind() uint32 {
	if s == Vertex {
		return glapi.VERTEX_SHADER
	}
	return glapi.FRAGMENT_SHADER
}

// ──────────────────────────────── Triangle (ESSL 3.00) ────────────────────────────────

// The triangle shaders are written once in WebGL2-flavoured GLSL ES and
// translated to whatever the host context speaks.

const triangleVertexShaderSource = `#version 300 es
uniform mat4 uMVPMatrix;
layout (location = 0) in vec4 vPosition;
void main() {
    gl_Position = uMVPMatrix * vPosition;
}
`

const triangleFragmentShaderSource = `#version 300 es
precision mediump float;
uniform vec4 vColor;
out vec4 fragColor;
void main() {
    fragColor = vColor;
}
`

// Uniform and attribute names shared by the triangle shader pair.
const (
	MVPMatrixUniform = "uMVPMatrix"
	ColorUniform     = "vColor"
	PositionAttrib   = "vPosition"
	// PositionLocation is the fixed attribute slot of vPosition.
	PositionLocation = 0
)

// TriangleVertexShader returns the vertex stage: clip position is
// uMVPMatrix × vPosition.
func TriangleVertexShader() string {
	return triangleVertexShaderSource
}

// TriangleFragmentShader returns the fragment stage: a flat vColor.
func TriangleFragmentShader() string {
	return triangleFragmentShaderSource
}

// ──────────────────────────────── Translation ────────────────────────────────

// Translated is a shader stage rewritten for the target context.
type Translated struct {
	Code string
	// Names maps source identifiers to the identifiers the translator emitted.
	Names map[string]string
}

// Name returns the emitted identifier for a source identifier.
func (t *Translated) Name(source string) string {
	if mapped, ok := t.Names[source]; ok && mapped != "" {
		return mapped
	}
	return source
}

// Translator turns ESSL 3.00 source into the dialect of the current context.
type Translator interface {
	Translate(source string, stage Stage) (*Translated, error)
}

// Native passes the source through untouched. It is correct when the context
// is itself OpenGL ES 3.x.
type Native struct{}

func (Native) Translate(source string, stage Stage) (*Translated, error) {
	return &Translated{Code: source, Names: map[string]string{}}, nil
}
