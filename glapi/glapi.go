// Package glapi declares the slice of the OpenGL API the renderer and the
// drawable shapes use, so the frame logic can run against a real context or a
// recording fake.
package glapi

import "fmt"

// Enum values match the OpenGL headers.
const (
	NO_ERROR                      = 0
	INVALID_ENUM                  = 0x0500
	INVALID_VALUE                 = 0x0501
	INVALID_OPERATION             = 0x0502
	OUT_OF_MEMORY                 = 0x0505
	INVALID_FRAMEBUFFER_OPERATION = 0x0506

	DEPTH_BUFFER_BIT = 0x00000100
	COLOR_BUFFER_BIT = 0x00004000

	TRIANGLES = 0x0004
	FLOAT     = 0x1406

	ARRAY_BUFFER = 0x8892
	STATIC_DRAW  = 0x88E4

	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82
	INFO_LOG_LENGTH = 0x8B84

	FALSE = 0
	TRUE  = 1
)

// GL is the set of GL entry points used on the rendering thread. All methods
// must be called from the goroutine that owns the current context.
type GL interface {
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	GetError() uint32

	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	DeleteBuffer(buffer uint32)

	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)

	Uniform4fv(location int32, value [4]float32)
	UniformMatrix4fv(location int32, value [16]float32)

	DrawArrays(mode uint32, first, count int32)
}

// Error reports a GL error flag raised by the named operation.
type Error struct {
	Op   string
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("gl error after %s: %s (0x%04x)", e.Op, ErrorString(e.Code), e.Code)
}

// ErrorString returns the symbolic name of a glGetError code.
func ErrorString(code uint32) string {
	switch code {
	case NO_ERROR:
		return "GL_NO_ERROR"
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "unknown"
	}
}

// Check drains the GL error flags and returns the first one as an *Error.
// GL may queue several flags, so all of them are read to leave the context
// clean for the next check.
func Check(gl GL, op string) error {
	var first uint32
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == NO_ERROR {
			break
		}
		if first == NO_ERROR {
			first = code
		}
	}
	if first != NO_ERROR {
		return &Error{Op: op, Code: first}
	}
	return nil
}
