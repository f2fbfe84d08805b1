// Package native implements glapi.GL on top of the go-gl 4.1 core bindings.
package native

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/gotriangle/glapi"
)

var glInitOnce sync.Once
var glInitErr error

// GL forwards every call to the process-wide go-gl function table.
type GL struct{}

var _ glapi.GL = (*GL)(nil)

// Init loads the OpenGL function pointers for the current context. The
// context must be current on the calling thread. Safe to call more than once.
func Init() (*GL, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return &GL{}, nil
}

// Version returns the driver's GL_VERSION string.
func (*GL) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (*GL) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (*GL) Clear(mask uint32)                  { gl.Clear(mask) }
func (*GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*GL) GetError() uint32                   { return gl.GetError() }

func (*GL) CreateShader(kind uint32) uint32 { return gl.CreateShader(kind) }

func (*GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (*GL) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*GL) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (*GL) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (*GL) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (*GL) CreateProgram() uint32               { return gl.CreateProgram() }
func (*GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (*GL) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (*GL) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (*GL) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*GL) UseProgram(program uint32)    { gl.UseProgram(program) }
func (*GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*GL) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (*GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (*GL) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*GL) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*GL) BufferData(target uint32, data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (*GL) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*GL) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (*GL) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (*GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (*GL) Uniform4fv(location int32, value [4]float32) {
	gl.Uniform4fv(location, 1, &value[0])
}

func (*GL) UniformMatrix4fv(location int32, value [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (*GL) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }
