package shape

import (
	"encoding/binary"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gotriangle/glapi"
	"github.com/richinsley/gotriangle/shader"
	"golang.org/x/mobile/exp/f32"
)

const (
	CoordsPerVertex = 3
	VertexCount     = 3
	// VertexStride is the byte distance between consecutive vertices.
	VertexStride = CoordsPerVertex * 4
)

var triangleCoords = [VertexCount * CoordsPerVertex]float32{
	0.0, 0.6, 0.0, // top
	-0.5, -0.3, 0.0, // bottom left
	0.5, -0.3, 0.0, // bottom right
}

// Color is the flat fill color of the triangle.
var Color = [4]float32{0.6, 0.7, 0.2, 1.0}

// Triangle is a single flat-colored triangle with its own program and vertex
// buffer. It must be created, drawn and released on the rendering thread.
type Triangle struct {
	gl      glapi.GL
	program *shader.Program
	vao     uint32
	vbo     uint32

	colorLoc int32
	mvpLoc   int32
}

// Coords returns a copy of the model-space vertex positions.
func Coords() []float32 {
	out := make([]float32, len(triangleCoords))
	copy(out, triangleCoords[:])
	return out
}

// VertexData returns the vertex positions packed as little-endian float32s,
// exactly as they are uploaded to the vertex buffer.
func VertexData() []byte {
	return f32.Bytes(binary.LittleEndian, triangleCoords[:]...)
}

// NewTriangle builds the shader program and uploads the vertex buffer.
func NewTriangle(gl glapi.GL, tr shader.Translator) (*Triangle, error) {
	program, err := shader.NewProgram(gl, tr, shader.TriangleVertexShader(), shader.TriangleFragmentShader())
	if err != nil {
		return nil, fmt.Errorf("failed to create triangle program: %w", err)
	}

	t := &Triangle{
		gl:      gl,
		program: program,
	}
	t.colorLoc = program.Uniform(gl, shader.ColorUniform)
	t.mvpLoc = program.Uniform(gl, shader.MVPMatrixUniform)

	t.vao = gl.GenVertexArray()
	t.vbo = gl.GenBuffer()
	gl.BindVertexArray(t.vao)
	gl.BindBuffer(glapi.ARRAY_BUFFER, t.vbo)
	gl.BufferData(glapi.ARRAY_BUFFER, VertexData(), glapi.STATIC_DRAW)
	gl.BindBuffer(glapi.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return t, nil
}

// Program returns the linked program handle.
func (t *Triangle) Program() uint32 {
	return t.program.Handle
}

// Draw renders the triangle with the given combined transform. The vertex
// attribute it enables is disabled again before returning.
func (t *Triangle) Draw(mvp mgl32.Mat4) {
	gl := t.gl
	gl.UseProgram(t.program.Handle)

	gl.BindVertexArray(t.vao)
	gl.BindBuffer(glapi.ARRAY_BUFFER, t.vbo)
	gl.EnableVertexAttribArray(shader.PositionLocation)
	gl.VertexAttribPointer(shader.PositionLocation, CoordsPerVertex, glapi.FLOAT, false, VertexStride, 0)

	gl.Uniform4fv(t.colorLoc, Color)
	gl.UniformMatrix4fv(t.mvpLoc, mvp)

	gl.DrawArrays(glapi.TRIANGLES, 0, VertexCount)

	gl.DisableVertexAttribArray(shader.PositionLocation)
	gl.BindBuffer(glapi.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Release deletes the GL objects owned by the triangle.
func (t *Triangle) Release() {
	if t == nil {
		return
	}
	t.program.Delete(t.gl)
	if t.vbo != 0 {
		t.gl.DeleteBuffer(t.vbo)
		t.vbo = 0
	}
	if t.vao != 0 {
		t.gl.DeleteVertexArray(t.vao)
		t.vao = 0
	}
}
