// Package glapitest provides an in-memory glapi.GL that records calls and
// tracks the bits of context state the renderer touches.
package glapitest

import (
	"fmt"
	"sort"

	"github.com/richinsley/gotriangle/glapi"
)

// State is a snapshot of the logical context state.
type State struct {
	ClearColor     [4]float32
	Viewport       [4]int32
	Program        uint32
	VertexArray    uint32
	ArrayBuffer    uint32
	EnabledAttribs []uint32
	LivePrograms   []uint32
}

type shaderObject struct {
	kind    uint32
	source  string
	deleted bool
}

// Recorder is a fake GL context. The zero value is not usable; call
// NewRecorder.
type Recorder struct {
	// Calls holds one entry per GL call, formatted as Name(args).
	Calls []string

	// FailCompile makes compilation of the given shader kind fail with
	// CompileLog.
	FailCompile map[uint32]bool
	CompileLog  string
	// FailLink makes every link fail with LinkLog.
	FailLink bool
	LinkLog  string
	// PendingErrors are returned by GetError in order.
	PendingErrors []uint32

	nextID   uint32
	shaders  map[uint32]*shaderObject
	programs map[uint32]bool
	compiled map[uint32]bool
	linked   map[uint32]bool
	buffers  map[uint32][]byte
	vaos     map[uint32]bool
	enabled  map[uint32]bool
	uniforms map[string]int32

	// Uniform values last uploaded, keyed by location.
	Vec4s map[int32][4]float32
	Mat4s map[int32][16]float32
	// Draws counts DrawArrays calls.
	Draws int

	clearColor  [4]float32
	viewport    [4]int32
	program     uint32
	vertexArray uint32
	arrayBuffer uint32
}

var _ glapi.GL = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		FailCompile: make(map[uint32]bool),
		shaders:     make(map[uint32]*shaderObject),
		programs:    make(map[uint32]bool),
		compiled:    make(map[uint32]bool),
		linked:      make(map[uint32]bool),
		buffers:     make(map[uint32][]byte),
		vaos:        make(map[uint32]bool),
		enabled:     make(map[uint32]bool),
		uniforms:    make(map[string]int32),
		Vec4s:       make(map[int32][4]float32),
		Mat4s:       make(map[int32][16]float32),
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Snapshot returns the current logical state.
func (r *Recorder) Snapshot() State {
	s := State{
		ClearColor:  r.clearColor,
		Viewport:    r.viewport,
		Program:     r.program,
		VertexArray: r.vertexArray,
		ArrayBuffer: r.arrayBuffer,
	}
	for idx, on := range r.enabled {
		if on {
			s.EnabledAttribs = append(s.EnabledAttribs, idx)
		}
	}
	for p, live := range r.programs {
		if live {
			s.LivePrograms = append(s.LivePrograms, p)
		}
	}
	sort.Slice(s.EnabledAttribs, func(i, j int) bool { return s.EnabledAttribs[i] < s.EnabledAttribs[j] })
	sort.Slice(s.LivePrograms, func(i, j int) bool { return s.LivePrograms[i] < s.LivePrograms[j] })
	return s
}

// SourceOf returns the source last loaded into shader.
func (r *Recorder) SourceOf(shader uint32) string {
	if s, ok := r.shaders[shader]; ok {
		return s.source
	}
	return ""
}

// BufferContents returns the bytes last uploaded to buffer.
func (r *Recorder) BufferContents(buffer uint32) []byte {
	return r.buffers[buffer]
}

// IsProgram reports whether program exists and has not been deleted.
func (r *Recorder) IsProgram(program uint32) bool {
	return r.programs[program]
}

// LiveShaders counts shader objects that were never deleted.
func (r *Recorder) LiveShaders() int {
	n := 0
	for _, s := range r.shaders {
		if !s.deleted {
			n++
		}
	}
	return n
}

// LiveBuffers counts buffer objects that were never deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// LiveVertexArrays counts vertex array objects that were never deleted.
func (r *Recorder) LiveVertexArrays() int { return len(r.vaos) }

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor(%g, %g, %g, %g)", red, green, blue, alpha)
	r.clearColor = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) Clear(mask uint32) {
	r.record("Clear(0x%x)", mask)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
	r.viewport = [4]int32{x, y, width, height}
}

func (r *Recorder) GetError() uint32 {
	if len(r.PendingErrors) == 0 {
		return glapi.NO_ERROR
	}
	code := r.PendingErrors[0]
	r.PendingErrors = r.PendingErrors[1:]
	return code
}

func (r *Recorder) CreateShader(kind uint32) uint32 {
	id := r.id()
	r.record("CreateShader(0x%x) = %d", kind, id)
	r.shaders[id] = &shaderObject{kind: kind}
	return id
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource(%d)", shader)
	if s, ok := r.shaders[shader]; ok {
		s.source = source
	}
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader(%d)", shader)
	s, ok := r.shaders[shader]
	r.compiled[shader] = ok && !r.FailCompile[s.kind]
}

func (r *Recorder) GetShaderiv(shader uint32, pname uint32) int32 {
	switch pname {
	case glapi.COMPILE_STATUS:
		if r.compiled[shader] {
			return glapi.TRUE
		}
		return glapi.FALSE
	case glapi.INFO_LOG_LENGTH:
		return int32(len(r.ShaderInfoLog(shader)))
	}
	return 0
}

func (r *Recorder) ShaderInfoLog(shader uint32) string {
	if r.compiled[shader] {
		return ""
	}
	return r.CompileLog
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader(%d)", shader)
	if s, ok := r.shaders[shader]; ok {
		s.deleted = true
	}
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.id()
	r.record("CreateProgram() = %d", id)
	r.programs[id] = true
	return id
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader(%d, %d)", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram(%d)", program)
	r.linked[program] = r.programs[program] && !r.FailLink
}

func (r *Recorder) GetProgramiv(program uint32, pname uint32) int32 {
	switch pname {
	case glapi.LINK_STATUS:
		if r.linked[program] {
			return glapi.TRUE
		}
		return glapi.FALSE
	case glapi.INFO_LOG_LENGTH:
		return int32(len(r.ProgramInfoLog(program)))
	}
	return 0
}

func (r *Recorder) ProgramInfoLog(program uint32) string {
	if r.linked[program] {
		return ""
	}
	return r.LinkLog
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram(%d)", program)
	r.program = program
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram(%d)", program)
	delete(r.programs, program)
	if r.program == program {
		r.program = 0
	}
}

// GetUniformLocation hands out a stable location per program and name.
func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	key := fmt.Sprintf("%d/%s", program, name)
	loc, ok := r.uniforms[key]
	if !ok {
		loc = int32(len(r.uniforms))
		r.uniforms[key] = loc
	}
	r.record("GetUniformLocation(%d, %s) = %d", program, name, loc)
	return loc
}

func (r *Recorder) GenVertexArray() uint32 {
	id := r.id()
	r.record("GenVertexArray() = %d", id)
	r.vaos[id] = true
	return id
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.record("BindVertexArray(%d)", vao)
	r.vertexArray = vao
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.record("DeleteVertexArray(%d)", vao)
	delete(r.vaos, vao)
}

func (r *Recorder) GenBuffer() uint32 {
	id := r.id()
	r.record("GenBuffer() = %d", id)
	r.buffers[id] = nil
	return id
}

func (r *Recorder) BindBuffer(target, buffer uint32) {
	r.record("BindBuffer(0x%x, %d)", target, buffer)
	if target == glapi.ARRAY_BUFFER {
		r.arrayBuffer = buffer
	}
}

func (r *Recorder) BufferData(target uint32, data []byte, usage uint32) {
	r.record("BufferData(0x%x, %d bytes, 0x%x)", target, len(data), usage)
	if target == glapi.ARRAY_BUFFER && r.arrayBuffer != 0 {
		r.buffers[r.arrayBuffer] = append([]byte(nil), data...)
	}
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer(%d)", buffer)
	delete(r.buffers, buffer)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray(%d)", index)
	r.enabled[index] = true
}

func (r *Recorder) DisableVertexAttribArray(index uint32) {
	r.record("DisableVertexAttribArray(%d)", index)
	r.enabled[index] = false
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer(%d, %d, 0x%x, %t, %d, %d)", index, size, xtype, normalized, stride, offset)
}

func (r *Recorder) Uniform4fv(location int32, value [4]float32) {
	r.record("Uniform4fv(%d)", location)
	r.Vec4s[location] = value
}

func (r *Recorder) UniformMatrix4fv(location int32, value [16]float32) {
	r.record("UniformMatrix4fv(%d)", location)
	r.Mat4s[location] = value
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.record("DrawArrays(0x%x, %d, %d)", mode, first, count)
	r.Draws++
}
