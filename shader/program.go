package shader

import (
	"errors"
	"fmt"

	"github.com/richinsley/gotriangle/glapi"
)

// CompileError reports a stage that failed to translate or compile.
type CompileError struct {
	Stage Stage
	Log   string
	Err   error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to compile %s shader: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error { return e.Err }

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

var errNoObject = errors.New("driver returned no object")

// Program is a linked shader program and the emitted names of its uniforms.
type Program struct {
	Handle uint32
	names  map[string]string
}

// Uniform resolves a source uniform name to its location in the program.
// Returns -1 when the uniform was optimized out.
func (p *Program) Uniform(gl glapi.GL, name string) int32 {
	mapped := name
	if m, ok := p.names[name]; ok && m != "" {
		mapped = m
	}
	return gl.GetUniformLocation(p.Handle, mapped)
}

// Delete releases the program object.
func (p *Program) Delete(gl glapi.GL) {
	if p.Handle != 0 {
		gl.DeleteProgram(p.Handle)
		p.Handle = 0
	}
}

// NewProgram translates, compiles and links a vertex/fragment pair. The
// intermediate shader objects are always released.
func NewProgram(gl glapi.GL, tr Translator, vertexSource, fragmentSource string) (*Program, error) {
	names := make(map[string]string)

	vertexShader, err := compileShader(gl, tr, vertexSource, Vertex, names)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl, tr, fragmentSource, Fragment, names)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	if program == 0 {
		return nil, &LinkError{Log: errNoObject.Error()}
	}
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	if gl.GetProgramiv(program, glapi.LINK_STATUS) == glapi.FALSE {
		log := gl.ProgramInfoLog(program)
		gl.DeleteProgram(program)
		return nil, &LinkError{Log: log}
	}

	return &Program{Handle: program, names: names}, nil
}

func compileShader(gl glapi.GL, tr Translator, source string, stage Stage, names map[string]string) (uint32, error) {
	translated, err := tr.Translate(source, stage)
	if err != nil {
		return 0, &CompileError{Stage: stage, Err: err}
	}
	for k, v := range translated.Names {
		names[k] = v
	}

	shader := gl.CreateShader(stage.Kind())
	if shader == 0 {
		return 0, &CompileError{Stage: stage, Err: errNoObject}
	}
	gl.ShaderSource(shader, translated.Code)
	gl.CompileShader(shader)

	if gl.GetShaderiv(shader, glapi.COMPILE_STATUS) == glapi.FALSE {
		logText := gl.ShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: logText}
	}
	return shader, nil
}
