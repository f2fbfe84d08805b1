package graphics

// Context defines the interface for a surface that owns an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// IsGLES reports whether the context speaks OpenGL ES rather than desktop GL.
	IsGLES() bool
}
