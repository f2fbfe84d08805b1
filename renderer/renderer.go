package renderer

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gotriangle/glapi"
	"github.com/richinsley/gotriangle/shader"
	"github.com/richinsley/gotriangle/shape"
	"github.com/richinsley/gotriangle/transform"
)

// State is the lifecycle position of a Renderer.
type State int

const (
	Uninitialized State = iota
	SurfaceReady
	Sized
	Rendering
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case SurfaceReady:
		return "surface-ready"
	case Sized:
		return "sized"
	case Rendering:
		return "rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrSurfaceNotReady = errors.New("surface has not been created")
	ErrNotSized        = errors.New("surface size is unknown")
	// ErrInvalidViewport is returned by SurfaceChanged for a zero or negative side.
	ErrInvalidViewport = transform.ErrInvalidViewport
)

// DefaultClearColor is the dark blue background.
var DefaultClearColor = [4]float32{0, 0, 0.2, 1}

type Config struct {
	ClearColor [4]float32
	// DegreesPerFrame is added to the rotation angle after every drawn frame.
	// Zero keeps the triangle still.
	DegreesPerFrame float32
	// Debug checks glGetError after every state-changing step.
	Debug bool
}

// DefaultConfig returns a static triangle on the default background.
func DefaultConfig() Config {
	return Config{ClearColor: DefaultClearColor}
}

// Transforms holds the per-frame matrices.
type Transforms struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	// ViewProjection is projection × view.
	ViewProjection mgl32.Mat4
	// Combined is projection × view × model, as handed to the shape.
	Combined mgl32.Mat4
}

// Renderer implements the three surface lifecycle callbacks. A host must call
// them sequentially from the thread that owns the GL context.
type Renderer struct {
	gl         glapi.GL
	translator shader.Translator
	config     Config

	state    State
	triangle *shape.Triangle
	angle    float32
	frames   uint64
	xf       Transforms
}

func NewRenderer(gl glapi.GL, tr shader.Translator, config Config) *Renderer {
	return &Renderer{
		gl:         gl,
		translator: tr,
		config:     config,
	}
}

func (r *Renderer) State() State          { return r.state }
func (r *Renderer) Angle() float32        { return r.angle }
func (r *Renderer) Frames() uint64        { return r.frames }
func (r *Renderer) Transforms() Transforms { return r.xf }

func (r *Renderer) check(op string) error {
	if !r.config.Debug {
		return nil
	}
	return glapi.Check(r.gl, op)
}

// SurfaceCreated builds the triangle and sets the clear color. A repeated
// call, after the host lost and recreated its context, rebuilds everything.
func (r *Renderer) SurfaceCreated() error {
	if r.triangle != nil {
		r.triangle.Release()
		r.triangle = nil
	}
	r.state = Uninitialized

	c := r.config.ClearColor
	r.gl.ClearColor(c[0], c[1], c[2], c[3])
	if err := r.check("ClearColor"); err != nil {
		return err
	}

	triangle, err := shape.NewTriangle(r.gl, r.translator)
	if err != nil {
		return err
	}
	if err := r.check("NewTriangle"); err != nil {
		triangle.Release()
		return err
	}
	r.triangle = triangle
	r.state = SurfaceReady
	r.xf.Model = mgl32.Ident4()
	log.Printf("Surface created, triangle program %d", triangle.Program())
	return nil
}

// SurfaceChanged sets the viewport and recomputes the projection. A zero or
// negative side is rejected before any division.
func (r *Renderer) SurfaceChanged(width, height int) error {
	if r.state == Uninitialized {
		return ErrSurfaceNotReady
	}
	projection, err := transform.Projection(width, height)
	if err != nil {
		return err
	}

	r.gl.Viewport(0, 0, int32(width), int32(height))
	if err := r.check("Viewport"); err != nil {
		return err
	}
	r.xf.Projection = projection
	if r.state == SurfaceReady {
		r.state = Sized
	}
	log.Printf("Surface changed to %dx%d", width, height)
	return nil
}

// DrawFrame clears the surface and draws the triangle with the current
// rotation, then advances the angle.
func (r *Renderer) DrawFrame() error {
	switch r.state {
	case Uninitialized:
		return ErrSurfaceNotReady
	case SurfaceReady:
		return ErrNotSized
	}

	r.gl.Clear(glapi.COLOR_BUFFER_BIT | glapi.DEPTH_BUFFER_BIT)

	r.xf.View = transform.View()
	r.xf.ViewProjection = r.xf.Projection.Mul4(r.xf.View)
	r.xf.Model = transform.Rotation(r.angle)
	r.xf.Combined = r.xf.ViewProjection.Mul4(r.xf.Model)

	r.triangle.Draw(r.xf.Combined)
	if err := r.check("Draw"); err != nil {
		return err
	}

	r.angle = transform.Advance(r.angle, r.config.DegreesPerFrame)
	r.frames++
	r.state = Rendering
	return nil
}

// Shutdown releases the triangle. The renderer returns to Uninitialized.
func (r *Renderer) Shutdown() {
	r.triangle.Release()
	r.triangle = nil
	r.state = Uninitialized
}
