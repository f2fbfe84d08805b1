package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gotriangle/glapi"
	"github.com/richinsley/gotriangle/glapi/glapitest"
	"github.com/richinsley/gotriangle/shader"
	"github.com/richinsley/gotriangle/transform"
)

const eps = 1e-5

func newRenderer(t *testing.T, config Config) (*Renderer, *glapitest.Recorder) {
	t.Helper()
	rec := glapitest.NewRecorder()
	return NewRenderer(rec, shader.Native{}, config), rec
}

func ready(t *testing.T, r *Renderer, width, height int) {
	t.Helper()
	if err := r.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated() error = %v", err)
	}
	if err := r.SurfaceChanged(width, height); err != nil {
		t.Fatalf("SurfaceChanged(%d, %d) error = %v", width, height, err)
	}
}

func TestLifecycle(t *testing.T) {
	r, rec := newRenderer(t, DefaultConfig())

	if r.State() != Uninitialized {
		t.Fatalf("initial state = %v", r.State())
	}
	if err := r.DrawFrame(); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("DrawFrame() before create = %v, want ErrSurfaceNotReady", err)
	}
	if err := r.SurfaceChanged(640, 480); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("SurfaceChanged() before create = %v, want ErrSurfaceNotReady", err)
	}

	if err := r.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated() error = %v", err)
	}
	if r.State() != SurfaceReady {
		t.Errorf("state after create = %v, want %v", r.State(), SurfaceReady)
	}
	if got := rec.Snapshot().ClearColor; got != DefaultClearColor {
		t.Errorf("clear color = %v, want %v", got, DefaultClearColor)
	}
	if err := r.DrawFrame(); !errors.Is(err, ErrNotSized) {
		t.Errorf("DrawFrame() before size = %v, want ErrNotSized", err)
	}

	if err := r.SurfaceChanged(640, 480); err != nil {
		t.Fatalf("SurfaceChanged() error = %v", err)
	}
	if r.State() != Sized {
		t.Errorf("state after resize = %v, want %v", r.State(), Sized)
	}
	if got := rec.Snapshot().Viewport; got != [4]int32{0, 0, 640, 480} {
		t.Errorf("viewport = %v", got)
	}

	for i := 0; i < 3; i++ {
		if err := r.DrawFrame(); err != nil {
			t.Fatalf("DrawFrame() #%d error = %v", i, err)
		}
	}
	if r.State() != Rendering || r.Frames() != 3 || rec.Draws != 3 {
		t.Errorf("after 3 frames: state=%v frames=%d draws=%d", r.State(), r.Frames(), rec.Draws)
	}

	// A later resize keeps rendering.
	if err := r.SurfaceChanged(480, 640); err != nil {
		t.Fatal(err)
	}
	if r.State() != Rendering {
		t.Errorf("state after second resize = %v, want %v", r.State(), Rendering)
	}

	r.Shutdown()
	if r.State() != Uninitialized || len(rec.Snapshot().LivePrograms) != 0 {
		t.Errorf("Shutdown left state=%v programs=%v", r.State(), rec.Snapshot().LivePrograms)
	}
}

func TestSurfaceChangedRejectsZeroHeight(t *testing.T) {
	r, rec := newRenderer(t, DefaultConfig())
	ready(t, r, 1920, 1080)
	before := r.Transforms().Projection

	tests := []struct{ width, height int }{{1920, 0}, {0, 1080}, {-4, 4}}
	for _, tt := range tests {
		err := r.SurfaceChanged(tt.width, tt.height)
		if !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("SurfaceChanged(%d, %d) = %v, want ErrInvalidViewport", tt.width, tt.height, err)
		}
	}
	if r.Transforms().Projection != before {
		t.Errorf("rejected resize changed the projection")
	}
	if got := rec.Snapshot().Viewport; got != [4]int32{0, 0, 1920, 1080} {
		t.Errorf("rejected resize changed the viewport to %v", got)
	}
}

func TestProjectionFromSurface(t *testing.T) {
	r, _ := newRenderer(t, DefaultConfig())
	ready(t, r, 1920, 1080)

	want, _ := transform.Projection(1920, 1080)
	if got := r.Transforms().Projection; !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("projection = %v, want %v", got, want)
	}
}

func TestDrawFrameComposesTransforms(t *testing.T) {
	r, rec := newRenderer(t, Config{ClearColor: DefaultClearColor, DegreesPerFrame: 15})
	ready(t, r, 800, 600)

	for frame := 0; frame < 4; frame++ {
		angle := r.Angle()
		if err := r.DrawFrame(); err != nil {
			t.Fatal(err)
		}
		xf := r.Transforms()
		p, _ := transform.Projection(800, 600)
		want := p.Mul4(transform.View()).Mul4(transform.Rotation(angle))
		if !xf.Combined.ApproxEqualThreshold(want, eps) {
			t.Errorf("frame %d: combined = %v, want P×V×R(%v) = %v", frame, xf.Combined, angle, want)
		}
		if !xf.ViewProjection.ApproxEqualThreshold(p.Mul4(transform.View()), eps) {
			t.Errorf("frame %d: view-projection is not P×V", frame)
		}

		uploaded := mgl32.Mat4(lastMatrix(rec))
		if !uploaded.ApproxEqualThreshold(want, eps) {
			t.Errorf("frame %d: uploaded matrix = %v, want %v", frame, uploaded, want)
		}
	}
	if got := r.Angle(); got != 60 {
		t.Errorf("angle after 4 frames = %v, want 60", got)
	}
}

func TestStaticAngleByDefault(t *testing.T) {
	r, _ := newRenderer(t, DefaultConfig())
	ready(t, r, 100, 100)

	for i := 0; i < 10; i++ {
		if err := r.DrawFrame(); err != nil {
			t.Fatal(err)
		}
	}
	if r.Angle() != 0 {
		t.Errorf("angle = %v, want 0", r.Angle())
	}
	xf := r.Transforms()
	if !xf.Model.ApproxEqual(mgl32.Ident4()) {
		t.Errorf("model = %v, want identity", xf.Model)
	}
	if !xf.Combined.ApproxEqualThreshold(xf.ViewProjection, eps) {
		t.Errorf("combined should reduce to P×V at angle 0")
	}
}

func TestDrawFrameClearsBuffers(t *testing.T) {
	r, rec := newRenderer(t, DefaultConfig())
	ready(t, r, 10, 10)
	rec.Calls = nil

	if err := r.DrawFrame(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Calls) == 0 || rec.Calls[0] != "Clear(0x4100)" {
		t.Errorf("first call = %v, want Clear(0x4100)", rec.Calls)
	}
}

func TestSurfaceCreatedPropagatesShaderErrors(t *testing.T) {
	r, rec := newRenderer(t, DefaultConfig())
	rec.FailCompile[glapi.VERTEX_SHADER] = true
	rec.CompileLog = "ERROR: 0:1: bad"

	err := r.SurfaceCreated()
	var compileErr *shader.CompileError
	if !errors.As(err, &compileErr) || compileErr.Stage != shader.Vertex {
		t.Fatalf("SurfaceCreated() = %v, want vertex *shader.CompileError", err)
	}
	if r.State() != Uninitialized {
		t.Errorf("state = %v, want %v", r.State(), Uninitialized)
	}
}

func TestSurfaceRecreated(t *testing.T) {
	r, rec := newRenderer(t, DefaultConfig())
	ready(t, r, 10, 10)
	if err := r.SurfaceCreated(); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Snapshot().LivePrograms); n != 1 {
		t.Errorf("live programs after recreate = %d, want 1", n)
	}
	if r.State() != SurfaceReady {
		t.Errorf("state = %v, want %v", r.State(), SurfaceReady)
	}
}

func TestFailedRecreateStopsDrawing(t *testing.T) {
	r, rec := newRenderer(t, Config{ClearColor: DefaultClearColor, Debug: true})
	ready(t, r, 10, 10)
	if err := r.DrawFrame(); err != nil {
		t.Fatal(err)
	}

	rec.PendingErrors = []uint32{glapi.INVALID_OPERATION}
	if err := r.SurfaceCreated(); err == nil {
		t.Fatal("SurfaceCreated() with a pending GL error should fail")
	}
	if r.State() != Uninitialized {
		t.Errorf("state = %v, want %v", r.State(), Uninitialized)
	}
	if err := r.DrawFrame(); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("DrawFrame() = %v, want %v", err, ErrSurfaceNotReady)
	}
	if n := len(rec.Snapshot().LivePrograms); n != 0 {
		t.Errorf("live programs = %d, want 0", n)
	}
}

func TestDebugSurfacesGLErrors(t *testing.T) {
	r, rec := newRenderer(t, Config{ClearColor: DefaultClearColor, Debug: true})
	ready(t, r, 10, 10)

	rec.PendingErrors = []uint32{glapi.INVALID_OPERATION}
	err := r.DrawFrame()
	var glErr *glapi.Error
	if !errors.As(err, &glErr) || glErr.Code != glapi.INVALID_OPERATION {
		t.Fatalf("DrawFrame() = %v, want GL_INVALID_OPERATION", err)
	}

	// Without debug the flag is left for the driver.
	r2, rec2 := newRenderer(t, DefaultConfig())
	ready(t, r2, 10, 10)
	rec2.PendingErrors = []uint32{glapi.INVALID_OPERATION}
	if err := r2.DrawFrame(); err != nil {
		t.Errorf("DrawFrame() without debug = %v", err)
	}
}

func lastMatrix(rec *glapitest.Recorder) [16]float32 {
	for _, m := range rec.Mat4s {
		return m
	}
	return [16]float32{}
}
