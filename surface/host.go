// Package surface drives a renderer from a graphics context on the calling
// goroutine.
package surface

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/richinsley/gotriangle/graphics"
)

// Renderer receives the surface lifecycle callbacks.
type Renderer interface {
	SurfaceCreated() error
	SurfaceChanged(width, height int) error
	DrawFrame() error
}

// RenderMode selects when frames are drawn.
type RenderMode int

const (
	// Continuously draws a frame on every loop iteration.
	Continuously RenderMode = iota
	// WhenDirty draws only after RequestRender or a size change.
	WhenDirty
)

func (m RenderMode) String() string {
	switch m {
	case Continuously:
		return "continuous"
	case WhenDirty:
		return "dirty"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// ParseRenderMode parses "continuous" or "dirty".
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(s) {
	case "", "continuous", "continuously":
		return Continuously, nil
	case "dirty", "when-dirty", "on-demand":
		return WhenDirty, nil
	}
	return Continuously, fmt.Errorf("unknown render mode %q", s)
}

// Host owns the render loop for one context. It is not safe for concurrent
// use except for RequestRender.
type Host struct {
	ctx      graphics.Context
	renderer Renderer
	mode     RenderMode

	created bool
	start   float64
	width   int
	height  int
	dirty   chan struct{}
	// BeforeFrame and AfterFrame run around every drawn frame on the render
	// goroutine. An error from either stops the loop.
	BeforeFrame func() error
	AfterFrame  func(frame int) error
	frames      int
}

func NewHost(ctx graphics.Context, r Renderer, mode RenderMode) *Host {
	return &Host{
		ctx:      ctx,
		renderer: r,
		mode:     mode,
		dirty:    make(chan struct{}, 1),
	}
}

// RequestRender marks the surface dirty. Safe to call from any goroutine.
func (h *Host) RequestRender() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

// Frames returns the number of frames drawn so far.
func (h *Host) Frames() int { return h.frames }

// Elapsed is the context time in seconds since the surface was created.
func (h *Host) Elapsed() float64 {
	if !h.created {
		return 0
	}
	return h.ctx.Time() - h.start
}

// FrameRate is the average number of frames drawn per second of context time.
func (h *Host) FrameRate() float64 {
	elapsed := h.Elapsed()
	if elapsed <= 0 {
		return 0
	}
	return float64(h.frames) / elapsed
}

// Step runs one loop iteration and reports whether a frame was drawn.
func (h *Host) Step() (bool, error) {
	if !h.created {
		h.ctx.MakeCurrent()
		if err := h.renderer.SurfaceCreated(); err != nil {
			return false, fmt.Errorf("surface created: %w", err)
		}
		h.created = true
		h.start = h.ctx.Time()
		h.RequestRender()
	}

	width, height := h.ctx.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		// Minimized; nothing to draw into.
		h.ctx.EndFrame()
		return false, nil
	}
	if width != h.width || height != h.height {
		if err := h.renderer.SurfaceChanged(width, height); err != nil {
			return false, fmt.Errorf("surface changed: %w", err)
		}
		h.width, h.height = width, height
		h.RequestRender()
	}

	draw := h.mode == Continuously
	select {
	case <-h.dirty:
		draw = true
	default:
	}
	if !draw {
		h.ctx.EndFrame()
		return false, nil
	}

	if h.BeforeFrame != nil {
		if err := h.BeforeFrame(); err != nil {
			return false, err
		}
	}
	if err := h.renderer.DrawFrame(); err != nil {
		return false, fmt.Errorf("draw frame %d: %w", h.frames, err)
	}
	if h.AfterFrame != nil {
		if err := h.AfterFrame(h.frames); err != nil {
			return false, err
		}
	}
	h.frames++
	h.ctx.EndFrame()
	return true, nil
}

// Run loops until the context asks to close, ctx is cancelled, or a callback
// fails. Must be called from the thread the context was created on.
func (h *Host) Run(ctx context.Context) error {
	log.Printf("Starting %s render loop...", h.mode)
	for !h.ctx.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := h.Step(); err != nil {
			return err
		}
	}
	log.Printf("Render loop finished after %d frames (%.1f fps)", h.frames, h.FrameRate())
	return nil
}

// RunFrames draws exactly n frames, for offscreen use.
func (h *Host) RunFrames(ctx context.Context, n int) error {
	for h.frames < n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		h.RequestRender()
		drawn, err := h.Step()
		if err != nil {
			return err
		}
		if !drawn {
			if w, ht := h.ctx.GetFramebufferSize(); w <= 0 || ht <= 0 {
				return fmt.Errorf("offscreen surface has no area: %dx%d", w, ht)
			}
		}
		if h.ctx.ShouldClose() {
			break
		}
	}
	return nil
}
