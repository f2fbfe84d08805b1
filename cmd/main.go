package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/richinsley/gotriangle/glapi/native"
	"github.com/richinsley/gotriangle/glfwcontext"
	"github.com/richinsley/gotriangle/graphics"
	"github.com/richinsley/gotriangle/headless"
	"github.com/richinsley/gotriangle/options"
	"github.com/richinsley/gotriangle/renderer"
	"github.com/richinsley/gotriangle/surface"
	"github.com/richinsley/gotriangle/translator"
)

func init() {
	runtime.LockOSThread()
}

// newContext creates the window for interactive mode, or a headless context
// for offscreen modes. A hidden GLFW window stands in where EGL is missing.
func newContext(opts *options.TriangleOptions) (graphics.Context, func(), error) {
	if *opts.Mode != "window" {
		ctx, err := headless.NewHeadless(*opts.Width, *opts.Height)
		if err == nil {
			return ctx, ctx.Shutdown, nil
		}
		log.Printf("Headless context unavailable (%v), using a hidden window", err)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, err
	}
	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, "gotriangle", *opts.Mode == "window")
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, err
	}
	return ctx, func() {
		ctx.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

func runTriangle(ctx context.Context, opts *options.TriangleOptions) error {
	mode, err := surface.ParseRenderMode(*opts.RenderMode)
	if err != nil {
		return err
	}

	gctx, shutdown, err := newContext(opts)
	if err != nil {
		return fmt.Errorf("failed to create graphics context: %w", err)
	}
	defer shutdown()

	gctx.MakeCurrent()
	gl, err := native.Init()
	if err != nil {
		return err
	}
	log.Printf("OpenGL version: %s", gl.Version())

	tr, err := translator.New(gctx.IsGLES())
	if err != nil {
		return fmt.Errorf("failed to create shader translator: %w", err)
	}

	r := renderer.NewRenderer(gl, tr, renderer.Config{
		ClearColor:      opts.ClearColor,
		DegreesPerFrame: float32(*opts.DegreesPerFrame),
		Debug:           *opts.Debug,
	})
	defer r.Shutdown()

	switch *opts.Mode {
	case "record":
		return runRecord(ctx, gctx, r, opts)
	case "snapshot":
		return runSnapshot(ctx, gctx, r, opts)
	default:
		return surface.NewHost(gctx, r, mode).Run(ctx)
	}
}

func main() {
	opts, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if *opts.Help {
		fmt.Println("Rotating triangle renderer")
		flag.PrintDefaults()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runTriangle(ctx, opts); err != nil {
		log.Fatalf("Rendering failed: %v", err)
	}
}
