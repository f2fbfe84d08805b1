package main

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/gotriangle/graphics"
	"github.com/richinsley/gotriangle/offscreen"
	"github.com/richinsley/gotriangle/options"
	"github.com/richinsley/gotriangle/record"
	"github.com/richinsley/gotriangle/surface"
	"github.com/schollz/progressbar/v3"
)

// numBuffers is how many frames may queue ahead of the encoder.
const numBuffers = 3

// targetContext reports the framebuffer object's size instead of the
// window's, so a hidden window on a HiDPI display still matches the output.
type targetContext struct {
	graphics.Context
	target *offscreen.Target
}

func (c targetContext) GetFramebufferSize() (int, int) {
	return c.target.Width(), c.target.Height()
}

func newOffscreenHost(gctx graphics.Context, r surface.Renderer, opts *options.TriangleOptions) (*surface.Host, *offscreen.Target, error) {
	target, err := offscreen.NewTarget(*opts.Width, *opts.Height)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create offscreen target: %w", err)
	}
	host := surface.NewHost(targetContext{Context: gctx, target: target}, r, surface.Continuously)
	host.BeforeFrame = func() error {
		target.Bind()
		return nil
	}
	return host, target, nil
}

// readFrame copies the target's color attachment and restores the default
// framebuffer before the context ends the frame.
func readFrame(target *offscreen.Target, frame int) ([]byte, error) {
	defer target.Unbind()
	pixels := make([]byte, target.FrameSize())
	if err := target.ReadPixels(pixels); err != nil {
		return nil, fmt.Errorf("failed to read frame %d: %w", frame, err)
	}
	return pixels, nil
}

// runRecord is the producer. It renders a fixed number of frames and hands
// each readback to the encoder goroutine.
func runRecord(ctx context.Context, gctx graphics.Context, r surface.Renderer, opts *options.TriangleOptions) error {
	host, target, err := newOffscreenHost(gctx, r, opts)
	if err != nil {
		return err
	}
	defer target.Destroy()

	frameChan := make(chan *record.Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)
	go record.RunEncoder(record.Options{
		Width:      target.Width(),
		Height:     target.Height(),
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		FFMPEGPath: *opts.FFMPEGPath,
		Codec:      *opts.Codec,
	}, frameChan, encoderDoneChan)

	totalFrames := opts.TotalFrames()
	log.Printf("Recording %d frames to %s", totalFrames, *opts.OutputFile)
	pb := progressbar.Default(int64(totalFrames), "rendering")

	host.AfterFrame = func(frame int) error {
		pixels, err := readFrame(target, frame)
		if err != nil {
			return err
		}
		frameChan <- &record.Frame{Pixels: pixels, PTS: int64(frame)}
		pb.Add(1)
		return nil
	}

	renderErr := host.RunFrames(ctx, totalFrames)
	pb.Close()

	// Close the channel to signal the producer is done
	close(frameChan)
	encodeErr := <-encoderDoneChan
	if renderErr != nil {
		return renderErr
	}
	if encodeErr != nil {
		return encodeErr
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
	return nil
}

// runSnapshot renders a single frame and writes it as a PNG.
func runSnapshot(ctx context.Context, gctx graphics.Context, r surface.Renderer, opts *options.TriangleOptions) error {
	host, target, err := newOffscreenHost(gctx, r, opts)
	if err != nil {
		return err
	}
	defer target.Destroy()

	host.AfterFrame = func(frame int) error {
		pixels, err := readFrame(target, frame)
		if err != nil {
			return err
		}
		return record.SavePNG(*opts.OutputFile, &record.Frame{Pixels: pixels}, target.Width(), target.Height())
	}

	if err := host.RunFrames(ctx, 1); err != nil {
		return err
	}
	log.Printf("Saved snapshot to %s", *opts.OutputFile)
	return nil
}
