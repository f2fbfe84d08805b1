package record

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered frame's RGBA data, bottom row first.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Options configures a recording.
type Options struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	FFMPEGPath string
	// Codec is "h264" or "hevc".
	Codec string
}

// FrameSize is the byte length of one RGBA frame.
func (o Options) FrameSize() int {
	return o.Width * o.Height * 4
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid recording size %dx%d", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", o.FPS)
	}
	if o.OutputFile == "" {
		return fmt.Errorf("no output file")
	}
	return nil
}

// getArgs builds the rawvideo input and the encoder output arguments. The
// readback is bottom-up, so the output is flipped vertically.
func getArgs(opts Options) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"r":       fmt.Sprintf("%d", opts.FPS),
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	hevc := opts.Codec == "hevc"
	switch runtime.GOOS {
	case "darwin":
		log.Println("Using macOS (VideoToolbox) hardware acceleration.")
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		log.Println("Using software encoding pipeline (no hardware acceleration).")
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if hevc && strings.HasSuffix(opts.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

func buildStream(opts Options, input io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := getArgs(opts)
	stream := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(input).ErrorToStdOut()
	if opts.FFMPEGPath != "" {
		stream = stream.SetFfmpegPath(opts.FFMPEGPath)
	}
	return stream
}

// writeFrames copies frames to w until the channel closes. A frame of the
// wrong size is an error; frames after it are drained and dropped so the
// producer never blocks.
func writeFrames(w io.Writer, frameSize int, frames <-chan *Frame) (int, error) {
	written := 0
	var err error
	for frame := range frames {
		if err != nil {
			continue
		}
		if len(frame.Pixels) != frameSize {
			err = fmt.Errorf("frame %d has %d bytes, want %d", frame.PTS, len(frame.Pixels), frameSize)
			continue
		}
		if _, werr := w.Write(frame.Pixels); werr != nil {
			err = fmt.Errorf("failed to write frame %d to FFmpeg: %w", frame.PTS, werr)
			continue
		}
		written++
	}
	return written, err
}

// RunEncoder is the consumer. It starts FFmpeg, streams frames into its
// stdin, and reports the final result on done once frames is closed.
func RunEncoder(opts Options, frames <-chan *Frame, done chan<- error) {
	if err := opts.validate(); err != nil {
		for range frames {
		}
		done <- err
		return
	}

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := buildStream(opts, pipeReader)

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if FFmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	written, writeErr := writeFrames(pipeWriter, opts.FrameSize(), frames)
	pipeWriter.Close()

	ffmpegErr := <-errc
	log.Printf("Encoder wrote %d frames to %s", written, opts.OutputFile)
	if ffmpegErr != nil {
		done <- fmt.Errorf("ffmpeg failed: %w", ffmpegErr)
		return
	}
	done <- writeErr
}
