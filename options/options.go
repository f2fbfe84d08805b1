package options

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type TriangleOptions struct {
	Help            *bool
	Mode            *string // "window", "record" or "snapshot"
	ConfigFile      *string
	Width           *int
	Height          *int
	FPS             *int
	Duration        *float64
	OutputFile      *string
	FFMPEGPath      *string
	Codec           *string
	DegreesPerFrame *float64
	RenderMode      *string // "continuous" or "dirty"
	Debug           *bool
	ClearColor      [4]float32
}

// fileOptions mirrors TriangleOptions for the YAML overlay. Absent keys stay
// nil and leave the flag value alone.
type fileOptions struct {
	Mode            *string    `yaml:"mode"`
	Width           *int       `yaml:"width"`
	Height          *int       `yaml:"height"`
	FPS             *int       `yaml:"fps"`
	Duration        *float64   `yaml:"duration"`
	OutputFile      *string    `yaml:"output"`
	FFMPEGPath      *string    `yaml:"ffmpeg"`
	Codec           *string    `yaml:"codec"`
	DegreesPerFrame *float64   `yaml:"spin"`
	RenderMode      *string    `yaml:"render"`
	Debug           *bool      `yaml:"debug"`
	ClearColor      *[]float32 `yaml:"clear_color"`
}

// DefaultClearColor is the dark blue background.
var DefaultClearColor = [4]float32{0, 0, 0.2, 1}

// Register defines the command-line flags on fs.
func Register(fs *flag.FlagSet) *TriangleOptions {
	return &TriangleOptions{
		Help:            fs.Bool("help", false, "Show help message"),
		Mode:            fs.String("mode", "window", "Run mode: window, record or snapshot"),
		ConfigFile:      fs.String("config", "", "YAML file with option overrides"),
		Width:           fs.Int("width", 1280, "Width of the surface"),
		Height:          fs.Int("height", 720, "Height of the surface"),
		FPS:             fs.Int("fps", 60, "Frames per second for recording"),
		Duration:        fs.Float64("duration", 5.0, "Duration to record in seconds"),
		OutputFile:      fs.String("output", "", "Output file (default output.mp4 or triangle.png)"),
		FFMPEGPath:      fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:           fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		DegreesPerFrame: fs.Float64("spin", 0, "Rotation in degrees added every frame"),
		RenderMode:      fs.String("render", "continuous", "Render mode: continuous or dirty"),
		Debug:           fs.Bool("debug", false, "Check for GL errors after every draw step"),
		ClearColor:      DefaultClearColor,
	}
}

// Parse registers the flags on fs, parses args, and applies the config file
// if one was given. Flags set explicitly on the command line win over the
// file.
func Parse(fs *flag.FlagSet, args []string) (*TriangleOptions, error) {
	opts := Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *opts.ConfigFile != "" {
		data, err := os.ReadFile(*opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := opts.ApplyYAML(data, explicit); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", *opts.ConfigFile, err)
		}
	}

	if *opts.OutputFile == "" {
		switch *opts.Mode {
		case "snapshot":
			*opts.OutputFile = "triangle.png"
		default:
			*opts.OutputFile = "output.mp4"
		}
	}
	return opts, opts.Validate()
}

// ApplyYAML overlays the keys present in data, skipping any whose flag name
// is in keep.
func (o *TriangleOptions) ApplyYAML(data []byte, keep map[string]bool) error {
	var f fileOptions
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	setString(o.Mode, f.Mode, keep["mode"])
	setInt(o.Width, f.Width, keep["width"])
	setInt(o.Height, f.Height, keep["height"])
	setInt(o.FPS, f.FPS, keep["fps"])
	setFloat(o.Duration, f.Duration, keep["duration"])
	setString(o.OutputFile, f.OutputFile, keep["output"])
	setString(o.FFMPEGPath, f.FFMPEGPath, keep["ffmpeg"])
	setString(o.Codec, f.Codec, keep["codec"])
	setFloat(o.DegreesPerFrame, f.DegreesPerFrame, keep["spin"])
	setString(o.RenderMode, f.RenderMode, keep["render"])
	if f.Debug != nil && !keep["debug"] {
		*o.Debug = *f.Debug
	}

	if f.ClearColor != nil {
		c := *f.ClearColor
		if len(c) != 4 {
			return fmt.Errorf("clear_color needs 4 components, got %d", len(c))
		}
		copy(o.ClearColor[:], c)
	}
	return nil
}

func setString(dst, src *string, keep bool) {
	if src != nil && !keep {
		*dst = *src
	}
}

func setInt(dst, src *int, keep bool) {
	if src != nil && !keep {
		*dst = *src
	}
}

func setFloat(dst, src *float64, keep bool) {
	if src != nil && !keep {
		*dst = *src
	}
}

// Validate checks ranges and enumerations.
func (o *TriangleOptions) Validate() error {
	switch *o.Mode {
	case "window", "record", "snapshot":
	default:
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.Mode == "record" {
		if *o.FPS <= 0 {
			return fmt.Errorf("invalid fps %d", *o.FPS)
		}
		if *o.Duration <= 0 {
			return fmt.Errorf("invalid duration %v", *o.Duration)
		}
		if o.TotalFrames() < 1 {
			return fmt.Errorf("duration %vs at %d fps records no frames", *o.Duration, *o.FPS)
		}
		switch *o.Codec {
		case "h264", "hevc":
		default:
			return fmt.Errorf("unknown codec %q", *o.Codec)
		}
	}
	for i, c := range o.ClearColor {
		if c < 0 || c > 1 {
			return fmt.Errorf("clear_color[%d] = %v is outside [0, 1]", i, c)
		}
	}
	return nil
}

// TotalFrames is the number of frames a recording renders.
func (o *TriangleOptions) TotalFrames() int {
	return int(*o.Duration * float64(*o.FPS))
}
