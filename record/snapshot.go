package record

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// Image converts a bottom-up RGBA readback into a top-down image.
func Image(frame *Frame, width, height int) (*image.NRGBA, error) {
	stride := width * 4
	if width <= 0 || height <= 0 || len(frame.Pixels) != stride*height {
		return nil, fmt.Errorf("frame has %d bytes, want %dx%d RGBA", len(frame.Pixels), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := frame.Pixels[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// WritePNG encodes a readback as PNG.
func WritePNG(w io.Writer, frame *Frame, width, height int) error {
	img, err := Image(frame, width, height)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG writes a readback to path.
func SavePNG(path string, frame *Frame, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := WritePNG(f, frame, width, height); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return f.Close()
}
