// Package transform builds the per-frame projection, view and model matrices
// and composes them in projection × view × model order. All matrices are
// column-major, as GL expects them.
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum depth range.
const (
	Near = 3
	Far  = 7
)

var (
	// Eye, Center and Up place the fixed camera.
	Eye    = mgl32.Vec3{0, 0, -3}
	Center = mgl32.Vec3{0, 0, 0}
	Up     = mgl32.Vec3{0, 1, 0}

	// ErrInvalidViewport is returned for a surface with a zero or negative side.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// Projection returns the symmetric frustum for a width×height surface:
// left/right are ∓width/height, bottom/top are ∓1.
func Projection(width, height int) (mgl32.Mat4, error) {
	if width <= 0 || height <= 0 {
		return mgl32.Mat4{}, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	ratio := float32(width) / float32(height)
	return mgl32.Frustum(-ratio, ratio, -1, 1, Near, Far), nil
}

// View returns the look-at matrix of the fixed camera.
func View() mgl32.Mat4 {
	return mgl32.LookAtV(Eye, Center, Up)
}

// Rotation returns a rotation of degrees about +Z.
func Rotation(degrees float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees))
}

// Compose returns projection × view × model.
func Compose(projection, view, model mgl32.Mat4) mgl32.Mat4 {
	return projection.Mul4(view).Mul4(model)
}

// Advance steps angle by step degrees and wraps the result into [0, 360).
func Advance(angle, step float32) float32 {
	a := math.Mod(float64(angle)+float64(step), 360)
	if a < 0 {
		a += 360
	}
	// A tiny negative remainder plus 360 can round up to 360 in float32.
	if f := float32(a); f < 360 {
		return f
	}
	return 0
}

// Aspect recovers right/top from a frustum built by Projection.
func Aspect(projection mgl32.Mat4) float32 {
	// m00 = 2n/(r-l), m11 = 2n/(t-b); for a symmetric frustum the ratio is r/t.
	return projection[5] / projection[0]
}
