package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestProjection(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{name: "1080p landscape", width: 1920, height: 1080},
		{name: "portrait phone", width: 1080, height: 2400},
		{name: "square", width: 512, height: 512},
		{name: "one pixel", width: 1, height: 1},
		{name: "wide strip", width: 4000, height: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Projection(tt.width, tt.height)
			if err != nil {
				t.Fatalf("Projection(%d, %d) error = %v", tt.width, tt.height, err)
			}
			ratio := float32(tt.width) / float32(tt.height)
			if got := Aspect(p); !near(got/ratio, 1) {
				t.Errorf("Aspect() = %v, want %v", got, ratio)
			}

			// Symmetric: no off-axis skew terms.
			if !near(p[8], 0) || !near(p[9], 0) {
				t.Errorf("frustum not symmetric: m20=%v m21=%v", p[8], p[9])
			}
			if !near(p[5], 2*Near/2) {
				t.Errorf("m11 = %v, want %v (top=1)", p[5], 2*Near/2.0)
			}
			if !near(p[10], -(Far+Near)/float32(Far-Near)) {
				t.Errorf("m22 = %v", p[10])
			}
			if !near(p[14], -2*Far*Near/float32(Far-Near)) {
				t.Errorf("m32 = %v", p[14])
			}
			if p[11] != -1 || p[15] != 0 {
				t.Errorf("perspective row = (%v, %v), want (-1, 0)", p[11], p[15])
			}
		})
	}
}

func TestProjection1080p(t *testing.T) {
	p, err := Projection(1920, 1080)
	if err != nil {
		t.Fatal(err)
	}
	ratio := float32(1920) / 1080
	want := mgl32.Frustum(-ratio, ratio, -1, 1, 3, 7)
	if !p.ApproxEqualThreshold(want, eps) {
		t.Errorf("Projection(1920, 1080) = %v, want %v", p, want)
	}
	// right = 1.777...: m00 = 2n/(r-l) = 3/1.777...
	if !near(p[0], 3/ratio) {
		t.Errorf("m00 = %v, want %v", p[0], 3/ratio)
	}
}

func TestProjectionRejectsDegenerateViewport(t *testing.T) {
	tests := []struct {
		width, height int
	}{
		{1920, 0},
		{0, 1080},
		{0, 0},
		{-1, 10},
		{10, -1},
	}
	for _, tt := range tests {
		_, err := Projection(tt.width, tt.height)
		if !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("Projection(%d, %d) error = %v, want ErrInvalidViewport", tt.width, tt.height, err)
		}
	}
}

func TestRotationZeroIsIdentity(t *testing.T) {
	if r := Rotation(0); !r.ApproxEqual(mgl32.Ident4()) {
		t.Errorf("Rotation(0) = %v, want identity", r)
	}

	p, _ := Projection(1920, 1080)
	v := View()
	got := Compose(p, v, Rotation(0))
	if !got.ApproxEqualThreshold(p.Mul4(v), eps) {
		t.Errorf("Compose(P, V, R(0)) = %v, want P×V", got)
	}
}

func TestRotationTurnsAboutZ(t *testing.T) {
	r := Rotation(90)
	x := r.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !near(x[0], 0) || !near(x[1], 1) || !near(x[2], 0) {
		t.Errorf("R(90)·x̂ = %v, want ŷ", x)
	}
}

func TestComposeOrder(t *testing.T) {
	p, _ := Projection(1920, 1080)
	v := View()
	m := Rotation(30)

	got := Compose(p, v, m)
	want := p.Mul4(v).Mul4(m)
	if !got.ApproxEqualThreshold(want, eps) {
		t.Fatalf("Compose() = %v, want P×V×M = %v", got, want)
	}

	swaps := map[string]mgl32.Mat4{
		"M×V×P": m.Mul4(v).Mul4(p),
		"P×M×V": p.Mul4(m).Mul4(v),
		"V×P×M": v.Mul4(p).Mul4(m),
	}
	for name, other := range swaps {
		if got.ApproxEqualThreshold(other, eps) {
			t.Errorf("Compose() matches %s; order must matter", name)
		}
	}
}

func TestViewLooksDownPositiveZ(t *testing.T) {
	v := View()
	// The origin sits 3 units in front of the camera.
	o := v.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(o[0], 0) || !near(o[1], 0) || !near(o[2], -3) {
		t.Errorf("V·origin = %v, want (0, 0, -3)", o)
	}
	// +Y stays up.
	up := v.Mul4x1(mgl32.Vec4{0, 1, 0, 0})
	if !near(up[1], 1) {
		t.Errorf("V·ŷ = %v, want y = 1", up)
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		angle, step, want float32
	}{
		{0, 0, 0},
		{0, 1, 1},
		{359, 2, 1},
		{10, 360, 10},
		{5, -10, 355},
		{0, 720.5, 0.5},
	}
	for _, tt := range tests {
		if got := Advance(tt.angle, tt.step); !near(got, tt.want) {
			t.Errorf("Advance(%v, %v) = %v, want %v", tt.angle, tt.step, got, tt.want)
		}
	}
}

func TestAdvanceStaysBelow360(t *testing.T) {
	tests := []struct {
		angle, step float32
	}{
		{0, -1e-6},
		{0, -1e-9},
		{359.99997, 0},
		{1e-6, -2e-6},
	}
	for _, tt := range tests {
		if got := Advance(tt.angle, tt.step); got < 0 || got >= 360 {
			t.Errorf("Advance(%v, %v) = %v, outside [0, 360)", tt.angle, tt.step, got)
		}
	}
}
