package translator

import (
	"strings"
	"testing"

	"github.com/richinsley/gotriangle/shader"
)

func TestTranslateTriangleShaders(t *testing.T) {
	tests := []struct {
		name   string
		stage  shader.Stage
		source string
		names  []string
	}{
		{
			name:   "vertex",
			stage:  shader.Vertex,
			source: shader.TriangleVertexShader(),
			names:  []string{shader.MVPMatrixUniform, shader.PositionAttrib},
		},
		{
			name:   "fragment",
			stage:  shader.Fragment,
			source: shader.TriangleFragmentShader(),
			names:  []string{shader.ColorUniform},
		},
	}

	for _, isGLES := range []bool{false, true} {
		tr, err := New(isGLES)
		if err != nil {
			t.Fatalf("New(%t) error = %v", isGLES, err)
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				out, err := tr.Translate(tt.source, tt.stage)
				if err != nil {
					t.Fatalf("Translate() error = %v", err)
				}
				if !isGLES && !strings.Contains(out.Code, "410") {
					t.Errorf("desktop output is not GLSL 4.10:\n%s", out.Code)
				}
				for _, name := range tt.names {
					mapped, ok := out.Names[name]
					if !ok || mapped == "" {
						t.Errorf("no mapping for %q in %v", name, out.Names)
						continue
					}
					if got := out.Name(name); got != mapped {
						t.Errorf("Name(%q) = %q, want %q", name, got, mapped)
					}
					if !strings.Contains(out.Code, mapped) {
						t.Errorf("translated code does not declare %q:\n%s", mapped, out.Code)
					}
				}
			})
		}
	}
}

func TestTranslateRejectsBadSource(t *testing.T) {
	tr, err := New(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Translate("#version 300 es\nvoid main() { undefined(); }\n", shader.Vertex); err == nil {
		t.Errorf("Translate() of invalid source should fail")
	}
}
