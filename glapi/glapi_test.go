package glapi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/richinsley/gotriangle/glapi"
	"github.com/richinsley/gotriangle/glapi/glapitest"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		pending  []uint32
		wantCode uint32
	}{
		{name: "clean context", pending: nil, wantCode: glapi.NO_ERROR},
		{name: "single error", pending: []uint32{glapi.INVALID_VALUE}, wantCode: glapi.INVALID_VALUE},
		{name: "first of several", pending: []uint32{glapi.INVALID_OPERATION, glapi.OUT_OF_MEMORY}, wantCode: glapi.INVALID_OPERATION},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := glapitest.NewRecorder()
			rec.PendingErrors = tt.pending

			err := glapi.Check(rec, "DrawArrays")
			if tt.wantCode == glapi.NO_ERROR {
				if err != nil {
					t.Fatalf("Check() = %v, want nil", err)
				}
				return
			}

			var glErr *glapi.Error
			if !errors.As(err, &glErr) {
				t.Fatalf("Check() = %v, want *glapi.Error", err)
			}
			if glErr.Code != tt.wantCode || glErr.Op != "DrawArrays" {
				t.Errorf("Check() = %+v, want code 0x%x op DrawArrays", glErr, tt.wantCode)
			}
			if len(rec.PendingErrors) != 0 {
				t.Errorf("Check() left %d error flags set", len(rec.PendingErrors))
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &glapi.Error{Op: "UseProgram", Code: glapi.INVALID_OPERATION}
	msg := err.Error()
	if !strings.Contains(msg, "UseProgram") || !strings.Contains(msg, "GL_INVALID_OPERATION") {
		t.Errorf("Error() = %q, want op and symbolic code", msg)
	}
}
