package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	"github.com/richinsley/gotriangle/shader"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// getTranslator lazily starts the shared translator runtime.
func getTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		ctx := context.Background()
		translator, translatorErr = gst.NewShaderTranslator(ctx)
	})
	return translator, translatorErr
}

// Translator rewrites WebGL2 shaders for a desktop core profile or an ES
// context through goshadertranslator.
type Translator struct {
	xlate  *gst.ShaderTranslator
	isGLES bool
}

var _ shader.Translator = (*Translator)(nil)

// New returns a translator targeting GLSL 4.10 core, or ESSL when isGLES.
func New(isGLES bool) (*Translator, error) {
	xlate, err := getTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}
	return &Translator{xlate: xlate, isGLES: isGLES}, nil
}

func (t *Translator) Translate(source string, stage shader.Stage) (*shader.Translated, error) {
	outputFormat := gst.OutputFormatGLSL410
	if t.isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	res, err := t.xlate.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(res.Variables))
	for name, v := range res.Variables {
		names[name] = v.MappedName
	}
	return &shader.Translated{Code: res.Code, Names: names}, nil
}
