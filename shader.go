package gfxcmd

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/gfxcmd/driver"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ShaderDesc describes a shader stage. SPIR-V is given as Code; GLSL and
// WGSL as Source.
type ShaderDesc struct {
	Stage  ShaderStage
	Format ShaderFormat
	Code   []byte
	Source string
}

// glslPreamble is prepended to every GLSL source. The stage define lets one
// file hold both stages.
func glslPreamble(stage ShaderStage) string {
	if stage == StageFragment {
		return "#version 460 core\n#define FRAGMENT_SHADER 1\n"
	}
	return "#version 460 core\n#define VERTEX_SHADER 1\n"
}

// spirvWords converts a little-endian SPIR-V byte stream to words.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) < 4 || len(code)%4 != 0 {
		return nil, fmt.Errorf("%w: spir-v length %d is not a whole number of words", ErrShaderCompile, len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: bad spir-v magic %#08x", ErrShaderCompile, words[0])
	}
	return words, nil
}

var shaderStages = [...]driver.ShaderStage{
	StageVertex:   driver.StageVertex,
	StageFragment: driver.StageFragment,
}

// CreateShader compiles a shader stage. WGSL is translated to SPIR-V
// before it reaches the driver, so it needs a SPIR-V capable driver.
func (d *Device) CreateShader(desc ShaderDesc) (Shader, error) {
	if d.closed {
		return Shader{}, ErrClosed
	}
	if int(desc.Stage) >= len(shaderStages) {
		return Shader{}, fmt.Errorf("%w: shader stage %d", ErrInvalidDescriptor, desc.Stage)
	}
	label := fmt.Sprintf("shader-%s-%s", shaderStages[desc.Stage], newLabel())
	sd := driver.ShaderDesc{Label: label, Stage: shaderStages[desc.Stage]}

	switch desc.Format {
	case ShaderGLSL:
		if !d.info.SupportsGLSL {
			return Shader{}, d.shaderError(label, fmt.Errorf("%w: driver %s does not take glsl", ErrUnsupportedFormat, d.info.Name))
		}
		sd.GLSL = glslPreamble(desc.Stage) + desc.Source
	case ShaderSPIRV, ShaderWGSL:
		if !d.info.SupportsSPIRV {
			return Shader{}, d.shaderError(label, fmt.Errorf("%w: driver %s does not take spir-v", ErrUnsupportedFormat, d.info.Name))
		}
		code := desc.Code
		if desc.Format == ShaderWGSL {
			var err error
			code, err = naga.Compile(desc.Source)
			if err != nil {
				return Shader{}, d.shaderError(label, fmt.Errorf("%w: wgsl: %v", ErrShaderCompile, err))
			}
		}
		words, err := spirvWords(code)
		if err != nil {
			return Shader{}, d.shaderError(label, err)
		}
		sd.SPIRV = words
	default:
		return Shader{}, d.shaderError(label, fmt.Errorf("%w: shader format %s", ErrUnsupportedFormat, desc.Format))
	}

	native, err := d.drv.CreateShader(sd)
	if err != nil {
		return Shader{}, d.shaderError(label, fmt.Errorf("%w: %v", ErrShaderCompile, err))
	}
	d.log.Debug("gfxcmd: shader created", "label", label, "format", desc.Format)
	return Shader{h: d.shaders.insert(shaderRecord{label: label, stage: desc.Stage, native: native})}, nil
}

func (d *Device) shaderError(label string, err error) error {
	d.debugf(DebugError, "create shader %s: %v", label, err)
	return err
}

// DestroyShader destroys s. Pipelines linked from s keep working.
func (d *Device) DestroyShader(s Shader) {
	if rec, ok := d.shaders.remove(s.h); ok {
		d.drv.DestroyShader(rec.native)
	}
}
