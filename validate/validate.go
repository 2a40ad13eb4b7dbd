// Package validate runs generated sources through reference compilers.
// Validation is advisory: a failure is reported as a warning and never
// changes what was generated.
package validate

import (
	"context"
	"errors"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
)

// ErrToolUnavailable is returned when a validator binary cannot be found.
var ErrToolUnavailable = errors.New("validate: tool unavailable")

// Validator checks one generated source.
type Validator interface {
	// CanExecute reports whether the validator can run on this host.
	CanExecute() bool
	// ValidateShader validates source, generated from class, under profile.
	// It reports whether the source was validated and passed. A validator
	// that did not run returns false and no diagnostics.
	ValidateShader(ctx context.Context, class *decl.Class, source shader.GeneratedShaderSource, profile Profile) (bool, diag.List)
}

// Stub is the validator used where no reference tool exists. It never runs.
type Stub struct{}

func (Stub) CanExecute() bool { return false }

func (Stub) ValidateShader(context.Context, *decl.Class, shader.GeneratedShaderSource, Profile) (bool, diag.List) {
	return false, nil
}

//
// Profiles
//

// Tool names validators are configured by.
const (
	ToolGlslang  = "glslangValidator"
	ToolDXC      = "dxc"
	ToolSPIRVVal = "spirv-val"
	ToolNaga     = "naga"
)

// Profile is how one backend's sources are validated: which tool, the
// arguments preceding the source file, and the scratch file extension.
type Profile struct {
	Tool string
	Args []string
	Ext  string
}

// ProfileFor returns the validation profile of a backend's sources for a
// stage.
func ProfileFor(name shader.Name, stage shader.Stage) (Profile, bool) {
	switch name {
	case shader.GLSL330, shader.GLSL410, shader.GLSL450, shader.ESSL300, shader.ESSL310:
		return Profile{Tool: ToolGlslang, Args: []string{"-S", stage.Ext()}, Ext: "." + stage.Ext()}, true
	case shader.HLSL:
		target := "vs_6_0"
		if stage == shader.Fragment {
			target = "ps_6_0"
		}
		return Profile{Tool: ToolDXC, Args: []string{"-T", target, "-E", "main"}, Ext: ".hlsl"}, true
	case shader.SPIRV:
		return Profile{Tool: ToolSPIRVVal, Args: []string{"--target-env", "vulkan1.1"}, Ext: ".spv"}, true
	case shader.WGSL:
		return Profile{Tool: ToolNaga, Ext: ".wgsl"}, true
	}
	return Profile{}, false
}
