package validate

import (
	"context"

	"github.com/gogpu/naga"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/gxlog"
	"github.com/nikki93/gxsl/shader"
)

// NagaValidator validates WGSL in-process by parsing, lowering and
// validating it with naga.
type NagaValidator struct{}

func (NagaValidator) CanExecute() bool { return true }

func (NagaValidator) ValidateShader(ctx context.Context, class *decl.Class, source shader.GeneratedShaderSource, profile Profile) (bool, diag.List) {
	if ctx.Err() != nil || source.Empty() || source.Type != shader.Text {
		return false, nil
	}
	if err := checkWGSL(source.Text); err != nil {
		d := diag.Warningf(diag.ValidationFailed, class.Pos, "naga rejected the %s source: %v", source.Backend, err).
			In(class.QualifiedName(), string(source.Backend))
		gxlog.Logger().Warn("validation", "tool", ToolNaga, "shader", d.Shader, "backend", d.Backend, "id", string(d.ID))
		return false, diag.List{d}
	}
	return true, nil
}

func checkWGSL(text string) error {
	ast, err := naga.Parse(text)
	if err != nil {
		return err
	}
	module, err := naga.LowerWithSource(ast, text)
	if err != nil {
		return err
	}
	errs, err := naga.Validate(module)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
