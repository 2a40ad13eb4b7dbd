// Package spirv builds SPIR-V binaries by lowering the WGSL emission of a
// class through naga.
package spirv

import (
	"github.com/gogpu/naga"
	nagaspirv "github.com/gogpu/naga/spirv"

	"github.com/nikki93/gxsl/backend"
	"github.com/nikki93/gxsl/backend/wgsl"
	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

// DefaultVersion is the SPIR-V version modules are generated for.
var DefaultVersion = nagaspirv.Version1_3

// Builder emits SPIR-V.
type Builder struct {
	backend.Base
	wgsl    *wgsl.Builder
	options naga.CompileOptions
}

// New returns a builder for types, which is normally the SPIR-V table: the
// WGSL spellings under the SPIR-V name, so that diagnostics are attributed
// to SPIR-V.
func New(types *typemap.Backend) *Builder {
	return &Builder{
		Base: backend.NewBase(types, shader.Binary),
		wgsl: wgsl.New(types),
		options: naga.CompileOptions{
			SPIRVVersion: DefaultVersion,
			Validate:     true,
		},
	}
}

func (b *Builder) BuildGraphics(class *decl.Class) diag.List {
	text, diags := b.wgsl.Emit(class)
	if diags.HasErrors() {
		return b.FinishBinary(diags, nil)
	}
	data, err := naga.CompileWithOptions(text, b.options)
	if err != nil {
		diags = append(diags, b.Errorf(class, diag.LoweringFailed, class.Pos, "lowering to SPIR-V: %v", err))
		return b.FinishBinary(diags, nil)
	}
	return b.FinishBinary(diags, data)
}
