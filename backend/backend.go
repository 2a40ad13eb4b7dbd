// Package backend is the contract between the pipeline and the per-dialect
// builders, plus what they share: member mapping checks, an indenting writer
// and the translator of entry method bodies.
package backend

import (
	"go/token"
	"sort"
	"strings"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

// Builder emits one dialect. A builder is used for one class at a time and
// must not modify the class.
type Builder interface {
	Name() shader.Name
	// BuildGraphics builds the class and returns every diagnostic found.
	// The build succeeded if none of them is an error.
	BuildGraphics(class *decl.Class) diag.List
	// ShaderSource returns the result of the last successful build, or the
	// empty source.
	ShaderSource() shader.GeneratedShaderSource
	// ShaderSourceEmpty returns the placeholder recorded for a failed build.
	ShaderSourceEmpty() shader.GeneratedShaderSource
}

// Base implements the bookkeeping every Builder shares.
type Base struct {
	Types  *typemap.Backend
	name   shader.Name
	typ    shader.SourceType
	source shader.GeneratedShaderSource
}

func NewBase(types *typemap.Backend, typ shader.SourceType) Base {
	return Base{Types: types, name: types.Name, typ: typ}
}

func (b *Base) Name() shader.Name {
	return b.name
}

func (b *Base) ShaderSource() shader.GeneratedShaderSource {
	if b.source.Empty() {
		return b.ShaderSourceEmpty()
	}
	return b.source
}

func (b *Base) ShaderSourceEmpty() shader.GeneratedShaderSource {
	return shader.GeneratedShaderSource{Backend: b.name, Type: b.typ}
}

// Reset forgets the previous build.
func (b *Base) Reset() {
	b.source = shader.GeneratedShaderSource{}
}

// Finish records text as the build result unless diags has errors.
func (b *Base) Finish(diags diag.List, text string) diag.List {
	b.Reset()
	if !diags.HasErrors() {
		b.source = shader.GeneratedShaderSource{Backend: b.name, Type: shader.Text, Text: text}
	}
	return diags
}

// FinishBinary records data as the build result unless diags has errors.
func (b *Base) FinishBinary(diags diag.List, data []byte) diag.List {
	b.Reset()
	if !diags.HasErrors() {
		b.source = shader.GeneratedShaderSource{Backend: b.name, Type: shader.Binary, Bytes: data}
	}
	return diags
}

// Errorf returns an error diagnostic attributed to class and the backend.
func (b *Base) Errorf(class *decl.Class, id diag.ID, pos token.Position, format string, args ...interface{}) diag.Diagnostic {
	return diag.Errorf(id, pos, format, args...).In(class.QualifiedName(), string(b.name))
}

//
// Member checks
//

// Members maps every member of class this backend can represent. Members it
// cannot represent are reported and left out of the result, so builders
// still emit the rest and report everything in one pass.
func (b *Base) Members(class *decl.Class) ([]*decl.Variable, diag.List) {
	var result []*decl.Variable
	var diags diag.List
	for _, v := range class.Variables() {
		if d, ok := b.checkMember(class, v); !ok {
			diags = append(diags, d)
			continue
		}
		result = append(result, v)
	}
	return result, diags
}

func (b *Base) checkMember(class *decl.Class, v *decl.Variable) (diag.Diagnostic, bool) {
	if v.Ref == nil {
		return b.Errorf(class, diag.UnmappedType, v.Pos, "member %s has no %s type", v.Name, b.name), false
	}
	if missing := b.Types.Missing(v.Ref); len(missing) > 0 {
		return b.Errorf(class, diag.UnmappedType, v.Pos, "%s has no mapping for %s used by member %s", b.name, missing[0], v.Name), false
	}
	if v.Stage != nil && v.Stage.Semantic != nil {
		sem := v.Stage.Semantic
		bsem, ok := b.Types.Semantic(sem.Name)
		if !ok {
			return b.Errorf(class, diag.UnmappedSemantic, v.Pos, "%s does not support semantic %s of member %s", b.name, sem.Name, v.Name), false
		}
		if sem.Location < 0 {
			if _, ok := bsem.Builtins[Usage(class, v)]; !ok {
				return b.Errorf(class, diag.UnmappedSemantic, v.Pos, "%s does not support semantic %s as a %s", b.name, sem.Name, Usage(class, v)), false
			}
		}
		if bsem.Types != nil {
			h := typemap.HostTypeOf(v.Type)
			accepted := false
			for _, t := range bsem.Types {
				accepted = accepted || t == h
			}
			if !accepted {
				var want []string
				for _, t := range bsem.Types {
					if name, ok := b.Types.TypeName(t); ok && !contains(want, name) {
						want = append(want, name)
					}
				}
				return b.Errorf(class, diag.BackendTypeMismatch, v.Pos, "%s requires semantic %s to be %s, member %s has %s",
					b.name, sem.Name, strings.Join(want, " or "), v.Name, h), false
			}
		}
	}
	if (v.Role == decl.In || v.Role == decl.Out) && !v.IsBuiltin() {
		if shape, ok := typemap.ShapeOf(v.Ref.Host); ok && shape.Scalar == typemap.Boolean {
			return b.Errorf(class, diag.BackendTypeMismatch, v.Pos, "%s cannot pass bool member %s between stages", b.name, v.Name), false
		}
	}
	if v.Role == decl.Uniform && !v.Opaque() {
		if _, _, err := typemap.Block(b.Types.Layout, []*typemap.Ref{v.Ref}); err != nil {
			return b.Errorf(class, diag.BackendTypeMismatch, v.Pos, "uniform %s: %v", v.Name, err), false
		}
	}
	return diag.Diagnostic{}, true
}

// Usage returns the usage of the In or Out member v in class.
func Usage(class *decl.Class, v *decl.Variable) typemap.Usage {
	usage := typemap.Usage{Stage: class.Stage, Dir: typemap.In}
	if v.Role == decl.Out {
		usage.Dir = typemap.Out
	}
	return usage
}

// Builtin returns the dialect spelling of v's builtin semantic, if any.
func (b *Base) Builtin(class *decl.Class, v *decl.Variable) (string, bool) {
	if !v.IsBuiltin() {
		return "", false
	}
	bsem, ok := b.Types.Semantic(v.Stage.Semantic.Name)
	if !ok {
		return "", false
	}
	name, ok := bsem.Builtins[Usage(class, v)]
	return name, ok
}

// Select returns the members of vars with the given role.
func Select(vars []*decl.Variable, role decl.Role) []*decl.Variable {
	var result []*decl.Variable
	for _, v := range vars {
		if v.Role == role {
			result = append(result, v)
		}
	}
	return result
}

// ByUniqueBinding orders uniforms by UniqueBinding, then declaration order.
func ByUniqueBinding(vars []*decl.Variable) []*decl.Variable {
	result := make([]*decl.Variable, len(vars))
	copy(result, vars)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Binding.UniqueBinding < result[j].Binding.UniqueBinding
	})
	return result
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
