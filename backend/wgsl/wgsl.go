// Package wgsl builds WGSL sources. The SPIR-V backend lowers the same text,
// so a Builder may also carry the SPIR-V type table.
package wgsl

import (
	"fmt"
	"strings"

	"github.com/nikki93/gxsl/backend"
	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

const (
	inputName  = "input"
	outputName = "output"
	// SamplerSuffix names the sampler split off a combined sampler.
	SamplerSuffix = "_sampler"
	// SamplerBindingOffset is added to a combined sampler's binding to get
	// the binding of its sampler.
	SamplerBindingOffset = 16
)

// Builder emits WGSL.
type Builder struct {
	backend.Base
}

func New(types *typemap.Backend) *Builder {
	return &Builder{Base: backend.NewBase(types, shader.Text)}
}

func (b *Builder) BuildGraphics(class *decl.Class) diag.List {
	text, diags := b.Emit(class)
	return b.Finish(diags, text)
}

// Emit returns the WGSL text of class without recording it as a result.
func (b *Builder) Emit(class *decl.Class) (string, diag.List) {
	members, diags := b.Members(class)
	diags = append(diags, b.checkMembers(class, members)...)
	w := backend.NewWriter()
	d := &dialect{b: b, class: class}
	t := backend.NewTranslator(w, class, b.Types, d)

	// Structs
	for i, s := range backend.Structs(class) {
		if i > 0 {
			w.Line("")
		}
		w.Line("struct %s {", escape(s.Struct.Obj().Name()))
		w.Indent()
		for _, field := range s.Fields {
			if typ, ok := t.Spell(field.Type); ok {
				w.Line("%s: %s,", escape(field.Name), typ)
			}
		}
		w.Dedent()
		w.Line("}")
	}

	// Uniforms
	uniforms := backend.ByUniqueBinding(backend.Select(members, decl.Uniform))
	for i, v := range uniforms {
		if i == 0 && w.String() != "" {
			w.Line("")
		}
		typ, _ := t.Spell(v.Ref)
		name := escape(v.Name)
		group := v.Binding.Set
		if v.Opaque() {
			w.Line("@group(%d) @binding(%d) var %s: %s;", group, v.Binding.Binding, name, typ)
			w.Line("@group(%d) @binding(%d) var %s%s: sampler;", group, v.Binding.Binding+SamplerBindingOffset, name, SamplerSuffix)
			continue
		}
		w.Line("@group(%d) @binding(%d) var<uniform> %s: %s;", group, v.Binding.Binding, name, typ)
	}

	// Stage inputs and outputs
	inputs := backend.Select(members, decl.In)
	outputs := backend.Select(members, decl.Out)
	b.writeStruct(w, t, class, "Input", inputs)
	b.writeStruct(w, t, class, "Output", outputs)

	// Locals
	locals := backend.Select(members, decl.Local)
	if len(locals) > 0 && w.String() != "" {
		w.Line("")
	}
	for _, v := range locals {
		typ, _ := t.Spell(v.Ref)
		w.Line("var<private> %s: %s;", escape(v.Name), typ)
	}

	// Entry
	d.outputs = len(outputs) > 0
	if w.String() != "" {
		w.Line("")
	}
	w.Line("@%s", class.Stage)
	param := ""
	if len(inputs) > 0 {
		param = inputName + ": Input"
	}
	result := ""
	if d.outputs {
		result = " -> Output"
	}
	w.Line("fn main(%s)%s {", param, result)
	w.Indent()
	if d.outputs {
		w.Line("var %s: Output;", outputName)
	}
	t.Body()
	if d.outputs {
		w.Line("return %s;", outputName)
	}
	w.Dedent()
	w.Line("}")

	diags = append(diags, t.Diagnostics()...)
	return w.String(), diags
}

// checkMembers reports members WGSL cannot express even though their types
// map.
func (b *Builder) checkMembers(class *decl.Class, members []*decl.Variable) diag.List {
	var diags diag.List
	bindings := make(map[[2]int]string)
	for _, v := range members {
		if v.Role == decl.Uniform {
			bindings[[2]int{v.Binding.Set, v.Binding.Binding}] = v.Name
		}
	}
	for _, v := range members {
		switch v.Role {
		case decl.In, decl.Out:
			if shape, ok := typemap.ShapeOf(v.Ref.Host); ok && shape.Kind == typemap.Matrix {
				diags = append(diags, b.Errorf(class, diag.BackendTypeMismatch, v.Pos,
					"%s cannot pass matrix member %s between stages", b.Name(), v.Name))
			}
		case decl.Uniform:
			if !v.Opaque() {
				continue
			}
			key := [2]int{v.Binding.Set, v.Binding.Binding + SamplerBindingOffset}
			if other, ok := bindings[key]; ok {
				diags = append(diags, b.Errorf(class, diag.UnsupportedConstruct, v.Pos,
					"%s places the sampler of %s at binding %d, which %s already uses", b.Name(), v.Name, key[1], other))
			}
		}
	}
	return diags
}

func (b *Builder) writeStruct(w *backend.Writer, t *backend.Translator, class *decl.Class, name string, vars []*decl.Variable) {
	if len(vars) == 0 {
		return
	}
	if w.String() != "" {
		w.Line("")
	}
	w.Line("struct %s {", name)
	w.Indent()
	for _, v := range vars {
		typ, ok := t.Spell(v.Ref)
		if !ok {
			continue
		}
		w.Line("%s %s: %s,", b.attributes(class, v), escape(v.Name), typ)
	}
	w.Dedent()
	w.Line("}")
}

// attributes returns the IO attributes of an In or Out member.
func (b *Builder) attributes(class *decl.Class, v *decl.Variable) string {
	if builtin, ok := b.Builtin(class, v); ok {
		return "@builtin(" + builtin + ")"
	}
	attrs := fmt.Sprintf("@location(%d)", v.Location)
	varying := (class.Stage == shader.Vertex && v.Role == decl.Out) || (class.Stage == shader.Fragment && v.Role == decl.In)
	if shape, ok := typemap.ShapeOf(v.Ref.Host); ok && varying && (shape.Scalar == typemap.Sint || shape.Scalar == typemap.Uint) {
		attrs += " @interpolate(flat)"
	}
	return attrs
}

//
// Dialect
//

type dialect struct {
	b       *Builder
	class   *decl.Class
	outputs bool
}

func (d *dialect) Ident(name string) string {
	return escape(name)
}

func (d *dialect) Member(v *decl.Variable) string {
	switch v.Role {
	case decl.In:
		return inputName + "." + escape(v.Name)
	case decl.Out:
		return outputName + "." + escape(v.Name)
	}
	return escape(v.Name)
}

func (d *dialect) ArrayType(elem string, n int64) string {
	return fmt.Sprintf("array<%s, %d>", elem, n)
}

func (d *dialect) Declare(name, typ string, n int64) string {
	if n >= 0 {
		typ = d.ArrayType(typ, n)
	}
	return "var " + name + ": " + typ
}

func (d *dialect) Zero(t *backend.Translator, ref *typemap.Ref) (string, bool) {
	if ref.Host != "" {
		if shape, ok := typemap.ShapeOf(ref.Host); ok && shape.Kind == typemap.Scalar {
			return backend.ScalarZero(shape.Scalar), true
		}
	}
	typ, ok := t.Spell(ref)
	if !ok {
		return "", false
	}
	return typ + "()", true
}

func (d *dialect) Construct(ref *typemap.Ref, typ string, args []string) (string, bool) {
	return typ + "(" + strings.Join(args, ", ") + ")", true
}

func (d *dialect) Sample(v *decl.Variable, call typemap.Call, coord string) string {
	name := escape(v.Name)
	return call.Spelling + "(" + name + ", " + name + SamplerSuffix + ", " + coord + ")"
}

func (d *dialect) Column(m, i string) string {
	return m + "[" + i + "]"
}

func (d *dialect) Return() string {
	if d.outputs {
		return "return " + outputName
	}
	return "return"
}
