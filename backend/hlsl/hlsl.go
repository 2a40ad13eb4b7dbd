// Package hlsl builds HLSL sources for Direct3D shader model 5.1 and later.
//
// Stage inputs and outputs are gathered into Input and Output structs, each
// plain member carrying a TEXCOORD or SV_Target semantic numbered by its
// location. Uniforms go in one constant buffer each, registered at their
// binding and space. Combined samplers are split into a texture and a
// sampler state sharing the binding number.
package hlsl

import (
	"fmt"
	"strings"

	nagahlsl "github.com/gogpu/naga/hlsl"

	"github.com/nikki93/gxsl/backend"
	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

const (
	inputName  = "input"
	outputName = "output"
	// samplerSuffix names the sampler state split off a combined sampler.
	samplerSuffix = "_sampler"
)

// reserved are names the generated entry function itself uses.
var reserved = map[string]bool{
	"main": true, inputName: true, outputName: true, "Input": true, "Output": true,
}

func escape(name string) string {
	if reserved[name] {
		return "_" + name
	}
	return nagahlsl.Escape(name)
}

// Builder emits HLSL.
type Builder struct {
	backend.Base
	model nagahlsl.ShaderModel
}

// New returns a builder for shader model 5.1.
func New(types *typemap.Backend) *Builder {
	return NewModel(types, nagahlsl.ShaderModel5_1)
}

// NewModel returns a builder targeting a specific shader model.
func NewModel(types *typemap.Backend, model nagahlsl.ShaderModel) *Builder {
	return &Builder{Base: backend.NewBase(types, shader.Text), model: model}
}

// Profile returns the compiler profile of stage, such as "vs_5_1".
func (b *Builder) Profile(stage shader.Stage) string {
	prefix := "vs_"
	if stage == shader.Fragment {
		prefix = "ps_"
	}
	return prefix + b.model.ProfileSuffix()
}

// constantBuffers reports whether ConstantBuffer<T> is available.
func (b *Builder) constantBuffers() bool {
	return b.model >= nagahlsl.ShaderModel5_1
}

func (b *Builder) BuildGraphics(class *decl.Class) diag.List {
	members, diags := b.Members(class)
	w := backend.NewWriter()
	d := &dialect{b: b, class: class}
	t := backend.NewTranslator(w, class, b.Types, d)

	// Header
	w.Line("#pragma pack_matrix(column_major)")

	// Structs
	for _, s := range backend.Structs(class) {
		w.Line("")
		w.Line("struct %s {", escape(s.Struct.Obj().Name()))
		w.Indent()
		for _, field := range s.Fields {
			if declaration, ok := t.Declaration(field.Name, field.Type); ok {
				w.Line("%s;", declaration)
			}
		}
		w.Dedent()
		w.Line("};")
	}

	// Uniforms
	uniforms := backend.ByUniqueBinding(backend.Select(members, decl.Uniform))
	if len(uniforms) > 0 {
		w.Line("")
	}
	for _, v := range uniforms {
		b.writeUniform(w, t, v)
	}

	// Stage inputs and outputs
	inputs := backend.Select(members, decl.In)
	outputs := backend.Select(members, decl.Out)
	b.writeStruct(w, t, class, "Input", inputs)
	b.writeStruct(w, t, class, "Output", outputs)

	// Locals
	locals := backend.Select(members, decl.Local)
	if len(locals) > 0 {
		w.Line("")
	}
	for _, v := range locals {
		declaration, _ := t.Declaration(v.Name, v.Ref)
		w.Line("static %s;", declaration)
	}

	// Entry
	d.outputs = len(outputs) > 0
	result := "void"
	if d.outputs {
		result = "Output"
	}
	param := ""
	if len(inputs) > 0 {
		param = "Input " + inputName
	}
	w.Line("")
	w.Line("%s main(%s) {", result, param)
	w.Indent()
	if d.outputs {
		w.Line("Output %s = (Output)0;", outputName)
	}
	t.Body()
	if d.outputs {
		w.Line("return %s;", outputName)
	}
	w.Dedent()
	w.Line("}")

	diags = append(diags, t.Diagnostics()...)
	return b.Finish(diags, w.String())
}

func (b *Builder) writeUniform(w *backend.Writer, t *backend.Translator, v *decl.Variable) {
	name := escape(v.Name)
	space := v.Binding.Set
	binding := v.Binding.Binding
	if v.Opaque() {
		typ, _ := t.Spell(v.Ref)
		w.Line("%s %s : register(t%d, space%d);", typ, name, binding, space)
		w.Line("SamplerState %s%s : register(s%d, space%d);", name, samplerSuffix, binding, space)
		return
	}
	if v.Ref.IsStruct() && b.constantBuffers() {
		typ, _ := t.Spell(v.Ref)
		w.Line("ConstantBuffer<%s> %s : register(b%d, space%d);", typ, name, binding, space)
		return
	}
	offsets, _, err := typemap.Block(b.Types.Layout, []*typemap.Ref{v.Ref})
	if err != nil {
		// Members has already reported it.
		return
	}
	declaration, _ := t.Declaration(v.Name, v.Ref)
	w.Line("cbuffer %s_block : register(b%d, space%d) {", name, binding, space)
	w.Indent()
	w.Line("%s : packoffset(%s);", declaration, packOffset(offsets[0]))
	w.Dedent()
	w.Line("};")
}

// packOffset spells a byte offset into a constant buffer as a register and
// component.
func packOffset(offset int) string {
	register := fmt.Sprintf("c%d", offset/16)
	if component := (offset % 16) / 4; component > 0 {
		register += "." + string("xyzw"[component])
	}
	return register
}

func (b *Builder) writeStruct(w *backend.Writer, t *backend.Translator, class *decl.Class, name string, vars []*decl.Variable) {
	if len(vars) == 0 {
		return
	}
	w.Line("")
	w.Line("struct %s {", name)
	w.Indent()
	for _, v := range vars {
		declaration, _ := t.Declaration(v.Name, v.Ref)
		w.Line("%s%s : %s;", b.interpolation(class, v), declaration, b.semantic(class, v))
	}
	w.Dedent()
	w.Line("};")
}

// semantic returns the HLSL semantic of an In or Out member.
func (b *Builder) semantic(class *decl.Class, v *decl.Variable) string {
	if builtin, ok := b.Builtin(class, v); ok {
		return builtin
	}
	if class.Stage == shader.Fragment && v.Role == decl.Out {
		return fmt.Sprintf("SV_Target%d", v.Location)
	}
	return fmt.Sprintf("TEXCOORD%d", v.Location)
}

// interpolation returns the modifier integer varyings need.
func (b *Builder) interpolation(class *decl.Class, v *decl.Variable) string {
	varying := (class.Stage == shader.Vertex && v.Role == decl.Out) || (class.Stage == shader.Fragment && v.Role == decl.In)
	if !varying || v.IsBuiltin() {
		return ""
	}
	if shape, ok := typemap.ShapeOf(v.Ref.Host); ok && (shape.Scalar == typemap.Sint || shape.Scalar == typemap.Uint) {
		return "nointerpolation "
	}
	return ""
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
	// HLSL has no array type expressions.
	return ""
}

func (d *dialect) Declare(name, typ string, n int64) string {
	if n >= 0 {
		return fmt.Sprintf("%s %s[%d]", typ, name, n)
	}
	return typ + " " + name
}

func (d *dialect) Zero(t *backend.Translator, ref *typemap.Ref) (string, bool) {
	if ref.IsArray() {
		// An initializer list, valid in declarations only.
		elem, ok := d.Zero(t, ref.Elem)
		if !ok {
			return "", false
		}
		elems := make([]string, ref.Len)
		for i := range elems {
			elems[i] = elem
		}
		return "{" + strings.Join(elems, ", ") + "}", true
	}
	if !ref.IsStruct() {
		if shape, ok := typemap.ShapeOf(ref.Host); ok && shape.Kind == typemap.Scalar {
			return backend.ScalarZero(shape.Scalar), true
		}
	}
	typ, ok := t.Spell(ref)
	if !ok {
		return "", false
	}
	return "(" + typ + ")0", true
}

func (d *dialect) Construct(ref *typemap.Ref, typ string, args []string) (string, bool) {
	if ref.IsStruct() {
		return "", false
	}
	constructed := typ + "(" + strings.Join(args, ", ") + ")"
	if shape, ok := typemap.ShapeOf(ref.Host); ok && shape.Kind == typemap.Matrix {
		// Matrix constructors take rows; host matrices are built from columns.
		return "transpose(" + constructed + ")", true
	}
	return constructed, true
}

func (d *dialect) Sample(v *decl.Variable, call typemap.Call, coord string) string {
	name := escape(v.Name)
	return name + "." + call.Spelling + "(" + name + samplerSuffix + ", " + coord + ")"
}

func (d *dialect) Column(m, i string) string {
	return "transpose(" + m + ")[" + i + "]"
}

func (d *dialect) Return() string {
	if d.outputs {
		return "return " + outputName
	}
	return "return"
}
