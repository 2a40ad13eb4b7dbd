// Package glsl builds GLSL core and GLSL ES sources.
package glsl

import (
	"fmt"
	"strings"

	"github.com/nikki93/gxsl/backend"
	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES
}

var (
	Version330   = Version{Major: 3, Minor: 30}
	Version410   = Version{Major: 4, Minor: 10}
	Version450   = Version{Major: 4, Minor: 50}
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}
	VersionES310 = Version{Major: 3, Minor: 10, ES: true}
)

// Versions maps every GLSL backend name to its language version.
var Versions = map[shader.Name]Version{
	shader.GLSL330: Version330,
	shader.GLSL410: Version410,
	shader.GLSL450: Version450,
	shader.ESSL300: VersionES300,
	shader.ESSL310: VersionES310,
}

// String returns the version as a #version directive value.
func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

func (v Version) number() int {
	return int(v.Major)*100 + int(v.Minor)
}

// nativeBindings reports whether layout(binding = N) is core in v.
func (v Version) nativeBindings() bool {
	if v.ES {
		return v.number() >= 310
	}
	return v.number() >= 420
}

// bindings reports whether v can carry binding qualifiers at all, possibly
// through GL_ARB_shading_language_420pack.
func (v Version) bindings() bool {
	return !v.ES || v.nativeBindings()
}

// offsets reports whether uniform block members take layout(offset = N).
func (v Version) offsets() bool {
	return !v.ES && v.number() >= 440
}

// Builder emits one GLSL version.
type Builder struct {
	backend.Base
	version Version
}

// New returns a builder for the GLSL backend described by types, which must
// be one of Versions.
func New(types *typemap.Backend) (*Builder, error) {
	version, ok := Versions[types.Name]
	if !ok {
		return nil, fmt.Errorf("glsl: %s is not a GLSL backend", types.Name)
	}
	return &Builder{Base: backend.NewBase(types, shader.Text), version: version}, nil
}

func (b *Builder) BuildGraphics(class *decl.Class) diag.List {
	members, diags := b.Members(class)
	w := backend.NewWriter()
	d := &dialect{b: b, class: class}
	t := backend.NewTranslator(w, class, b.Types, d)

	// Header
	w.Line("#version %s", b.version)
	if b.version.bindings() && !b.version.nativeBindings() {
		w.Line("#extension GL_ARB_shading_language_420pack : require")
	}
	if b.version.ES {
		w.Line("precision highp float;")
		w.Line("precision highp int;")
	}

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
	var io []string
	for _, v := range members {
		if (v.Role != decl.In && v.Role != decl.Out) || v.IsBuiltin() {
			continue
		}
		declaration, _ := t.Declaration(v.Name, v.Ref)
		io = append(io, b.qualifiers(class, v)+declaration+";")
	}
	if len(io) > 0 {
		w.Line("")
		for _, line := range io {
			w.Line("%s", line)
		}
	}

	// Locals
	locals := backend.Select(members, decl.Local)
	if len(locals) > 0 {
		w.Line("")
	}
	for _, v := range locals {
		declaration, _ := t.Declaration(v.Name, v.Ref)
		w.Line("%s;", declaration)
	}

	// Entry
	w.Line("")
	w.Line("void main() {")
	w.Indent()
	t.Body()
	w.Dedent()
	w.Line("}")

	diags = append(diags, t.Diagnostics()...)
	return b.Finish(diags, w.String())
}

func (b *Builder) writeUniform(w *backend.Writer, t *backend.Translator, v *decl.Variable) {
	declaration, _ := t.Declaration(v.Name, v.Ref)
	binding := v.Binding.UniqueBinding
	if !b.version.bindings() {
		w.Line("// binding = %d", binding)
	}
	if v.Opaque() {
		if b.version.bindings() {
			w.Line("layout(binding = %d) uniform %s;", binding, declaration)
		} else {
			w.Line("uniform %s;", declaration)
		}
		return
	}
	layout := "std140"
	if b.version.bindings() {
		layout += fmt.Sprintf(", binding = %d", binding)
	}
	w.Line("layout(%s) uniform %s_block {", layout, escape(v.Name))
	w.Indent()
	if b.version.offsets() {
		w.Line("layout(offset = 0) %s;", declaration)
	} else {
		w.Line("%s;", declaration)
	}
	w.Dedent()
	w.Line("};")
}

// qualifiers returns the layout and storage qualifiers of a located In or
// Out member. Varyings between stages match by name; vertex inputs and
// fragment outputs carry their location.
func (b *Builder) qualifiers(class *decl.Class, v *decl.Variable) string {
	var parts []string
	located := (class.Stage == shader.Vertex && v.Role == decl.In) || (class.Stage == shader.Fragment && v.Role == decl.Out)
	if located {
		parts = append(parts, fmt.Sprintf("layout(location = %d)", v.Location))
	} else if shape, ok := typemap.ShapeOf(v.Ref.Host); ok && (shape.Scalar == typemap.Sint || shape.Scalar == typemap.Uint) {
		parts = append(parts, "flat")
	}
	parts = append(parts, v.Role.String())
	return strings.Join(parts, " ") + " "
}

//
// Dialect
//

type dialect struct {
	b     *Builder
	class *decl.Class
}

func (d *dialect) Ident(name string) string {
	return escape(name)
}

func (d *dialect) Member(v *decl.Variable) string {
	if builtin, ok := d.b.Builtin(d.class, v); ok {
		return builtin
	}
	return escape(v.Name)
}

func (d *dialect) ArrayType(elem string, n int64) string {
	return fmt.Sprintf("%s[%d]", elem, n)
}

func (d *dialect) Declare(name, typ string, n int64) string {
	if n >= 0 {
		return fmt.Sprintf("%s %s[%d]", typ, name, n)
	}
	return typ + " " + name
}

func (d *dialect) Zero(t *backend.Translator, ref *typemap.Ref) (string, bool) {
	typ, ok := t.Spell(ref)
	if !ok {
		return "", false
	}
	switch {
	case ref.IsArray():
		elem, ok := d.Zero(t, ref.Elem)
		if !ok {
			return "", false
		}
		elems := make([]string, ref.Len)
		for i := range elems {
			elems[i] = elem
		}
		return typ + "(" + strings.Join(elems, ", ") + ")", true
	case ref.IsStruct():
		fields := make([]string, len(ref.Fields))
		for i, field := range ref.Fields {
			if fields[i], ok = d.Zero(t, field.Type); !ok {
				return "", false
			}
		}
		return typ + "(" + strings.Join(fields, ", ") + ")", true
	}
	shape, _ := typemap.ShapeOf(ref.Host)
	switch shape.Kind {
	case typemap.Scalar:
		return backend.ScalarZero(shape.Scalar), true
	case typemap.Vector, typemap.Matrix:
		return typ + "(" + backend.ScalarZero(shape.Scalar) + ")", true
	}
	return "", false
}

func (d *dialect) Construct(ref *typemap.Ref, typ string, args []string) (string, bool) {
	return typ + "(" + strings.Join(args, ", ") + ")", true
}

func (d *dialect) Sample(v *decl.Variable, call typemap.Call, coord string) string {
	return call.Spelling + "(" + escape(v.Name) + ", " + coord + ")"
}

func (d *dialect) Column(m, i string) string {
	return m + "[" + i + "]"
}

func (d *dialect) Return() string {
	return "return"
}
