package typemap

import (
	"go/types"

	"github.com/nikki93/gxsl/lang"
)

// HostType identifies a Go type a shader member or expression may have:
// a basic type name such as "float32", or a qualified named type such as
// "github.com/nikki93/gxsl/lang.Vec4".
type HostType string

// Lang returns the HostType of the named type declared in package lang.
func Lang(name string) HostType {
	return HostType(lang.Path + "." + name)
}

const (
	Bool    HostType = "bool"
	Int     HostType = "int"
	Int32   HostType = "int32"
	Uint32  HostType = "uint32"
	Float32 HostType = "float32"
	Float64 HostType = "float64"
)

var (
	Vec2        = Lang("Vec2")
	Vec3        = Lang("Vec3")
	Vec4        = Lang("Vec4")
	IVec2       = Lang("IVec2")
	IVec3       = Lang("IVec3")
	IVec4       = Lang("IVec4")
	UVec2       = Lang("UVec2")
	UVec3       = Lang("UVec3")
	UVec4       = Lang("UVec4")
	Mat2        = Lang("Mat2")
	Mat3        = Lang("Mat3")
	Mat4        = Lang("Mat4")
	Sampler2D   = Lang("Sampler2D")
	SamplerCube = Lang("SamplerCube")
)

// HostTypeOf returns the key of t. Unnamed composite types have no key.
func HostTypeOf(t types.Type) HostType {
	switch t := t.(type) {
	case *types.Basic:
		return HostType(t.Name())
	case *types.Named:
		return HostType(types.TypeString(t, nil))
	}
	return ""
}

// Kind is the shape class of a host type.
type Kind uint8

const (
	Scalar Kind = iota
	Vector
	Matrix
	Sampler
)

// ScalarKind is the component type of a scalar, vector or matrix.
type ScalarKind uint8

const (
	Float ScalarKind = iota
	Double
	Sint
	Uint
	Boolean
)

// Shape describes a host type independently of any backend. Layout rules
// and zero values are computed from it.
type Shape struct {
	Kind   Kind
	Scalar ScalarKind
	Rows   int    // vector components, matrix rows; 1 for scalars
	Cols   int    // matrix columns; 1 otherwise
	Dim    string // sampler dimension, "2D" or "Cube"
}

// shapes is the host-type vocabulary: every type a backend may map.
var shapes = map[HostType]Shape{
	Bool:    {Kind: Scalar, Scalar: Boolean, Rows: 1, Cols: 1},
	Int:     {Kind: Scalar, Scalar: Sint, Rows: 1, Cols: 1},
	Int32:   {Kind: Scalar, Scalar: Sint, Rows: 1, Cols: 1},
	Uint32:  {Kind: Scalar, Scalar: Uint, Rows: 1, Cols: 1},
	Float32: {Kind: Scalar, Scalar: Float, Rows: 1, Cols: 1},
	Float64: {Kind: Scalar, Scalar: Double, Rows: 1, Cols: 1},

	Vec2:  {Kind: Vector, Scalar: Float, Rows: 2, Cols: 1},
	Vec3:  {Kind: Vector, Scalar: Float, Rows: 3, Cols: 1},
	Vec4:  {Kind: Vector, Scalar: Float, Rows: 4, Cols: 1},
	IVec2: {Kind: Vector, Scalar: Sint, Rows: 2, Cols: 1},
	IVec3: {Kind: Vector, Scalar: Sint, Rows: 3, Cols: 1},
	IVec4: {Kind: Vector, Scalar: Sint, Rows: 4, Cols: 1},
	UVec2: {Kind: Vector, Scalar: Uint, Rows: 2, Cols: 1},
	UVec3: {Kind: Vector, Scalar: Uint, Rows: 3, Cols: 1},
	UVec4: {Kind: Vector, Scalar: Uint, Rows: 4, Cols: 1},

	Mat2: {Kind: Matrix, Scalar: Float, Rows: 2, Cols: 2},
	Mat3: {Kind: Matrix, Scalar: Float, Rows: 3, Cols: 3},
	Mat4: {Kind: Matrix, Scalar: Float, Rows: 4, Cols: 4},

	Sampler2D:   {Kind: Sampler, Dim: "2D"},
	SamplerCube: {Kind: Sampler, Dim: "Cube"},
}

// ShapeOf returns the shape of a vocabulary host type.
func ShapeOf(h HostType) (Shape, bool) {
	s, ok := shapes[h]
	return s, ok
}

// IsOpaque reports whether h is an opaque handle type (a sampler), which
// cannot live inside a uniform block.
func IsOpaque(h HostType) bool {
	s, ok := shapes[h]
	return ok && s.Kind == Sampler
}

//
// Resolution of arbitrary host types
//

// Ref is a host type resolved against the vocabulary.
type Ref struct {
	Host   HostType      // set for vocabulary types
	Elem   *Ref          // set for fixed-length arrays
	Len    int64         // array length
	Struct *types.Named  // set for user struct types
	Fields []StructField // struct fields in declaration order
}

// StructField is one field of a user struct type.
type StructField struct {
	Name string
	Type *Ref
}

// IsArray reports whether r is a fixed-length array.
func (r *Ref) IsArray() bool { return r.Elem != nil }

// IsStruct reports whether r is a user struct.
func (r *Ref) IsStruct() bool { return r.Struct != nil }

// Resolve resolves t to a Ref. Vocabulary types take precedence; then
// non-empty fixed-length arrays of resolvable types; then named structs whose
// fields all resolve. It returns nil for anything else.
func Resolve(t types.Type) *Ref {
	return resolve(t, make(map[*types.Named]bool))
}

func resolve(t types.Type, visiting map[*types.Named]bool) *Ref {
	if host := HostTypeOf(t); host != "" {
		if _, ok := shapes[host]; ok {
			return &Ref{Host: host}
		}
	}
	switch t := t.(type) {
	case *types.Array:
		if t.Len() <= 0 {
			return nil
		}
		if elem := resolve(t.Elem(), visiting); elem != nil && !elem.IsArray() {
			return &Ref{Elem: elem, Len: t.Len()}
		}
	case *types.Named:
		structType, ok := t.Underlying().(*types.Struct)
		if !ok || visiting[t] || structType.NumFields() == 0 {
			return nil
		}
		visiting[t] = true
		defer delete(visiting, t)
		ref := &Ref{Struct: t}
		for i := 0; i < structType.NumFields(); i++ {
			field := structType.Field(i)
			fieldRef := resolve(field.Type(), visiting)
			if fieldRef == nil || (fieldRef.Host != "" && IsOpaque(fieldRef.Host)) {
				return nil
			}
			ref.Fields = append(ref.Fields, StructField{Name: field.Name(), Type: fieldRef})
		}
		return ref
	}
	return nil
}

// Structs returns the user struct types r depends on, dependencies first,
// each once.
func (r *Ref) Structs() []*Ref {
	var result []*Ref
	seen := make(map[*types.Named]bool)
	var visit func(r *Ref)
	visit = func(r *Ref) {
		switch {
		case r.IsArray():
			visit(r.Elem)
		case r.IsStruct():
			if seen[r.Struct] {
				return
			}
			seen[r.Struct] = true
			for _, field := range r.Fields {
				visit(field.Type)
			}
			result = append(result, r)
		}
	}
	visit(r)
	return result
}

// Hosts returns every vocabulary type r is built from.
func (r *Ref) Hosts() []HostType {
	switch {
	case r.IsArray():
		return r.Elem.Hosts()
	case r.IsStruct():
		var result []HostType
		for _, field := range r.Fields {
			result = append(result, field.Type.Hosts()...)
		}
		return result
	}
	return []HostType{r.Host}
}
