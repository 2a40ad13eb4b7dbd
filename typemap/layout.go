package typemap

import "fmt"

// Layout is a memory layout rule for uniform data.
type Layout interface {
	Name() string
	// Place returns where a member of type r starts when the previous
	// member ended at offset, and how many bytes it occupies.
	Place(offset int, r *Ref) (start, size int, err error)
}

// Block lays out members one after another and returns their offsets and
// the total block size.
func Block(l Layout, members []*Ref) (offsets []int, size int, err error) {
	offset := 0
	for _, member := range members {
		start, memberSize, err := l.Place(offset, member)
		if err != nil {
			return nil, 0, err
		}
		offsets = append(offsets, start)
		offset = start + memberSize
	}
	return offsets, offset, nil
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

func scalarSize(s Shape) int {
	if s.Scalar == Double {
		return 8
	}
	return 4
}

//
// std140
//

// Std140 is the GLSL std140 uniform block layout.
var Std140 Layout = alignedLayout{name: "std140", measure: std140}

func std140(r *Ref) (align, size int, err error) {
	switch {
	case r.IsArray():
		elemAlign, elemSize, err := std140(r.Elem)
		if err != nil {
			return 0, 0, err
		}
		align = roundUp(elemAlign, 16)
		stride := roundUp(elemSize, align)
		return align, int(r.Len) * stride, nil
	case r.IsStruct():
		return measureStruct(r, std140, 16)
	}
	shape, ok := shapes[r.Host]
	if !ok {
		return 0, 0, fmt.Errorf("std140: %s has no layout", r.Host)
	}
	s := scalarSize(shape)
	switch shape.Kind {
	case Scalar:
		return s, s, nil
	case Vector:
		if shape.Rows == 2 {
			return 2 * s, 2 * s, nil
		}
		return 4 * s, shape.Rows * s, nil
	case Matrix:
		column := &Ref{Elem: &Ref{Host: columnOf(shape)}, Len: int64(shape.Cols)}
		return std140(column)
	}
	return 0, 0, fmt.Errorf("std140: opaque type %s cannot be placed in a uniform block", r.Host)
}

//
// WGSL uniform address space
//

// WGSLUniform is the WGSL host-shareable layout with the uniform address
// space's 16-byte array stride and struct alignment constraints.
var WGSLUniform Layout = alignedLayout{name: "wgsl-uniform", measure: wgslUniform}

func wgslUniform(r *Ref) (align, size int, err error) {
	switch {
	case r.IsArray():
		elemAlign, elemSize, err := wgslUniform(r.Elem)
		if err != nil {
			return 0, 0, err
		}
		stride := roundUp(elemSize, elemAlign)
		if stride%16 != 0 {
			return 0, 0, fmt.Errorf("wgsl-uniform: array stride %d of %d elements is not a multiple of 16", stride, r.Len)
		}
		return roundUp(elemAlign, 16), int(r.Len) * stride, nil
	case r.IsStruct():
		return measureStruct(r, wgslUniform, 16)
	}
	shape, ok := shapes[r.Host]
	if !ok {
		return 0, 0, fmt.Errorf("wgsl-uniform: %s has no layout", r.Host)
	}
	switch {
	case shape.Kind == Scalar && shape.Scalar == Boolean:
		return 0, 0, fmt.Errorf("wgsl-uniform: bool is not host-shareable")
	case shape.Kind == Scalar && shape.Scalar == Double:
		return 0, 0, fmt.Errorf("wgsl-uniform: f64 is not supported")
	case shape.Kind == Scalar:
		return 4, 4, nil
	case shape.Kind == Vector:
		if shape.Rows == 2 {
			return 8, 8, nil
		}
		return 16, shape.Rows * 4, nil
	case shape.Kind == Matrix:
		colAlign, colSize, _ := wgslUniform(&Ref{Host: columnOf(shape)})
		return colAlign, shape.Cols * roundUp(colSize, colAlign), nil
	}
	return 0, 0, fmt.Errorf("wgsl-uniform: opaque type %s cannot be placed in a uniform buffer", r.Host)
}

//
// HLSL constant buffer packing
//

// HLSLPacking is the HLSL constant buffer packing rule: members are packed
// into 16-byte registers and may not straddle a register boundary, while
// arrays, matrices and structs always start a new register.
var HLSLPacking Layout = hlslPacking{}

type hlslPacking struct{}

func (hlslPacking) Name() string { return "hlsl-cbuffer" }

func (p hlslPacking) Place(offset int, r *Ref) (start, size int, err error) {
	size, err = p.size(r)
	if err != nil {
		return 0, 0, err
	}
	if r.IsArray() || r.IsStruct() || isMatrix(r) {
		return roundUp(offset, 16), size, nil
	}
	shape := shapes[r.Host]
	start = roundUp(offset, scalarSize(shape))
	if start/16 != (start+size-1)/16 {
		start = roundUp(start, 16)
	}
	return start, size, nil
}

func (p hlslPacking) size(r *Ref) (int, error) {
	switch {
	case r.IsArray():
		elemSize, err := p.size(r.Elem)
		if err != nil {
			return 0, err
		}
		return int(r.Len-1)*roundUp(elemSize, 16) + elemSize, nil
	case r.IsStruct():
		offset := 0
		for _, field := range r.Fields {
			start, size, err := p.Place(offset, field.Type)
			if err != nil {
				return 0, err
			}
			offset = start + size
		}
		return offset, nil
	}
	shape, ok := shapes[r.Host]
	if !ok || shape.Kind == Sampler {
		return 0, fmt.Errorf("hlsl-cbuffer: %s cannot be placed in a constant buffer", r.Host)
	}
	s := scalarSize(shape)
	if shape.Kind == Matrix {
		return (shape.Cols-1)*16 + shape.Rows*s, nil
	}
	return shape.Rows * s, nil
}

//
// Shared helpers
//

// alignedLayout places members at offsets rounded up to their alignment.
type alignedLayout struct {
	name    string
	measure func(r *Ref) (align, size int, err error)
}

func (l alignedLayout) Name() string { return l.name }

func (l alignedLayout) Place(offset int, r *Ref) (start, size int, err error) {
	align, size, err := l.measure(r)
	if err != nil {
		return 0, 0, err
	}
	return roundUp(offset, align), size, nil
}

func measureStruct(r *Ref, measure func(*Ref) (int, int, error), minAlign int) (align, size int, err error) {
	align = minAlign
	offset := 0
	for _, field := range r.Fields {
		fieldAlign, fieldSize, err := measure(field.Type)
		if err != nil {
			return 0, 0, err
		}
		if fieldAlign > align {
			align = fieldAlign
		}
		offset = roundUp(offset, fieldAlign) + fieldSize
	}
	return align, roundUp(offset, align), nil
}

func isMatrix(r *Ref) bool {
	shape, ok := shapes[r.Host]
	return ok && shape.Kind == Matrix
}

// columnOf returns the vector type of one column of a matrix shape.
func columnOf(shape Shape) HostType {
	switch shape.Rows {
	case 2:
		return Vec2
	case 3:
		return Vec3
	}
	return Vec4
}
