package typemap

import (
	"go/types"
	"testing"
)

func refs(hosts ...HostType) []*Ref {
	var result []*Ref
	for _, h := range hosts {
		result = append(result, &Ref{Host: h})
	}
	return result
}

func TestBlock(t *testing.T) {
	tests := []struct {
		name        string
		layout      Layout
		members     []*Ref
		wantOffsets []int
		wantSize    int
	}{
		{"std140 mat4", Std140, refs(Mat4), []int{0}, 64},
		{"std140 vec3 float", Std140, refs(Vec3, Float32), []int{0, 12}, 16},
		{"std140 float vec3", Std140, refs(Float32, Vec3), []int{0, 16}, 28},
		{"std140 float vec2", Std140, refs(Float32, Vec2), []int{0, 8}, 16},
		{"std140 mat3", Std140, refs(Mat3), []int{0}, 48},
		{"std140 float array", Std140, []*Ref{{Elem: &Ref{Host: Float32}, Len: 4}}, []int{0}, 64},
		{"wgsl vec3 float", WGSLUniform, refs(Vec3, Float32), []int{0, 12}, 16},
		{"wgsl mat2", WGSLUniform, refs(Mat2), []int{0}, 16},
		{"hlsl float float3", HLSLPacking, refs(Float32, Vec3), []int{0, 4}, 16},
		{"hlsl float2 float3", HLSLPacking, refs(Vec2, Vec3), []int{0, 16}, 28},
		{"hlsl float array", HLSLPacking, []*Ref{{Elem: &Ref{Host: Float32}, Len: 4}}, []int{0}, 52},
		{"hlsl float mat4", HLSLPacking, refs(Float32, Mat4), []int{0, 16}, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offsets, size, err := Block(tt.layout, tt.members)
			if err != nil {
				t.Fatal(err)
			}
			if size != tt.wantSize {
				t.Errorf("size = %d, want %d", size, tt.wantSize)
			}
			if len(offsets) != len(tt.wantOffsets) {
				t.Fatalf("offsets = %v, want %v", offsets, tt.wantOffsets)
			}
			for i := range offsets {
				if offsets[i] != tt.wantOffsets[i] {
					t.Errorf("offsets = %v, want %v", offsets, tt.wantOffsets)
					break
				}
			}
		})
	}
}

func TestBlock_Errors(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		members []*Ref
	}{
		{"std140 sampler", Std140, refs(Sampler2D)},
		{"hlsl sampler", HLSLPacking, refs(Sampler2D)},
		{"wgsl bool", WGSLUniform, refs(Bool)},
		{"wgsl float array stride", WGSLUniform, []*Ref{{Elem: &Ref{Host: Float32}, Len: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Block(tt.layout, tt.members); err == nil {
				t.Error("Block() err = nil, want error")
			}
		})
	}
}

func TestStd140_Struct(t *testing.T) {
	f32 := types.Typ[types.Float32]
	pair := Resolve(testStruct("Pair", field("A", f32), field("B", f32)))
	offsets, size, err := Block(Std140, []*Ref{pair, {Host: Float32}})
	if err != nil {
		t.Fatal(err)
	}
	// Structs align to 16 bytes and round their size up to it.
	if offsets[1] != 16 || size != 20 {
		t.Errorf("offsets = %v size = %d, want [0 16] 20", offsets, size)
	}
}
