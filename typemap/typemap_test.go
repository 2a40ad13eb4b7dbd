package typemap

import (
	"errors"
	"go/token"
	"go/types"
	"testing"

	"github.com/nikki93/gxsl/shader"
)

func TestDefault(t *testing.T) {
	r := Default()
	for _, name := range []shader.Name{
		shader.GLSL330, shader.GLSL410, shader.GLSL450, shader.ESSL300,
		shader.ESSL310, shader.HLSL, shader.WGSL, shader.SPIRV,
	} {
		b, ok := r.Backend(name)
		if !ok {
			t.Errorf("Backend(%s) missing", name)
			continue
		}
		if got, ok := b.TypeName(Vec4); !ok || got == "" {
			t.Errorf("%s: Vec4 unmapped", name)
		}
	}
	if _, ok := r.Backend("NOT_A_BACKEND"); ok {
		t.Error("Backend(NOT_A_BACKEND) found")
	}
}

func TestBackend_TypeName(t *testing.T) {
	r := Default()
	tests := []struct {
		backend shader.Name
		host    HostType
		want    string
		ok      bool
	}{
		{shader.GLSL330, Mat4, "mat4", true},
		{shader.HLSL, Mat4, "float4x4", true},
		{shader.WGSL, Vec3, "vec3<f32>", true},
		{shader.GLSL450, Float64, "double", true},
		{shader.GLSL330, Float64, "", false},
		{shader.ESSL300, Float64, "", false},
		{shader.SPIRV, Float64, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+string(tt.host), func(t *testing.T) {
			b, _ := r.Backend(tt.backend)
			got, ok := b.TypeName(tt.host)
			if got != tt.want || ok != tt.ok {
				t.Errorf("TypeName(%s) = %q, %v, want %q, %v", tt.host, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSemantics(t *testing.T) {
	r := Default()
	pos, ok := r.Semantic("Position")
	if !ok {
		t.Fatal("Position semantic missing")
	}
	if !pos.Allows(Usage{shader.Vertex, Out}) || pos.Allows(Usage{shader.Vertex, In}) {
		t.Error("Position usages wrong")
	}
	if !pos.Accepts(Vec4) || pos.Accepts(Vec3) {
		t.Error("Position types wrong")
	}

	hlsl, _ := r.Backend(shader.HLSL)
	if _, ok := hlsl.Semantic("PointSize"); ok {
		t.Error("HLSL spells PointSize")
	}
	wgsl, _ := r.Backend(shader.WGSL)
	vid, _ := wgsl.Semantic("VertexID")
	if len(vid.Types) != 1 || vid.Types[0] != Uint32 {
		t.Errorf("WGSL VertexID types = %v, want [uint32]", vid.Types)
	}
}

func TestNew_Inconsistent(t *testing.T) {
	tests := []struct {
		name      string
		semantics []Semantic
		backends  []*Backend
	}{
		{
			"duplicate backend",
			nil,
			[]*Backend{{Name: "A", Layout: Std140}, {Name: "A", Layout: Std140}},
		},
		{
			"conflicting spelling",
			nil,
			[]*Backend{{Name: "A", Layout: Std140, Types: map[HostType]string{Float32: "float", Float64: "float"}}},
		},
		{
			"unknown host type",
			nil,
			[]*Backend{{Name: "A", Layout: Std140, Types: map[HostType]string{"complex128": "dvec2"}}},
		},
		{
			"no layout",
			nil,
			[]*Backend{{Name: "A"}},
		},
		{
			"unknown semantic",
			nil,
			[]*Backend{{Name: "A", Layout: Std140, Semantics: map[string]BackendSemantic{"Position": {}}}},
		},
		{
			"semantic type outside definition",
			[]Semantic{{Name: "Position", Types: []HostType{Vec4}, Location: -1}},
			[]*Backend{{Name: "A", Layout: Std140, Semantics: map[string]BackendSemantic{"Position": {Types: []HostType{Vec3}}}}},
		},
		{
			"located semantic as builtin",
			[]Semantic{{Name: "Color", Types: []HostType{Vec4}, Usages: []Usage{{shader.Fragment, Out}}, Location: 0}},
			[]*Backend{{Name: "A", Layout: Std140, Semantics: map[string]BackendSemantic{
				"Color": {Builtins: map[Usage]string{{shader.Fragment, Out}: "gl_FragColor"}},
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.semantics, tt.backends...)
			if !errors.Is(err, ErrInconsistent) {
				t.Errorf("New() err = %v, want ErrInconsistent", err)
			}
		})
	}
}

func TestWithTypes(t *testing.T) {
	r := Default()
	r2, err := r.WithTypes(map[shader.Name]map[HostType]string{
		shader.GLSL330: {Float64: "double"},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r2.Backend(shader.GLSL330)
	if got, _ := b.TypeName(Float64); got != "double" {
		t.Errorf("override not applied, got %q", got)
	}
	orig, _ := r.Backend(shader.GLSL330)
	if _, ok := orig.TypeName(Float64); ok {
		t.Error("override leaked into the original registry")
	}

	if _, err := r.WithTypes(map[shader.Name]map[HostType]string{"NOPE": {Float32: "float"}}); err == nil {
		t.Error("override for unknown backend accepted")
	}
	if _, err := r.WithTypes(map[shader.Name]map[HostType]string{shader.HLSL: {Float32: "double"}}); err == nil {
		t.Error("conflicting override accepted")
	}
}

// testStruct builds `type name struct { fields }` in a throwaway package.
func testStruct(name string, fields ...*types.Var) *types.Named {
	pkg := types.NewPackage("example.com/shaders", "shaders")
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)
	return types.NewNamed(obj, types.NewStruct(fields, nil), nil)
}

func field(name string, typ types.Type) *types.Var {
	return types.NewField(token.NoPos, nil, name, typ, false)
}

func TestResolve(t *testing.T) {
	f32 := types.Typ[types.Float32]
	light := testStruct("Light", field("Color", f32), field("Intensity", f32))

	if r := Resolve(f32); r == nil || r.Host != Float32 {
		t.Errorf("Resolve(float32) = %+v", r)
	}
	if r := Resolve(types.Typ[types.Complex64]); r != nil {
		t.Errorf("Resolve(complex64) = %+v, want nil", r)
	}
	if r := Resolve(types.NewArray(f32, 4)); r == nil || !r.IsArray() || r.Len != 4 {
		t.Errorf("Resolve([4]float32) = %+v", r)
	}
	if r := Resolve(types.NewArray(types.NewArray(f32, 2), 2)); r != nil {
		t.Errorf("nested arrays resolved: %+v", r)
	}
	if r := Resolve(types.NewSlice(f32)); r != nil {
		t.Errorf("slice resolved: %+v", r)
	}
	if r := Resolve(types.NewArray(f32, 0)); r != nil {
		t.Errorf("Resolve([0]float32) = %+v, want nil", r)
	}
	if r := Resolve(testStruct("Empty", field("None", types.NewArray(f32, 0)))); r != nil {
		t.Errorf("struct with a zero-length array resolved: %+v", r)
	}

	scene := testStruct("Scene", field("Lights", types.NewArray(light, 2)), field("Ambient", f32))
	r := Resolve(scene)
	if r == nil || !r.IsStruct() {
		t.Fatalf("Resolve(Scene) = %+v", r)
	}
	structs := r.Structs()
	if len(structs) != 2 || structs[0].Struct != light || structs[1].Struct != scene {
		t.Errorf("Structs() order wrong: %v", structs)
	}
	if hosts := r.Hosts(); len(hosts) != 3 {
		t.Errorf("Hosts() = %v, want 3 entries", hosts)
	}
}
