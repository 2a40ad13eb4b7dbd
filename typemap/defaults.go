package typemap

import (
	"github.com/nikki93/gxsl/lang"
	"github.com/nikki93/gxsl/shader"
)

// DefaultSemantics are the stage-variable semantics shader definitions may
// use with `stage:"..."` markers.
func DefaultSemantics() []Semantic {
	vertexIn := []Usage{{shader.Vertex, In}}
	return []Semantic{
		{Name: "Position", Types: []HostType{Vec4}, Usages: []Usage{{shader.Vertex, Out}, {shader.Fragment, In}}, Location: -1},
		{Name: "VertexID", Types: []HostType{Int32, Int, Uint32}, Usages: vertexIn, Location: -1},
		{Name: "InstanceID", Types: []HostType{Int32, Int, Uint32}, Usages: vertexIn, Location: -1},
		{Name: "PointSize", Types: []HostType{Float32}, Usages: []Usage{{shader.Vertex, Out}}, Location: -1},
		{Name: "FrontFacing", Types: []HostType{Bool}, Usages: []Usage{{shader.Fragment, In}}, Location: -1},
		{Name: "Color", Types: []HostType{Vec4}, Usages: []Usage{{shader.Fragment, Out}}, Location: 0},
		{Name: "Depth", Types: []HostType{Float32}, Usages: []Usage{{shader.Fragment, Out}}, Location: -1},
	}
}

// Default returns the registry of every built-in backend.
func Default() *Registry {
	r, err := New(DefaultSemantics(),
		glslBackend(shader.GLSL330, false),
		glslBackend(shader.GLSL410, true),
		glslBackend(shader.GLSL450, true),
		glslBackend(shader.ESSL300, false),
		glslBackend(shader.ESSL310, false),
		hlslBackend(),
		wgslBackend(shader.WGSL),
		wgslBackend(shader.SPIRV),
	)
	if err != nil {
		panic("typemap: built-in tables: " + err.Error())
	}
	return r
}

//
// Calls
//

func langFunc(name string) string {
	return lang.Path + "." + name
}

func langMethod(typ, name string) string {
	return "(" + lang.Path + "." + typ + ")." + name
}

// callTable holds the spellings that differ between dialect families.
type callTable struct {
	mix, fract, mulMat string
	mulMatKind         CallKind
	sample             Call
	identity4          string
}

func calls(t callTable) map[string]Call {
	result := map[string]Call{
		langFunc("V2"):       {Kind: CallConstruct},
		langFunc("V3"):       {Kind: CallConstruct},
		langFunc("V4"):       {Kind: CallConstruct},
		langFunc("V4FromV3"): {Kind: CallConstruct},
		langFunc("V4FromV2"): {Kind: CallConstruct},
		langFunc("V3FromV2"): {Kind: CallConstruct},

		langFunc("Identity4"): {Kind: CallConstant, Spelling: t.identity4},

		langFunc("Sqrt"):  {Kind: CallFunc, Spelling: "sqrt"},
		langFunc("Sin"):   {Kind: CallFunc, Spelling: "sin"},
		langFunc("Cos"):   {Kind: CallFunc, Spelling: "cos"},
		langFunc("Tan"):   {Kind: CallFunc, Spelling: "tan"},
		langFunc("Abs"):   {Kind: CallFunc, Spelling: "abs"},
		langFunc("Floor"): {Kind: CallFunc, Spelling: "floor"},
		langFunc("Fract"): {Kind: CallFunc, Spelling: t.fract},
		langFunc("Pow"):   {Kind: CallFunc, Spelling: "pow"},
		langFunc("Exp"):   {Kind: CallFunc, Spelling: "exp"},
		langFunc("Min"):   {Kind: CallFunc, Spelling: "min"},
		langFunc("Max"):   {Kind: CallFunc, Spelling: "max"},
		langFunc("Clamp"): {Kind: CallFunc, Spelling: "clamp"},
		langFunc("Mix"):   {Kind: CallFunc, Spelling: t.mix},
		langFunc("Step"):  {Kind: CallFunc, Spelling: "step"},

		langFunc("Texture"):     t.sample,
		langFunc("TextureCube"): t.sample,
		langFunc("Discard"):     {Kind: CallStatement, Spelling: "discard"},
	}
	for _, vec := range []string{"Vec2", "Vec3", "Vec4"} {
		result[langMethod(vec, "Add")] = Call{Kind: CallInfix, Spelling: "+"}
		result[langMethod(vec, "Sub")] = Call{Kind: CallInfix, Spelling: "-"}
		result[langMethod(vec, "Mul")] = Call{Kind: CallInfix, Spelling: "*"}
		result[langMethod(vec, "Div")] = Call{Kind: CallInfix, Spelling: "/"}
		result[langMethod(vec, "Scale")] = Call{Kind: CallInfix, Spelling: "*"}
		result[langMethod(vec, "Neg")] = Call{Kind: CallPrefix, Spelling: "-"}
		result[langMethod(vec, "Dot")] = Call{Kind: CallFunc, Spelling: "dot"}
		result[langMethod(vec, "Length")] = Call{Kind: CallFunc, Spelling: "length"}
		result[langMethod(vec, "Normalize")] = Call{Kind: CallFunc, Spelling: "normalize"}
		result[langMethod(vec, "Mix")] = Call{Kind: CallFunc, Spelling: t.mix}
	}
	result[langMethod("Vec3", "Cross")] = Call{Kind: CallFunc, Spelling: "cross"}
	result[langMethod("Vec3", "XY")] = Call{Kind: CallSwizzle, Spelling: "xy"}
	result[langMethod("Vec4", "XY")] = Call{Kind: CallSwizzle, Spelling: "xy"}
	result[langMethod("Vec4", "XYZ")] = Call{Kind: CallSwizzle, Spelling: "xyz"}
	for _, mat := range []string{"Mat2", "Mat3", "Mat4"} {
		result[langMethod(mat, "Transform")] = Call{Kind: t.mulMatKind, Spelling: t.mulMat}
	}
	result[langMethod("Mat4", "Mul")] = Call{Kind: t.mulMatKind, Spelling: t.mulMat}
	return result
}

//
// GLSL family
//

func glslBackend(name shader.Name, doubles bool) *Backend {
	b := &Backend{
		Name: name,
		Types: map[HostType]string{
			Bool:    "bool",
			Int:     "int",
			Int32:   "int",
			Uint32:  "uint",
			Float32: "float",

			Vec2:  "vec2",
			Vec3:  "vec3",
			Vec4:  "vec4",
			IVec2: "ivec2",
			IVec3: "ivec3",
			IVec4: "ivec4",
			UVec2: "uvec2",
			UVec3: "uvec3",
			UVec4: "uvec4",
			Mat2:  "mat2",
			Mat3:  "mat3",
			Mat4:  "mat4",

			Sampler2D:   "sampler2D",
			SamplerCube: "samplerCube",
		},
		Semantics: map[string]BackendSemantic{
			"Position": {Builtins: map[Usage]string{
				{shader.Vertex, Out}:  "gl_Position",
				{shader.Fragment, In}: "gl_FragCoord",
			}},
			"VertexID":    {Builtins: map[Usage]string{{shader.Vertex, In}: "gl_VertexID"}, Types: []HostType{Int32, Int}},
			"InstanceID":  {Builtins: map[Usage]string{{shader.Vertex, In}: "gl_InstanceID"}, Types: []HostType{Int32, Int}},
			"PointSize":   {Builtins: map[Usage]string{{shader.Vertex, Out}: "gl_PointSize"}},
			"FrontFacing": {Builtins: map[Usage]string{{shader.Fragment, In}: "gl_FrontFacing"}},
			"Color":       {},
			"Depth":       {Builtins: map[Usage]string{{shader.Fragment, Out}: "gl_FragDepth"}},
		},
		Calls: calls(callTable{
			mix:        "mix",
			fract:      "fract",
			mulMat:     "*",
			mulMatKind: CallInfix,
			sample:     Call{Kind: CallSample, Spelling: "texture"},
			identity4:  "mat4(1.0)",
		}),
		Layout: Std140,
	}
	if doubles {
		b.Types[Float64] = "double"
	}
	return b
}

//
// HLSL
//

func hlslBackend() *Backend {
	return &Backend{
		Name: shader.HLSL,
		Types: map[HostType]string{
			Bool:    "bool",
			Int:     "int",
			Int32:   "int",
			Uint32:  "uint",
			Float32: "float",
			Float64: "double",

			Vec2:  "float2",
			Vec3:  "float3",
			Vec4:  "float4",
			IVec2: "int2",
			IVec3: "int3",
			IVec4: "int4",
			UVec2: "uint2",
			UVec3: "uint3",
			UVec4: "uint4",
			Mat2:  "float2x2",
			Mat3:  "float3x3",
			Mat4:  "float4x4",

			Sampler2D:   "Texture2D",
			SamplerCube: "TextureCube",
		},
		Semantics: map[string]BackendSemantic{
			"Position": {Builtins: map[Usage]string{
				{shader.Vertex, Out}:  "SV_Position",
				{shader.Fragment, In}: "SV_Position",
			}},
			"VertexID":    {Builtins: map[Usage]string{{shader.Vertex, In}: "SV_VertexID"}},
			"InstanceID":  {Builtins: map[Usage]string{{shader.Vertex, In}: "SV_InstanceID"}},
			"FrontFacing": {Builtins: map[Usage]string{{shader.Fragment, In}: "SV_IsFrontFace"}},
			"Color":       {},
			"Depth":       {Builtins: map[Usage]string{{shader.Fragment, Out}: "SV_Depth"}},
		},
		Calls: calls(callTable{
			mix:        "lerp",
			fract:      "frac",
			mulMat:     "mul",
			mulMatKind: CallFunc,
			sample:     Call{Kind: CallSample, Spelling: "Sample"},
			identity4:  "float4x4(1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0)",
		}),
		Layout: HLSLPacking,
	}
}

//
// WGSL (and SPIR-V, which is lowered from WGSL)
//

func wgslBackend(name shader.Name) *Backend {
	return &Backend{
		Name: name,
		Types: map[HostType]string{
			Bool:    "bool",
			Int:     "i32",
			Int32:   "i32",
			Uint32:  "u32",
			Float32: "f32",

			Vec2:  "vec2<f32>",
			Vec3:  "vec3<f32>",
			Vec4:  "vec4<f32>",
			IVec2: "vec2<i32>",
			IVec3: "vec3<i32>",
			IVec4: "vec4<i32>",
			UVec2: "vec2<u32>",
			UVec3: "vec3<u32>",
			UVec4: "vec4<u32>",
			Mat2:  "mat2x2<f32>",
			Mat3:  "mat3x3<f32>",
			Mat4:  "mat4x4<f32>",

			Sampler2D:   "texture_2d<f32>",
			SamplerCube: "texture_cube<f32>",
		},
		Semantics: map[string]BackendSemantic{
			"Position": {Builtins: map[Usage]string{
				{shader.Vertex, Out}:  "position",
				{shader.Fragment, In}: "position",
			}},
			"VertexID":    {Builtins: map[Usage]string{{shader.Vertex, In}: "vertex_index"}, Types: []HostType{Uint32}},
			"InstanceID":  {Builtins: map[Usage]string{{shader.Vertex, In}: "instance_index"}, Types: []HostType{Uint32}},
			"FrontFacing": {Builtins: map[Usage]string{{shader.Fragment, In}: "front_facing"}},
			"Color":       {},
			"Depth":       {Builtins: map[Usage]string{{shader.Fragment, Out}: "frag_depth"}},
		},
		Calls: calls(callTable{
			mix:        "mix",
			fract:      "fract",
			mulMat:     "*",
			mulMatKind: CallInfix,
			sample:     Call{Kind: CallSample, Spelling: "textureSample"},
			identity4:  "mat4x4<f32>(1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0)",
		}),
		Layout: WGSLUniform,
	}
}
