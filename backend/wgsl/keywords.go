package wgsl

// keywords are the WGSL keywords, reserved words and built-in function
// names a Go identifier may collide with.
var keywords = map[string]struct{}{
	"alias": {}, "break": {}, "case": {}, "const": {}, "const_assert": {}, "continue": {},
	"continuing": {}, "default": {}, "diagnostic": {}, "discard": {}, "else": {}, "enable": {},
	"false": {}, "fn": {}, "for": {}, "if": {}, "let": {}, "loop": {}, "override": {},
	"requires": {}, "return": {}, "struct": {}, "switch": {}, "true": {}, "var": {}, "while": {},

	"bool": {}, "f16": {}, "f32": {}, "i32": {}, "u32": {},
	"vec2": {}, "vec3": {}, "vec4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"array": {}, "atomic": {}, "ptr": {}, "sampler": {}, "sampler_comparison": {},
	"texture_1d": {}, "texture_2d": {}, "texture_2d_array": {}, "texture_3d": {},
	"texture_cube": {}, "texture_cube_array": {}, "texture_multisampled_2d": {},
	"texture_depth_2d": {}, "texture_depth_cube": {},

	// Reserved words.
	"NULL": {}, "Self": {}, "abstract": {}, "active": {}, "alignas": {}, "alignof": {}, "as": {},
	"asm": {}, "async": {}, "attribute": {}, "auto": {}, "await": {}, "become": {}, "cast": {},
	"catch": {}, "class": {}, "co_await": {}, "co_return": {}, "co_yield": {}, "coherent": {},
	"column_major": {}, "common": {}, "compile": {}, "concept": {}, "constexpr": {},
	"constinit": {}, "crate": {}, "debugger": {}, "decltype": {}, "delete": {}, "demote": {},
	"do": {}, "dynamic_cast": {}, "enum": {}, "explicit": {}, "export": {}, "extends": {},
	"extern": {}, "external": {}, "fallthrough": {}, "filter": {}, "final": {}, "finally": {},
	"friend": {}, "from": {}, "fxgroup": {}, "get": {}, "goto": {}, "groupshared": {},
	"highp": {}, "impl": {}, "implements": {}, "import": {}, "inline": {}, "instanceof": {},
	"interface": {}, "layout": {}, "lowp": {}, "macro": {}, "match": {}, "mediump": {},
	"meta": {}, "mod": {}, "module": {}, "move": {}, "mut": {}, "mutable": {}, "namespace": {},
	"new": {}, "nil": {}, "noexcept": {}, "noinline": {}, "nointerpolation": {},
	"noperspective": {}, "null": {}, "nullptr": {}, "of": {}, "operator": {}, "package": {},
	"packoffset": {}, "partition": {}, "pass": {}, "patch": {}, "pixelfragment": {},
	"precise": {}, "precision": {}, "premerge": {}, "priv": {}, "protected": {}, "pub": {},
	"public": {}, "readonly": {}, "ref": {}, "regardless": {}, "register": {},
	"reinterpret_cast": {}, "require": {}, "resource": {}, "restrict": {}, "self": {},
	"set": {}, "shared": {}, "sizeof": {}, "smooth": {}, "snorm": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "std": {}, "subroutine": {}, "super": {},
	"target": {}, "template": {}, "this": {}, "thread_local": {}, "throw": {}, "trait": {},
	"try": {}, "type": {}, "typedef": {}, "typeid": {}, "typename": {}, "typeof": {},
	"union": {}, "unless": {}, "unorm": {}, "unsafe": {}, "unsized": {}, "use": {},
	"using": {}, "varying": {}, "virtual": {}, "volatile": {}, "wgsl": {}, "where": {},
	"with": {}, "writeonly": {}, "yield": {},

	// Built-in functions shadowed by user names would break calls.
	"textureSample": {}, "mix": {}, "dot": {}, "cross": {}, "length": {}, "normalize": {},
	"clamp": {}, "step": {}, "fract": {}, "floor": {}, "abs": {}, "sqrt": {}, "pow": {},
	"exp": {}, "sin": {}, "cos": {}, "tan": {}, "min": {}, "max": {}, "main": {},

	// Names the generated entry point uses.
	"input": {}, "output": {}, "Input": {}, "Output": {},
}

// escape returns name, prefixed with an underscore if it is reserved.
func escape(name string) string {
	if _, ok := keywords[name]; ok {
		return "_" + name
	}
	return name
}
