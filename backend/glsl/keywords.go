package glsl

import "strings"

// keywords are the GLSL and GLSL ES reserved words a Go identifier may
// collide with.
var keywords = map[string]struct{}{
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},

	"vec2": {}, "vec3": {}, "vec4": {},
	"ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {},
	"bvec2": {}, "bvec3": {}, "bvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {},
	"mat2": {}, "mat3": {}, "mat4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"dmat2": {}, "dmat3": {}, "dmat4": {},

	"sampler1D": {}, "sampler2D": {}, "sampler3D": {}, "samplerCube": {},
	"sampler2DShadow": {}, "samplerCubeShadow": {}, "sampler2DArray": {},
	"isampler2D": {}, "usampler2D": {}, "samplerBuffer": {},

	"attribute": {}, "const": {}, "uniform": {}, "varying": {}, "buffer": {}, "shared": {},
	"coherent": {}, "volatile": {}, "restrict": {}, "readonly": {}, "writeonly": {},
	"layout": {}, "centroid": {}, "flat": {}, "smooth": {}, "noperspective": {},
	"patch": {}, "sample": {}, "subroutine": {}, "in": {}, "out": {}, "inout": {},
	"invariant": {}, "precise": {}, "precision": {}, "highp": {}, "mediump": {}, "lowp": {},
	"break": {}, "continue": {}, "do": {}, "for": {}, "while": {}, "switch": {}, "case": {}, "default": {},
	"if": {}, "else": {}, "discard": {}, "return": {}, "true": {}, "false": {}, "struct": {},

	// Reserved for future use.
	"common": {}, "partition": {}, "active": {}, "asm": {}, "class": {}, "union": {}, "enum": {},
	"typedef": {}, "template": {}, "this": {}, "resource": {}, "goto": {}, "inline": {}, "noinline": {},
	"public": {}, "static": {}, "extern": {}, "external": {}, "interface": {}, "long": {}, "short": {},
	"half": {}, "fixed": {}, "unsigned": {}, "superp": {}, "input": {}, "output": {},
	"hvec2": {}, "hvec3": {}, "hvec4": {}, "fvec2": {}, "fvec3": {}, "fvec4": {},
	"filter": {}, "sizeof": {}, "cast": {}, "namespace": {}, "using": {},

	// Built-in functions shadowed by user names would break calls.
	"texture": {}, "mix": {}, "dot": {}, "cross": {}, "length": {}, "normalize": {},
	"clamp": {}, "step": {}, "fract": {}, "floor": {}, "abs": {}, "sqrt": {}, "pow": {},
	"exp": {}, "sin": {}, "cos": {}, "tan": {}, "min": {}, "max": {}, "main": {},
}

// escape returns name, prefixed with an underscore if it is reserved.
func escape(name string) string {
	if _, ok := keywords[name]; ok || strings.HasPrefix(name, "gl_") {
		return "_" + name
	}
	return name
}
