package glsl_test

import (
	"strings"
	"testing"

	"github.com/nikki93/gxsl/backend/glsl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/internal/gxsltest"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

func newBuilder(t *testing.T, name shader.Name) *glsl.Builder {
	t.Helper()
	types, ok := typemap.Default().Backend(name)
	if !ok {
		t.Fatalf("no type table for %s", name)
	}
	b, err := glsl.New(types)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBuildGraphics(t *testing.T) {
	tests := []struct {
		name    string
		backend shader.Name
		src     string
		want    string
	}{
		{
			name:    "vertex 330",
			backend: shader.GLSL330,
			src:     gxsltest.Basic,
			want: `#version 330 core
#extension GL_ARB_shading_language_420pack : require

layout(std140, binding = 0) uniform MVP_block {
  mat4 MVP;
};

layout(location = 0) in vec3 Pos;
layout(location = 1) in vec2 UV;
out vec2 VUV;

void main() {
  VUV = UV;
  gl_Position = (MVP * vec4(Pos, 1.0));
}
`,
		},
		{
			name:    "vertex es 300",
			backend: shader.ESSL300,
			src:     gxsltest.Basic,
			want: `#version 300 es
precision highp float;
precision highp int;

// binding = 0
layout(std140) uniform MVP_block {
  mat4 MVP;
};

layout(location = 0) in vec3 Pos;
layout(location = 1) in vec2 UV;
out vec2 VUV;

void main() {
  VUV = UV;
  gl_Position = (MVP * vec4(Pos, 1.0));
}
`,
		},
		{
			name:    "vertex 450",
			backend: shader.GLSL450,
			src:     gxsltest.Basic,
			want: `#version 450 core

layout(std140, binding = 0) uniform MVP_block {
  layout(offset = 0) mat4 MVP;
};

layout(location = 0) in vec3 Pos;
layout(location = 1) in vec2 UV;
out vec2 VUV;

void main() {
  VUV = UV;
  gl_Position = (MVP * vec4(Pos, 1.0));
}
`,
		},
		{
			name:    "fragment 330",
			backend: shader.GLSL330,
			src:     gxsltest.Textured,
			want: `#version 330 core
#extension GL_ARB_shading_language_420pack : require

layout(binding = 1) uniform sampler2D Tex;
layout(std140, binding = 2) uniform Tint_block {
  vec4 Tint;
};

in vec2 VUV;
layout(location = 0) out vec4 Color;

float alpha;

void main() {
  alpha = 0.5;
  vec4 c = (texture(Tex, VUV) * Tint);
  if (c.w < alpha) {
    discard;
  }
  Color = c;
}
`,
		},
		{
			name:    "fragment es 310",
			backend: shader.ESSL310,
			src:     gxsltest.Textured,
			want: `#version 310 es
precision highp float;
precision highp int;

layout(binding = 1) uniform sampler2D Tex;
layout(std140, binding = 2) uniform Tint_block {
  vec4 Tint;
};

in vec2 VUV;
layout(location = 0) out vec4 Color;

float alpha;

void main() {
  alpha = 0.5;
  vec4 c = (texture(Tex, VUV) * Tint);
  if (c.w < alpha) {
    discard;
  }
  Color = c;
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, tt.backend)
			diags := b.BuildGraphics(gxsltest.Class(t, tt.src))
			if len(diags) > 0 {
				t.Fatalf("unexpected diagnostics:\n%s", diags)
			}
			got := b.ShaderSource()
			if got.Type != shader.Text || got.Backend != tt.backend {
				t.Errorf("source is %s from %s", got.Type, got.Backend)
			}
			if got.Text != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got.Text, tt.want)
			}
		})
	}
}

func TestBuildGraphics_Deterministic(t *testing.T) {
	class := gxsltest.Class(t, gxsltest.Textured)
	b := newBuilder(t, shader.GLSL410)
	b.BuildGraphics(class)
	first := b.ShaderSource().Text
	for i := 0; i < 5; i++ {
		b.BuildGraphics(class)
		if got := b.ShaderSource().Text; got != first {
			t.Fatalf("build %d differs:\n%s\nfirst:\n%s", i, got, first)
		}
	}
}

func TestBuildGraphics_Features(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name: "structs and loops",
			src: `
type Light struct {
	Dir   lang.Vec3
	Power float32
}

//gxsl:shader fragment
type S struct {
	N     lang.Vec3 ` + "`in:\"\"`" + `
	Color lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
	L     Light     ` + "`uniform:\"set=0,binding=0\"`" + `
}

func (s *S) Main() {
	var total float32
	for i := 0; i < 4; i++ {
		total += s.L.Power
	}
	for j := range 3 {
		if j == 1 {
			continue
		}
		total -= 0.25
	}
	l := Light{Power: 2}
	s.Color = lang.V4FromV3(s.N.Normalize(), total*l.Power)
}
`,
			contains: []string{
				"struct Light {\n  vec3 Dir;\n  float Power;\n};",
				"layout(std140, binding = 0) uniform L_block {\n  Light L;\n};",
				"float total = 0.0;",
				"for (int i = 0; i < 4; i++) {",
				"total += L.Power;",
				"for (int j = 0; j < 3; j++) {",
				"total -= 0.25;",
				"Light l = Light(vec3(0.0), 2.0);",
				"Color = vec4(normalize(N), total * l.Power);",
			},
		},
		{
			name: "keywords and integer varyings",
			src: `
//gxsl:shader vertex
type S struct {
	Position lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
	ID       int32     ` + "`in:\"\" stage:\"VertexID\"`" + `
	flat     int32     ` + "`out:\"\"`" + `
}

func (s *S) Main() {
	s.flat = s.ID
	s.Position = lang.V4(0, 0, 0, 1)
}
`,
			contains: []string{
				"flat out int _flat;",
				"_flat = gl_VertexID;",
				"gl_Position = vec4(0.0, 0.0, 0.0, 1.0);",
			},
		},
		{
			name: "matrix columns",
			src: `
//gxsl:shader vertex
type S struct {
	Pos      lang.Vec3 ` + "`in:\"\"`" + `
	Position lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
	M        lang.Mat4 ` + "`uniform:\"set=0,binding=3\"`" + `
}

func (s *S) Main() {
	s.Position = s.M[3].Add(lang.V4FromV3(s.Pos, 0))
}
`,
			contains: []string{
				"gl_Position = (M[3] + vec4(Pos, 0.0));",
				"binding = 3",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, shader.GLSL330)
			if diags := b.BuildGraphics(gxsltest.Class(t, tt.src)); len(diags) > 0 {
				t.Fatalf("unexpected diagnostics:\n%s", diags)
			}
			text := b.ShaderSource().Text
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("output does not contain %q:\n%s", want, text)
				}
			}
		})
	}
}

func TestBuildGraphics_Errors(t *testing.T) {
	tests := []struct {
		name    string
		backend shader.Name
		src     string
		want    diag.ID
	}{
		{
			name:    "switch statement",
			backend: shader.GLSL330,
			src: `
//gxsl:shader fragment
type S struct {
	Color lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
}

func (s *S) Main() {
	switch {
	default:
		s.Color = lang.V4(1, 1, 1, 1)
	}
}
`,
			want: diag.UnsupportedConstruct,
		},
		{
			name:    "package variable",
			backend: shader.GLSL330,
			src: `
var scale float32

//gxsl:shader fragment
type S struct {
	Color lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
}

func (s *S) Main() {
	s.Color = lang.V4(scale, 1, 1, 1)
}
`,
			want: diag.UnsupportedConstruct,
		},
		{
			name:    "assign to input",
			backend: shader.ESSL300,
			src: `
//gxsl:shader fragment
type S struct {
	UV    lang.Vec2 ` + "`in:\"\"`" + `
	Color lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
}

func (s *S) Main() {
	s.UV.X = 1
	s.Color = lang.V4FromV2(s.UV, 0, 1)
}
`,
			want: diag.UnsupportedConstruct,
		},
		{
			name:    "doubles before 4.0",
			backend: shader.GLSL330,
			src: `
//gxsl:shader fragment
type S struct {
	Color lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
	Scale float64   ` + "`uniform:\"set=0,binding=0\"`" + `
}

func (s *S) Main() {
	s.Color = lang.V4(1, 1, 1, 1)
}
`,
			want: diag.UnmappedType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, tt.backend)
			diags := b.BuildGraphics(gxsltest.Class(t, tt.src))
			if !diags.HasErrors() {
				t.Fatal("expected errors")
			}
			if diags[0].ID != tt.want {
				t.Errorf("got %s, want %s", diags[0].ID, tt.want)
			}
			if diags[0].Backend != string(tt.backend) || diags[0].Shader != gxsltest.PkgPath+".S" {
				t.Errorf("diagnostic attributed to %q/%q", diags[0].Shader, diags[0].Backend)
			}
			if !b.ShaderSource().Empty() {
				t.Error("failed build left a source")
			}
		})
	}
}

func TestNew_RejectsOtherBackends(t *testing.T) {
	types, _ := typemap.Default().Backend(shader.HLSL)
	if _, err := glsl.New(types); err == nil {
		t.Error("expected an error")
	}
}
