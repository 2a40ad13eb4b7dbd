// Package gxsltest builds declaration models from in-memory sources for
// tests.
package gxsltest

import (
	"testing"

	"github.com/nikki93/gxsl/analyze"
	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/frontend"
	"github.com/nikki93/gxsl/typemap"
)

// PkgPath is the import path test sources are checked as.
const PkgPath = "example.com/shaders"

// Package type-checks src as the body of a file that imports lang.
func Package(t testing.TB, src string) *frontend.Package {
	t.Helper()
	pkg, err := frontend.Check(PkgPath, map[string]string{
		"shaders.go": "package shaders\n\nimport \"github.com/nikki93/gxsl/lang\"\n\nvar _ lang.Vec4\n" + src,
	})
	if err != nil {
		t.Fatal(err)
	}
	return pkg
}

// Classes analyzes every shader definition in src and fails the test on
// any diagnostic.
func Classes(t testing.TB, src string) []*decl.Class {
	t.Helper()
	pkg := Package(t, src)
	analyzer := analyze.New(typemap.Default())
	var result []*decl.Class
	for _, spec := range frontend.Discover(pkg) {
		class, diags := analyzer.Analyze(spec)
		if len(diags) > 0 {
			t.Fatalf("analyzing %s:\n%s", class.Name, diags)
		}
		result = append(result, class)
	}
	return result
}

// Class is Classes for a source with exactly one shader definition.
func Class(t testing.TB, src string) *decl.Class {
	t.Helper()
	classes := Classes(t, src)
	if len(classes) != 1 {
		t.Fatalf("found %d shader definitions, want 1", len(classes))
	}
	return classes[0]
}

// Basic is a vertex shader every backend can build.
const Basic = `
//gxsl:shader vertex
type Basic struct {
	Pos      lang.Vec3 ` + "`in:\"\"`" + `
	UV       lang.Vec2 ` + "`in:\"\"`" + `
	VUV      lang.Vec2 ` + "`out:\"\"`" + `
	Position lang.Vec4 ` + "`out:\"\" stage:\"\"`" + `
	MVP      lang.Mat4 ` + "`uniform:\"set=0,binding=0\"`" + `
}

func (s *Basic) Main() {
	s.VUV = s.UV
	s.Position = s.MVP.Transform(lang.V4FromV3(s.Pos, 1))
}
`

// Textured is a fragment shader with a sampler, a uniform and a local.
const Textured = `
//gxsl:shader fragment
type Textured struct {
	VUV   lang.Vec2      ` + "`in:\"\"`" + `
	Color lang.Vec4      ` + "`out:\"\" stage:\"\"`" + `
	Tint  lang.Vec4      ` + "`uniform:\"set=0,binding=2\"`" + `
	Tex   lang.Sampler2D ` + "`uniform:\"set=0,binding=1\"`" + `
	alpha float32
}

func (s *Textured) Main() {
	s.alpha = 0.5
	c := lang.Texture(s.Tex, s.VUV).Mul(s.Tint)
	if c.W < s.alpha {
		lang.Discard()
	}
	s.Color = c
}
`
