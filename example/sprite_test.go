package example

import (
	"testing"

	"github.com/nikki93/gxsl/lang"
)

// Shader definitions are ordinary Go, so their entry methods run on the
// host.

func TestSpriteVertex(t *testing.T) {
	s := &SpriteVertex{
		Pos:      lang.V2(2, 3),
		TexCoord: lang.V2(0.5, 1),
		Tint:     lang.V4(1, 0, 0, 1),
		ViewProj: lang.Identity4(),
	}
	s.ViewProj[3] = lang.V4(1, 1, 0, 1)
	s.Main()
	if want := lang.V4(3, 4, 0, 1); s.Position != want {
		t.Errorf("Position = %v, want %v", s.Position, want)
	}
	if s.FragTexCoord != s.TexCoord || s.FragTint != s.Tint {
		t.Errorf("forwarded %v %v", s.FragTexCoord, s.FragTint)
	}
}

func TestSpriteFragment(t *testing.T) {
	s := &SpriteFragment{
		FragTint: lang.V4(1, 0.5, 1, 1),
		Diffuse:  lang.V4(0.5, 1, 1, 1),
	}
	s.Main()
	if want := lang.V4(0.5, 0.5, 1, 1); s.Color != want {
		t.Errorf("Color = %v, want %v", s.Color, want)
	}
}

func TestSpriteFlash(t *testing.T) {
	s := &SpriteFlash{Flash: lang.V4(1, 0, 0, 1), Amount: 0.5}
	s.Main()
	if want := lang.V4(1, 0.5, 0.5, 1); s.Color != want {
		t.Errorf("Color = %v, want %v", s.Color, want)
	}
}
