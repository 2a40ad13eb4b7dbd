// Package example holds the shaders of a textured sprite renderer.
package example

//go:generate go run .. -config gxsl.yaml .

import "github.com/nikki93/gxsl/lang"

// SpriteVertex places a quad in clip space and forwards its texture
// coordinate and tint.
//
//gxsl:shader vertex
type SpriteVertex struct {
	Pos      lang.Vec2 `in:""`
	TexCoord lang.Vec2 `in:""`
	Tint     lang.Vec4 `in:""`

	FragTexCoord lang.Vec2 `out:""`
	FragTint     lang.Vec4 `out:""`
	Position     lang.Vec4 `out:"" stage:""`

	ViewProj lang.Mat4 `uniform:"set=0,binding=0"`
}

func (s *SpriteVertex) Main() {
	s.FragTexCoord = s.TexCoord
	s.FragTint = s.Tint
	s.Position = s.ViewProj.Transform(lang.V4FromV2(s.Pos, 0, 1))
}

// SpriteFragment samples the atlas and applies the tint and the diffuse
// color. Fully transparent texels are discarded.
//
//gxsl:shader fragment
type SpriteFragment struct {
	FragTexCoord lang.Vec2 `in:""`
	FragTint     lang.Vec4 `in:""`

	Color lang.Vec4 `out:"" stage:""`

	Atlas   lang.Sampler2D `uniform:"set=0,binding=1"`
	Diffuse lang.Vec4      `uniform:"set=0,binding=2"`
}

func (s *SpriteFragment) Main() {
	texel := lang.Texture(s.Atlas, s.FragTexCoord)
	result := texel.Mul(s.Diffuse).Mul(s.FragTint)
	if result.W == 0 {
		lang.Discard()
	}
	s.Color = result
}

// SpriteFlash blends a sprite toward a flat color, for hit effects.
//
//gxsl:shader fragment
//gxsl:backends GLSL330,WGSL
type SpriteFlash struct {
	FragTexCoord lang.Vec2 `in:""`

	Color lang.Vec4 `out:"" stage:""`

	Atlas  lang.Sampler2D `uniform:"set=0,binding=1"`
	Flash  lang.Vec4      `uniform:"set=0,binding=3"`
	Amount float32        `uniform:"set=0,binding=4"`
}

func (s *SpriteFlash) Main() {
	texel := lang.Texture(s.Atlas, s.FragTexCoord)
	s.Color = lang.V4FromV3(texel.XYZ().Mix(s.Flash.XYZ(), s.Amount), texel.W)
}
