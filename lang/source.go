// Package lang is the vocabulary gxsl shader definitions are written in.
//
// A shader definition is a struct type marked with a `//gxsl:shader` directive:
//
//	//gxsl:shader vertex
//	type Basic struct {
//		Pos      lang.Vec3 `in:""`
//		Position lang.Vec4 `out:"" stage:""`
//		MVP      lang.Mat4 `uniform:"set=0,binding=0"`
//	}
//
//	func (s *Basic) Main() {
//		s.Position = s.MVP.Transform(lang.V4FromV3(s.Pos, 1))
//	}
//
// The functions here also run on the host, which keeps definitions testable
// as ordinary Go.
package lang

import "embed"

// Path is the import path shader definitions import this package by.
const Path = "github.com/nikki93/gxsl/lang"

// Sources holds this package's type and function declarations so in-memory
// front-ends can type-check definitions without a module on disk.
//
//go:embed vec.go mat.go sampler.go
var Sources embed.FS
