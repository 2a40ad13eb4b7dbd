// Package shader holds the vocabulary shared by the gxsl pipeline and its
// consumers: stages, backend names, and generated sources.
package shader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

//
// Stages
//

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
	// Compute is recognised so it can be rejected with a clear diagnostic.
	Compute
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	case Compute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// Ext returns the conventional file extension for sources of stage s.
func (s Stage) Ext() string {
	switch s {
	case Vertex:
		return "vert"
	case Fragment:
		return "frag"
	case Compute:
		return "comp"
	default:
		return "glsl"
	}
}

// ParseStage parses a stage directive argument.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex", "vert":
		return Vertex, nil
	case "fragment", "frag", "pixel":
		return Fragment, nil
	case "compute", "comp":
		return Compute, nil
	}
	return 0, fmt.Errorf("unknown shader stage %q", s)
}

//
// Backends
//

// Name identifies one target dialect/version.
type Name string

const (
	GLSL330 Name = "GLSL330"
	GLSL410 Name = "GLSL410"
	GLSL450 Name = "GLSL450"
	ESSL300 Name = "ESSL300"
	ESSL310 Name = "ESSL310"
	HLSL    Name = "HLSL"
	WGSL    Name = "WGSL"
	SPIRV   Name = "SPIRV"
)

//
// Generated sources
//

// SourceType tags the payload of a GeneratedShaderSource.
type SourceType uint8

const (
	Text SourceType = iota
	Binary
)

func (t SourceType) String() string {
	if t == Binary {
		return "binary"
	}
	return "text"
}

// GeneratedShaderSource is the output of one backend for one shader class.
// Exactly one of Text or Bytes is set, according to Type. A source with
// neither set records a backend that was attempted and failed.
type GeneratedShaderSource struct {
	Backend Name
	Type    SourceType
	Text    string
	Bytes   []byte
}

// Empty reports whether s carries no payload.
func (s GeneratedShaderSource) Empty() bool {
	return s.Text == "" && len(s.Bytes) == 0
}

// Payload returns the payload as bytes regardless of type.
func (s GeneratedShaderSource) Payload() []byte {
	if s.Type == Binary {
		return s.Bytes
	}
	return []byte(s.Text)
}

// Literal renders the payload as a Go expression suitable for embedding in
// generated code: a string literal for text and a []byte literal for binary.
func (s GeneratedShaderSource) Literal() string {
	if s.Type != Binary {
		if !strings.Contains(s.Text, "`") && !strings.Contains(s.Text, "\r") {
			return "`" + s.Text + "`"
		}
		return strconv.Quote(s.Text)
	}
	builder := &strings.Builder{}
	builder.WriteString("[]byte{")
	for i, b := range s.Bytes {
		if i%12 == 0 {
			builder.WriteString("\n\t")
		} else {
			builder.WriteByte(' ')
		}
		builder.WriteString("0x")
		if b < 0x10 {
			builder.WriteByte('0')
		}
		builder.WriteString(strconv.FormatUint(uint64(b), 16))
		builder.WriteByte(',')
	}
	if len(s.Bytes) > 0 {
		builder.WriteByte('\n')
	}
	builder.WriteString("}")
	return builder.String()
}

// GeneratedShader aggregates every backend attempted for one shader class.
type GeneratedShader struct {
	Namespace string
	Name      string
	Stage     Stage
	Sources   []GeneratedShaderSource
}

// Source returns the source generated for backend name, if it was attempted.
func (g *GeneratedShader) Source(name Name) (GeneratedShaderSource, bool) {
	for _, src := range g.Sources {
		if src.Backend == name {
			return src, true
		}
	}
	return GeneratedShaderSource{}, false
}

// QualifiedName returns Namespace.Name, or Name without a namespace.
func (g *GeneratedShader) QualifiedName() string {
	if g.Namespace == "" {
		return g.Name
	}
	return g.Namespace + "." + g.Name
}

//
// Consumer contract
//

var ErrNoMatchingBackend = errors.New("no matching backend")

// CreateShaderSource picks the source a device should compile. supported is
// the device's shader API list in priority order; the first one with a
// non-empty generated source wins.
func CreateShaderSource(g *GeneratedShader, supported []Name) (GeneratedShaderSource, error) {
	for _, name := range supported {
		if src, ok := g.Source(name); ok && !src.Empty() {
			return src, nil
		}
	}
	return GeneratedShaderSource{}, fmt.Errorf("%s: %w among %v", g.QualifiedName(), ErrNoMatchingBackend, supported)
}

// Program is a compiled shader program handle owned by the render layer.
type Program interface {
	Release()
}

// Compiler is implemented by the render layer. It receives exactly one
// already-selected backend's source.
type Compiler interface {
	CompileShaderProgram(source GeneratedShaderSource, stage Stage) (Program, error)
}
