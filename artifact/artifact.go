// Package artifact writes generated shader sources to disk: one file per
// shader and backend, and a Go file embedding all of them.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nikki93/gxsl/gxlog"
	"github.com/nikki93/gxsl/shader"
)

// DefaultCompanion is the default file name of the companion Go file.
const DefaultCompanion = "gxsl_shaders.go"

// Ext returns the file extension of sources generated by backend name for a
// stage.
func Ext(name shader.Name, stage shader.Stage) string {
	switch name {
	case shader.HLSL:
		return "hlsl"
	case shader.WGSL:
		return "wgsl"
	case shader.SPIRV:
		return "spv"
	}
	return stage.Ext()
}

// FileName returns the artifact name of one source: <shader>.<backend>.<ext>.
func FileName(g *shader.GeneratedShader, source shader.GeneratedShaderSource) string {
	return g.Name + "." + string(source.Backend) + "." + Ext(source.Backend, g.Stage)
}

func readersEqual(a, b io.Reader) bool {
	bufA := make([]byte, 1024)
	bufB := make([]byte, 1024)
	for {
		nA, errA := io.ReadFull(a, bufA)
		nB, _ := io.ReadFull(b, bufB)
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false
		}
		if errA == io.EOF || errA == io.ErrUnexpectedEOF {
			return true
		}
	}
}

// WriteFileIfChanged writes contents to path unless the file already holds
// exactly that. It reports whether the file was written.
func WriteFileIfChanged(path string, contents []byte) (bool, error) {
	if f, err := os.Open(path); err == nil {
		equal := readersEqual(f, bytes.NewReader(contents))
		f.Close()
		if equal {
			return false, nil
		}
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return false, fmt.Errorf("artifact: %w", err)
	}
	return true, nil
}

// ErrCollision is returned by Write when two shaders map to the same file,
// as same-named shaders of different packages do.
var ErrCollision = errors.New("artifact name collision")

// Write writes every non-empty source of shaders into dir, creating it if
// needed. It returns the paths that changed. Nothing is written if two
// sources share a file name.
func Write(dir string, shaders []*shader.GeneratedShader) ([]string, error) {
	owners := make(map[string]string)
	for _, g := range shaders {
		for _, source := range g.Sources {
			if source.Empty() {
				continue
			}
			name := FileName(g, source)
			if owner, ok := owners[name]; ok && owner != g.QualifiedName() {
				return nil, fmt.Errorf("%w: %s and %s both write %s", ErrCollision, owner, g.QualifiedName(), name)
			}
			owners[name] = g.QualifiedName()
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("artifact: %w", err)
	}
	var changed []string
	for _, g := range shaders {
		for _, source := range g.Sources {
			if source.Empty() {
				continue
			}
			path := filepath.Join(dir, FileName(g, source))
			wrote, err := WriteFileIfChanged(path, source.Payload())
			if err != nil {
				return changed, err
			}
			if wrote {
				gxlog.Logger().Debug("wrote artifact", "path", path)
				changed = append(changed, path)
			}
		}
	}
	return changed, nil
}

//
// Companion
//

// Companion renders a Go file of package pkg declaring
//
//	var Shaders = []shader.GeneratedShader{...}
//
// with every source of shaders embedded as a literal, ready to be passed to
// shader.CreateShaderSource.
func Companion(pkg string, shaders []*shader.GeneratedShader) ([]byte, error) {
	builder := &strings.Builder{}
	builder.WriteString("// Code generated by gxsl. DO NOT EDIT.\n\n")
	builder.WriteString("package ")
	builder.WriteString(pkg)
	builder.WriteString("\n\nimport \"github.com/nikki93/gxsl/shader\"\n\n")
	builder.WriteString("var Shaders = []shader.GeneratedShader{\n")
	for _, g := range shaders {
		builder.WriteString("{\n")
		builder.WriteString("Namespace: ")
		builder.WriteString(strconv.Quote(g.Namespace))
		builder.WriteString(",\nName: ")
		builder.WriteString(strconv.Quote(g.Name))
		builder.WriteString(",\nStage: ")
		builder.WriteString(stageExpr(g.Stage))
		builder.WriteString(",\nSources: []shader.GeneratedShaderSource{\n")
		for _, source := range g.Sources {
			builder.WriteString("{Backend: shader.")
			builder.WriteString(string(source.Backend))
			if source.Type == shader.Binary {
				builder.WriteString(", Type: shader.Binary")
				if !source.Empty() {
					builder.WriteString(", Bytes: ")
					builder.WriteString(source.Literal())
				}
			} else {
				builder.WriteString(", Type: shader.Text")
				if !source.Empty() {
					builder.WriteString(", Text: ")
					builder.WriteString(source.Literal())
				}
			}
			builder.WriteString("},\n")
		}
		builder.WriteString("},\n},\n")
	}
	builder.WriteString("}\n")

	result, err := format.Source([]byte(builder.String()))
	if err != nil {
		return nil, fmt.Errorf("artifact: formatting companion: %w", err)
	}
	return result, nil
}

func stageExpr(stage shader.Stage) string {
	switch stage {
	case shader.Fragment:
		return "shader.Fragment"
	case shader.Compute:
		return "shader.Compute"
	}
	return "shader.Vertex"
}

// WriteCompanion renders the companion file into path, writing it only if
// it changed.
func WriteCompanion(path, pkg string, shaders []*shader.GeneratedShader) (bool, error) {
	contents, err := Companion(pkg, shaders)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("artifact: %w", err)
	}
	return WriteFileIfChanged(path, contents)
}
