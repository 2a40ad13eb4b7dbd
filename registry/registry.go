// Package registry is the closed set of backends gxsl can target and the
// factories that build them.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nikki93/gxsl/backend"
	"github.com/nikki93/gxsl/backend/glsl"
	"github.com/nikki93/gxsl/backend/hlsl"
	"github.com/nikki93/gxsl/backend/spirv"
	"github.com/nikki93/gxsl/backend/wgsl"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

// Factory returns a new builder for a backend's type table.
type Factory func(types *typemap.Backend) (backend.Builder, error)

func newGLSL(types *typemap.Backend) (backend.Builder, error) {
	return glsl.New(types)
}

var factories = map[shader.Name]Factory{
	shader.GLSL330: newGLSL,
	shader.GLSL410: newGLSL,
	shader.GLSL450: newGLSL,
	shader.ESSL300: newGLSL,
	shader.ESSL310: newGLSL,
	shader.HLSL: func(types *typemap.Backend) (backend.Builder, error) {
		return hlsl.New(types), nil
	},
	shader.WGSL: func(types *typemap.Backend) (backend.Builder, error) {
		return wgsl.New(types), nil
	},
	shader.SPIRV: func(types *typemap.Backend) (backend.Builder, error) {
		return spirv.New(types), nil
	},
}

// names is every backend in priority order.
var names = []shader.Name{
	shader.GLSL330, shader.GLSL410, shader.GLSL450,
	shader.ESSL300, shader.ESSL310,
	shader.HLSL, shader.WGSL, shader.SPIRV,
}

var defaults = []shader.Name{shader.GLSL330, shader.ESSL300, shader.HLSL, shader.SPIRV}

// Names returns every backend name.
func Names() []shader.Name {
	return append([]shader.Name(nil), names...)
}

// Defaults returns the backends shader definitions target unless they or
// the caller say otherwise.
func Defaults() []shader.Name {
	return append([]shader.Name(nil), defaults...)
}

// IsBackendNameValid reports whether name, in any case, is a backend.
func IsBackendNameValid(name shader.Name) bool {
	_, ok := Lookup(string(name))
	return ok
}

// Lookup returns the backend named s, matched case-insensitively.
func Lookup(s string) (shader.Name, bool) {
	for _, name := range names {
		if strings.EqualFold(string(name), s) {
			return name, true
		}
	}
	return "", false
}

// Canonical returns the spelling of name in Names, or name itself when it is
// not a backend.
func Canonical(name shader.Name) shader.Name {
	if canonical, ok := Lookup(string(name)); ok {
		return canonical
	}
	return name
}

// Split splits a comma or space separated list of backend names without
// checking them. Known names are made canonical, duplicates are dropped and
// order is kept.
func Split(list string) []shader.Name {
	var result []shader.Name
	seen := make(map[shader.Name]bool)
	for _, field := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		name := Canonical(shader.Name(field))
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result
}

// Registry builds backends over one type mapping registry.
type Registry struct {
	types *typemap.Registry
}

func New(types *typemap.Registry) *Registry {
	return &Registry{types: types}
}

// Types returns the type mapping registry builders are made over.
func (r *Registry) Types() *typemap.Registry {
	return r.types
}

// ErrUnknownBackend is returned by New for names outside the closed set.
var ErrUnknownBackend = errors.New("unknown backend name")

// New returns a fresh builder for name, in any case. It fails for names
// outside the closed set, for backends the type registry has no table for
// and when the builder rejects its table.
func (r *Registry) New(name shader.Name) (backend.Builder, error) {
	name = Canonical(name)
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownBackend, name)
	}
	types, ok := r.types.Backend(name)
	if !ok {
		return nil, fmt.Errorf("backend %s has no type mapping", name)
	}
	b, err := factory(types)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return b, nil
}
