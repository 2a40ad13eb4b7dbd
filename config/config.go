// Package config reads the gxsl run configuration, gxsl.yaml by default.
//
// A complete file:
//
//	backends: [GLSL330, ESSL300, HLSL, SPIRV]
//	output: shaders/gen
//	companion:
//	  package: gen
//	  file: gxsl_shaders.go
//	concurrency: 4
//	validate:
//	  enabled: true
//	  timeout: 10s
//	  workers: 2
//	  tools:
//	    dxc: /opt/dxc/bin/dxc
//	types:
//	  GLSL330:
//	    float64: double
//
// Every key is optional. Flags given to the command override the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikki93/gxsl/artifact"
	"github.com/nikki93/gxsl/registry"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
	"github.com/nikki93/gxsl/validate"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "gxsl.yaml"

// ErrInvalid is wrapped by every error about configuration contents.
var ErrInvalid = errors.New("invalid configuration")

type File struct {
	// Backends overrides the backends of every shader definition. Empty
	// means each definition's own list, or the defaults. Names match in any
	// case.
	Backends []string `yaml:"backends"`
	// Output is the directory per-backend artifacts are written to. Empty
	// disables them.
	Output      string    `yaml:"output"`
	Companion   Companion `yaml:"companion"`
	Concurrency int       `yaml:"concurrency"`
	Validate    Validate  `yaml:"validate"`
	// Types adds host type spellings per backend.
	Types map[string]map[string]string `yaml:"types"`
}

// Companion configures the generated Go file. An empty Package disables it.
type Companion struct {
	Package string `yaml:"package"`
	File    string `yaml:"file"`
}

type Validate struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
	Workers int           `yaml:"workers"`
	// Tools maps tool names to binaries, for tools not in PATH.
	Tools map[string]string `yaml:"tools"`
}

func Default() *File {
	return &File{
		Output:    "gxsl",
		Companion: Companion{File: artifact.DefaultCompanion},
		Validate: Validate{
			Timeout: validate.DefaultTimeout,
			Workers: 2,
		},
	}
}

// Load reads the file at path over the defaults and checks it.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadOptional is Load, returning the defaults if path does not exist.
func LoadOptional(path string) (*File, error) {
	f, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return f, err
}

// Parse decodes data over the defaults and checks the result. Unknown keys
// are errors.
func Parse(data []byte) (*File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := f.Check(); err != nil {
		return nil, err
	}
	return f, nil
}

// Check reports every invalid value in f.
func (f *File) Check() error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}
	if f.Concurrency < 0 {
		fail("concurrency: %d is negative", f.Concurrency)
	}
	if f.Companion.Package != "" {
		if !token.IsIdentifier(f.Companion.Package) {
			fail("companion.package: %q is not a Go package name", f.Companion.Package)
		}
		if f.Companion.File == "" {
			fail("companion.file: empty")
		}
	}
	if f.Validate.Timeout < 0 {
		fail("validate.timeout: %s is negative", f.Validate.Timeout)
	}
	if f.Validate.Workers < 0 {
		fail("validate.workers: %d is negative", f.Validate.Workers)
	}
	for _, tool := range sortedKeys(f.Validate.Tools) {
		switch tool {
		case validate.ToolGlslang, validate.ToolDXC, validate.ToolSPIRVVal:
		default:
			fail("validate.tools: unknown tool %q", tool)
		}
	}
	for _, name := range sortedKeys(f.Types) {
		if !registry.IsBackendNameValid(shader.Name(name)) {
			fail("types: unknown backend %q", name)
		}
	}
	return errors.Join(errs...)
}

// BackendNames splits Backends. Names are not checked here: a name that is
// not a backend fails each class it is generated for.
func (f *File) BackendNames() []shader.Name {
	return registry.Split(strings.Join(f.Backends, ","))
}

// TypeRegistry returns base extended with Types.
func (f *File) TypeRegistry(base *typemap.Registry) (*typemap.Registry, error) {
	if len(f.Types) == 0 {
		return base, nil
	}
	overrides := make(map[shader.Name]map[typemap.HostType]string, len(f.Types))
	for _, key := range sortedKeys(f.Types) {
		name := registry.Canonical(shader.Name(key))
		m := overrides[name]
		if m == nil {
			m = make(map[typemap.HostType]string)
			overrides[name] = m
		}
		for host, spelling := range f.Types[key] {
			m[typemap.HostType(host)] = spelling
		}
	}
	return base.WithTypes(overrides)
}

func sortedKeys[V any](m map[string]V) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
