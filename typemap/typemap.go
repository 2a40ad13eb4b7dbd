// Package typemap is the per-backend table mapping host types, stage-variable
// semantics and lang calls to target-language spellings.
//
// A Registry is built once per generation run and is read-only afterwards,
// so builders running concurrently may share it without synchronization.
package typemap

import (
	"errors"
	"fmt"
	"go/types"
	"sort"

	"github.com/nikki93/gxsl/shader"
)

//
// Semantics
//

// Direction is the side of a stage a variable sits on.
type Direction uint8

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Usage is a (stage, direction) pair a semantic may be declared at.
type Usage struct {
	Stage shader.Stage
	Dir   Direction
}

func (u Usage) String() string {
	return u.Stage.String() + " " + u.Dir.String()
}

// Semantic is the backend-independent definition of a stage-variable
// semantic name.
type Semantic struct {
	Name string
	// Types are the host types the semantic may be declared with on at
	// least one backend.
	Types  []HostType
	Usages []Usage
	// Location is the fixed IO location of a located semantic such as
	// Color, or -1 for builtins.
	Location int
}

func (s *Semantic) Allows(u Usage) bool {
	for _, usage := range s.Usages {
		if usage == u {
			return true
		}
	}
	return false
}

func (s *Semantic) Accepts(h HostType) bool {
	return containsHost(s.Types, h)
}

// BackendSemantic is how one backend spells a semantic.
type BackendSemantic struct {
	// Builtins spells builtin semantics per usage. Empty for located
	// semantics, which the backend declares as ordinary located variables.
	Builtins map[Usage]string
	// Types narrows Semantic.Types for this backend. Nil accepts all.
	Types []HostType
}

//
// Calls
//

// CallKind selects how a lang function or method is written in a backend.
// Methods are written with the receiver as the first argument.
type CallKind uint8

const (
	// CallFunc writes `Spelling(args...)`.
	CallFunc CallKind = iota
	// CallConstruct writes `T(args...)` with T the call's result type.
	CallConstruct
	// CallInfix writes `(a Spelling b)`.
	CallInfix
	// CallPrefix writes `(Spelling a)`.
	CallPrefix
	// CallSwizzle writes `a.Spelling`.
	CallSwizzle
	// CallConstant writes Spelling and ignores the arguments.
	CallConstant
	// CallSample samples a combined sampler; the backend decides the form.
	CallSample
	// CallStatement writes Spelling as a statement.
	CallStatement
)

// Call is one entry of a backend's call table.
type Call struct {
	Kind     CallKind
	Spelling string
}

//
// Backends
//

// Backend holds every mapping of one target dialect.
type Backend struct {
	Name      shader.Name
	Types     map[HostType]string
	Semantics map[string]BackendSemantic
	// Calls is keyed by types.Func.FullName.
	Calls  map[string]Call
	Layout Layout
}

// TypeName returns the backend spelling of a vocabulary host type.
func (b *Backend) TypeName(h HostType) (string, bool) {
	name, ok := b.Types[h]
	return name, ok
}

// Semantic returns the backend spelling of a semantic.
func (b *Backend) Semantic(name string) (BackendSemantic, bool) {
	sem, ok := b.Semantics[name]
	return sem, ok
}

// Call returns the call table entry for fn.
func (b *Backend) Call(fn *types.Func) (Call, bool) {
	call, ok := b.Calls[fn.FullName()]
	return call, ok
}

// Missing returns the vocabulary types r is built from that b cannot map.
func (b *Backend) Missing(r *Ref) []HostType {
	var result []HostType
	for _, h := range r.Hosts() {
		if _, ok := b.Types[h]; !ok && !containsHost(result, h) {
			result = append(result, h)
		}
	}
	return result
}

func (b *Backend) clone() *Backend {
	result := &Backend{
		Name:      b.Name,
		Types:     make(map[HostType]string, len(b.Types)),
		Semantics: make(map[string]BackendSemantic, len(b.Semantics)),
		Calls:     make(map[string]Call, len(b.Calls)),
		Layout:    b.Layout,
	}
	for k, v := range b.Types {
		result.Types[k] = v
	}
	for k, v := range b.Semantics {
		result.Semantics[k] = v
	}
	for k, v := range b.Calls {
		result.Calls[k] = v
	}
	return result
}

//
// Registry
//

// Registry is the read-only table of all backends and semantics.
type Registry struct {
	backends  map[shader.Name]*Backend
	semantics map[string]*Semantic
}

// ErrInconsistent is wrapped by every error New returns.
var ErrInconsistent = errors.New("inconsistent type mapping")

// New builds a registry and checks it for self-consistency.
func New(semantics []Semantic, backends ...*Backend) (*Registry, error) {
	r := &Registry{
		backends:  make(map[shader.Name]*Backend),
		semantics: make(map[string]*Semantic),
	}
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...)))
	}

	for i := range semantics {
		sem := semantics[i]
		if _, ok := r.semantics[sem.Name]; ok {
			fail("semantic %s defined twice", sem.Name)
			continue
		}
		for _, h := range sem.Types {
			if _, ok := shapes[h]; !ok {
				fail("semantic %s requires %s, which is not a host type", sem.Name, h)
			}
		}
		r.semantics[sem.Name] = &sem
	}

	for _, b := range backends {
		if _, ok := r.backends[b.Name]; ok {
			fail("backend %s defined twice", b.Name)
			continue
		}
		if b.Layout == nil {
			fail("backend %s has no layout rule", b.Name)
		}
		spellings := make(map[string]HostType)
		for _, h := range sortedHosts(b.Types) {
			spelling := b.Types[h]
			shape, ok := shapes[h]
			if !ok {
				fail("backend %s maps %s, which is not a host type", b.Name, h)
				continue
			}
			if prev, ok := spellings[spelling]; ok && shapes[prev] != shape {
				fail("backend %s spells both %s and %s as %s", b.Name, prev, h, spelling)
			}
			spellings[spelling] = h
		}
		for name, bsem := range b.Semantics {
			sem, ok := r.semantics[name]
			if !ok {
				fail("backend %s spells unknown semantic %s", b.Name, name)
				continue
			}
			for _, h := range bsem.Types {
				if !sem.Accepts(h) {
					fail("backend %s accepts %s for %s, which the semantic does not allow", b.Name, h, name)
				}
			}
			for usage := range bsem.Builtins {
				if !sem.Allows(usage) {
					fail("backend %s spells %s at %s, which the semantic does not allow", b.Name, name, usage)
				}
			}
			if sem.Location >= 0 && len(bsem.Builtins) > 0 {
				fail("backend %s spells located semantic %s as a builtin", b.Name, name)
			}
		}
		r.backends[b.Name] = b
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Backend returns the mappings of one backend.
func (r *Registry) Backend(name shader.Name) (*Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Semantic returns the backend-independent definition of a semantic.
func (r *Registry) Semantic(name string) (*Semantic, bool) {
	sem, ok := r.semantics[name]
	return sem, ok
}

// Known reports whether at least one backend maps h.
func (r *Registry) Known(h HostType) bool {
	for _, b := range r.backends {
		if _, ok := b.Types[h]; ok {
			return true
		}
	}
	return false
}

// Semantics returns every semantic, sorted by name.
func (r *Registry) Semantics() []*Semantic {
	result := make([]*Semantic, 0, len(r.semantics))
	for _, sem := range r.semantics {
		result = append(result, sem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// WithTypes returns a copy of r whose backends additionally map the given
// host types. The copy is checked like New.
func (r *Registry) WithTypes(overrides map[shader.Name]map[HostType]string) (*Registry, error) {
	var semantics []Semantic
	for _, sem := range r.Semantics() {
		semantics = append(semantics, *sem)
	}
	var backends []*Backend
	for _, name := range sortedNames(r.backends) {
		b := r.backends[name].clone()
		for h, spelling := range overrides[name] {
			b.Types[h] = spelling
		}
		backends = append(backends, b)
	}
	for name := range overrides {
		if _, ok := r.backends[name]; !ok {
			return nil, fmt.Errorf("%w: type overrides for unknown backend %s", ErrInconsistent, name)
		}
	}
	return New(semantics, backends...)
}

func containsHost(hosts []HostType, h HostType) bool {
	for _, host := range hosts {
		if host == h {
			return true
		}
	}
	return false
}

func sortedHosts(m map[HostType]string) []HostType {
	result := make([]HostType, 0, len(m))
	for h := range m {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func sortedNames(m map[shader.Name]*Backend) []shader.Name {
	result := make([]shader.Name, 0, len(m))
	for name := range m {
		result = append(result, name)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
