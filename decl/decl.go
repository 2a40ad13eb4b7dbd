// Package decl is the validated model of one shader definition. A Class is
// built once by the analyzer and must not be modified afterwards; builders
// running concurrently read it without synchronization.
package decl

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

// Role is the storage role of a shader member.
type Role uint8

const (
	In Role = iota
	Out
	Uniform
	Local
)

func (r Role) String() string {
	switch r {
	case In:
		return "in"
	case Out:
		return "out"
	case Uniform:
		return "uniform"
	default:
		return "local"
	}
}

// StageVariable binds an In or Out member to a semantic.
type StageVariable struct {
	Name     string
	Semantic *typemap.Semantic
}

// Binding is the resource binding of a Uniform member.
type Binding struct {
	Set, Binding int
	// UniqueBinding is the flattened key used by targets with one binding
	// space.
	UniqueBinding int
}

// Variable is one member of a shader definition.
type Variable struct {
	Name  string
	Role  Role
	Type  types.Type
	Ref   *typemap.Ref // nil if the type did not resolve
	Pos   token.Position
	Index int // declaration index among all members

	Stage   *StageVariable // In/Out only
	Binding *Binding       // Uniform only
	// Location is the IO location of In/Out members that are not builtins,
	// or -1.
	Location int

	obj *types.Var
}

// NewVariable returns a variable for the struct field obj.
func NewVariable(obj *types.Var, role Role, pos token.Position, index int) *Variable {
	return &Variable{
		Name:     obj.Name(),
		Role:     role,
		Type:     obj.Type(),
		Ref:      typemap.Resolve(obj.Type()),
		Pos:      pos,
		Index:    index,
		Location: -1,
		obj:      obj,
	}
}

// Object returns the struct field v was declared by.
func (v *Variable) Object() *types.Var {
	return v.obj
}

// Opaque reports whether v is a sampler.
func (v *Variable) Opaque() bool {
	return v.Ref != nil && v.Ref.Host != "" && typemap.IsOpaque(v.Ref.Host)
}

// IsBuiltin reports whether v is bound to a builtin (non-located) semantic.
func (v *Variable) IsBuiltin() bool {
	return v.Stage != nil && v.Stage.Semantic != nil && v.Stage.Semantic.Location < 0
}

// Entry is the entry method of a shader definition.
type Entry struct {
	Name string
	Decl *ast.FuncDecl
	// Recv is the receiver variable, or nil if the receiver is unnamed.
	Recv *types.Var
	Pos  token.Position
}

// Class is a shader definition: ShaderClassDeclaration.
type Class struct {
	Name    string
	Package string
	Stage   shader.Stage
	Pos     token.Position

	In       []*Variable
	Out      []*Variable
	Uniforms []*Variable
	Locals   []*Variable

	StageInputs  map[string]*Variable
	StageOutputs map[string]*Variable

	Entry   *Entry
	Targets []shader.Name

	// Valid is IsValidForGeneration: false if any structural or semantic
	// check failed.
	Valid bool

	// Info and Fset are the front-end's resolved-type service for the
	// entry body.
	Info *types.Info
	Fset *token.FileSet

	fields map[*types.Var]*Variable
}

// NewClass returns an empty, valid class.
func NewClass(name, pkg string, pos token.Position) *Class {
	return &Class{
		Name:         name,
		Package:      pkg,
		Pos:          pos,
		StageInputs:  make(map[string]*Variable),
		StageOutputs: make(map[string]*Variable),
		Valid:        true,
		fields:       make(map[*types.Var]*Variable),
	}
}

// IsValidForGeneration reports whether every check passed.
func (c *Class) IsValidForGeneration() bool {
	return c.Valid
}

// Add files v under its role.
func (c *Class) Add(v *Variable) {
	switch v.Role {
	case In:
		c.In = append(c.In, v)
	case Out:
		c.Out = append(c.Out, v)
	case Uniform:
		c.Uniforms = append(c.Uniforms, v)
	default:
		c.Locals = append(c.Locals, v)
	}
	if v.obj != nil {
		c.fields[v.obj] = v
	}
}

// Field returns the member declared by the struct field obj.
func (c *Class) Field(obj *types.Var) (*Variable, bool) {
	v, ok := c.fields[obj]
	return v, ok
}

// Variables returns every member in declaration order.
func (c *Class) Variables() []*Variable {
	result := make([]*Variable, 0, len(c.In)+len(c.Out)+len(c.Uniforms)+len(c.Locals))
	result = append(result, c.In...)
	result = append(result, c.Out...)
	result = append(result, c.Uniforms...)
	result = append(result, c.Locals...)
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result
}

// QualifiedName returns Package.Name.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}
