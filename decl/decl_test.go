package decl

import (
	"go/token"
	"go/types"
	"testing"
)

func testVariable(name string, role Role, index int) *Variable {
	obj := types.NewField(token.NoPos, nil, name, types.Typ[types.Float32], false)
	return NewVariable(obj, role, token.Position{}, index)
}

func TestClass(t *testing.T) {
	c := NewClass("Basic", "example.com/shaders", token.Position{})
	if c.QualifiedName() != "example.com/shaders.Basic" || !c.IsValidForGeneration() {
		t.Errorf("new class %s valid=%v", c.QualifiedName(), c.Valid)
	}

	members := []*Variable{
		testVariable("b", Uniform, 0),
		testVariable("pos", In, 1),
		testVariable("a", Uniform, 2),
		testVariable("color", Out, 3),
		testVariable("scratch", Local, 4),
		testVariable("c", Uniform, 5),
	}
	members[0].Binding = &Binding{Binding: 2, UniqueBinding: 2}
	members[2].Binding = &Binding{Binding: 0, UniqueBinding: 0}
	members[5].Binding = &Binding{Set: 1, Binding: 0, UniqueBinding: 2}
	for _, v := range members {
		c.Add(v)
	}

	if len(c.In) != 1 || len(c.Out) != 1 || len(c.Uniforms) != 3 || len(c.Locals) != 1 {
		t.Errorf("roles: in=%d out=%d uniform=%d local=%d", len(c.In), len(c.Out), len(c.Uniforms), len(c.Locals))
	}
	for i, v := range c.Variables() {
		if v != members[i] {
			t.Errorf("Variables()[%d] = %s, want %s", i, v.Name, members[i].Name)
		}
	}
	if v, ok := c.Field(members[1].Object()); !ok || v != members[1] {
		t.Error("Field did not find pos")
	}
	if members[1].Location != -1 || members[1].IsBuiltin() || members[1].Opaque() {
		t.Errorf("pos: location=%d builtin=%v opaque=%v", members[1].Location, members[1].IsBuiltin(), members[1].Opaque())
	}
}
