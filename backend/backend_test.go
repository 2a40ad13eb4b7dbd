package backend

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/nikki93/gxsl/decl"
)

func uniform(name string, index int, binding decl.Binding) *decl.Variable {
	obj := types.NewField(token.NoPos, nil, name, types.Typ[types.Float32], false)
	v := decl.NewVariable(obj, decl.Uniform, token.Position{}, index)
	v.Binding = &binding
	return v
}

func TestByUniqueBinding(t *testing.T) {
	vars := []*decl.Variable{
		uniform("b", 0, decl.Binding{Binding: 2, UniqueBinding: 2}),
		uniform("a", 2, decl.Binding{Binding: 0, UniqueBinding: 0}),
		uniform("c", 5, decl.Binding{Set: 1, Binding: 0, UniqueBinding: 2}),
	}
	var order string
	for _, v := range ByUniqueBinding(vars) {
		order += v.Name
	}
	if order != "abc" {
		t.Errorf("order %q, want abc", order)
	}
	if vars[0].Name != "b" {
		t.Error("ByUniqueBinding reordered its argument")
	}
}

func TestWriter(t *testing.T) {
	w := NewWriter()
	w.Line("void main() {")
	w.Indent()
	w.Write("x = 1;\n\ny = 2;\n")
	w.Dedent()
	w.Line("}")
	want := "void main() {\n  x = 1;\n\n  y = 2;\n}\n"
	if got := w.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
