package frontend

import (
	"go/ast"
	"regexp"
	"strings"
)

var (
	shaderRe   = regexp.MustCompile(`^//gxsl:shader(?:\s+(.*))?$`)
	backendsRe = regexp.MustCompile(`^//gxsl:backends\s+(.*)$`)
)

// ClassSpec is a struct type marked with a `//gxsl:shader <stage>` directive,
// as found in the syntax, before any analysis.
type ClassSpec struct {
	Pkg  *Package
	Spec *ast.TypeSpec
	// Stage is the directive argument, possibly empty.
	Stage string
	// Backends is the `//gxsl:backends A,B` override, nil if absent.
	Backends []string
	// Methods are the methods declared on the type or its pointer.
	Methods []*ast.FuncDecl
}

func parseDirective(re *regexp.Regexp, docs ...*ast.CommentGroup) (string, bool) {
	for _, doc := range docs {
		if doc != nil {
			for _, comment := range doc.List {
				if matches := re.FindStringSubmatch(strings.TrimSpace(comment.Text)); matches != nil {
					return strings.TrimSpace(matches[1]), true
				}
			}
		}
	}
	return "", false
}

// Discover returns the shader definitions of pkg in source order.
func Discover(pkg *Package) []*ClassSpec {
	var result []*ClassSpec
	byName := make(map[string]*ClassSpec)
	for _, file := range pkg.Files {
		for _, decl := range file.Decls {
			decl, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range decl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				// A lone spec's doc comment is attached to the declaration.
				docs := []*ast.CommentGroup{typeSpec.Doc}
				if len(decl.Specs) == 1 {
					docs = append(docs, decl.Doc)
				}
				stage, ok := parseDirective(shaderRe, docs...)
				if !ok {
					continue
				}
				class := &ClassSpec{Pkg: pkg, Spec: typeSpec, Stage: stage}
				if list, ok := parseDirective(backendsRe, docs...); ok {
					class.Backends = splitList(list)
				}
				result = append(result, class)
				byName[typeSpec.Name.Name] = class
			}
		}
	}
	for _, file := range pkg.Files {
		for _, decl := range file.Decls {
			if funcDecl, ok := decl.(*ast.FuncDecl); ok && funcDecl.Recv != nil && len(funcDecl.Recv.List) == 1 {
				if class, ok := byName[receiverTypeName(funcDecl.Recv.List[0].Type)]; ok {
					class.Methods = append(class.Methods, funcDecl)
				}
			}
		}
	}
	return result
}

func receiverTypeName(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(expr.X)
	case *ast.ParenExpr:
		return receiverTypeName(expr.X)
	case *ast.Ident:
		return expr.Name
	}
	return ""
}

// splitList splits a comma or space separated directive argument.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}
