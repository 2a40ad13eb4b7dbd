// Package frontend supplies Go syntax and resolved types for shader
// definitions, either from packages on disk or from in-memory sources.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/nikki93/gxsl/lang"
)

// Package is one type-checked Go package.
type Package struct {
	Path  string
	Name  string
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
}

// ErrLoad is wrapped by errors reported by the Go front-end.
var ErrLoad = errors.New("load failed")

// Load loads and type-checks the packages matching patterns, relative to
// dir (the current directory if empty).
func Load(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	config := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedDeps |
			packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
	}
	loadPkgs, err := packages.Load(config, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	var errs []error
	for _, pkg := range loadPkgs {
		for _, err := range pkg.Errors {
			if err.Pos != "" {
				errs = append(errs, fmt.Errorf("%w: %s: %s", ErrLoad, err.Pos, err.Msg))
			} else {
				errs = append(errs, fmt.Errorf("%w: %s", ErrLoad, err.Msg))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	result := make([]*Package, 0, len(loadPkgs))
	for _, pkg := range loadPkgs {
		result = append(result, &Package{
			Path:  pkg.PkgPath,
			Name:  pkg.Name,
			Fset:  pkg.Fset,
			Files: pkg.Syntax,
			Types: pkg.Types,
			Info:  pkg.TypesInfo,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// Check parses and type-checks in-memory sources as the package path.
// files maps file names to contents. The lang package is resolved from its
// embedded sources; everything else from the standard importer.
func Check(path string, files map[string]string) (*Package, error) {
	fset := token.NewFileSet()
	imp := newImporter(fset)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var astFiles []*ast.File
	for _, name := range names {
		file, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		astFiles = append(astFiles, file)
	}
	return check(fset, path, astFiles, imp)
}

func newInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Instances:  make(map[*ast.Ident]types.Instance),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
}

func check(fset *token.FileSet, path string, files []*ast.File, imp types.Importer) (*Package, error) {
	info := newInfo()
	var errs []error
	config := &types.Config{
		Importer: imp,
		Error: func(err error) {
			errs = append(errs, fmt.Errorf("%w: %v", ErrLoad, err))
		},
	}
	pkg, _ := config.Check(path, fset, files, info)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Package{
		Path:  path,
		Name:  pkg.Name(),
		Fset:  fset,
		Files: files,
		Types: pkg,
		Info:  info,
	}, nil
}

// sourceImporter resolves lang from its embedded sources.
type sourceImporter struct {
	fset *token.FileSet
	std  types.Importer
	lang *types.Package
}

func newImporter(fset *token.FileSet) *sourceImporter {
	return &sourceImporter{fset: fset, std: importer.Default()}
}

func (i *sourceImporter) Import(path string) (*types.Package, error) {
	if path != lang.Path {
		return i.std.Import(path)
	}
	if i.lang != nil {
		return i.lang, nil
	}
	entries, err := fs.ReadDir(lang.Sources, ".")
	if err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, entry := range entries {
		src, err := fs.ReadFile(lang.Sources, entry.Name())
		if err != nil {
			return nil, err
		}
		file, err := parser.ParseFile(i.fset, lang.Path+"/"+entry.Name(), src, 0)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	pkg, err := check(i.fset, lang.Path, files, i.std)
	if err != nil {
		return nil, err
	}
	i.lang = pkg.Types
	return i.lang, nil
}
