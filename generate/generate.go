// Package generate drives the pipeline: it analyzes every shader definition
// of a set of packages, builds each one for its backends and optionally
// validates the results.
package generate

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikki93/gxsl/analyze"
	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/frontend"
	"github.com/nikki93/gxsl/gxlog"
	"github.com/nikki93/gxsl/registry"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
	"github.com/nikki93/gxsl/validate"
)

// Options configure a Generator.
type Options struct {
	// Backends overrides the backends of every class when non-empty. Names
	// are matched case-insensitively; a name that is not a backend fails
	// every class with GXSL1014 and the run goes on.
	Backends []shader.Name
	// Concurrency bounds how many classes are generated at once. Zero means
	// GOMAXPROCS.
	Concurrency int
	// Validator validates every generated source. Nil disables validation.
	Validator *validate.Pool
}

// Generator runs the pipeline over one type mapping registry. A Generator
// may be used for several runs; diagnostics of all of them go to the same
// reporter.
type Generator struct {
	analyzer *analyze.Analyzer
	backends *registry.Registry
	reporter *diag.Reporter
	options  Options
}

func New(types *typemap.Registry, reporter *diag.Reporter, options Options) *Generator {
	if options.Concurrency <= 0 {
		options.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		analyzer: analyze.New(types),
		backends: registry.New(types),
		reporter: reporter,
		options:  options,
	}
}

// Reporter returns the sink diagnostics are reported to.
func (g *Generator) Reporter() *diag.Reporter {
	return g.reporter
}

// Result is what was generated for one shader definition.
type Result struct {
	Class  *decl.Class
	Shader shader.GeneratedShader
	// Validated reports, per source, whether a validator ran and passed.
	Validated []bool
	// Diagnostics holds everything reported for the class, in pipeline
	// order: analysis, then each backend in order.
	Diagnostics diag.List
}

// Generated reports whether the class got as far as its backends.
func (r *Result) Generated() bool {
	return len(r.Shader.Sources) > 0
}

// Run generates every shader definition in pkgs. Results follow package
// order, then declaration order. The only error returned is ctx's.
func (g *Generator) Run(ctx context.Context, pkgs []*frontend.Package) ([]*Result, error) {
	var specs []*frontend.ClassSpec
	for _, pkg := range pkgs {
		specs = append(specs, frontend.Discover(pkg)...)
	}
	start := time.Now()
	gxlog.Logger().Debug("run", "packages", len(pkgs), "classes", len(specs))

	results := make([]*Result, len(specs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.options.Concurrency)
	for i, spec := range specs {
		if err := groupCtx.Err(); err != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = g.Class(groupCtx, spec)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gxlog.Logger().Info("run finished",
		"classes", len(results),
		"errors", g.reporter.Count(diag.Error),
		"warnings", g.reporter.Count(diag.Warning),
		"elapsed", time.Since(start))
	return results, nil
}

// Class generates one shader definition. Its diagnostics are reported and
// also returned in the result.
func (g *Generator) Class(ctx context.Context, spec *frontend.ClassSpec) *Result {
	class, diags := g.analyzer.Analyze(spec)
	result := &Result{
		Class: class,
		Shader: shader.GeneratedShader{
			Namespace: class.Package,
			Name:      class.Name,
			Stage:     class.Stage,
		},
	}
	report := func(ds diag.List) {
		result.Diagnostics = append(result.Diagnostics, ds...)
		g.reporter.Report(ds...)
	}
	report(diags)
	logger := gxlog.Logger().With("shader", class.QualifiedName())

	if !class.IsValidForGeneration() {
		logger.Debug("not generated", "errors", len(diags))
		return result
	}
	targets := class.Targets
	if len(g.options.Backends) > 0 {
		targets = make([]shader.Name, 0, len(g.options.Backends))
		var unknown diag.List
		for _, name := range g.options.Backends {
			canonical, ok := registry.Lookup(string(name))
			if !ok {
				unknown = append(unknown, diag.Errorf(diag.UnknownBackend, class.Pos, "unknown backend name %s", name).
					In(class.QualifiedName(), ""))
				continue
			}
			targets = append(targets, canonical)
		}
		if len(unknown) > 0 {
			report(unknown)
			logger.Debug("not generated", "errors", len(unknown))
			return result
		}
	}

	sources := make([]shader.GeneratedShaderSource, len(targets))
	validated := make([]bool, len(targets))
	backendDiags := make([]diag.List, len(targets))
	group := &errgroup.Group{}
	for i, name := range targets {
		group.Go(func() error {
			sources[i], validated[i], backendDiags[i] = g.build(ctx, class, name)
			return nil
		})
	}
	group.Wait()
	for _, ds := range backendDiags {
		report(ds)
	}
	result.Shader.Sources = sources
	result.Validated = validated
	return result
}

// build runs one backend for class, then validates what it produced.
func (g *Generator) build(ctx context.Context, class *decl.Class, name shader.Name) (shader.GeneratedShaderSource, bool, diag.List) {
	logger := gxlog.Logger().With("shader", class.QualifiedName(), "backend", string(name))
	builder, err := g.backends.New(name)
	if err != nil {
		d := diag.Errorf(diag.UnknownBackend, class.Pos, "%v", err).
			In(class.QualifiedName(), string(name))
		return shader.GeneratedShaderSource{Backend: name}, false, diag.List{d}
	}

	start := time.Now()
	diags := builder.BuildGraphics(class)
	if diags.HasErrors() {
		logger.Debug("build failed", "errors", len(diags))
		return builder.ShaderSourceEmpty(), false, diags
	}
	source := builder.ShaderSource()
	logger.Debug("built", "bytes", len(source.Payload()), "elapsed", time.Since(start))

	if g.options.Validator == nil || ctx.Err() != nil {
		return source, false, diags
	}
	ok, validation := g.options.Validator.Validate(ctx, class, source)
	return source, ok, append(diags, validation...)
}
