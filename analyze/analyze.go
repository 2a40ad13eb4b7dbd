// Package analyze turns a discovered shader definition into a validated
// decl.Class.
package analyze

import (
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/frontend"
	"github.com/nikki93/gxsl/registry"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
)

// EntryName is the name of the entry method of every shader definition.
const EntryName = "Main"

// Struct tag keys of member markers.
const (
	tagIn      = "in"
	tagOut     = "out"
	tagUniform = "uniform"
	tagStage   = "stage"
)

// Analyzer checks shader definitions against a type mapping registry.
type Analyzer struct {
	types *typemap.Registry
}

func New(types *typemap.Registry) *Analyzer {
	return &Analyzer{types: types}
}

// analysis is the state of one Analyze call.
type analysis struct {
	*Analyzer
	spec  *frontend.ClassSpec
	fset  *token.FileSet
	info  *types.Info
	class *decl.Class
	diags diag.List
}

func (a *analysis) errorf(id diag.ID, pos token.Pos, format string, args ...interface{}) {
	a.diags = append(a.diags, diag.Errorf(id, a.fset.PositionFor(pos, true), format, args...).In(a.class.QualifiedName(), ""))
	a.class.Valid = false
}

// Analyze builds the declaration model of spec. It always returns a class;
// the class is valid for generation only if no error was reported.
func (a *Analyzer) Analyze(spec *frontend.ClassSpec) (*decl.Class, diag.List) {
	pkg := spec.Pkg
	an := &analysis{
		Analyzer: a,
		spec:     spec,
		fset:     pkg.Fset,
		info:     pkg.Info,
		class:    decl.NewClass(spec.Spec.Name.Name, pkg.Path, pkg.Fset.PositionFor(spec.Spec.Pos(), true)),
	}
	an.class.Info = pkg.Info
	an.class.Fset = pkg.Fset
	an.run()
	return an.class, an.diags
}

func (a *analysis) run() {
	typeName, ok := a.info.Defs[a.spec.Spec.Name].(*types.TypeName)
	if !ok || typeName == nil {
		a.errorf(diag.Unresolved, a.spec.Spec.Name.Pos(), "cannot resolve type %s", a.spec.Spec.Name.Name)
		return
	}
	structType, ok := typeName.Type().Underlying().(*types.Struct)
	if !ok {
		a.errorf(diag.BadMarker, a.spec.Spec.Name.Pos(), "shader definition %s must be a struct type", typeName.Name())
		return
	}

	a.checkStage()
	a.collectMembers(structType)
	a.checkBindings()
	a.assignLocations()
	a.findEntry()
	a.checkTargets()
}

//
// Stage
//

func (a *analysis) checkStage() {
	pos := a.spec.Spec.Name.Pos()
	if a.spec.Stage == "" {
		a.errorf(diag.UnsupportedStage, pos, "missing stage in //gxsl:shader directive, want vertex or fragment")
		return
	}
	stage, err := shader.ParseStage(a.spec.Stage)
	if err != nil {
		a.errorf(diag.UnsupportedStage, pos, "%v, want vertex or fragment", err)
		return
	}
	if stage != shader.Vertex && stage != shader.Fragment {
		a.errorf(diag.UnsupportedStage, pos, "%s shaders are not supported", stage)
		return
	}
	a.class.Stage = stage
}

//
// Members
//

func (a *analysis) collectMembers(structType *types.Struct) {
	for i := 0; i < structType.NumFields(); i++ {
		a.collectMember(structType.Field(i), structType.Tag(i), i)
	}
}

func (a *analysis) collectMember(field *types.Var, tag string, index int) {
	pos := field.Pos()
	if field.Embedded() {
		a.errorf(diag.BadMarker, pos, "embedded field %s is not supported in a shader definition", field.Name())
		return
	}
	structTag := reflect.StructTag(tag)

	// Classification priority is in, out, uniform, then local.
	var markers []string
	role := decl.Local
	for _, m := range []struct {
		key  string
		role decl.Role
	}{{tagIn, decl.In}, {tagOut, decl.Out}, {tagUniform, decl.Uniform}} {
		if _, ok := structTag.Lookup(m.key); ok {
			if len(markers) == 0 {
				role = m.role
			}
			markers = append(markers, m.key)
		}
	}
	if len(markers) > 1 {
		a.errorf(diag.ConflictingStorage, pos, "member %s has conflicting storage markers %s", field.Name(), strings.Join(markers, ", "))
	}
	for _, key := range []string{tagIn, tagOut} {
		if value, ok := structTag.Lookup(key); ok && value != "" {
			a.errorf(diag.BadMarker, pos, "%s marker of member %s takes no value, got %q", key, field.Name(), value)
		}
	}

	v := decl.NewVariable(field, role, a.fset.PositionFor(pos, true), index)
	a.checkHostType(v)

	stageName, hasStage := structTag.Lookup(tagStage)
	switch role {
	case decl.In, decl.Out:
		if hasStage {
			if stageName == "" {
				stageName = field.Name()
			}
			a.bindStage(v, stageName)
		}
	case decl.Uniform:
		if hasStage {
			a.errorf(diag.StageOnNonIO, pos, "stage marker on uniform member %s", field.Name())
		}
		value, _ := structTag.Lookup(tagUniform)
		v.Binding = a.parseBinding(v, value)
	default:
		if hasStage {
			a.errorf(diag.StageOnNonIO, pos, "stage marker on member %s, which is neither in nor out", field.Name())
		}
	}
	a.class.Add(v)
}

// checkHostType checks that v's type is in the host-type vocabulary of at
// least one backend and legal for its role. Per-backend gaps are left to the
// builders.
func (a *analysis) checkHostType(v *decl.Variable) {
	pos := v.Object().Pos()
	if basic, ok := v.Type.(*types.Basic); ok && basic.Kind() == types.Invalid {
		a.errorf(diag.Unresolved, pos, "cannot resolve the type of member %s", v.Name)
		return
	}
	if v.Ref == nil {
		a.errorf(diag.UnknownHostType, pos, "member %s has type %s, which no backend can represent", v.Name, typeString(v.Type))
		return
	}
	for _, h := range v.Ref.Hosts() {
		if !a.types.Known(h) {
			a.errorf(diag.UnknownHostType, pos, "member %s uses %s, which no backend maps", v.Name, h)
			return
		}
	}
	switch v.Role {
	case decl.In, decl.Out:
		if v.Ref.Host == "" {
			a.errorf(diag.UnknownHostType, pos, "%s member %s must have a scalar, vector or matrix type, got %s", v.Role, v.Name, typeString(v.Type))
		} else if v.Opaque() {
			a.errorf(diag.UnknownHostType, pos, "%s member %s cannot be a sampler", v.Role, v.Name)
		}
	case decl.Local:
		if v.Opaque() {
			a.errorf(diag.UnknownHostType, pos, "sampler member %s must be a uniform", v.Name)
		}
	}
}

func (a *analysis) bindStage(v *decl.Variable, name string) {
	pos := v.Object().Pos()
	usage := typemap.Usage{Stage: a.class.Stage, Dir: typemap.In}
	existing := a.class.StageInputs
	if v.Role == decl.Out {
		usage.Dir = typemap.Out
		existing = a.class.StageOutputs
	}
	v.Stage = &decl.StageVariable{Name: name}

	if prev, ok := existing[name]; ok {
		a.errorf(diag.DuplicateSemantic, pos, "semantic %s of member %s already used by %s", name, v.Name, prev.Name)
		return
	}
	existing[name] = v

	sem, ok := a.types.Semantic(name)
	if !ok {
		a.errorf(diag.UnknownSemantic, pos, "unknown semantic %s on member %s", name, v.Name)
		return
	}
	v.Stage.Semantic = sem
	if a.stageKnown() && !sem.Allows(usage) {
		a.errorf(diag.SemanticWrongStage, pos, "semantic %s cannot be a %s %s", name, usage.Stage, usage.Dir)
	}
	if h := typemap.HostTypeOf(v.Type); !sem.Accepts(h) {
		a.errorf(diag.SemanticTypeMismatch, pos, "semantic %s requires %s, member %s has %s", name, hostList(sem.Types), v.Name, typeString(v.Type))
	}
}

// stageKnown reports whether the stage directive parsed to a supported stage.
func (a *analysis) stageKnown() bool {
	stage, err := shader.ParseStage(a.spec.Stage)
	return err == nil && (stage == shader.Vertex || stage == shader.Fragment)
}

//
// Bindings
//

func (a *analysis) parseBinding(v *decl.Variable, value string) *decl.Binding {
	pos := v.Object().Pos()
	fields := make(map[string]string)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		switch {
		case !ok:
			a.errorf(diag.BadMarker, pos, "uniform marker of %s: expected key=value, got %q", v.Name, part)
		case key != "set" && key != "binding" && key != "unique":
			a.errorf(diag.BadMarker, pos, "uniform marker of %s: unknown key %q", v.Name, key)
		default:
			fields[key] = strings.TrimSpace(val)
		}
	}

	number := func(key string) (int, bool, bool) {
		s, present := fields[key]
		if !present {
			return 0, false, true
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, true, false
		}
		return n, true, true
	}

	binding := &decl.Binding{}
	set, present, valid := number("set")
	if !present || !valid {
		a.errorf(diag.MissingBinding, pos, "uniform %s needs a non-negative set", v.Name)
	}
	binding.Set = set
	b, present, valid := number("binding")
	if !present || !valid {
		a.errorf(diag.MissingBinding, pos, "uniform %s needs a non-negative binding", v.Name)
	}
	binding.Binding = b
	unique, present, valid := number("unique")
	switch {
	case !valid:
		a.errorf(diag.MissingUniqueBinding, pos, "uniform %s has an invalid unique binding %q", v.Name, fields["unique"])
	case present:
		binding.UniqueBinding = unique
	case binding.Set == 0:
		binding.UniqueBinding = binding.Binding
	default:
		a.errorf(diag.MissingUniqueBinding, pos, "uniform %s in set %d needs an explicit unique binding", v.Name, binding.Set)
	}
	return binding
}

func (a *analysis) checkBindings() {
	type setBinding struct{ set, binding int }
	bySetBinding := make(map[setBinding]*decl.Variable)
	byUnique := make(map[int]*decl.Variable)
	for _, v := range a.class.Uniforms {
		pos := v.Object().Pos()
		key := setBinding{v.Binding.Set, v.Binding.Binding}
		if prev, ok := bySetBinding[key]; ok {
			a.errorf(diag.DuplicateSetBinding, pos, "duplicate set %d binding %d: %s and %s", key.set, key.binding, prev.Name, v.Name)
		} else {
			bySetBinding[key] = v
		}
		if prev, ok := byUnique[v.Binding.UniqueBinding]; ok {
			a.errorf(diag.DuplicateUnique, pos, "duplicate unique binding %d: %s and %s", v.Binding.UniqueBinding, prev.Name, v.Name)
		} else {
			byUnique[v.Binding.UniqueBinding] = v
		}
	}
}

//
// Locations
//

// assignLocations numbers the In and Out members that are not builtins.
// Located semantics keep their fixed location and the others fill the gaps
// in declaration order.
func (a *analysis) assignLocations() {
	assign := func(vars []*decl.Variable) {
		reserved := make(map[int]bool)
		for _, v := range vars {
			if v.Stage != nil && v.Stage.Semantic != nil && v.Stage.Semantic.Location >= 0 {
				v.Location = v.Stage.Semantic.Location
				reserved[v.Location] = true
			}
		}
		next := 0
		for _, v := range vars {
			if v.Stage != nil {
				continue
			}
			for reserved[next] {
				next++
			}
			v.Location = next
			next++
		}
	}
	assign(a.class.In)
	assign(a.class.Out)
}

//
// Entry
//

func (a *analysis) findEntry() {
	for _, method := range a.spec.Methods {
		if method.Name.Name != EntryName {
			continue
		}
		fn, ok := a.info.Defs[method.Name].(*types.Func)
		if !ok {
			a.errorf(diag.Unresolved, method.Name.Pos(), "cannot resolve method %s", EntryName)
			return
		}
		sig := fn.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 0 {
			a.errorf(diag.BadEntrySignature, method.Name.Pos(), "entry method %s must have no parameters and no results", EntryName)
		}
		if method.Body == nil {
			a.errorf(diag.BadEntrySignature, method.Name.Pos(), "entry method %s has no body", EntryName)
		}
		entry := &decl.Entry{Name: EntryName, Decl: method, Pos: a.fset.PositionFor(method.Name.Pos(), true)}
		if names := method.Recv.List[0].Names; len(names) == 1 && names[0].Name != "_" {
			entry.Recv, _ = a.info.Defs[names[0]].(*types.Var)
		}
		a.class.Entry = entry
		return
	}
	a.errorf(diag.NoEntryMethod, a.spec.Spec.Name.Pos(), "shader definition %s has no %s method", a.class.Name, EntryName)
}

//
// Targets
//

func (a *analysis) checkTargets() {
	if len(a.spec.Backends) == 0 {
		a.class.Targets = registry.Defaults()
		return
	}
	pos := a.spec.Spec.Name.Pos()
	for _, name := range registry.Split(strings.Join(a.spec.Backends, ",")) {
		if !registry.IsBackendNameValid(name) {
			a.errorf(diag.UnknownBackend, pos, "unknown backend name %s", name)
			continue
		}
		a.class.Targets = append(a.class.Targets, name)
	}
}

//
// Utilities
//

func typeString(t types.Type) string {
	return types.TypeString(t, func(pkg *types.Package) string { return pkg.Name() })
}

func hostList(hosts []typemap.HostType) string {
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = string(h)
		if j := strings.LastIndex(names[i], "/"); j >= 0 {
			names[i] = names[i][j+1:]
		}
	}
	sort.Strings(names)
	return strings.Join(names, " or ")
}
