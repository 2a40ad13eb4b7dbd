package backend

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/typemap"
)

// Dialect is what the translator needs to know about a target language
// beyond its typemap entry.
type Dialect interface {
	// Ident spells a Go identifier, escaping dialect keywords.
	Ident(name string) string
	// Member spells an access to the class member v.
	Member(v *decl.Variable) string
	// ArrayType spells a fixed-length array type, or returns "" if the
	// dialect cannot name array types in expressions.
	ArrayType(elem string, n int64) string
	// Declare spells the declaration of a local variable of type typ, or of
	// an array of n typ if n >= 0.
	Declare(name, typ string, n int64) string
	// Zero spells the zero value of ref.
	Zero(t *Translator, ref *typemap.Ref) (string, bool)
	// Construct spells a value of the vector, matrix or struct type ref
	// built from args.
	Construct(ref *typemap.Ref, typ string, args []string) (string, bool)
	// Sample spells a texture sample of the sampler member v.
	Sample(v *decl.Variable, call typemap.Call, coord string) string
	// Column spells column i of matrix m.
	Column(m, i string) string
	// Return spells the return statement of the entry function.
	Return() string
}

// Translator writes the body of an entry method in a dialect.
type Translator struct {
	*Writer
	Class   *decl.Class
	Types   *typemap.Backend
	Dialect Dialect

	info  *types.Info
	diags diag.List
}

func NewTranslator(w *Writer, class *decl.Class, types *typemap.Backend, dialect Dialect) *Translator {
	return &Translator{Writer: w, Class: class, Types: types, Dialect: dialect, info: class.Info}
}

func (t *Translator) errorf(id diag.ID, pos token.Pos, format string, args ...interface{}) {
	position := t.Class.Fset.PositionFor(pos, true)
	t.diags = append(t.diags, diag.Errorf(id, position, format, args...).In(t.Class.QualifiedName(), string(t.Types.Name)))
}

func (t *Translator) unsupported(node ast.Node, what string) {
	t.errorf(diag.UnsupportedConstruct, node.Pos(), "%s is not supported by %s", what, t.Types.Name)
}

// Diagnostics returns everything reported while translating.
func (t *Translator) Diagnostics() diag.List {
	return t.diags
}

// Body writes the statements of the entry method body.
func (t *Translator) Body() {
	if t.Class.Entry == nil || t.Class.Entry.Decl.Body == nil {
		return
	}
	t.writeStmtList(t.Class.Entry.Decl.Body.List)
}

//
// Types
//

// Spell returns the dialect name of ref.
func (t *Translator) Spell(ref *typemap.Ref) (string, bool) {
	switch {
	case ref == nil:
		return "", false
	case ref.IsArray():
		elem, ok := t.Spell(ref.Elem)
		if !ok {
			return "", false
		}
		typ := t.Dialect.ArrayType(elem, ref.Len)
		return typ, typ != ""
	case ref.IsStruct():
		return t.Dialect.Ident(ref.Struct.Obj().Name()), true
	}
	return t.Types.TypeName(ref.Host)
}

func (t *Translator) spellType(typ types.Type, pos token.Pos) (string, *typemap.Ref, bool) {
	ref := typemap.Resolve(typ)
	name, ok := t.Spell(ref)
	if !ok {
		t.errorf(diag.UnmappedType, pos, "%s has no mapping for %s", t.Types.Name, types.TypeString(typ, shortQualifier))
	}
	return name, ref, ok
}

// Structs returns the user struct types the class members and entry body
// use, dependencies first.
func Structs(class *decl.Class) []*typemap.Ref {
	var result []*typemap.Ref
	seen := make(map[*types.Named]bool)
	add := func(ref *typemap.Ref) {
		if ref == nil {
			return
		}
		for _, s := range ref.Structs() {
			if !seen[s.Struct] {
				seen[s.Struct] = true
				result = append(result, s)
			}
		}
	}
	for _, v := range class.Variables() {
		add(v.Ref)
	}
	if class.Entry != nil && class.Entry.Decl.Body != nil {
		ast.Inspect(class.Entry.Decl.Body, func(node ast.Node) bool {
			if ident, ok := node.(*ast.Ident); ok {
				if obj, ok := class.Info.Defs[ident].(*types.Var); ok {
					add(typemap.Resolve(obj.Type()))
				}
			}
			return true
		})
	}
	return result
}

//
// Constants
//

// Constant spells a constant of type typ.
func Constant(val constant.Value, typ types.Type) (string, bool) {
	basic, _ := typ.Underlying().(*types.Basic)
	switch val.Kind() {
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(val)), true
	case constant.Int, constant.Float:
		if basic == nil {
			return "", false
		}
		info := basic.Info()
		switch {
		case info&types.IsFloat != 0:
			f, _ := constant.Float64Val(val)
			bits := 64
			if basic.Kind() == types.Float32 || basic.Kind() == types.UntypedFloat {
				bits = 32
			}
			return parenNegative(FloatLiteral(f, bits)), true
		case info&types.IsUnsigned != 0:
			u, ok := constant.Uint64Val(constant.ToInt(val))
			if !ok {
				return "", false
			}
			return strconv.FormatUint(u, 10) + "u", true
		case info&types.IsInteger != 0:
			i, ok := constant.Int64Val(constant.ToInt(val))
			if !ok {
				return "", false
			}
			return parenNegative(strconv.FormatInt(i, 10)), true
		}
	}
	return "", false
}

// ScalarZero spells the zero value of a scalar kind.
func ScalarZero(kind typemap.ScalarKind) string {
	switch kind {
	case typemap.Float, typemap.Double:
		return "0.0"
	case typemap.Uint:
		return "0u"
	case typemap.Boolean:
		return "false"
	}
	return "0"
}

// FloatLiteral spells f so that it always reads as a floating-point literal.
func FloatLiteral(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".nN") {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

func parenNegative(s string) string {
	if strings.HasPrefix(s, "-") {
		return "(" + s + ")"
	}
	return s
}

//
// Expressions
//

// recv reports whether expr is the entry method receiver.
func (t *Translator) recv(expr ast.Expr) bool {
	ident, ok := ast.Unparen(expr).(*ast.Ident)
	return ok && t.Class.Entry.Recv != nil && t.info.Uses[ident] == t.Class.Entry.Recv
}

// member returns the class member expr refers to, if it is a direct field
// selection on the receiver.
func (t *Translator) member(expr ast.Expr) (*decl.Variable, bool) {
	sel, ok := ast.Unparen(expr).(*ast.SelectorExpr)
	if !ok || !t.recv(sel.X) {
		return nil, false
	}
	field, ok := t.info.Uses[sel.Sel].(*types.Var)
	if !ok {
		return nil, false
	}
	return t.Class.Field(field)
}

func (t *Translator) expr(expr ast.Expr) string {
	w := t.Writer
	t.Writer = NewWriter()
	t.writeExpr(expr)
	s := t.Writer.String()
	t.Writer = w
	return s
}

func (t *Translator) writeIdent(ident *ast.Ident) {
	switch obj := t.info.Uses[ident].(type) {
	case *types.Var:
		if obj == t.Class.Entry.Recv {
			t.unsupported(ident, "using the receiver as a value")
			return
		}
		if obj.Parent() == obj.Pkg().Scope() {
			t.unsupported(ident, "package-level variable "+ident.Name)
			return
		}
		t.Write(t.Dialect.Ident(ident.Name))
	case nil:
		if obj := t.info.Defs[ident]; obj != nil {
			t.Write(t.Dialect.Ident(ident.Name))
			return
		}
		t.unsupported(ident, "identifier "+ident.Name)
	default:
		t.unsupported(ident, "identifier "+ident.Name)
	}
}

func (t *Translator) writeCompositeLit(lit *ast.CompositeLit) {
	typ := t.info.TypeOf(lit)
	name, ref, ok := t.spellType(typ, lit.Pos())
	if !ok {
		return
	}
	if ref.IsArray() {
		t.unsupported(lit, "array literal")
		return
	}

	var fields []*types.Var
	if structType, ok := typ.Underlying().(*types.Struct); ok {
		for i := 0; i < structType.NumFields(); i++ {
			fields = append(fields, structType.Field(i))
		}
	} else if arrayType, ok := typ.Underlying().(*types.Array); ok {
		// Matrices are arrays of columns.
		for i := int64(0); i < arrayType.Len(); i++ {
			fields = append(fields, types.NewVar(token.NoPos, nil, "", arrayType.Elem()))
		}
	}
	args := make([]ast.Expr, len(fields))
	for i, elt := range lit.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			key, _ := kv.Key.(*ast.Ident)
			index := -1
			for j, field := range fields {
				if key != nil && field.Name() == key.Name {
					index = j
				}
			}
			if index < 0 {
				t.unsupported(kv, "composite literal key")
				return
			}
			args[index] = kv.Value
		} else if i < len(args) {
			args[i] = elt
		}
	}

	values := make([]string, len(args))
	for i, arg := range args {
		if arg != nil {
			values[i] = t.expr(arg)
			continue
		}
		zero, ok := t.Dialect.Zero(t, typemap.Resolve(fields[i].Type()))
		if !ok {
			t.unsupported(lit, "zero value of "+types.TypeString(fields[i].Type(), shortQualifier))
			return
		}
		values[i] = zero
	}
	result, ok := t.Dialect.Construct(ref, name, values)
	if !ok {
		t.unsupported(lit, "composite literal of "+name)
		return
	}
	t.Write(result)
}

func (t *Translator) writeParenExpr(paren *ast.ParenExpr) {
	t.Write("(")
	t.writeExpr(paren.X)
	t.Write(")")
}

func (t *Translator) writeSelectorExpr(sel *ast.SelectorExpr) {
	selection, ok := t.info.Selections[sel]
	if !ok || selection.Kind() != types.FieldVal {
		t.unsupported(sel, "selector "+sel.Sel.Name)
		return
	}
	if t.recv(sel.X) {
		if v, ok := t.member(sel); ok {
			t.Write(t.Dialect.Member(v))
		} else {
			t.unsupported(sel, "field "+sel.Sel.Name)
		}
		return
	}
	t.writeExpr(sel.X)
	if shape, ok := typemap.ShapeOf(typemap.HostTypeOf(t.info.TypeOf(sel.X))); ok && shape.Kind == typemap.Vector {
		t.Write("." + strings.ToLower(sel.Sel.Name))
		return
	}
	t.Write("." + t.Dialect.Ident(sel.Sel.Name))
}

func (t *Translator) writeIndexExpr(ind *ast.IndexExpr) {
	if shape, ok := typemap.ShapeOf(typemap.HostTypeOf(t.info.TypeOf(ind.X))); ok && shape.Kind == typemap.Matrix {
		t.Write(t.Dialect.Column(t.expr(ind.X), t.expr(ind.Index)))
		return
	}
	if _, ok := t.info.TypeOf(ind.X).Underlying().(*types.Array); !ok {
		t.unsupported(ind, "index expression")
		return
	}
	t.writeExpr(ind.X)
	t.Write("[")
	t.writeExpr(ind.Index)
	t.Write("]")
}

func (t *Translator) writeCallExpr(call *ast.CallExpr) {
	funType := t.info.Types[call.Fun]
	if funType.IsType() { // Conversion
		name, ref, ok := t.spellType(funType.Type, call.Fun.Pos())
		if !ok {
			return
		}
		if types.Identical(funType.Type, t.info.TypeOf(call.Args[0])) || ref.Host == "" {
			t.writeExpr(call.Args[0])
			return
		}
		t.Write(name)
		t.Write("(")
		t.writeExpr(call.Args[0])
		t.Write(")")
		return
	}
	if funType.IsBuiltin() {
		t.unsupported(call, "builtin function")
		return
	}

	var fn *types.Func
	var args []ast.Expr
	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.Ident:
		fn, _ = t.info.Uses[fun].(*types.Func)
	case *ast.SelectorExpr:
		fn, _ = t.info.Uses[fun.Sel].(*types.Func)
		if sel, ok := t.info.Selections[fun]; ok && sel.Kind() == types.MethodVal {
			args = append(args, fun.X)
		}
	}
	if fn == nil {
		t.unsupported(call, "call expression")
		return
	}
	args = append(args, call.Args...)
	entry, ok := t.Types.Call(fn)
	if !ok {
		t.errorf(diag.UnsupportedConstruct, call.Pos(), "%s has no %s equivalent", fn.FullName(), t.Types.Name)
		return
	}

	switch entry.Kind {
	case typemap.CallFunc:
		t.Write(entry.Spelling)
		t.writeArgs(args)
	case typemap.CallConstruct:
		name, _, ok := t.spellType(t.info.TypeOf(call), call.Pos())
		if !ok {
			return
		}
		t.Write(name)
		t.writeArgs(args)
	case typemap.CallInfix:
		t.Write("(")
		t.writeOperand(args[0])
		t.Write(" " + entry.Spelling + " ")
		t.writeOperand(args[1])
		t.Write(")")
	case typemap.CallPrefix:
		t.Write("(" + entry.Spelling)
		t.writeOperand(args[0])
		t.Write(")")
	case typemap.CallSwizzle:
		t.writeOperand(args[0])
		t.Write("." + entry.Spelling)
	case typemap.CallConstant, typemap.CallStatement:
		t.Write(entry.Spelling)
	case typemap.CallSample:
		v, ok := t.member(args[0])
		if !ok || !v.Opaque() {
			t.unsupported(call, "sampling a sampler that is not a uniform member")
			return
		}
		t.Write(t.Dialect.Sample(v, entry, t.expr(args[1])))
	}
}

func (t *Translator) writeArgs(args []ast.Expr) {
	t.Write("(")
	for i, arg := range args {
		if i > 0 {
			t.Write(", ")
		}
		t.writeExpr(arg)
	}
	t.Write(")")
}

// writeOperand writes an operand of an operator, parenthesized if it is a
// binary expression, since Go and C-family precedences differ.
func (t *Translator) writeOperand(expr ast.Expr) {
	if _, ok := expr.(*ast.BinaryExpr); ok && t.info.Types[expr].Value == nil {
		t.Write("(")
		t.writeExpr(expr)
		t.Write(")")
		return
	}
	t.writeExpr(expr)
}

func (t *Translator) writeUnaryExpr(un *ast.UnaryExpr) {
	switch op := un.Op; op {
	case token.ADD, token.SUB, token.NOT:
		t.Write(op.String())
	case token.XOR:
		t.Write("~")
	default:
		t.errorf(diag.UnsupportedConstruct, un.OpPos, "unary operator %s is not supported by %s", op, t.Types.Name)
		return
	}
	if _, ok := un.X.(*ast.UnaryExpr); ok {
		t.Write("(")
		t.writeExpr(un.X)
		t.Write(")")
		return
	}
	t.writeOperand(un.X)
}

func (t *Translator) writeBinaryExpr(bin *ast.BinaryExpr) {
	t.writeOperand(bin.X)
	t.Write(" ")
	switch op := bin.Op; op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ,
		token.ADD, token.SUB, token.MUL, token.QUO, token.REM,
		token.AND, token.OR, token.XOR, token.SHL, token.SHR,
		token.LAND, token.LOR:
		t.Write(op.String())
	default:
		t.errorf(diag.UnsupportedConstruct, bin.OpPos, "binary operator %s is not supported by %s", op, t.Types.Name)
	}
	t.Write(" ")
	t.writeOperand(bin.Y)
}

func (t *Translator) writeExpr(expr ast.Expr) {
	if tv, ok := t.info.Types[expr]; ok && tv.Value != nil {
		if s, ok := Constant(tv.Value, tv.Type); ok {
			t.Write(s)
		} else {
			t.unsupported(expr, "constant "+tv.Value.ExactString())
		}
		return
	}
	switch expr := expr.(type) {
	case *ast.Ident:
		t.writeIdent(expr)
	case *ast.CompositeLit:
		t.writeCompositeLit(expr)
	case *ast.ParenExpr:
		t.writeParenExpr(expr)
	case *ast.SelectorExpr:
		t.writeSelectorExpr(expr)
	case *ast.IndexExpr:
		t.writeIndexExpr(expr)
	case *ast.CallExpr:
		t.writeCallExpr(expr)
	case *ast.UnaryExpr:
		t.writeUnaryExpr(expr)
	case *ast.BinaryExpr:
		t.writeBinaryExpr(expr)
	default:
		t.unsupported(expr, "expression")
	}
}

//
// Statements
//

func (t *Translator) writeExprStmt(exprStmt *ast.ExprStmt) {
	t.writeExpr(exprStmt.X)
}

// Declaration spells the declaration of a variable of type ref.
func (t *Translator) Declaration(name string, ref *typemap.Ref) (string, bool) {
	if ref != nil && ref.IsArray() {
		elem, ok := t.Spell(ref.Elem)
		if !ok {
			return "", false
		}
		return t.Dialect.Declare(t.Dialect.Ident(name), elem, ref.Len), true
	}
	typ, ok := t.Spell(ref)
	if !ok {
		return "", false
	}
	return t.Dialect.Declare(t.Dialect.Ident(name), typ, -1), true
}

// declaration spells the declaration of the local ident.
func (t *Translator) declaration(ident *ast.Ident) (string, *types.Var, bool) {
	obj, ok := t.info.Defs[ident].(*types.Var)
	if !ok {
		t.unsupported(ident, "declaration")
		return "", nil, false
	}
	decl, ok := t.Declaration(ident.Name, typemap.Resolve(obj.Type()))
	if !ok {
		t.errorf(diag.UnmappedType, ident.Pos(), "%s has no mapping for %s", t.Types.Name, types.TypeString(obj.Type(), shortQualifier))
		return "", nil, false
	}
	return decl, obj, true
}

func (t *Translator) writeDecl(ident *ast.Ident, value ast.Expr) {
	decl, obj, ok := t.declaration(ident)
	if !ok {
		return
	}
	t.Write(decl)
	t.Write(" = ")
	if value != nil {
		t.writeExpr(value)
		return
	}
	zero, ok := t.Dialect.Zero(t, typemap.Resolve(obj.Type()))
	if !ok {
		t.unsupported(ident, "zero value of "+types.TypeString(obj.Type(), shortQualifier))
		return
	}
	t.Write(zero)
}

func (t *Translator) writeAssignStmt(assignStmt *ast.AssignStmt) {
	if len(assignStmt.Lhs) != 1 || len(assignStmt.Rhs) != 1 {
		t.unsupported(assignStmt, "multi-value assignment")
		return
	}
	lhs := assignStmt.Lhs[0]
	if assignStmt.Tok == token.DEFINE {
		ident, ok := lhs.(*ast.Ident)
		if !ok || ident.Name == "_" {
			t.unsupported(assignStmt, "blank declaration")
			return
		}
		t.writeDecl(ident, assignStmt.Rhs[0])
		return
	}
	if root := rootOf(lhs); root != nil {
		if v, ok := t.member(root); ok && v.Role == decl.In {
			t.errorf(diag.UnsupportedConstruct, lhs.Pos(), "cannot assign to input member %s", v.Name)
			return
		}
	}
	t.writeExpr(lhs)
	t.Write(" ")
	switch op := assignStmt.Tok; op {
	case token.ASSIGN,
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN, token.QUO_ASSIGN, token.REM_ASSIGN,
		token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN:
		t.Write(op.String())
	default:
		t.errorf(diag.UnsupportedConstruct, assignStmt.TokPos, "assignment operator %s is not supported by %s", op, t.Types.Name)
	}
	t.Write(" ")
	t.writeExpr(assignStmt.Rhs[0])
}

// rootOf returns the receiver field selection an assignment target is
// rooted at, if any.
func rootOf(expr ast.Expr) ast.Expr {
	for {
		switch e := ast.Unparen(expr).(type) {
		case *ast.SelectorExpr:
			if ident, ok := ast.Unparen(e.X).(*ast.Ident); ok && ident != nil {
				return e
			}
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		default:
			return nil
		}
	}
}

func (t *Translator) writeIncDecStmt(incDec *ast.IncDecStmt) {
	t.writeExpr(incDec.X)
	t.Write(incDec.Tok.String())
}

func (t *Translator) writeDeclStmt(declStmt *ast.DeclStmt) {
	genDecl := declStmt.Decl.(*ast.GenDecl)
	if genDecl.Tok != token.VAR {
		t.unsupported(declStmt, genDecl.Tok.String()+" declaration")
		return
	}
	first := true
	for _, spec := range genDecl.Specs {
		valueSpec := spec.(*ast.ValueSpec)
		if len(valueSpec.Values) > 0 && len(valueSpec.Values) != len(valueSpec.Names) {
			t.unsupported(valueSpec, "multi-value declaration")
			continue
		}
		for i, name := range valueSpec.Names {
			if !first {
				t.Write(";\n")
			}
			first = false
			var value ast.Expr
			if len(valueSpec.Values) > 0 {
				value = valueSpec.Values[i]
			}
			t.writeDecl(name, value)
		}
	}
}

func (t *Translator) writeReturnStmt(retStmt *ast.ReturnStmt) {
	t.Write(t.Dialect.Return())
}

func (t *Translator) writeBranchStmt(branchStmt *ast.BranchStmt) {
	switch tok := branchStmt.Tok; tok {
	case token.BREAK, token.CONTINUE:
		if branchStmt.Label != nil {
			t.unsupported(branchStmt, "labeled "+tok.String())
			return
		}
		t.Write(tok.String())
	default:
		t.errorf(diag.UnsupportedConstruct, branchStmt.TokPos, "%s is not supported by %s", tok, t.Types.Name)
	}
}

func (t *Translator) writeBlockStmt(block *ast.BlockStmt) {
	t.Write("{\n")
	t.Indent()
	t.writeStmtList(block.List)
	t.Dedent()
	t.Write("}")
	t.atBlockEnd = true
}

func (t *Translator) writeIfStmt(ifStmt *ast.IfStmt) {
	if ifStmt.Init != nil {
		t.unsupported(ifStmt.Init, "if statement initializer")
		return
	}
	t.Write("if (")
	t.writeExpr(ifStmt.Cond)
	t.Write(") ")
	t.writeBlockStmt(ifStmt.Body)
	if ifStmt.Else != nil {
		t.Write(" else ")
		t.writeStmt(ifStmt.Else)
	}
}

func (t *Translator) writeForStmt(forStmt *ast.ForStmt) {
	if forStmt.Init == nil && forStmt.Post == nil {
		t.Write("while (")
		if forStmt.Cond != nil {
			t.writeExpr(forStmt.Cond)
		} else {
			t.Write("true")
		}
		t.Write(") ")
		t.writeBlockStmt(forStmt.Body)
		return
	}
	t.Write("for (")
	if forStmt.Init != nil {
		t.writeStmt(forStmt.Init)
	}
	t.Write("; ")
	if forStmt.Cond != nil {
		t.writeExpr(forStmt.Cond)
	}
	t.Write("; ")
	if forStmt.Post != nil {
		t.writeStmt(forStmt.Post)
	}
	t.Write(") ")
	t.writeBlockStmt(forStmt.Body)
}

// writeRangeStmt writes `for i := range n` over an integer n.
func (t *Translator) writeRangeStmt(rangeStmt *ast.RangeStmt) {
	basic, ok := t.info.TypeOf(rangeStmt.X).Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsInteger == 0 || rangeStmt.Value != nil {
		t.unsupported(rangeStmt, "range statement over "+types.TypeString(t.info.TypeOf(rangeStmt.X), shortQualifier))
		return
	}
	key, _ := rangeStmt.Key.(*ast.Ident)
	if key == nil || key.Name == "_" || rangeStmt.Tok != token.DEFINE {
		t.unsupported(rangeStmt, "range statement without a declared index")
		return
	}
	decl, obj, ok := t.declaration(key)
	if !ok {
		return
	}
	zero, _ := Constant(constant.MakeInt64(0), obj.Type())
	name := t.Dialect.Ident(key.Name)
	t.Write("for (" + decl + " = " + zero + "; " + name + " < ")
	t.writeExpr(rangeStmt.X)
	t.Write("; " + name + "++) ")
	t.writeBlockStmt(rangeStmt.Body)
}

func (t *Translator) writeStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		t.writeExprStmt(stmt)
	case *ast.AssignStmt:
		t.writeAssignStmt(stmt)
	case *ast.IncDecStmt:
		t.writeIncDecStmt(stmt)
	case *ast.DeclStmt:
		t.writeDeclStmt(stmt)
	case *ast.ReturnStmt:
		t.writeReturnStmt(stmt)
	case *ast.BranchStmt:
		t.writeBranchStmt(stmt)
	case *ast.BlockStmt:
		t.writeBlockStmt(stmt)
	case *ast.IfStmt:
		t.writeIfStmt(stmt)
	case *ast.ForStmt:
		t.writeForStmt(stmt)
	case *ast.RangeStmt:
		t.writeRangeStmt(stmt)
	default:
		t.unsupported(stmt, "statement")
	}
}

func (t *Translator) writeStmtList(list []ast.Stmt) {
	for _, stmt := range list {
		switch stmt := stmt.(type) {
		case *ast.EmptyStmt:
			continue
		case *ast.DeclStmt:
			if genDecl, ok := stmt.Decl.(*ast.GenDecl); ok && genDecl.Tok == token.CONST {
				continue // constants are folded into their uses
			}
		}
		t.writeStmt(stmt)
		if !t.atBlockEnd {
			t.Write(";")
		}
		t.Write("\n")
	}
}

//
// Utilities
//

func shortQualifier(pkg *types.Package) string {
	return pkg.Name()
}
