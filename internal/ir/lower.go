package ir

import (
	"github.com/rixlang/rix/internal/ast"
	"github.com/rixlang/rix/internal/config"
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/registry"
)

// lowerer implements ast.Visitor, accumulating its result in `out` since
// Visitor methods are void by convention (matching the tree-printer's own
// dispatch style) rather than returning a value directly.
type lowerer struct {
	reg *registry.Registry
	out interface{}
	err *diagnostics.DiagnosticError
}

// Lower runs the lowering pass over prog, returning the IR root or the
// first LowerError encountered. reg is consulted read-only, per the
// registry's logically-immutable-during-parse contract.
func Lower(prog *ast.Program, reg *registry.Registry) (*Node, *diagnostics.DiagnosticError) {
	l := &lowerer{reg: reg}
	prog.Accept(l)
	if l.err != nil {
		return nil, l.err
	}
	node, ok := l.out.(*Node)
	if !ok {
		return nil, diagnostics.NewLowerError(diagnostics.WNoLoweringRule,
			diagnostics.Position{}, "", "Program")
	}
	return node, nil
}

var _ ast.Visitor = (*lowerer)(nil)

func (l *lowerer) fail(err *diagnostics.DiagnosticError) {
	if l.err == nil {
		l.err = err
	}
}

func (l *lowerer) pos(n ast.Node) diagnostics.Position {
	t := n.GetToken()
	return diagnostics.Position{Offset: t.Offset, Line: t.Line, Column: t.Column}
}

// lower recurses into a child expression, returning whatever its Visit
// method produced (usually *Node, occasionally a string or *Defer).
func (l *lowerer) lower(e ast.Expression) interface{} {
	if e == nil || l.err != nil {
		return nil
	}
	e.Accept(l)
	return l.out
}

// lowerList maps lower() over es, short-circuiting on the first error.
func (l *lowerer) lowerList(es []ast.Expression) []interface{} {
	out := make([]interface{}, 0, len(es))
	for _, e := range es {
		v := l.lower(e)
		if l.err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

func (l *lowerer) deferred(e ast.Expression) *Defer {
	return &Defer{Body: l.lower(e)}
}

// ---- Program / containers ----

// VisitProgram lowers a one-statement program to that statement's own IR
// node; any other program, or a lone statement that does not lower to a
// *Node, lowers to a BLOCK of DEFERred statements.
func (l *lowerer) VisitProgram(n *ast.Program) {
	if len(n.Body.Statements) == 1 {
		if node, ok := l.lower(n.Body.Statements[0]).(*Node); ok {
			l.out = node
			return
		}
	}
	l.out = l.lower(n.Body)
}

func (l *lowerer) VisitBlockContainer(n *ast.BlockContainer) {
	args := make([]interface{}, 0, len(n.Statements))
	for _, s := range n.Statements {
		args = append(args, l.deferred(s))
		if l.err != nil {
			return
		}
	}
	l.out = &Node{Fn: "BLOCK", Args: args}
}

func (l *lowerer) VisitCaseContainer(n *ast.CaseContainer) {
	var args []interface{}
	for _, c := range n.Clauses {
		if c.Cond != nil {
			args = append(args, l.deferred(c.Cond))
		}
		args = append(args, l.deferred(c.Result))
		if l.err != nil {
			return
		}
	}
	l.out = &Node{Fn: "CASE", Args: args}
}

func (l *lowerer) VisitLoopContainer(n *ast.LoopContainer) {
	args := []interface{}{l.deferred(n.Init), l.deferred(n.Cond), l.deferred(n.Body), l.deferred(n.Step)}
	l.out = &Node{Fn: "LOOP", Args: args}
}

func (l *lowerer) VisitDeferredBlock(n *ast.DeferredBlock) {
	l.out = l.deferred(n.Body)
}

func (l *lowerer) VisitArray(n *ast.Array) {
	elems := l.lowerList(n.Elements)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "ARRAY", Args: elems}
}

func (l *lowerer) VisitMatrix(n *ast.Matrix) {
	rows := make([]interface{}, 0, len(n.Rows))
	for _, row := range n.Rows {
		r := l.lowerList(row)
		if l.err != nil {
			return
		}
		rows = append(rows, r)
	}
	l.out = &Node{Fn: "MATRIX", Args: []interface{}{rows}}
}

func (l *lowerer) VisitTensor(n *ast.Tensor) {
	layers := make([]interface{}, 0, len(n.Layers))
	for _, layer := range n.Layers {
		rows := make([]interface{}, 0, len(layer))
		for _, row := range layer {
			r := l.lowerList(row)
			if l.err != nil {
				return
			}
			rows = append(rows, r)
		}
		layers = append(layers, rows)
	}
	l.out = &Node{Fn: "TENSOR", Args: []interface{}{layers}}
}

func (l *lowerer) VisitMapContainer(n *ast.MapContainer) {
	var args []interface{}
	for _, pair := range n.Pairs {
		args = append(args, l.mapKey(pair.Key))
		args = append(args, l.lower(pair.Value))
		if l.err != nil {
			return
		}
	}
	l.out = &Node{Fn: "MAP", Args: args}
}

// mapKey renders an identifier or string key as its bare name (per the
// table's "k1, k2, ..." shorthand); any other expression lowers normally.
func (l *lowerer) mapKey(key ast.Expression) interface{} {
	switch k := key.(type) {
	case *ast.UserIdentifier:
		return k.Name
	case *ast.String:
		return k.Value
	default:
		return l.lower(key)
	}
}

func (l *lowerer) VisitSetContainer(n *ast.SetContainer) {
	elems := l.lowerList(n.Elements)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "SET", Args: elems}
}

func (l *lowerer) VisitTupleContainer(n *ast.TupleContainer) {
	elems := l.lowerList(n.Elements)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "TUPLE", Args: elems}
}

// ---- Atomic ----

func (l *lowerer) VisitNumber(n *ast.Number) {
	l.out = &Node{Fn: "LITERAL", Args: []interface{}{n.Raw, n.Base}}
}

func (l *lowerer) VisitString(n *ast.String) {
	if n.Interpolated {
		l.out = &Node{Fn: "STRING_INTERP", Args: []interface{}{n.Value}}
		return
	}
	l.out = &Node{Fn: "STRING", Args: []interface{}{n.Value}}
}

func (l *lowerer) VisitUserIdentifier(n *ast.UserIdentifier) {
	l.out = &Node{Fn: "RETRIEVE", Args: []interface{}{n.Name}}
}

func (l *lowerer) VisitSystemIdentifier(n *ast.SystemIdentifier) {
	l.out = &Node{Fn: "RETRIEVE", Args: []interface{}{n.Name}}
}

func (l *lowerer) VisitNull(n *ast.Null) {
	l.out = &Node{Fn: "NULL"}
}

func (l *lowerer) VisitPlaceholder(n *ast.Placeholder) {
	l.out = &Node{Fn: "PLACEHOLDER", Args: []interface{}{n.Index}}
}

// ---- Compositional ----

func (l *lowerer) VisitBinaryOperation(n *ast.BinaryOperation) {
	switch n.Op {
	case "=", ":=":
		l.lowerAssignment(n)
		return
	case ":=:":
		lhs, rhs := l.lower(n.Left), l.lower(n.Right)
		if l.err != nil {
			return
		}
		l.out = &Node{Fn: "SOLVE", Args: []interface{}{lhs, rhs}}
		return
	}

	if op, ok := config.LookupOperator(n.Op); ok {
		lhs, rhs := l.lower(n.Left), l.lower(n.Right)
		if l.err != nil {
			return
		}
		l.out = &Node{Fn: op.IRName, Args: []interface{}{lhs, rhs}}
		return
	}

	l.fail(diagnostics.NewLowerError(diagnostics.WNoLoweringRule, l.pos(n), "", n.Op))
}

// lowerAssignment implements the table's three-way "=" / ":=" split:
// identifier target -> ASSIGN, function-call-shaped target -> DEFINE,
// external-access target -> EXTSET (scenario 8), anything else -> invalid-lhs.
func (l *lowerer) lowerAssignment(n *ast.BinaryOperation) {
	switch lhs := n.Left.(type) {
	case *ast.UserIdentifier:
		rhs := l.lower(n.Right)
		if l.err != nil {
			return
		}
		l.out = &Node{Fn: "ASSIGN", Args: []interface{}{lhs.Name, rhs}}
	case *ast.FunctionCall:
		l.out = l.lowerDefine(lhs, n.Right)
	case *ast.ExternalAccess:
		obj := l.lower(lhs.Object)
		rhs := l.lower(n.Right)
		if l.err != nil {
			return
		}
		var key interface{}
		if lhs.HasKey {
			key = lhs.Key
		}
		l.out = &Node{Fn: "EXTSET", Args: []interface{}{obj, key, rhs}}
	default:
		l.fail(diagnostics.NewLowerError(diagnostics.WInvalidLHS, l.pos(n), "", n.Op))
	}
}

func (l *lowerer) lowerDefine(call *ast.FunctionCall, body ast.Expression) *Node {
	name := ""
	if id, ok := call.Callee.(*ast.UserIdentifier); ok {
		name = id.Name
	}
	params := l.lowerList(call.Positional)
	if l.err != nil {
		return nil
	}
	return &Node{Fn: "DEFINE", Args: []interface{}{name, params, l.deferred(body)}}
}

func (l *lowerer) VisitUnaryOperation(n *ast.UnaryOperation) {
	operand := l.lower(n.Operand)
	if l.err != nil {
		return
	}
	switch {
	case n.Postfix && n.Op == "?":
		l.out = &Node{Fn: "ASK", Args: []interface{}{operand}}
	case n.Op == "-":
		l.out = &Node{Fn: "NEG", Args: []interface{}{operand}}
	case n.Op == "!", n.Op == "NOT":
		l.out = &Node{Fn: "NOT", Args: []interface{}{operand}}
	default:
		l.fail(diagnostics.NewLowerError(diagnostics.WNoLoweringRule, l.pos(n), "", n.Op))
	}
}

func (l *lowerer) VisitTernaryOperation(n *ast.TernaryOperation) {
	cond := l.lower(n.Cond)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "IF", Args: []interface{}{cond, l.deferred(n.Then), l.deferred(n.Else)}}
}

func (l *lowerer) VisitImplicitMultiplication(n *ast.ImplicitMultiplication) {
	lhs, rhs := l.lower(n.Left), l.lower(n.Right)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "MUL", Args: []interface{}{lhs, rhs}}
}

// ---- Calls & functions ----

// VisitFunctionCall lowers `Callee(pos..., kw...)` to a flat `(CALL callee
// pos1 pos2 ... {kw-map})` node (scenario 3) — the keyword map is appended
// only when the call actually carries keyword arguments, keeping the common
// positional-only case exactly flat.
func (l *lowerer) VisitFunctionCall(n *ast.FunctionCall) {
	var callee interface{}
	switch c := n.Callee.(type) {
	case *ast.UserIdentifier:
		callee = c.Name
	case *ast.SystemFunctionRef:
		callee = c.Name
	default:
		callee = l.lower(n.Callee)
	}
	pos := l.lowerList(n.Positional)
	if l.err != nil {
		return
	}
	args := append([]interface{}{callee}, pos...)
	if len(n.Keyword) > 0 {
		kw := make(map[string]interface{}, len(n.Keyword))
		for k, v := range n.Keyword {
			kw[k] = l.lower(v)
			if l.err != nil {
				return
			}
		}
		args = append(args, kw)
	}
	l.out = &Node{Fn: "CALL", Args: args}
}

func (l *lowerer) VisitFunctionDefinition(n *ast.FunctionDefinition) {
	params := l.lowerList(n.Params)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "DEFINE", Args: []interface{}{n.Name, params, l.deferred(n.Body)}}
}

func (l *lowerer) VisitFunctionLambda(n *ast.FunctionLambda) {
	params := l.lowerList(n.Params)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "LAMBDA", Args: []interface{}{params, l.deferred(n.Body)}}
}

func (l *lowerer) VisitPatternMatchingFunction(n *ast.PatternMatchingFunction) {
	cases := make([]interface{}, 0, len(n.Cases))
	for _, c := range n.Cases {
		entry := map[string]interface{}{
			"pattern": l.lower(c.Pattern),
			"guard":   l.lower(c.Guard),
			"body":    l.deferred(c.Body),
		}
		cases = append(cases, entry)
		if l.err != nil {
			return
		}
	}
	defaults := l.lowerList(n.Defaults)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "PMATCH", Args: []interface{}{cases, defaults}}
}

func (l *lowerer) VisitSystemCall(n *ast.SystemCall) {
	args := l.lowerList(n.Args)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: n.Name, Args: args}
}

func (l *lowerer) VisitSystemFunctionRef(n *ast.SystemFunctionRef) {
	l.out = &Node{Fn: "SYSREF", Args: []interface{}{n.Name}}
}

func (l *lowerer) VisitCommandCall(n *ast.CommandCall) {
	args := l.lowerList(n.Args)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: n.Command, Args: args}
}

// ---- Structural ----

var pipeIRName = map[ast.PipeKind]string{
	ast.PipeFeed:     "PIPE",
	ast.PipeMap:      "PMAP",
	ast.PipeFilter:   "PFILTER",
	ast.PipeReduce:   "PREDUCE",
	ast.PipeExplicit: "PEXPLICIT",
}

func (l *lowerer) VisitPipe(n *ast.Pipe) {
	src, tgt := l.lower(n.Source), l.lower(n.Target)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: pipeIRName[n.Kind], Args: []interface{}{src, tgt}}
}

func (l *lowerer) VisitGeneratorChain(n *ast.GeneratorChain) {
	initial := l.lower(n.Initial)
	ops := make([]interface{}, 0, len(n.Ops))
	for _, op := range n.Ops {
		name := op.Op
		if info, ok := config.LookupOperator(op.Op); ok {
			name = info.IRName
		}
		ops = append(ops, []interface{}{name, l.lower(op.Arg)})
		if l.err != nil {
			return
		}
	}
	stop := l.lower(n.Stop)
	lazyTag := "lazy"
	if !n.Lazy {
		lazyTag = "eager"
	}
	l.out = &Node{Fn: "GEN", Args: []interface{}{initial, ops, stop, lazyTag}}
}

func (l *lowerer) VisitInterval(n *ast.Interval) {
	lo, hi := l.lower(n.Lo), l.lower(n.Hi)
	if l.err != nil {
		return
	}
	var stepKind interface{}
	var stepArg interface{}
	if n.Step != nil {
		stepKind = n.Step.Kind
		stepArg = l.lower(n.Step.Arg)
	}
	l.out = &Node{Fn: "INTERVAL", Args: []interface{}{lo, hi, stepKind, stepArg}}
}

func (l *lowerer) VisitDotAccess(n *ast.DotAccess) {
	obj := l.lower(n.Object)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "GET", Args: []interface{}{obj, n.Key}}
}

func (l *lowerer) VisitExternalAccess(n *ast.ExternalAccess) {
	obj := l.lower(n.Object)
	if l.err != nil {
		return
	}
	var key interface{}
	if n.HasKey {
		key = n.Key
	}
	l.out = &Node{Fn: "EXTGET", Args: []interface{}{obj, key}}
}

func (l *lowerer) VisitKeySet(n *ast.KeySet) {
	obj := l.lower(n.Object)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "KEYSET", Args: []interface{}{obj}}
}

func (l *lowerer) VisitValueSet(n *ast.ValueSet) {
	obj := l.lower(n.Object)
	if l.err != nil {
		return
	}
	l.out = &Node{Fn: "VALUESET", Args: []interface{}{obj}}
}

func (l *lowerer) VisitMutation(n *ast.Mutation) {
	target := l.lower(n.Target)
	if l.err != nil {
		return
	}
	ops := make([]interface{}, 0, len(n.Ops))
	for _, op := range n.Ops {
		entry := map[string]interface{}{"kind": op.Kind, "key": op.Key}
		if op.Value != nil {
			entry["value"] = l.lower(op.Value)
		}
		ops = append(ops, entry)
		if l.err != nil {
			return
		}
	}
	l.out = &Node{Fn: "MUTATE", Args: []interface{}{target, n.InPlace, ops}}
}

func (l *lowerer) VisitWithMetadata(n *ast.WithMetadata) {
	val := l.lower(n.Value)
	if l.err != nil {
		return
	}
	props := make(map[string]interface{}, len(n.Properties))
	for k, v := range n.Properties {
		props[k] = l.lower(v)
		if l.err != nil {
			return
		}
	}
	l.out = &Node{Fn: "WITH_META", Args: []interface{}{val, props}}
}
