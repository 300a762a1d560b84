// Package sexpr serializes the AST and IR trees into canonical
// s-expressions, `(node-tag field1 field2 ...)`, for tests to compare against —
// the tagged-tree dispatch here mirrors the teacher's tree printer, adapted
// from source-text rendering to the spec's required test-comparison form.
package sexpr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rixlang/rix/internal/ast"
	"github.com/rixlang/rix/internal/ir"
)

// AST renders prog as one s-expression.
func AST(prog *ast.Program) string {
	p := &printer{}
	prog.Accept(p)
	return p.buf.String()
}

// Expr renders a single AST expression as an s-expression (used by tests
// that exercise the parser on a standalone expression rather than a whole
// program).
func Expr(e ast.Expression) string {
	p := &printer{}
	e.Accept(p)
	return p.buf.String()
}

// IR renders a lowered IR tree as an s-expression, per §6's required
// `(node-tag field1 field2 …)` testing format.
func IR(n *ir.Node) string {
	var b strings.Builder
	writeIRValue(&b, n)
	return b.String()
}

func writeIRValue(b *strings.Builder, v interface{}) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case *ir.Node:
		writeIRNode(b, x)
	case *ir.Defer:
		b.WriteString("(DEFER ")
		writeIRValue(b, x.Body)
		b.WriteString(")")
	case string:
		b.WriteString(strconv.Quote(x))
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case int:
		b.WriteString(strconv.Itoa(x))
	case []interface{}:
		b.WriteString("(")
		for i, e := range x {
			if i > 0 {
				b.WriteString(" ")
			}
			writeIRValue(b, e)
		}
		b.WriteString(")")
	case map[string]interface{}:
		b.WriteString("{")
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeIRValue(b, x[k])
		}
		b.WriteString("}")
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

func writeIRNode(b *strings.Builder, n *ir.Node) {
	b.WriteString("(")
	b.WriteString(n.Fn)
	for _, a := range n.Args {
		b.WriteString(" ")
		writeIRValue(b, a)
	}
	b.WriteString(")")
}

// printer implements ast.Visitor, writing directly into buf.
type printer struct {
	buf strings.Builder
}

func (p *printer) open(tag string) { p.buf.WriteString("(" + tag) }
func (p *printer) close()          { p.buf.WriteString(")") }
func (p *printer) space()          { p.buf.WriteString(" ") }
func (p *printer) str(s string)    { p.buf.WriteString(strconv.Quote(s)) }
func (p *printer) raw(s string)    { p.buf.WriteString(s) }
func (p *printer) child(e ast.Expression) {
	if e == nil {
		p.raw("null")
		return
	}
	e.Accept(p)
}

func (p *printer) children(es []ast.Expression) {
	for i, e := range es {
		if i > 0 {
			p.space()
		}
		p.child(e)
	}
}

func (p *printer) VisitProgram(n *ast.Program) {
	p.open("Program")
	p.space()
	p.child(n.Body)
	p.close()
}

func (p *printer) VisitNumber(n *ast.Number) {
	p.open("Number")
	p.space()
	p.str(n.Raw)
	p.space()
	p.raw(strconv.Itoa(n.Base))
	p.close()
}

func (p *printer) VisitString(n *ast.String) {
	p.open("String")
	p.space()
	p.str(n.Value)
	p.space()
	p.raw(strconv.Itoa(n.DelimiterWidth))
	p.close()
}

func (p *printer) VisitUserIdentifier(n *ast.UserIdentifier) {
	p.open("UserIdentifier")
	p.space()
	p.str(n.Name)
	p.close()
}

func (p *printer) VisitSystemIdentifier(n *ast.SystemIdentifier) {
	p.open("SystemIdentifier")
	p.space()
	p.str(n.Name)
	p.close()
}

func (p *printer) VisitNull(n *ast.Null) { p.raw("(Null)") }

func (p *printer) VisitPlaceholder(n *ast.Placeholder) {
	p.open("Placeholder")
	p.space()
	p.raw(strconv.Itoa(n.Index))
	p.close()
}

func (p *printer) VisitBinaryOperation(n *ast.BinaryOperation) {
	p.open("BinaryOperation")
	p.space()
	p.str(n.Op)
	p.space()
	p.child(n.Left)
	p.space()
	p.child(n.Right)
	p.close()
}

func (p *printer) VisitUnaryOperation(n *ast.UnaryOperation) {
	p.open("UnaryOperation")
	p.space()
	p.str(n.Op)
	p.space()
	p.raw(strconv.FormatBool(n.Postfix))
	p.space()
	p.child(n.Operand)
	p.close()
}

func (p *printer) VisitTernaryOperation(n *ast.TernaryOperation) {
	p.open("TernaryOperation")
	p.space()
	p.child(n.Cond)
	p.space()
	p.child(n.Then)
	p.space()
	p.child(n.Else)
	p.close()
}

func (p *printer) VisitImplicitMultiplication(n *ast.ImplicitMultiplication) {
	p.open("ImplicitMultiplication")
	p.space()
	p.child(n.Left)
	p.space()
	p.child(n.Right)
	p.close()
}

func (p *printer) VisitFunctionCall(n *ast.FunctionCall) {
	p.open("FunctionCall")
	p.space()
	p.child(n.Callee)
	p.space()
	p.children(n.Positional)
	if len(n.Keyword) > 0 {
		keys := make([]string, 0, len(n.Keyword))
		for k := range n.Keyword {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.space()
			p.str(k)
			p.space()
			p.child(n.Keyword[k])
		}
	}
	p.close()
}

func (p *printer) VisitFunctionDefinition(n *ast.FunctionDefinition) {
	p.open("FunctionDefinition")
	p.space()
	p.str(n.Name)
	p.space()
	p.raw(string(n.Kind))
	p.space()
	p.children(n.Params)
	p.space()
	p.child(n.Body)
	p.close()
}

func (p *printer) VisitFunctionLambda(n *ast.FunctionLambda) {
	p.open("FunctionLambda")
	p.space()
	p.children(n.Params)
	p.space()
	p.child(n.Body)
	p.close()
}

func (p *printer) VisitPatternMatchingFunction(n *ast.PatternMatchingFunction) {
	p.open("PatternMatchingFunction")
	for _, c := range n.Cases {
		p.space()
		p.open("Case")
		p.space()
		p.child(c.Pattern)
		p.space()
		p.child(c.Guard)
		p.space()
		p.child(c.Body)
		p.close()
	}
	p.space()
	p.children(n.Defaults)
	p.close()
}

func (p *printer) VisitSystemCall(n *ast.SystemCall) {
	p.open("SystemCall")
	p.space()
	p.str(n.Name)
	p.space()
	p.children(n.Args)
	p.close()
}

func (p *printer) VisitSystemFunctionRef(n *ast.SystemFunctionRef) {
	p.open("SystemFunctionRef")
	p.space()
	p.str(n.Name)
	p.close()
}

func (p *printer) VisitCommandCall(n *ast.CommandCall) {
	p.open("CommandCall")
	p.space()
	p.str(n.Command)
	p.space()
	p.children(n.Args)
	p.close()
}

func (p *printer) VisitArray(n *ast.Array) {
	p.open("Array")
	p.space()
	p.raw(strconv.Itoa(n.Meta.Rank))
	p.space()
	p.children(n.Elements)
	p.close()
}

func (p *printer) VisitMatrix(n *ast.Matrix) {
	p.open("Matrix")
	for _, row := range n.Rows {
		p.space()
		p.raw("(")
		p.children(row)
		p.raw(")")
	}
	p.close()
}

func (p *printer) VisitTensor(n *ast.Tensor) {
	p.open("Tensor")
	for _, layer := range n.Layers {
		p.space()
		p.raw("(")
		for i, row := range layer {
			if i > 0 {
				p.space()
			}
			p.raw("(")
			p.children(row)
			p.raw(")")
		}
		p.raw(")")
	}
	p.close()
}

func (p *printer) VisitMapContainer(n *ast.MapContainer) {
	p.open("MapContainer")
	for _, pair := range n.Pairs {
		p.space()
		p.raw("(")
		p.child(pair.Key)
		p.space()
		p.child(pair.Value)
		p.raw(")")
	}
	p.close()
}

func (p *printer) VisitSetContainer(n *ast.SetContainer) {
	p.open("SetContainer")
	p.space()
	p.children(n.Elements)
	p.close()
}

func (p *printer) VisitTupleContainer(n *ast.TupleContainer) {
	p.open("TupleContainer")
	p.space()
	p.children(n.Elements)
	p.close()
}

func (p *printer) VisitBlockContainer(n *ast.BlockContainer) {
	p.open("BlockContainer")
	p.space()
	p.children(n.Statements)
	p.close()
}

func (p *printer) VisitCaseContainer(n *ast.CaseContainer) {
	p.open("CaseContainer")
	for _, c := range n.Clauses {
		p.space()
		p.raw("(")
		p.child(c.Cond)
		p.space()
		p.child(c.Result)
		p.raw(")")
	}
	p.close()
}

func (p *printer) VisitLoopContainer(n *ast.LoopContainer) {
	p.open("LoopContainer")
	p.space()
	p.child(n.Init)
	p.space()
	p.child(n.Cond)
	p.space()
	p.child(n.Body)
	p.space()
	p.child(n.Step)
	p.close()
}

func (p *printer) VisitDeferredBlock(n *ast.DeferredBlock) {
	p.open("DeferredBlock")
	p.space()
	p.child(n.Body)
	p.close()
}

func (p *printer) VisitPipe(n *ast.Pipe) {
	p.open("Pipe")
	p.space()
	p.raw(string(n.Kind))
	p.space()
	p.child(n.Source)
	p.space()
	p.child(n.Target)
	p.close()
}

func (p *printer) VisitGeneratorChain(n *ast.GeneratorChain) {
	p.open("GeneratorChain")
	p.space()
	p.child(n.Initial)
	for _, op := range n.Ops {
		p.space()
		p.raw("(")
		p.str(op.Op)
		p.space()
		p.child(op.Arg)
		p.raw(")")
	}
	p.space()
	p.child(n.Stop)
	p.space()
	p.raw(strconv.FormatBool(n.Lazy))
	p.close()
}

func (p *printer) VisitInterval(n *ast.Interval) {
	p.open("Interval")
	p.space()
	p.child(n.Lo)
	p.space()
	p.child(n.Hi)
	if n.Step != nil {
		p.space()
		p.raw("(")
		p.str(n.Step.Kind)
		p.space()
		p.child(n.Step.Arg)
		p.raw(")")
	}
	p.close()
}

func (p *printer) VisitDotAccess(n *ast.DotAccess) {
	p.open("DotAccess")
	p.space()
	p.child(n.Object)
	p.space()
	p.str(n.Key)
	p.close()
}

func (p *printer) VisitExternalAccess(n *ast.ExternalAccess) {
	p.open("ExternalAccess")
	p.space()
	p.child(n.Object)
	if n.HasKey {
		p.space()
		p.str(n.Key)
	}
	p.close()
}

func (p *printer) VisitKeySet(n *ast.KeySet) {
	p.open("KeySet")
	p.space()
	p.child(n.Object)
	p.close()
}

func (p *printer) VisitValueSet(n *ast.ValueSet) {
	p.open("ValueSet")
	p.space()
	p.child(n.Object)
	p.close()
}

func (p *printer) VisitMutation(n *ast.Mutation) {
	p.open("Mutation")
	p.space()
	p.child(n.Target)
	p.space()
	p.raw(strconv.FormatBool(n.InPlace))
	for _, op := range n.Ops {
		p.space()
		p.raw("(")
		p.raw(op.Kind)
		p.space()
		p.str(op.Key)
		p.space()
		p.child(op.Value)
		p.raw(")")
	}
	p.close()
}

func (p *printer) VisitWithMetadata(n *ast.WithMetadata) {
	p.open("WithMetadata")
	p.space()
	p.child(n.Value)
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.space()
		p.str(k)
		p.space()
		p.child(n.Properties[k])
	}
	p.close()
}

var _ ast.Visitor = (*printer)(nil)
