// Package ir implements the AST-to-IR lowering pass: a pure, total
// translation of the closed ast.Expression set into the uniform
// {fn, args} tree the evaluator consumes.
package ir

// Node is one IR node: fn is the normalized-uppercase system-function name;
// args holds, per position, an *ir.Node, a literal string/int/float/bool, a
// *Defer marker, or a nested []interface{}/map[string]interface{} for the
// handful of shapes (param lists, metadata maps, ops descriptors) that
// aren't themselves callable subtrees.
type Node struct {
	Fn   string
	Args []interface{}
}

// Defer wraps a subtree so the evaluator controls whether and when it runs;
// the lowering pass never evaluates a deferred body itself.
type Defer struct {
	Body interface{}
}
