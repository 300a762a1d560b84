package ast

// Visitor dispatches over the closed AST node set. The unexported printer in
// package sexpr and lowerer in package ir are the two concrete
// implementations; both rely on the
// compiler to catch a forgotten case when a node type is added.
type Visitor interface {
	VisitProgram(*Program)

	VisitNumber(*Number)
	VisitString(*String)
	VisitUserIdentifier(*UserIdentifier)
	VisitSystemIdentifier(*SystemIdentifier)
	VisitNull(*Null)
	VisitPlaceholder(*Placeholder)

	VisitBinaryOperation(*BinaryOperation)
	VisitUnaryOperation(*UnaryOperation)
	VisitTernaryOperation(*TernaryOperation)
	VisitImplicitMultiplication(*ImplicitMultiplication)

	VisitFunctionCall(*FunctionCall)
	VisitFunctionDefinition(*FunctionDefinition)
	VisitFunctionLambda(*FunctionLambda)
	VisitPatternMatchingFunction(*PatternMatchingFunction)
	VisitSystemCall(*SystemCall)
	VisitSystemFunctionRef(*SystemFunctionRef)
	VisitCommandCall(*CommandCall)

	VisitArray(*Array)
	VisitMatrix(*Matrix)
	VisitTensor(*Tensor)
	VisitMapContainer(*MapContainer)
	VisitSetContainer(*SetContainer)
	VisitTupleContainer(*TupleContainer)
	VisitBlockContainer(*BlockContainer)
	VisitCaseContainer(*CaseContainer)
	VisitLoopContainer(*LoopContainer)
	VisitDeferredBlock(*DeferredBlock)

	VisitPipe(*Pipe)
	VisitGeneratorChain(*GeneratorChain)
	VisitInterval(*Interval)
	VisitDotAccess(*DotAccess)
	VisitExternalAccess(*ExternalAccess)
	VisitKeySet(*KeySet)
	VisitValueSet(*ValueSet)
	VisitMutation(*Mutation)
	VisitWithMetadata(*WithMetadata)
}
