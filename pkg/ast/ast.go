package ast

type NodeType string

const (
	NodeIdentifier              NodeType = "Identifier"
	NodeStringLiteral           NodeType = "StringLiteral"
	NodeIntegerLiteral          NodeType = "IntegerLiteral"
	NodeFloatLiteral            NodeType = "FloatLiteral"
	NodeBooleanLiteral          NodeType = "BooleanLiteral"
	NodeArrayLiteral            NodeType = "ArrayLiteral"
	NodeSimpleTypeExpression    NodeType = "SimpleTypeExpression"
	NodeArrayTypeExpression     NodeType = "ArrayTypeExpression"
	NodeGeneratorTypeExpression NodeType = "GeneratorTypeExpression"
	NodeUnaryExpression         NodeType = "UnaryExpression"
	NodeBinaryExpression        NodeType = "BinaryExpression"
	NodeFunctionCall            NodeType = "FunctionCall"
	NodeMemberAccessExpression  NodeType = "MemberAccessExpression"
	NodeIndexExpression         NodeType = "IndexExpression"
	NodeSliceExpression         NodeType = "SliceExpression"
	NodeBlock                   NodeType = "Block"
	NodeVariableDeclaration     NodeType = "VariableDeclaration"
	NodeAssignmentStatement     NodeType = "AssignmentStatement"
	NodeIfStatement             NodeType = "IfStatement"
	NodeWhileLoop               NodeType = "WhileLoop"
	NodeForLoop                 NodeType = "ForLoop"
	NodeYieldStatement          NodeType = "YieldStatement"
	NodeReturnStatement         NodeType = "ReturnStatement"
	NodeBreakStatement          NodeType = "BreakStatement"
	NodeContinueStatement       NodeType = "ContinueStatement"
	NodeReadStatement           NodeType = "ReadStatement"
	NodeFunctionParameter       NodeType = "FunctionParameter"
	NodeFunctionDefinition      NodeType = "FunctionDefinition"
	NodeGeneratorDefinition     NodeType = "GeneratorDefinition"
	NodeProgram                 NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

// Expression nodes double as statements so calls like print(x) can stand
// alone in a block.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type TypeExpression interface {
	Node
	typeExpressionNode()
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// AssignmentTarget is an Identifier or an IndexExpression.
type AssignmentTarget interface {
	Node
	assignmentTargetNode()
}

type assignmentTargetMarker struct{}

func (assignmentTargetMarker) assignmentTargetNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type FloatType string

const (
	FloatTypeF32 FloatType = "f32"
	FloatTypeF64 FloatType = "f64"
)

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value     float64   `json:"value"`
	FloatType FloatType `json:"floatType"`
}

func NewFloatLiteral(value float64, floatType FloatType) *FloatLiteral {
	if floatType == "" {
		floatType = FloatTypeF64
	}
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value, FloatType: floatType}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

// ArrayLiteral is the brace initialiser `{a, b, c}`. Nested literals build
// multi-dimensional arrays.
type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

// Type expressions

type SimpleTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Name *Identifier `json:"name"`
}

func NewSimpleTypeExpression(name *Identifier) *SimpleTypeExpression {
	return &SimpleTypeExpression{nodeImpl: newNodeImpl(NodeSimpleTypeExpression), Name: name}
}

// ArrayTypeExpression is `T[N]`; `int[2][3]` nests as Array(Array(int, 3), 2).
type ArrayTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Element TypeExpression `json:"element"`
	Size    int            `json:"size"`
}

func NewArrayTypeExpression(element TypeExpression, size int) *ArrayTypeExpression {
	return &ArrayTypeExpression{nodeImpl: newNodeImpl(NodeArrayTypeExpression), Element: element, Size: size}
}

type GeneratorTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Element TypeExpression `json:"element"`
}

func NewGeneratorTypeExpression(element TypeExpression) *GeneratorTypeExpression {
	return &GeneratorTypeExpression{nodeImpl: newNodeImpl(NodeGeneratorTypeExpression), Element: element}
}

// Expressions

type UnaryOperator string

const (
	UnaryOperatorNegate UnaryOperator = "-"
	UnaryOperatorNot    UnaryOperator = "!"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type MemberAccessExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression  `json:"object"`
	Member *Identifier `json:"member"`
}

func NewMemberAccessExpression(object Expression, member *Identifier) *MemberAccessExpression {
	return &MemberAccessExpression{nodeImpl: newNodeImpl(NodeMemberAccessExpression), Object: object, Member: member}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// SliceExpression is a[low:high]. A nil Low means 0 and a nil High means the
// array length. It evaluates to a copy and cannot be assigned to.
type SliceExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Low    Expression `json:"low,omitempty"`
	High   Expression `json:"high,omitempty"`
}

func NewSliceExpression(object, low, high Expression) *SliceExpression {
	return &SliceExpression{nodeImpl: newNodeImpl(NodeSliceExpression), Object: object, Low: low, High: high}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// VariableDeclaration declares Name with VarType. Value is nil when the
// declaration has no initialiser; the variable then holds the type's zero value.
type VariableDeclaration struct {
	nodeImpl
	statementMarker

	VarType TypeExpression `json:"varType"`
	Name    *Identifier    `json:"name"`
	Value   Expression     `json:"value,omitempty"`
}

func NewVariableDeclaration(varType TypeExpression, name *Identifier, value Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), VarType: varType, Name: name, Value: value}
}

type AssignmentStatement struct {
	nodeImpl
	statementMarker

	Target AssignmentTarget `json:"target"`
	Value  Expression       `json:"value"`
}

func NewAssignmentStatement(target AssignmentTarget, value Expression) *AssignmentStatement {
	return &AssignmentStatement{nodeImpl: newNodeImpl(NodeAssignmentStatement), Target: target, Value: value}
}

// IfStatement's Else is nil, a *Block, or a chained *IfStatement.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      *Block     `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then *Block, elseBranch Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseBranch}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileLoop(condition Expression, body *Block) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// ForLoop is the C-style `for (init; condition; post)` loop. Any of the three
// header parts may be nil; a nil Condition loops until break or return.
type ForLoop struct {
	nodeImpl
	statementMarker

	Init      Statement  `json:"init,omitempty"`
	Condition Expression `json:"condition,omitempty"`
	Post      Statement  `json:"post,omitempty"`
	Body      *Block     `json:"body"`
}

func NewForLoop(init Statement, condition Expression, post Statement, body *Block) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Init: init, Condition: condition, Post: post, Body: body}
}

type YieldStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewYieldStatement(expression Expression) *YieldStatement {
	return &YieldStatement{nodeImpl: newNodeImpl(NodeYieldStatement), Expression: expression}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

// ReadStatement is `read(target);`, filling target from standard input.
type ReadStatement struct {
	nodeImpl
	statementMarker

	Target AssignmentTarget `json:"target"`
}

func NewReadStatement(target AssignmentTarget) *ReadStatement {
	return &ReadStatement{nodeImpl: newNodeImpl(NodeReadStatement), Target: target}
}

// Definitions

type FunctionParameter struct {
	nodeImpl

	Name      *Identifier    `json:"name"`
	ParamType TypeExpression `json:"paramType"`
}

func NewFunctionParameter(name *Identifier, paramType TypeExpression) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, ParamType: paramType}
}

// FunctionDefinition is a plain function. ReturnType is nil for void.
type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID         *Identifier          `json:"id"`
	Params     []*FunctionParameter `json:"params"`
	ReturnType TypeExpression       `json:"returnType,omitempty"`
	Body       *Block               `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*FunctionParameter, returnType TypeExpression, body *Block) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, ReturnType: returnType, Body: body}
}

// GeneratorDefinition is `generator name(...)` or `generator<T> name(...)`.
// YieldType is nil for the unannotated form; the checker infers it from the
// first yield in the body.
type GeneratorDefinition struct {
	nodeImpl
	statementMarker

	ID        *Identifier          `json:"id"`
	Params    []*FunctionParameter `json:"params"`
	YieldType TypeExpression       `json:"yieldType,omitempty"`
	Body      *Block               `json:"body"`
}

func NewGeneratorDefinition(id *Identifier, params []*FunctionParameter, yieldType TypeExpression, body *Block) *GeneratorDefinition {
	return &GeneratorDefinition{nodeImpl: newNodeImpl(NodeGeneratorDefinition), ID: id, Params: params, YieldType: yieldType, Body: body}
}

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}
