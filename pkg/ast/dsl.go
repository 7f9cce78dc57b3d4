package ast

import "fmt"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value, FloatTypeF64)
}

func FltTyped(value float64, floatType FloatType) *FloatLiteral {
	return NewFloatLiteral(value, floatType)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Type expression helpers.

func Ty(name string) *SimpleTypeExpression {
	return NewSimpleTypeExpression(ID(name))
}

func ArrTy(element TypeExpression, size int) *ArrayTypeExpression {
	return NewArrayTypeExpression(element, size)
}

func GenTy(element TypeExpression) *GeneratorTypeExpression {
	return NewGeneratorTypeExpression(element)
}

// Expression helpers.

func Un(operator UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

func Call(name string, args ...Expression) *FunctionCall {
	return CallExpr(ID(name), args...)
}

func Member(object Expression, member interface{}) *MemberAccessExpression {
	return NewMemberAccessExpression(object, identifierPtr(member))
}

func Index(object Expression, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func Slice(object Expression, low, high Expression) *SliceExpression {
	return NewSliceExpression(object, low, high)
}

// Statement helpers.

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Decl(varType TypeExpression, name interface{}, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(varType, identifierPtr(name), value)
}

func Assign(target interface{}, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(assignmentTarget(target), value)
}

func AssignIndex(object Expression, index Expression, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(NewIndexExpression(object, index), value)
}

func If(condition Expression, then *Block, elseBranch Statement) *IfStatement {
	return NewIfStatement(condition, then, elseBranch)
}

func While(condition Expression, body *Block) *WhileLoop {
	return NewWhileLoop(condition, body)
}

func For(init Statement, condition Expression, post Statement, body *Block) *ForLoop {
	return NewForLoop(init, condition, post, body)
}

func Yield(expression Expression) *YieldStatement {
	return NewYieldStatement(expression)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Read(target interface{}) *ReadStatement {
	return NewReadStatement(assignmentTarget(target))
}

// Definition helpers.

func Param(name interface{}, paramType TypeExpression) *FunctionParameter {
	return NewFunctionParameter(identifierPtr(name), paramType)
}

func Gen(name interface{}, params []*FunctionParameter, yieldType TypeExpression, body ...Statement) *GeneratorDefinition {
	return NewGeneratorDefinition(identifierPtr(name), params, yieldType, NewBlock(body))
}

func Fn(name interface{}, params []*FunctionParameter, returnType TypeExpression, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(identifierPtr(name), params, returnType, NewBlock(body))
}

func Prog(statements ...Statement) *Program {
	return NewProgram(statements)
}

func identifierPtr(value interface{}) *Identifier {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return ID(v)
	case *Identifier:
		return v
	default:
		panic(fmt.Sprintf("ast: unsupported identifier value %T", value))
	}
}

func assignmentTarget(value interface{}) AssignmentTarget {
	switch v := value.(type) {
	case string:
		return ID(v)
	case AssignmentTarget:
		return v
	default:
		panic(fmt.Sprintf("ast: unsupported assignment target %T", value))
	}
}
