package fern

import (
	"testing"

	"github.com/nalgeon/be"
)

func checkErr(t *testing.T, err error, msg string) {
	t.Helper()
	be.True(t, err != nil)
	se, ok := err.(*SemanticError)
	be.True(t, ok)
	be.Equal(t, se.Msg, msg)
}

func TestCheckAssignNonScalarDestination(t *testing.T) {
	m := NewModule(tk(), "main")
	a := declare(t, &m.Scope, NewSymbol("a", SymGlobal, ArrayOf(3, IntType())))

	err := CheckStatement(NewAssign(tk(), des(a), ci(1)))
	checkErr(t, err, "assignment to non-scalar type integer[3]")
}

func TestCheckAssignNonScalarSource(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))
	a := declare(t, &m.Scope, NewSymbol("a", SymGlobal, ArrayOf(3, IntType())))

	err := CheckStatement(NewAssign(tk(), des(x), des(a)))
	checkErr(t, err, "assignment of non-scalar type integer[3]")
}

func TestCheckAssignTypeMismatch(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))

	err := CheckStatement(NewAssign(tk(), des(x), cbool(true)))
	checkErr(t, err, "incompatible types in assignment: integer := boolean")
}

func TestCheckReturnFromVoidScope(t *testing.T) {
	m := NewModule(tk(), "main")

	err := CheckStatement(NewReturn(tk(), &m.Scope, ci(1)))
	checkErr(t, err, "superfluous expression after return")

	be.Err(t, CheckStatement(NewReturn(tk(), &m.Scope, nil)), nil)
}

func TestCheckReturnMissingValue(t *testing.T) {
	m := NewModule(tk(), "main")
	sym := NewProcSymbol("f", IntType())
	declare(t, &m.Scope, sym)
	p := NewProcedure(tk(), "f", &m.Scope, sym)

	err := CheckStatement(NewReturn(tk(), &p.Scope, nil))
	checkErr(t, err, "expression expected after return")
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	m := NewModule(tk(), "main")
	sym := NewProcSymbol("f", IntType())
	declare(t, &m.Scope, sym)
	p := NewProcedure(tk(), "f", &m.Scope, sym)

	err := CheckStatement(NewReturn(tk(), &p.Scope, cbool(false)))
	checkErr(t, err, "return type mismatch: expected integer, got boolean")

	be.Err(t, CheckStatement(NewReturn(tk(), &p.Scope, ci(42))), nil)
}

func TestCheckConditionMustBeBoolean(t *testing.T) {
	err := CheckStatement(NewIf(tk(), ci(1), nil, nil))
	checkErr(t, err, "boolean expression expected, got integer")

	err = CheckStatement(NewWhile(tk(), ci(0), nil))
	checkErr(t, err, "boolean expression expected, got integer")
}

func TestCheckArithmeticRequiresIntegers(t *testing.T) {
	err := CheckExpression(NewBinaryOp(tk(), OpAdd, cbool(true), cbool(false)))
	checkErr(t, err, "integer operands expected for add, got boolean")
}

func TestCheckLogicalRequiresBooleans(t *testing.T) {
	err := CheckExpression(NewBinaryOp(tk(), OpAnd, ci(1), ci(0)))
	checkErr(t, err, "boolean operands expected for and, got integer")
}

func TestCheckRelationalForbidsBooleans(t *testing.T) {
	err := CheckExpression(NewBinaryOp(tk(), OpLessThan, cbool(true), cbool(false)))
	checkErr(t, err, "boolean operands not allowed for <")

	// equality on booleans is fine
	be.Err(t, CheckExpression(NewBinaryOp(tk(), OpEqual, cbool(true), cbool(false))), nil)
}

func TestCheckBinaryOperandMismatch(t *testing.T) {
	err := CheckExpression(NewBinaryOp(tk(), OpEqual, ci(1), cbool(true)))
	checkErr(t, err, "operand type mismatch for =: integer vs boolean")
}

func TestCheckBinaryNonScalarOperand(t *testing.T) {
	m := NewModule(tk(), "main")
	a := declare(t, &m.Scope, NewSymbol("a", SymGlobal, ArrayOf(3, IntType())))

	err := CheckExpression(NewBinaryOp(tk(), OpAdd, des(a), ci(1)))
	checkErr(t, err, "expected scalar operand, got integer[3]")
}

func TestCheckBinaryPointerOperand(t *testing.T) {
	m := NewModule(tk(), "main")
	p := declare(t, &m.Scope, NewSymbol("p", SymGlobal, PointerTo(IntType())))

	err := CheckExpression(NewBinaryOp(tk(), OpAdd, des(p), des(p)))
	checkErr(t, err, "pointer operand not allowed for add")
}

func TestCheckUnaryOperandTypes(t *testing.T) {
	err := CheckExpression(NewUnaryOp(tk(), OpNeg, cbool(true)))
	checkErr(t, err, "integer operand expected for neg, got boolean")

	err = CheckExpression(NewUnaryOp(tk(), OpNot, ci(1)))
	checkErr(t, err, "boolean operand expected for not, got integer")
}

func TestCheckDerefNonPointer(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))

	err := CheckExpression(NewSpecialOp(tk(), OpDeref, des(x), nil))
	checkErr(t, err, "dereference of non-pointer type integer")

	p := declare(t, &m.Scope, NewSymbol("p", SymGlobal, PointerTo(IntType())))
	be.Err(t, CheckExpression(NewSpecialOp(tk(), OpDeref, des(p), nil)), nil)
}

func TestCheckCallArity(t *testing.T) {
	sym := NewProcSymbol("foo", NoType(),
		NewSymbol("a", SymParam, IntType()),
		NewSymbol("b", SymParam, IntType()))

	call := NewFunctionCall(tk(), sym)
	call.AddArg(ci(1))
	err := CheckExpression(call)
	checkErr(t, err, "wrong number of arguments to foo: expected 2, got 1")
}

func TestCheckCallArgumentType(t *testing.T) {
	sym := NewProcSymbol("foo", NoType(), NewSymbol("a", SymParam, IntType()))

	call := NewFunctionCall(tk(), sym)
	call.AddArg(cbool(true))
	err := CheckExpression(call)
	checkErr(t, err, "argument 1 to foo: expected integer, got boolean")
}

func TestCheckArrayIndexType(t *testing.T) {
	m := NewModule(tk(), "main")
	a := declare(t, &m.Scope, NewSymbol("a", SymGlobal, ArrayOf(3, IntType())))

	ad := NewArrayDesignator(tk(), a)
	ad.AddIndex(cbool(true))
	ad.IndicesComplete()
	err := CheckExpression(ad)
	checkErr(t, err, "integer index expected, got boolean")
}

func TestCheckArrayTooManyIndices(t *testing.T) {
	m := NewModule(tk(), "main")
	a := declare(t, &m.Scope, NewSymbol("a", SymGlobal, ArrayOf(3, IntType())))

	ad := NewArrayDesignator(tk(), a)
	ad.AddIndex(ci(0))
	ad.AddIndex(ci(0))
	ad.IndicesComplete()
	err := CheckExpression(ad)
	checkErr(t, err, "invalid array expression for a")
}

func TestCheckArrayThroughPointer(t *testing.T) {
	m := NewModule(tk(), "main")
	p := declare(t, &m.Scope, NewSymbol("p", SymParam, PointerTo(ArrayOf(OpenExtent, IntType()))))

	ad := NewArrayDesignator(tk(), p)
	ad.AddIndex(ci(1))
	ad.IndicesComplete()
	be.Err(t, CheckExpression(ad), nil)
	be.Equal(t, TypeOf(ad), Type(IntType()))
}

func TestCheckConstantRange(t *testing.T) {
	err := CheckExpression(ci(1 << 31))
	checkErr(t, err, "integer constant outside valid range")

	be.Err(t, CheckExpression(ci(1<<31-1)), nil)
}

func TestCheckNegatedBoundaryLiteral(t *testing.T) {
	// -2147483648 is spelled as unary minus applied to 2147483648
	neg := NewUnaryOp(tk(), OpNeg, ci(1<<31))
	be.Err(t, CheckExpression(neg), nil)

	// unary plus gets no such exemption
	pos := NewUnaryOp(tk(), OpPos, ci(1<<31))
	be.True(t, CheckExpression(pos) != nil)
}

func TestScopeCheckRecursesIntoProcedures(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))
	m.AddStatement(NewAssign(tk(), des(x), ci(1)))

	sym := NewProcSymbol("f", IntType())
	declare(t, &m.Scope, sym)
	p := NewProcedure(tk(), "f", &m.Scope, sym)
	p.AddStatement(NewReturn(tk(), &p.Scope, cbool(true)))

	err := m.Check()
	checkErr(t, err, "return type mismatch: expected integer, got boolean")

	p.SetStatements([]Statement{NewReturn(tk(), &p.Scope, des(x))})
	be.Err(t, m.Check(), nil)
}

func TestSemanticErrorFormat(t *testing.T) {
	err := semErr(Token{Line: 3, Col: 14}, "boolean expression expected, got %s", "integer")
	be.Equal(t, err.Error(), "3:14: boolean expression expected, got integer")
}
