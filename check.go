package fern

import "fmt"

// SemanticError is a compile-time semantic violation reported against the
// token of the offending node. Checking is fail-fast: the first violation
// found in a subtree is the one reported.
type SemanticError struct {
	Tok Token
	Msg string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tok, e.Msg)
}

func semErr(tok Token, format string, args ...any) *SemanticError {
	return &SemanticError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

// CheckStatement validates one statement and its subtree.
func CheckStatement(s Statement) error {
	switch s := s.(type) {
	case *Assign:
		if err := CheckExpression(s.lhs); err != nil {
			return err
		}
		if err := CheckExpression(s.rhs); err != nil {
			return err
		}
		lt, rt := TypeOf(s.lhs), TypeOf(s.rhs)
		if lt == nil || !lt.IsScalar() {
			return semErr(s.lhs.Tok(), "assignment to non-scalar type %s", typeString(lt))
		}
		if rt == nil || !rt.IsScalar() {
			return semErr(s.rhs.Tok(), "assignment of non-scalar type %s", typeString(rt))
		}
		if !lt.Match(rt) {
			return semErr(s.tok, "incompatible types in assignment: %s := %s", typeString(lt), typeString(rt))
		}
		return nil

	case *CallStmt:
		return CheckExpression(s.call)

	case *Return:
		ret := s.scope.ReturnType()
		if _, void := ret.(*VoidType); void {
			if s.expr != nil {
				return semErr(s.expr.Tok(), "superfluous expression after return")
			}
			return nil
		}
		if s.expr == nil {
			return semErr(s.tok, "expression expected after return")
		}
		if err := CheckExpression(s.expr); err != nil {
			return err
		}
		if t := TypeOf(s.expr); !ret.Match(t) {
			return semErr(s.tok, "return type mismatch: expected %s, got %s", typeString(ret), typeString(t))
		}
		return nil

	case *If:
		if err := CheckExpression(s.cond); err != nil {
			return err
		}
		if t := TypeOf(s.cond); t == nil || !t.Match(BoolType()) {
			return semErr(s.cond.Tok(), "boolean expression expected, got %s", typeString(t))
		}
		for _, stmt := range s.then {
			if err := CheckStatement(stmt); err != nil {
				return err
			}
		}
		for _, stmt := range s.els {
			if err := CheckStatement(stmt); err != nil {
				return err
			}
		}
		return nil

	case *While:
		if err := CheckExpression(s.cond); err != nil {
			return err
		}
		if t := TypeOf(s.cond); t == nil || !t.Match(BoolType()) {
			return semErr(s.cond.Tok(), "boolean expression expected, got %s", typeString(t))
		}
		for _, stmt := range s.body {
			if err := CheckStatement(stmt); err != nil {
				return err
			}
		}
		return nil

	default:
		panic(fmt.Sprintf("fern: unknown statement %T", s))
	}
}

// CheckExpression validates one expression and its subtree.
func CheckExpression(e Expression) error {
	switch e := e.(type) {
	case *BinaryOp:
		if err := CheckExpression(e.left); err != nil {
			return err
		}
		if err := CheckExpression(e.right); err != nil {
			return err
		}
		lt, rt := TypeOf(e.left), TypeOf(e.right)
		if lt == nil || !lt.IsScalar() {
			return semErr(e.left.Tok(), "expected scalar operand, got %s", typeString(lt))
		}
		if rt == nil || !rt.IsScalar() {
			return semErr(e.right.Tok(), "expected scalar operand, got %s", typeString(rt))
		}
		if _, ptr := lt.(*PointerType); ptr {
			return semErr(e.left.Tok(), "pointer operand not allowed for %s", e.op)
		}
		if _, ptr := rt.(*PointerType); ptr {
			return semErr(e.right.Tok(), "pointer operand not allowed for %s", e.op)
		}
		if !lt.Match(rt) {
			return semErr(e.tok, "operand type mismatch for %s: %s vs %s", e.op, typeString(lt), typeString(rt))
		}
		switch e.op {
		case OpAdd, OpSub, OpMul, OpDiv:
			if !lt.Match(IntType()) {
				return semErr(e.tok, "integer operands expected for %s, got %s", e.op, typeString(lt))
			}
		case OpAnd, OpOr:
			if !lt.Match(BoolType()) {
				return semErr(e.tok, "boolean operands expected for %s, got %s", e.op, typeString(lt))
			}
		case OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
			if lt.Match(BoolType()) {
				return semErr(e.tok, "boolean operands not allowed for %s", e.op)
			}
		}
		return nil

	case *UnaryOp:
		if err := CheckExpression(e.operand); err != nil {
			// A minus applied to an out-of-range literal is the
			// spelling of the minimum 32-bit integer; the fold at
			// lowering time produces the in-range value.
			if _, lit := e.operand.(*Constant); lit && e.op == OpNeg {
				return nil
			}
			return err
		}
		t := TypeOf(e.operand)
		switch e.op {
		case OpNeg, OpPos:
			if t == nil || !t.Match(IntType()) {
				return semErr(e.tok, "integer operand expected for %s, got %s", e.op, typeString(t))
			}
		case OpNot:
			if t == nil || !t.Match(BoolType()) {
				return semErr(e.tok, "boolean operand expected for not, got %s", typeString(t))
			}
		}
		return nil

	case *SpecialOp:
		if err := CheckExpression(e.operand); err != nil {
			return err
		}
		if e.op == OpDeref {
			if _, ok := TypeOf(e.operand).(*PointerType); !ok {
				return semErr(e.tok, "dereference of non-pointer type %s", typeString(TypeOf(e.operand)))
			}
		}
		return nil

	case *FunctionCall:
		if len(e.args) != len(e.sym.Params) {
			return semErr(e.tok, "wrong number of arguments to %s: expected %d, got %d",
				e.sym.Name, len(e.sym.Params), len(e.args))
		}
		for i, arg := range e.args {
			if err := CheckExpression(arg); err != nil {
				return err
			}
			pt := e.sym.Params[i].Type
			if at := TypeOf(arg); !pt.Match(at) {
				return semErr(arg.Tok(), "argument %d to %s: expected %s, got %s",
					i+1, e.sym.Name, typeString(pt), typeString(at))
			}
		}
		return nil

	case *Designator:
		if e.sym.Type == nil {
			return semErr(e.tok, "invalid designator type for %s", e.sym.Name)
		}
		return nil

	case *ArrayDesignator:
		if !e.done {
			panic("fern: checking array designator before IndicesComplete")
		}
		for _, idx := range e.indices {
			if err := CheckExpression(idx); err != nil {
				return err
			}
			if t := TypeOf(idx); t == nil || !t.Match(IntType()) {
				return semErr(idx.Tok(), "integer index expected, got %s", typeString(t))
			}
		}
		if TypeOf(e) == nil {
			return semErr(e.tok, "invalid array expression for %s", e.sym.Name)
		}
		return nil

	case *Constant:
		if e.typ == nil {
			return semErr(e.tok, "invalid constant type")
		}
		if e.value == 1<<31 {
			return semErr(e.tok, "integer constant outside valid range")
		}
		return nil

	case *StringConstant:
		if e.typ == nil {
			return semErr(e.tok, "invalid string type")
		}
		return nil

	default:
		panic(fmt.Sprintf("fern: unknown expression %T", e))
	}
}
