package fern

import "fmt"

// TypeOf computes the static type of an expression, or nil when no valid
// type exists (e.g. dereferencing a non-pointer, indexing past an array's
// dimensionality). It is pure and never reports errors; CheckExpression is
// responsible for turning a nil or ill-formed type into a diagnostic.
func TypeOf(e Expression) Type {
	switch e := e.(type) {
	case *BinaryOp:
		switch e.op {
		case OpAdd, OpSub, OpMul, OpDiv:
			return IntType()
		default:
			return BoolType()
		}

	case *UnaryOp:
		if e.op == OpNot {
			return BoolType()
		}
		return IntType()

	case *SpecialOp:
		switch e.op {
		case OpAddress:
			return PointerTo(TypeOf(e.operand))
		case OpDeref:
			pt, ok := TypeOf(e.operand).(*PointerType)
			if !ok {
				return nil
			}
			return pt.Base()
		default: // OpCast
			return e.typ
		}

	case *FunctionCall:
		return e.sym.Type

	case *Designator:
		return e.sym.Type

	case *ArrayDesignator:
		t := e.sym.Type
		if pt, ok := t.(*PointerType); ok {
			t = pt.Base()
		}
		for range e.indices {
			at, ok := t.(*ArrayType)
			if !ok {
				return nil
			}
			t = at.Elem()
		}
		return t

	case *Constant:
		return e.typ

	case *StringConstant:
		return e.typ

	default:
		panic(fmt.Sprintf("fern: unknown expression %T", e))
	}
}
