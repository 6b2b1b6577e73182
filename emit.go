package fern

import "fmt"

// EmitValue lowers an expression in value mode: instructions are appended
// to cb and the operand holding the result is returned. The result is
// cached on the node, so lowering the same node twice emits nothing the
// second time. Void calls return nil, which the cache cannot represent;
// they reach here only from statement position, where each node is
// lowered exactly once. The expression must have passed CheckExpression.
func EmitValue(cb *CodeBlock, e Expression) Operand {
	if addr := e.base().addr; addr != nil {
		return addr
	}
	addr := emitValue(cb, e)
	e.base().addr = addr
	return addr
}

func emitValue(cb *CodeBlock, e Expression) Operand {
	switch e := e.(type) {
	case *BinaryOp:
		switch e.op {
		case OpAdd, OpSub, OpMul, OpDiv:
			l := EmitValue(cb, e.left)
			r := EmitValue(cb, e.right)
			t := cb.CreateTemp(IntType())
			cb.AddInstr(&Instr{Op: e.op, Dst: t, Src1: l, Src2: r})
			return t
		default:
			return materializeBool(cb, e)
		}

	case *UnaryOp:
		if c, ok := e.operand.(*Constant); ok && e.op != OpNot {
			v := c.value
			if e.op == OpNeg {
				v = -v
			}
			return &ConstOperand{Value: v}
		}
		if e.op == OpNot {
			return materializeBool(cb, e)
		}
		src := EmitValue(cb, e.operand)
		t := cb.CreateTemp(IntType())
		cb.AddInstr(&Instr{Op: e.op, Dst: t, Src1: src})
		return t

	case *SpecialOp:
		switch e.op {
		case OpAddress:
			src := EmitValue(cb, e.operand)
			t := cb.CreateTemp(PointerTo(TypeOf(e.operand)))
			cb.AddInstr(&Instr{Op: OpAddress, Dst: t, Src1: src})
			return t
		case OpCast:
			return EmitValue(cb, e.operand)
		default: // OpDeref
			src := EmitValue(cb, e.operand)
			t := cb.CreateTemp(TypeOf(e))
			cb.AddInstr(&Instr{Op: OpDeref, Dst: t, Src1: src})
			return t
		}

	case *FunctionCall:
		return emitCall(cb, e)

	case *Designator:
		return &NameOperand{Sym: e.sym}

	case *ArrayDesignator:
		return emitArrayAccess(cb, e)

	case *Constant:
		return &ConstOperand{Value: e.value}

	case *StringConstant:
		return &NameOperand{Sym: e.sym}

	default:
		panic(fmt.Sprintf("fern: unknown expression %T", e))
	}
}

// emitCall pushes arguments in reverse order so argument 0 is pushed last,
// then emits the call, into a result temporary when the callee returns a
// value.
func emitCall(cb *CodeBlock, call *FunctionCall) Operand {
	for i := call.NArgs() - 1; i >= 0; i-- {
		arg := EmitValue(cb, call.Arg(i))
		cb.AddInstr(&Instr{
			Op:   OpParam,
			Dst:  &ConstOperand{Value: int64(i)},
			Src1: arg,
		})
	}
	callee := &NameOperand{Sym: call.sym}
	if _, void := call.sym.Type.(*VoidType); void {
		cb.AddInstr(&Instr{Op: OpCall, Src1: callee})
		return nil
	}
	t := cb.CreateTemp(call.sym.Type)
	cb.AddInstr(&Instr{Op: OpCall, Dst: t, Src1: callee})
	return t
}

// materializeBool turns a jump-coded boolean into a value using the
// canonical true/false/end label pattern.
func materializeBool(cb *CodeBlock, e Expression) Operand {
	ltrue := cb.CreateLabel("")
	lfalse := cb.CreateLabel("")
	lend := cb.CreateLabel("")
	t := cb.CreateTemp(BoolType())
	EmitBranch(cb, e, ltrue, lfalse)
	cb.AddLabel(ltrue)
	cb.AddInstr(&Instr{Op: OpAssign, Dst: t, Src1: &ConstOperand{Value: 1}})
	cb.AddInstr(&Instr{Op: OpGoto, Dst: lend})
	cb.AddLabel(lfalse)
	cb.AddInstr(&Instr{Op: OpAssign, Dst: t, Src1: &ConstOperand{Value: 0}})
	cb.AddLabel(lend)
	return t
}

// emitArrayAccess linearizes a multi-dimensional index into a byte offset
// from the array's base address. Missing trailing indices default to zero.
// Extents are queried at runtime from the array descriptor, so open-extent
// arrays passed by pointer index correctly.
func emitArrayAccess(cb *CodeBlock, a *ArrayDesignator) Operand {
	var base Operand
	t := a.sym.Type
	if pt, ok := t.(*PointerType); ok {
		base = &NameOperand{Sym: a.sym}
		t = pt.Base()
	} else {
		bt := cb.CreateTemp(PointerTo(t))
		cb.AddInstr(&Instr{Op: OpAddress, Dst: bt, Src1: &NameOperand{Sym: a.sym}})
		base = bt
	}
	at, ok := t.(*ArrayType)
	if !ok {
		panic("fern: array access to non-array symbol " + a.sym.Name)
	}

	var idx Operand
	for i := 0; i < at.NDim(); i++ {
		var this Operand
		if i < len(a.indices) {
			this = EmitValue(cb, a.indices[i])
		} else {
			this = &ConstOperand{Value: 0}
		}
		if i == 0 {
			idx = this
			continue
		}
		ext := cb.CreateTemp(IntType())
		cb.AddInstr(&Instr{Op: OpDim, Dst: ext, Src1: base, Src2: &ConstOperand{Value: int64(i + 1)}})
		mul := cb.CreateTemp(IntType())
		cb.AddInstr(&Instr{Op: OpMul, Dst: mul, Src1: idx, Src2: ext})
		add := cb.CreateTemp(IntType())
		cb.AddInstr(&Instr{Op: OpAdd, Dst: add, Src1: mul, Src2: this})
		idx = add
	}

	size := cb.CreateTemp(IntType())
	cb.AddInstr(&Instr{Op: OpMul, Dst: size, Src1: idx, Src2: &ConstOperand{Value: int64(at.BaseType().Size())}})
	ofs := cb.CreateTemp(IntType())
	cb.AddInstr(&Instr{Op: OpDataOffset, Dst: ofs, Src1: base})
	rel := cb.CreateTemp(IntType())
	cb.AddInstr(&Instr{Op: OpAdd, Dst: rel, Src1: size, Src2: ofs})
	addr := cb.CreateTemp(PointerTo(at.BaseType()))
	cb.AddInstr(&Instr{Op: OpAdd, Dst: addr, Src1: base, Src2: rel})
	return &RefOperand{Ptr: addr.Sym, Array: a.sym}
}

// EmitBranch lowers a boolean expression in condition mode: the emitted
// code transfers control to exactly one of ltrue or lfalse and produces no
// value.
func EmitBranch(cb *CodeBlock, e Expression, ltrue, lfalse *Label) {
	switch e := e.(type) {
	case *BinaryOp:
		switch {
		case e.op.IsRelOp():
			l := EmitValue(cb, e.left)
			r := EmitValue(cb, e.right)
			cb.AddInstr(&Instr{Op: e.op, Dst: ltrue, Src1: l, Src2: r})
			cb.AddInstr(&Instr{Op: OpGoto, Dst: lfalse})
		case e.op == OpAnd:
			mid := cb.CreateLabel("")
			EmitBranch(cb, e.left, mid, lfalse)
			cb.AddLabel(mid)
			EmitBranch(cb, e.right, ltrue, lfalse)
		case e.op == OpOr:
			mid := cb.CreateLabel("")
			EmitBranch(cb, e.left, ltrue, mid)
			cb.AddLabel(mid)
			EmitBranch(cb, e.right, ltrue, lfalse)
		default:
			panic(fmt.Sprintf("fern: %v in condition position", e.op))
		}

	case *UnaryOp:
		if e.op != OpNot {
			panic(fmt.Sprintf("fern: %v in condition position", e.op))
		}
		EmitBranch(cb, e.operand, lfalse, ltrue)

	case *Designator, *FunctionCall, *ArrayDesignator, *SpecialOp:
		v := EmitValue(cb, e)
		cb.AddInstr(&Instr{Op: OpEqual, Dst: ltrue, Src1: v, Src2: &ConstOperand{Value: 1}})
		cb.AddInstr(&Instr{Op: OpGoto, Dst: lfalse})

	case *Constant:
		target := lfalse
		if e.value != 0 {
			target = ltrue
		}
		cb.AddInstr(&Instr{Op: OpGoto, Dst: target})

	default:
		panic(fmt.Sprintf("fern: %T in condition position", e))
	}
}

// EmitStatement lowers one statement. Every statement ends with an
// explicit transfer of control to next; nothing falls through implicitly.
func EmitStatement(cb *CodeBlock, s Statement, next *Label) {
	switch s := s.(type) {
	case *Assign:
		// RHS before LHS: the address computation of an indexed LHS may
		// call functions, and the language fixes this evaluation order.
		rhs := EmitValue(cb, s.rhs)
		lhs := EmitValue(cb, s.lhs)
		cb.AddInstr(&Instr{Op: OpAssign, Dst: lhs, Src1: rhs})
		cb.AddInstr(&Instr{Op: OpGoto, Dst: next})

	case *CallStmt:
		EmitValue(cb, s.call)
		cb.AddInstr(&Instr{Op: OpGoto, Dst: next})

	case *Return:
		var v Operand
		if s.expr != nil {
			v = EmitValue(cb, s.expr)
		}
		cb.AddInstr(&Instr{Op: OpReturn, Src1: v})
		cb.AddInstr(&Instr{Op: OpGoto, Dst: next})

	case *If:
		lt := cb.CreateLabel("if_true")
		lf := cb.CreateLabel("if_false")
		EmitBranch(cb, s.cond, lt, lf)
		cb.AddLabel(lt)
		emitBody(cb, s.then)
		cb.AddInstr(&Instr{Op: OpGoto, Dst: next})
		cb.AddLabel(lf)
		emitBody(cb, s.els)
		cb.AddInstr(&Instr{Op: OpGoto, Dst: next})

	case *While:
		lc := cb.CreateLabel("while_cond")
		lb := cb.CreateLabel("while_body")
		cb.AddLabel(lc)
		EmitBranch(cb, s.cond, lb, next)
		cb.AddLabel(lb)
		emitBody(cb, s.body)
		cb.AddInstr(&Instr{Op: OpGoto, Dst: lc})
		cb.AddInstr(&Instr{Op: OpGoto, Dst: next})

	default:
		panic(fmt.Sprintf("fern: unknown statement %T", s))
	}
}

// emitBody lowers a statement sequence, giving each statement a fresh
// continuation label placed right after it.
func emitBody(cb *CodeBlock, stmts []Statement) {
	for _, stmt := range stmts {
		next := cb.CreateLabel("")
		EmitStatement(cb, stmt, next)
		cb.AddLabel(next)
	}
}
