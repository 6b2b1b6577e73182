package fern

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestInstrStrings(t *testing.T) {
	x := &NameOperand{Sym: NewSymbol("x", SymGlobal, IntType())}
	y := &NameOperand{Sym: NewSymbol("y", SymGlobal, IntType())}
	t1 := &NameOperand{Sym: NewSymbol("t1", SymLocal, IntType())}
	foo := &NameOperand{Sym: NewProcSymbol("foo", IntType())}
	l := &Label{id: 2, name: "while_cond"}

	cases := []struct {
		in   *Instr
		want string
	}{
		{&Instr{Op: OpLabel, Dst: l}, "while_cond_2:"},
		{&Instr{Op: OpGoto, Dst: l}, "goto while_cond_2"},
		{&Instr{Op: OpLessEqual, Dst: l, Src1: x, Src2: y}, "if x <= y goto while_cond_2"},
		{&Instr{Op: OpAssign, Dst: x, Src1: &ConstOperand{Value: 5}}, "x <- 5"},
		{&Instr{Op: OpAdd, Dst: t1, Src1: x, Src2: y}, "t1 <- add x, y"},
		{&Instr{Op: OpNeg, Dst: t1, Src1: x}, "t1 <- neg x"},
		{&Instr{Op: OpAddress, Dst: t1, Src1: x}, "t1 <- &x"},
		{&Instr{Op: OpParam, Dst: &ConstOperand{Value: 0}, Src1: t1}, "param 0 <- t1"},
		{&Instr{Op: OpCall, Dst: t1, Src1: foo}, "t1 <- call foo"},
		{&Instr{Op: OpCall, Src1: foo}, "call foo"},
		{&Instr{Op: OpReturn, Src1: x}, "return x"},
		{&Instr{Op: OpReturn}, "return"},
		{&Instr{Op: OpDim, Dst: t1, Src1: x, Src2: &ConstOperand{Value: 2}}, "t1 <- dim x, 2"},
		{&Instr{Op: OpDataOffset, Dst: t1, Src1: x}, "t1 <- dofs x"},
	}
	for _, tc := range cases {
		be.Equal(t, tc.in.String(), tc.want)
	}
}

func TestRefOperandString(t *testing.T) {
	ptr := NewSymbol("t3", SymLocal, PointerTo(IntType()))
	arr := NewSymbol("a", SymGlobal, ArrayOf(3, IntType()))
	ref := &RefOperand{Ptr: ptr, Array: arr}
	be.Equal(t, ref.String(), "@t3")
}

func TestCreateLabelNames(t *testing.T) {
	m := NewModule(tk(), "main")
	code := NewCodeBlock(&m.Scope)
	be.Equal(t, code.CreateLabel("").String(), "L1")
	be.Equal(t, code.CreateLabel("while_cond").String(), "while_cond_2")
	be.Equal(t, code.CreateLabel("").String(), "L3")
}

func TestCreateTempRegistersSymbol(t *testing.T) {
	m := NewModule(tk(), "main")
	code := NewCodeBlock(&m.Scope)

	t1 := code.CreateTemp(IntType())
	be.Equal(t, t1.Sym.Name, "t1")
	be.Equal(t, t1.Sym.Kind, SymLocal)
	be.Equal(t, m.SymbolTable().LookupLocal("t1"), t1.Sym)
}

func TestCreateTempSkipsTakenNames(t *testing.T) {
	m := NewModule(tk(), "main")
	declare(t, &m.Scope, NewSymbol("t1", SymGlobal, IntType()))

	code := NewCodeBlock(&m.Scope)
	tmp := code.CreateTemp(BoolType())
	be.Equal(t, tmp.Sym.Name, "t2")
}

func TestCleanupRemovesJumpToNextInstruction(t *testing.T) {
	m := NewModule(tk(), "main")
	code := NewCodeBlock(&m.Scope)
	l := code.CreateLabel("")
	code.AddInstr(&Instr{Op: OpGoto, Dst: l})
	code.AddLabel(l)

	code.CleanupControlFlow()
	be.Equal(t, len(code.Instrs()), 1)
	be.Equal(t, code.Instrs()[0].Op, OpLabel)
}

func TestCleanupCoalescesAdjacentLabels(t *testing.T) {
	m := NewModule(tk(), "main")
	code := NewCodeBlock(&m.Scope)
	l1 := code.CreateLabel("")
	l2 := code.CreateLabel("")
	code.AddInstr(&Instr{Op: OpGoto, Dst: l2})
	code.AddLabel(l1)
	code.AddLabel(l2)

	code.CleanupControlFlow()
	be.Equal(t, len(code.Instrs()), 1)
	be.Equal(t, code.Instrs()[0].Dst, Operand(l2))
}

func TestCleanupKeepsReferencedLabels(t *testing.T) {
	m := NewModule(tk(), "main")
	code := NewCodeBlock(&m.Scope)
	l1 := code.CreateLabel("")
	l2 := code.CreateLabel("")
	x := &NameOperand{Sym: declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))}
	code.AddInstr(&Instr{Op: OpEqual, Dst: l1, Src1: x, Src2: &ConstOperand{Value: 1}})
	code.AddLabel(l1)
	code.AddLabel(l2)
	code.AddInstr(&Instr{Op: OpGoto, Dst: l2})

	code.CleanupControlFlow()
	// l1 is referenced and stays even though it precedes another label
	ops := code.Instrs()
	be.Equal(t, len(ops), 4)
	be.Equal(t, ops[1].Dst, Operand(l1))
	be.Equal(t, ops[2].Dst, Operand(l2))
}

func TestCleanupIdempotent(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))
	y := declare(t, &m.Scope, NewSymbol("y", SymGlobal, IntType()))
	m.AddStatement(NewIf(tk(),
		NewBinaryOp(tk(), OpLessThan, des(x), des(y)),
		[]Statement{NewAssign(tk(), des(x), des(y))},
		[]Statement{NewAssign(tk(), des(x), ci(0))}))
	be.Err(t, m.Check(), nil)

	code := m.GenerateCode()
	once := code.String()
	code.CleanupControlFlow()
	be.Equal(t, code.String(), once)
}

func TestGenerateCodeBuildsOnce(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))
	m.AddStatement(NewAssign(tk(), des(x), ci(5)))
	be.Err(t, m.Check(), nil)

	first := m.GenerateCode()
	second := m.GenerateCode()
	be.True(t, first == second)
	be.Equal(t, first.Owner(), &m.Scope)
}

func TestGenerateCodeRecursesIntoProcedures(t *testing.T) {
	m := NewModule(tk(), "main")
	sym := NewProcSymbol("f", IntType())
	declare(t, &m.Scope, sym)
	p := NewProcedure(tk(), "f", &m.Scope, sym)
	p.AddStatement(NewReturn(tk(), &p.Scope, ci(42)))
	be.Err(t, m.Check(), nil)

	m.GenerateCode()
	be.True(t, p.CodeBlock() != nil)
	be.Equal(t, p.CodeBlock().String(), "  return 42\nL1:\n")
}

func TestIfLowering(t *testing.T) {
	m := NewModule(tk(), "main")
	x := declare(t, &m.Scope, NewSymbol("x", SymGlobal, IntType()))
	y := declare(t, &m.Scope, NewSymbol("y", SymGlobal, IntType()))
	m.AddStatement(NewIf(tk(),
		NewBinaryOp(tk(), OpLessThan, des(x), des(y)),
		[]Statement{NewAssign(tk(), des(x), des(y))},
		[]Statement{NewAssign(tk(), des(x), ci(0))}))
	be.Err(t, m.Check(), nil)

	be.Equal(t, m.GenerateCode().String(),
		`  if x < y goto if_true_2
  goto if_false_3
if_true_2:
  x <- y
L4:
  goto L1
if_false_3:
  x <- 0
L1:
`)
}

func TestWhileLowering(t *testing.T) {
	m := NewModule(tk(), "main")
	i := declare(t, &m.Scope, NewSymbol("i", SymGlobal, IntType()))
	n := declare(t, &m.Scope, NewSymbol("n", SymGlobal, IntType()))
	m.AddStatement(NewWhile(tk(),
		NewBinaryOp(tk(), OpLessEqual, des(i), des(n)),
		[]Statement{NewAssign(tk(), des(i), NewBinaryOp(tk(), OpAdd, des(i), ci(1)))}))
	be.Err(t, m.Check(), nil)

	be.Equal(t, m.GenerateCode().String(),
		`while_cond_2:
  if i <= n goto while_body_3
  goto L1
while_body_3:
  t1 <- add i, 1
  i <- t1
L4:
  goto while_cond_2
L1:
`)
}
