package fern

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Opcode enumerates the closed set of three-address-code operations. The
// arithmetic, logical, and relational opcodes double as AST operator tags.
type Opcode int

const (
	// binary arithmetic
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv

	// binary logical
	OpAnd
	OpOr

	// relational
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual

	// unary
	OpNeg
	OpPos
	OpNot

	// special
	OpAddress
	OpDeref
	OpCast

	// memory and calls
	OpAssign
	OpParam
	OpCall
	OpReturn

	// control flow
	OpGoto
	OpLabel

	// array descriptor queries
	OpDim
	OpDataOffset
)

var opcodeNames = map[Opcode]string{
	OpAdd:          "add",
	OpSub:          "sub",
	OpMul:          "mul",
	OpDiv:          "div",
	OpAnd:          "and",
	OpOr:           "or",
	OpEqual:        "=",
	OpNotEqual:     "#",
	OpLessThan:     "<",
	OpLessEqual:    "<=",
	OpGreaterThan:  ">",
	OpGreaterEqual: ">=",
	OpNeg:          "neg",
	OpPos:          "pos",
	OpNot:          "not",
	OpAddress:      "&()",
	OpDeref:        "*()",
	OpCast:         "cast",
	OpAssign:       "assign",
	OpParam:        "param",
	OpCall:         "call",
	OpReturn:       "return",
	OpGoto:         "goto",
	OpLabel:        "label",
	OpDim:          "dim",
	OpDataOffset:   "dofs",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// IsRelOp reports whether op is an equality or relational comparison.
func (op Opcode) IsRelOp() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return true
	}
	return false
}

// Operand is a value an instruction reads or writes: a constant, a named
// symbol (variable or temporary), a memory reference, or a label.
type Operand interface {
	String() string
	operand()
}

// ConstOperand is an immediate integer value.
type ConstOperand struct {
	Value int64
}

func (c *ConstOperand) String() string { return strconv.FormatInt(c.Value, 10) }

// NameOperand refers to a variable, parameter, temporary, or procedure by
// its symbol.
type NameOperand struct {
	Sym *Symbol
}

func (n *NameOperand) String() string { return n.Sym.Name }

// RefOperand is a memory reference through a pointer temporary. It carries
// the originating array symbol so load/store lowering can recover the
// element type.
type RefOperand struct {
	Ptr   *Symbol // pointer-typed temporary holding the address
	Array *Symbol // array whose element the address designates
}

func (r *RefOperand) String() string { return "@" + r.Ptr.Name }

// Label marks a jump target. Labels compare by pointer identity.
type Label struct {
	id   int
	name string
}

func (l *Label) String() string {
	if l.name != "" {
		return fmt.Sprintf("%s_%d", l.name, l.id)
	}
	return fmt.Sprintf("L%d", l.id)
}

func (*ConstOperand) operand() {}
func (*NameOperand) operand()  {}
func (*RefOperand) operand()   {}
func (*Label) operand()        {}

// Instr is one three-address instruction. Field use depends on Op:
// relational ops branch to Dst when Src1 Op Src2 holds, OpGoto jumps to
// Dst, OpLabel marks Dst, and value-producing ops write Dst from Src1 and
// Src2.
type Instr struct {
	Op   Opcode
	Dst  Operand
	Src1 Operand
	Src2 Operand
}

func (in *Instr) String() string {
	switch in.Op {
	case OpLabel:
		return in.Dst.String() + ":"
	case OpGoto:
		return "goto " + in.Dst.String()
	case OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return fmt.Sprintf("if %s %s %s goto %s", in.Src1, in.Op, in.Src2, in.Dst)
	case OpAssign:
		return fmt.Sprintf("%s <- %s", in.Dst, in.Src1)
	case OpAddress:
		return fmt.Sprintf("%s <- &%s", in.Dst, in.Src1)
	case OpDeref:
		return fmt.Sprintf("%s <- *%s", in.Dst, in.Src1)
	case OpCast:
		return fmt.Sprintf("%s <- cast %s", in.Dst, in.Src1)
	case OpNeg, OpPos, OpNot:
		return fmt.Sprintf("%s <- %s %s", in.Dst, in.Op, in.Src1)
	case OpParam:
		return fmt.Sprintf("param %s <- %s", in.Dst, in.Src1)
	case OpCall:
		if in.Dst != nil {
			return fmt.Sprintf("%s <- call %s", in.Dst, in.Src1)
		}
		return "call " + in.Src1.String()
	case OpReturn:
		if in.Src1 != nil {
			return "return " + in.Src1.String()
		}
		return "return"
	case OpDataOffset:
		return fmt.Sprintf("%s <- dofs %s", in.Dst, in.Src1)
	default:
		// binary arithmetic/logical ops and OpDim
		return fmt.Sprintf("%s <- %s %s, %s", in.Dst, in.Op, in.Src1, in.Src2)
	}
}

// CodeBlock is the linear instruction container one scope lowers into. It
// allocates labels and temporaries and owns the emitted sequence.
type CodeBlock struct {
	owner     *Scope
	instrs    []*Instr
	nextLabel int
	nextTemp  int
}

// NewCodeBlock returns an empty code block owned by scope.
func NewCodeBlock(scope *Scope) *CodeBlock {
	if scope == nil {
		panic("fern: code block without owner scope")
	}
	return &CodeBlock{owner: scope}
}

// Owner returns the scope this block belongs to.
func (cb *CodeBlock) Owner() *Scope { return cb.owner }

// CreateLabel allocates a fresh label. A non-empty hint becomes part of the
// printed name.
func (cb *CodeBlock) CreateLabel(hint string) *Label {
	cb.nextLabel++
	return &Label{id: cb.nextLabel, name: hint}
}

// CreateTemp allocates a fresh temporary of the given type, registering it
// in the owner scope's symbol table, and returns an operand naming it.
func (cb *CodeBlock) CreateTemp(t Type) *NameOperand {
	if t == nil {
		panic("fern: temporary without type")
	}
	for {
		cb.nextTemp++
		name := fmt.Sprintf("t%d", cb.nextTemp)
		sym := NewSymbol(name, SymLocal, t)
		if err := cb.owner.SymbolTable().Add(sym); err == nil {
			return &NameOperand{Sym: sym}
		}
	}
}

// AddInstr appends an instruction.
func (cb *CodeBlock) AddInstr(in *Instr) {
	if in == nil {
		panic("fern: appending nil instruction")
	}
	cb.instrs = append(cb.instrs, in)
}

// AddLabel appends a label marker for l.
func (cb *CodeBlock) AddLabel(l *Label) {
	cb.AddInstr(&Instr{Op: OpLabel, Dst: l})
}

// Instrs returns the emitted sequence in order.
func (cb *CodeBlock) Instrs() []*Instr { return cb.instrs }

// CleanupControlFlow removes labels no jump refers to when they
// immediately precede another label, and unconditional jumps whose target
// is the next instruction. Removals expose further removals, so the pass
// iterates to a fixpoint; running it on already-clean code is a no-op.
func (cb *CodeBlock) CleanupControlFlow() {
	for {
		refs := make(map[*Label]int)
		for _, in := range cb.instrs {
			if in.Op == OpLabel {
				continue
			}
			if l, ok := in.Dst.(*Label); ok {
				refs[l]++
			}
		}

		changed := false
		kept := cb.instrs[:0]
		for i, in := range cb.instrs {
			var next *Instr
			if i+1 < len(cb.instrs) {
				next = cb.instrs[i+1]
			}
			switch in.Op {
			case OpLabel:
				if next != nil && next.Op == OpLabel && refs[in.Dst.(*Label)] == 0 {
					changed = true
					continue
				}
			case OpGoto:
				if next != nil && next.Op == OpLabel && next.Dst == in.Dst {
					changed = true
					continue
				}
			}
			kept = append(kept, in)
		}
		cb.instrs = kept
		if !changed {
			return
		}
	}
}

// Write renders the instruction listing to w, labels flush left and
// instructions indented.
func (cb *CodeBlock) Write(w io.Writer) {
	for _, in := range cb.instrs {
		if in.Op == OpLabel {
			fmt.Fprintf(w, "%s\n", in)
		} else {
			fmt.Fprintf(w, "  %s\n", in)
		}
	}
}

func (cb *CodeBlock) String() string {
	var sb strings.Builder
	cb.Write(&sb)
	return sb.String()
}
