package fern

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// BinaryOp applies an arithmetic, logical, or relational operator to two
// operands.
type BinaryOp struct {
	node
	op    Opcode
	left  Expression
	right Expression
}

// NewBinaryOp returns a binary expression. op must be one of the
// arithmetic, logical, or relational opcodes.
func NewBinaryOp(tok Token, op Opcode, left, right Expression) *BinaryOp {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpAnd, OpOr,
		OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
	default:
		panic(fmt.Sprintf("fern: %v is not a binary operator", op))
	}
	if left == nil || right == nil {
		panic("fern: binary op with nil operand")
	}
	return &BinaryOp{node: newNode(tok), op: op, left: left, right: right}
}

// Op returns the operator.
func (b *BinaryOp) Op() Opcode { return b.op }

// Left returns the left operand.
func (b *BinaryOp) Left() Expression { return b.left }

// Right returns the right operand.
func (b *BinaryOp) Right() Expression { return b.right }

// UnaryOp applies negation, identity, or logical not to one operand.
type UnaryOp struct {
	node
	op      Opcode
	operand Expression
}

// NewUnaryOp returns a unary expression. op must be OpNeg, OpPos, or OpNot.
func NewUnaryOp(tok Token, op Opcode, operand Expression) *UnaryOp {
	switch op {
	case OpNeg, OpPos, OpNot:
	default:
		panic(fmt.Sprintf("fern: %v is not a unary operator", op))
	}
	if operand == nil {
		panic("fern: unary op with nil operand")
	}
	return &UnaryOp{node: newNode(tok), op: op, operand: operand}
}

// Op returns the operator.
func (u *UnaryOp) Op() Opcode { return u.op }

// Operand returns the operand.
func (u *UnaryOp) Operand() Expression { return u.operand }

// SpecialOp is an address-of, dereference, or cast applied to one operand.
// Casts carry the target type; the other two derive theirs from the
// operand.
type SpecialOp struct {
	node
	op      Opcode
	operand Expression
	typ     Type // target type, cast only
}

// NewSpecialOp returns an address-of, dereference, or cast expression. typ
// must be non-nil exactly when op is OpCast.
func NewSpecialOp(tok Token, op Opcode, operand Expression, typ Type) *SpecialOp {
	switch op {
	case OpAddress, OpDeref:
		if typ != nil {
			panic(fmt.Sprintf("fern: %v does not take a target type", op))
		}
	case OpCast:
		if typ == nil {
			panic("fern: cast without target type")
		}
	default:
		panic(fmt.Sprintf("fern: %v is not a special operator", op))
	}
	if operand == nil {
		panic("fern: special op with nil operand")
	}
	return &SpecialOp{node: newNode(tok), op: op, operand: operand, typ: typ}
}

// Op returns the operator.
func (s *SpecialOp) Op() Opcode { return s.op }

// Operand returns the operand.
func (s *SpecialOp) Operand() Expression { return s.operand }

// TargetType returns the cast target type, or nil for address-of and
// dereference.
func (s *SpecialOp) TargetType() Type { return s.typ }

// FunctionCall invokes a SymProc symbol with positional arguments.
type FunctionCall struct {
	node
	sym  *Symbol
	args []Expression
}

// NewFunctionCall returns a call expression for the given procedure symbol.
func NewFunctionCall(tok Token, sym *Symbol) *FunctionCall {
	if sym == nil || sym.Kind != SymProc {
		panic("fern: call requires a proc symbol")
	}
	return &FunctionCall{node: newNode(tok), sym: sym}
}

// Symbol returns the callee.
func (f *FunctionCall) Symbol() *Symbol { return f.sym }

// AddArg appends an argument.
func (f *FunctionCall) AddArg(arg Expression) {
	if arg == nil {
		panic("fern: call with nil argument")
	}
	f.args = append(f.args, arg)
}

// NArgs returns the argument count.
func (f *FunctionCall) NArgs() int { return len(f.args) }

// Arg returns the i-th argument.
func (f *FunctionCall) Arg(i int) Expression { return f.args[i] }

// Designator references a plain (non-indexed) symbol.
type Designator struct {
	node
	sym *Symbol
}

// NewDesignator returns a designator for the given symbol.
func NewDesignator(tok Token, sym *Symbol) *Designator {
	if sym == nil {
		panic("fern: designator without symbol")
	}
	return &Designator{node: newNode(tok), sym: sym}
}

// Symbol returns the designated symbol.
func (d *Designator) Symbol() *Symbol { return d.sym }

// ArrayDesignator references an element of an array symbol. Indices are
// appended one by one and then sealed with IndicesComplete; the sequence
// may stop short of the array's dimension count, in which case the
// designator stands for a sub-array.
type ArrayDesignator struct {
	node
	sym     *Symbol
	indices []Expression
	done    bool
}

// NewArrayDesignator returns an indexed designator for the given symbol.
func NewArrayDesignator(tok Token, sym *Symbol) *ArrayDesignator {
	if sym == nil {
		panic("fern: array designator without symbol")
	}
	return &ArrayDesignator{node: newNode(tok), sym: sym}
}

// Symbol returns the designated symbol.
func (a *ArrayDesignator) Symbol() *Symbol { return a.sym }

// AddIndex appends an index expression. It panics after IndicesComplete.
func (a *ArrayDesignator) AddIndex(idx Expression) {
	if a.done {
		panic("fern: adding index to completed array designator")
	}
	if idx == nil {
		panic("fern: array designator with nil index")
	}
	a.indices = append(a.indices, idx)
}

// IndicesComplete seals the index list.
func (a *ArrayDesignator) IndicesComplete() { a.done = true }

// Done reports whether the index list has been sealed.
func (a *ArrayDesignator) Done() bool { return a.done }

// NIndices returns the index count.
func (a *ArrayDesignator) NIndices() int { return len(a.indices) }

// Index returns the i-th index expression.
func (a *ArrayDesignator) Index(i int) Expression { return a.indices[i] }

// Constant is an integer, boolean, or character literal. Booleans are 0 or
// 1, characters their code point.
type Constant struct {
	node
	typ   Type
	value int64
}

// NewConstant returns a literal of the given type and value.
func NewConstant(tok Token, typ Type, value int64) *Constant {
	if typ == nil {
		panic("fern: constant without type")
	}
	return &Constant{node: newNode(tok), typ: typ, value: value}
}

// Type returns the literal's type.
func (c *Constant) Type() Type { return c.typ }

// Value returns the literal's value.
func (c *Constant) Value() int64 { return c.value }

// SetValue replaces the literal's value. It exists so a parser can fold a
// leading minus into the literal it applies to; nothing else mutates nodes
// after construction.
func (c *Constant) SetValue(v int64) { c.value = v }

// ValueString renders the value the way it would be spelled in source:
// true/false for booleans, the decimal value otherwise.
func (c *Constant) ValueString() string {
	if c.typ.Match(BoolType()) {
		if c.value != 0 {
			return "true"
		}
		return "false"
	}
	return strconv.FormatInt(c.value, 10)
}

// stringIDs numbers the synthesized globals backing string literals.
var stringIDs atomic.Int64

// StringConstant is a string literal. Construction synthesizes a global
// array-of-char symbol named "_str_<n>" holding the NUL-terminated bytes
// and registers it in the given scope's symbol table; the literal then
// behaves like a designator for that symbol.
type StringConstant struct {
	node
	typ   Type
	sym   *Symbol
	value string
}

// NewStringConstant returns a string literal. value is the raw source
// spelling with escape sequences still encoded.
func NewStringConstant(tok Token, value string, scope *Scope) *StringConstant {
	if scope == nil {
		panic("fern: string constant without scope")
	}
	text := Unescape(value)
	typ := ArrayOf(len(text)+1, CharType())
	name := fmt.Sprintf("_str_%d", stringIDs.Add(1))
	sym := NewSymbol(name, SymGlobal, typ)
	sym.Data = append([]byte(text), 0)
	if err := scope.SymbolTable().Add(sym); err != nil {
		panic("fern: string constant symbol collision: " + err.Error())
	}
	return &StringConstant{node: newNode(tok), typ: typ, sym: sym, value: text}
}

// Type returns the literal's array-of-char type.
func (s *StringConstant) Type() Type { return s.typ }

// Symbol returns the synthesized backing symbol.
func (s *StringConstant) Symbol() *Symbol { return s.sym }

// Value returns the decoded string contents without the trailing NUL.
func (s *StringConstant) Value() string { return s.value }

func (*BinaryOp) exprNode()        {}
func (*UnaryOp) exprNode()         {}
func (*SpecialOp) exprNode()       {}
func (*FunctionCall) exprNode()    {}
func (*Designator) exprNode()      {}
func (*ArrayDesignator) exprNode() {}
func (*Constant) exprNode()        {}
func (*StringConstant) exprNode()  {}
