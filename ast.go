package fern

import "sync/atomic"

// nodeIDs numbers every node created during a compilation run. IDs only
// need to be unique, never dense, so a process-wide atomic is enough even
// when several compilations run concurrently.
var nodeIDs atomic.Int64

type node struct {
	id   int
	tok  Token
	addr Operand // set once the node has been lowered
}

func newNode(tok Token) node {
	return node{id: int(nodeIDs.Add(1)), tok: tok}
}

func (n *node) ID() int { return n.id }

func (n *node) Tok() Token { return n.tok }

// TacAddr returns the operand this node lowered to, or nil before lowering.
func (n *node) TacAddr() Operand { return n.addr }

func (n *node) base() *node { return n }

// Node is the common surface of every AST node. The unexported base method
// closes the set of implementations to this package, so the central type
// switches in check.go, typeof.go, emit.go and dump.go are exhaustive.
type Node interface {
	ID() int
	Tok() Token
	TacAddr() Operand
	base() *node
}

// Statement is a control-flow-bearing node: Assign, CallStmt, Return, If,
// or While.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a value-bearing node: BinaryOp, UnaryOp, SpecialOp,
// FunctionCall, Designator, ArrayDesignator, Constant, or StringConstant.
type Expression interface {
	Node
	exprNode()
}

// Scope is the shared state of Module and Procedure: a name, an owned
// symbol table chained to the parent's, the statement sequence, nested
// child scopes in declaration order, and the code block produced by
// GenerateCode.
type Scope struct {
	node
	name     string
	symtab   *SymbolTable
	parent   *Scope
	children []*Scope
	stmts    []Statement
	ret      Type
	cb       *CodeBlock
}

// Name returns the scope's declared name.
func (s *Scope) Name() string { return s.name }

// Parent returns the enclosing scope, or nil for the root module.
func (s *Scope) Parent() *Scope { return s.parent }

// Children returns the nested scopes in declaration order.
func (s *Scope) Children() []*Scope { return s.children }

// SymbolTable returns the scope's owned symbol table.
func (s *Scope) SymbolTable() *SymbolTable { return s.symtab }

// ReturnType returns the scope's declared result type: NoType for modules
// and procedures, the function's result type otherwise.
func (s *Scope) ReturnType() Type { return s.ret }

// AddStatement appends a statement to the scope's body.
func (s *Scope) AddStatement(stmt Statement) {
	if stmt == nil {
		panic("fern: adding nil statement")
	}
	s.stmts = append(s.stmts, stmt)
}

// SetStatements replaces the scope's body.
func (s *Scope) SetStatements(stmts []Statement) { s.stmts = stmts }

// Statements returns the scope's body in order.
func (s *Scope) Statements() []Statement { return s.stmts }

// Check type-checks the scope's statements and then every nested scope,
// stopping at the first violation.
func (s *Scope) Check() error {
	for _, stmt := range s.stmts {
		if err := CheckStatement(stmt); err != nil {
			return err
		}
	}
	for _, child := range s.children {
		if err := child.Check(); err != nil {
			return err
		}
	}
	return nil
}

// GenerateCode lowers the scope's statement sequence into its code block,
// runs the control-flow cleanup, and recurses into nested scopes. It is
// idempotent: the block is built once and returned thereafter. The scope
// must have passed Check; lowering an ill-typed tree is undefined.
func (s *Scope) GenerateCode() *CodeBlock {
	if s.cb == nil {
		s.cb = NewCodeBlock(s)
		for _, stmt := range s.stmts {
			next := s.cb.CreateLabel("")
			EmitStatement(s.cb, stmt, next)
			s.cb.AddLabel(next)
		}
		s.cb.CleanupControlFlow()
	}
	for _, child := range s.children {
		child.GenerateCode()
	}
	return s.cb
}

// CodeBlock returns the scope's lowered code, or nil before GenerateCode.
func (s *Scope) CodeBlock() *CodeBlock { return s.cb }

func (s *Scope) addChild(child *Scope) {
	s.children = append(s.children, child)
}

// Module is the root scope of a compilation unit. Its symbols are globals.
type Module struct {
	Scope
}

// NewModule returns an empty module with a fresh root symbol table.
func NewModule(tok Token, name string) *Module {
	m := &Module{Scope{
		node: newNode(tok),
		name: name,
		ret:  NoType(),
	}}
	m.symtab = NewSymbolTable(nil)
	return m
}

// Procedure is a nested scope declared by a SymProc symbol. Its symbol
// table chains to the parent scope's for lexical name resolution.
type Procedure struct {
	Scope
	sym *Symbol
}

// NewProcedure creates a procedure scope under parent and registers it as a
// child. sym must be a SymProc carrying the signature; its Type is the
// procedure's return type.
func NewProcedure(tok Token, name string, parent *Scope, sym *Symbol) *Procedure {
	if parent == nil {
		panic("fern: procedure without parent scope")
	}
	if sym == nil || sym.Kind != SymProc {
		panic("fern: procedure requires a proc symbol")
	}
	p := &Procedure{
		Scope: Scope{
			node: newNode(tok),
			name: name,
			ret:  sym.Type,
		},
		sym: sym,
	}
	p.parent = parent
	p.symtab = NewSymbolTable(parent.SymbolTable())
	parent.addChild(&p.Scope)
	return p
}

// Symbol returns the procedure's declaring symbol.
func (p *Procedure) Symbol() *Symbol { return p.sym }

// Assign stores the value of rhs into the location designated by lhs.
type Assign struct {
	node
	lhs Expression
	rhs Expression
}

// NewAssign returns an assignment statement. lhs must be a designator.
func NewAssign(tok Token, lhs, rhs Expression) *Assign {
	if lhs == nil || rhs == nil {
		panic("fern: assignment with nil operand")
	}
	return &Assign{node: newNode(tok), lhs: lhs, rhs: rhs}
}

// LHS returns the destination designator.
func (a *Assign) LHS() Expression { return a.lhs }

// RHS returns the source expression.
func (a *Assign) RHS() Expression { return a.rhs }

// CallStmt is a procedure call in statement position; any result value is
// discarded.
type CallStmt struct {
	node
	call *FunctionCall
}

// NewCallStmt wraps a call expression as a statement.
func NewCallStmt(tok Token, call *FunctionCall) *CallStmt {
	if call == nil {
		panic("fern: call statement without call")
	}
	return &CallStmt{node: newNode(tok), call: call}
}

// Call returns the wrapped call expression.
func (c *CallStmt) Call() *FunctionCall { return c.call }

// Return leaves the enclosing scope, optionally carrying a value. The scope
// reference is non-owning and used only for return-type checking.
type Return struct {
	node
	scope *Scope
	expr  Expression // nil for plain return
}

// NewReturn returns a return statement for the given enclosing scope.
func NewReturn(tok Token, scope *Scope, expr Expression) *Return {
	if scope == nil {
		panic("fern: return without enclosing scope")
	}
	return &Return{node: newNode(tok), scope: scope, expr: expr}
}

// Scope returns the enclosing scope.
func (r *Return) Scope() *Scope { return r.scope }

// Expr returns the returned expression, or nil.
func (r *Return) Expr() Expression { return r.expr }

// If branches on a boolean condition. Either branch may be empty.
type If struct {
	node
	cond Expression
	then []Statement
	els  []Statement
}

// NewIf returns an if statement.
func NewIf(tok Token, cond Expression, then, els []Statement) *If {
	if cond == nil {
		panic("fern: if without condition")
	}
	return &If{node: newNode(tok), cond: cond, then: then, els: els}
}

// Cond returns the condition expression.
func (i *If) Cond() Expression { return i.cond }

// Then returns the statements of the true branch.
func (i *If) Then() []Statement { return i.then }

// Else returns the statements of the false branch (possibly empty).
func (i *If) Else() []Statement { return i.els }

// While loops over its body as long as the condition holds.
type While struct {
	node
	cond Expression
	body []Statement
}

// NewWhile returns a while statement.
func NewWhile(tok Token, cond Expression, body []Statement) *While {
	if cond == nil {
		panic("fern: while without condition")
	}
	return &While{node: newNode(tok), cond: cond, body: body}
}

// Cond returns the condition expression.
func (w *While) Cond() Expression { return w.cond }

// Body returns the loop body.
func (w *While) Body() []Statement { return w.body }

func (*Assign) stmtNode()   {}
func (*CallStmt) stmtNode() {}
func (*Return) stmtNode()   {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
