package fern

import (
	"fmt"
	"io"
	"strings"
)

func ind(n int) string { return strings.Repeat(" ", n) }

// Print writes an indented listing of the scope: its symbol table, its
// statements annotated with their computed types, and its nested scopes.
func (s *Scope) Print(w io.Writer, indent int) {
	kind := "procedure"
	if s.parent == nil {
		kind = "module"
	}
	fmt.Fprintf(w, "%s%s '%s'\n", ind(indent), kind, s.name)

	fmt.Fprintf(w, "%s  symbol table:\n", ind(indent))
	s.symtab.Print(w, indent+4)

	fmt.Fprintf(w, "%s  statement list:\n", ind(indent))
	if len(s.stmts) == 0 {
		fmt.Fprintf(w, "%sempty.\n", ind(indent+4))
	}
	for _, stmt := range s.stmts {
		printStatement(w, stmt, indent+4)
	}

	fmt.Fprintf(w, "%s  nested scopes:\n", ind(indent))
	if len(s.children) == 0 {
		fmt.Fprintf(w, "%sempty.\n", ind(indent+4))
	}
	for _, child := range s.children {
		child.Print(w, indent+4)
	}
}

func printBody(w io.Writer, stmts []Statement, indent int) {
	if len(stmts) == 0 {
		fmt.Fprintf(w, "%sempty.\n", ind(indent))
		return
	}
	for _, stmt := range stmts {
		printStatement(w, stmt, indent)
	}
}

func printStatement(w io.Writer, s Statement, indent int) {
	switch s := s.(type) {
	case *Assign:
		fmt.Fprintf(w, "%s:= <%s>\n", ind(indent), typeString(TypeOf(s.lhs)))
		printExpression(w, s.lhs, indent+2)
		printExpression(w, s.rhs, indent+2)

	case *CallStmt:
		printExpression(w, s.call, indent)

	case *Return:
		fmt.Fprintf(w, "%sreturn <%s>\n", ind(indent), typeString(s.scope.ReturnType()))
		if s.expr != nil {
			printExpression(w, s.expr, indent+2)
		}

	case *If:
		fmt.Fprintf(w, "%sif cond/then/else\n", ind(indent))
		printExpression(w, s.cond, indent+2)
		fmt.Fprintf(w, "%sif-body:\n", ind(indent))
		printBody(w, s.then, indent+2)
		fmt.Fprintf(w, "%selse-body:\n", ind(indent))
		printBody(w, s.els, indent+2)

	case *While:
		fmt.Fprintf(w, "%swhile cond/body\n", ind(indent))
		printExpression(w, s.cond, indent+2)
		fmt.Fprintf(w, "%swhile-body:\n", ind(indent))
		printBody(w, s.body, indent+2)

	default:
		panic(fmt.Sprintf("fern: unknown statement %T", s))
	}
}

func printExpression(w io.Writer, e Expression, indent int) {
	t := typeString(TypeOf(e))
	switch e := e.(type) {
	case *BinaryOp:
		fmt.Fprintf(w, "%s%s <%s>\n", ind(indent), e.op, t)
		printExpression(w, e.left, indent+2)
		printExpression(w, e.right, indent+2)

	case *UnaryOp:
		fmt.Fprintf(w, "%s%s <%s>\n", ind(indent), e.op, t)
		printExpression(w, e.operand, indent+2)

	case *SpecialOp:
		fmt.Fprintf(w, "%s%s <%s>\n", ind(indent), e.op, t)
		printExpression(w, e.operand, indent+2)

	case *FunctionCall:
		fmt.Fprintf(w, "%scall %s <%s>\n", ind(indent), e.sym.Name, t)
		for _, arg := range e.args {
			printExpression(w, arg, indent+2)
		}

	case *Designator:
		fmt.Fprintf(w, "%s%s <%s>\n", ind(indent), e.sym.Name, t)

	case *ArrayDesignator:
		fmt.Fprintf(w, "%s%s <%s>\n", ind(indent), e.sym.Name, t)
		for _, idx := range e.indices {
			printExpression(w, idx, indent+2)
		}

	case *Constant:
		fmt.Fprintf(w, "%s%s <%s>\n", ind(indent), e.ValueString(), t)

	case *StringConstant:
		fmt.Fprintf(w, "%s\"%s\" <%s>\n", ind(indent), Escape(e.value), t)

	default:
		panic(fmt.Sprintf("fern: unknown expression %T", e))
	}
}

// WriteDot writes the tree as a Graphviz digraph. Solid edges are
// ownership, dotted edges are statement sequencing.
func (s *Scope) WriteDot(w io.Writer) {
	fmt.Fprintf(w, "digraph AST {\n")
	fmt.Fprintf(w, "  graph [fontname=\"Courier\"];\n")
	fmt.Fprintf(w, "  node [fontname=\"Courier\",shape=box];\n")
	s.dotNodes(w)
	fmt.Fprintf(w, "}\n")
}

func (s *Scope) dotNodes(w io.Writer) {
	fmt.Fprintf(w, "  %s [label=\"%s\",shape=ellipse];\n", dotID(&s.node), dotEscape(s.name))
	var prev string
	for _, stmt := range s.stmts {
		id := stmtDot(w, stmt)
		fmt.Fprintf(w, "  %s -> %s;\n", dotID(&s.node), id)
		if prev != "" {
			fmt.Fprintf(w, "  %s -> %s [style=dotted];\n", prev, id)
		}
		prev = id
	}
	for _, child := range s.children {
		child.dotNodes(w)
		fmt.Fprintf(w, "  %s -> %s [style=bold];\n", dotID(&s.node), dotID(&child.node))
	}
}

func dotID(n *node) string { return fmt.Sprintf("node%d", n.id) }

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func dotBody(w io.Writer, from string, stmts []Statement) {
	var prev string
	for _, stmt := range stmts {
		id := stmtDot(w, stmt)
		fmt.Fprintf(w, "  %s -> %s;\n", from, id)
		if prev != "" {
			fmt.Fprintf(w, "  %s -> %s [style=dotted];\n", prev, id)
		}
		prev = id
	}
}

// stmtDot writes the node and subtree for one statement and returns its
// dot identifier. A call statement is drawn as the call expression itself.
func stmtDot(w io.Writer, s Statement) string {
	switch s := s.(type) {
	case *Assign:
		id := dotID(s.base())
		fmt.Fprintf(w, "  %s [label=\":=\"];\n", id)
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, s.lhs))
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, s.rhs))
		return id

	case *CallStmt:
		return exprDot(w, s.call)

	case *Return:
		id := dotID(s.base())
		fmt.Fprintf(w, "  %s [label=\"return\"];\n", id)
		if s.expr != nil {
			fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, s.expr))
		}
		return id

	case *If:
		id := dotID(s.base())
		fmt.Fprintf(w, "  %s [label=\"if\"];\n", id)
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, s.cond))
		dotBody(w, id, s.then)
		dotBody(w, id, s.els)
		return id

	case *While:
		id := dotID(s.base())
		fmt.Fprintf(w, "  %s [label=\"while\"];\n", id)
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, s.cond))
		dotBody(w, id, s.body)
		return id

	default:
		panic(fmt.Sprintf("fern: unknown statement %T", s))
	}
}

func exprDot(w io.Writer, e Expression) string {
	id := dotID(e.base())
	switch e := e.(type) {
	case *BinaryOp:
		fmt.Fprintf(w, "  %s [label=\"%s\"];\n", id, e.op)
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, e.left))
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, e.right))

	case *UnaryOp:
		fmt.Fprintf(w, "  %s [label=\"%s\"];\n", id, e.op)
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, e.operand))

	case *SpecialOp:
		fmt.Fprintf(w, "  %s [label=\"%s\"];\n", id, e.op)
		fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, e.operand))

	case *FunctionCall:
		fmt.Fprintf(w, "  %s [label=\"call %s\"];\n", id, dotEscape(e.sym.Name))
		for _, arg := range e.args {
			fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, arg))
		}

	case *Designator:
		fmt.Fprintf(w, "  %s [label=\"%s\"];\n", id, dotEscape(e.sym.Name))

	case *ArrayDesignator:
		fmt.Fprintf(w, "  %s [label=\"%s[]\"];\n", id, dotEscape(e.sym.Name))
		for _, idx := range e.indices {
			fmt.Fprintf(w, "  %s -> %s;\n", id, exprDot(w, idx))
		}

	case *Constant:
		fmt.Fprintf(w, "  %s [label=\"%s\"];\n", id, e.ValueString())

	case *StringConstant:
		fmt.Fprintf(w, "  %s [label=\"\\\"%s\\\"\"];\n", id, dotEscape(Escape(e.value)))

	default:
		panic(fmt.Sprintf("fern: unknown expression %T", e))
	}
	return id
}
