package fern

import (
	"testing"

	"github.com/nalgeon/be"
)

func tk() Token { return Token{Line: 1, Col: 1} }

func declare(tb testing.TB, s *Scope, sym *Symbol) *Symbol {
	tb.Helper()
	be.Err(tb, s.SymbolTable().Add(sym), nil)
	return sym
}

func des(sym *Symbol) *Designator { return NewDesignator(tk(), sym) }

func ci(v int64) *Constant { return NewConstant(tk(), IntType(), v) }

func cbool(v bool) *Constant {
	n := int64(0)
	if v {
		n = 1
	}
	return NewConstant(tk(), BoolType(), n)
}
