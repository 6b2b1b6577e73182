package fern

import (
	"fmt"
	"io"
	"strings"
)

// SymbolKind classifies symbol table entries.
type SymbolKind int

const (
	SymGlobal SymbolKind = iota
	SymLocal
	SymParam
	SymProc
)

func (k SymbolKind) String() string {
	switch k {
	case SymGlobal:
		return "global"
	case SymLocal:
		return "local"
	case SymParam:
		return "param"
	case SymProc:
		return "proc"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Symbol is a named entity in a scope: a variable, a parameter, or a
// procedure. For SymProc entries Type is the return type (NoType for
// procedures without a result) and Params holds the declared parameters in
// order.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Type   Type
	Params []*Symbol // SymProc only
	Data   []byte    // initialization data for globals (string literals)
}

// NewSymbol returns a variable or parameter symbol.
func NewSymbol(name string, kind SymbolKind, typ Type) *Symbol {
	return &Symbol{Name: name, Kind: kind, Type: typ}
}

// NewProcSymbol returns a procedure symbol with the given return type
// (NoType for none) and parameters.
func NewProcSymbol(name string, ret Type, params ...*Symbol) *Symbol {
	return &Symbol{Name: name, Kind: SymProc, Type: ret, Params: params}
}

func (s *Symbol) String() string {
	if s.Kind == SymProc {
		args := make([]string, len(s.Params))
		for i, p := range s.Params {
			args[i] = typeString(p.Type)
		}
		return fmt.Sprintf("%s(%s) -> %s", s.Name, strings.Join(args, ", "), typeString(s.Type))
	}
	return fmt.Sprintf("%s <%s>", s.Name, typeString(s.Type))
}

// SymbolTable maps names to symbols within one scope. Tables form a chain
// through parent for lexical nesting; Lookup walks the chain, LookupLocal
// does not. Insertion order is preserved for dumps.
type SymbolTable struct {
	parent  *SymbolTable
	symbols []*Symbol
	byName  map[string]*Symbol
}

// NewSymbolTable returns an empty table chained to parent (nil for the
// module scope).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{parent: parent, byName: make(map[string]*Symbol)}
}

// Parent returns the enclosing scope's table, or nil.
func (st *SymbolTable) Parent() *SymbolTable { return st.parent }

// Add declares a symbol in this scope. Redeclaring a name within the same
// scope is an error; shadowing an outer scope is not.
func (st *SymbolTable) Add(sym *Symbol) error {
	if sym == nil {
		panic("fern: adding nil symbol")
	}
	if _, ok := st.byName[sym.Name]; ok {
		return fmt.Errorf("symbol '%s' already declared in this scope", sym.Name)
	}
	st.byName[sym.Name] = sym
	st.symbols = append(st.symbols, sym)
	return nil
}

// Lookup resolves name through the scope chain, innermost first. It returns
// nil if the name is not declared anywhere.
func (st *SymbolTable) Lookup(name string) *Symbol {
	for t := st; t != nil; t = t.parent {
		if sym, ok := t.byName[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves name in this scope only.
func (st *SymbolTable) LookupLocal(name string) *Symbol {
	return st.byName[name]
}

// Symbols returns the entries of this scope in declaration order.
func (st *SymbolTable) Symbols() []*Symbol { return st.symbols }

// Print writes the table's entries, one per line, indented.
func (st *SymbolTable) Print(w io.Writer, indent int) {
	ind := strings.Repeat(" ", indent)
	if len(st.symbols) == 0 {
		fmt.Fprintf(w, "%sempty.\n", ind)
		return
	}
	for _, sym := range st.symbols {
		fmt.Fprintf(w, "%s[ %s %s ]\n", ind, sym.Kind, sym)
	}
}
