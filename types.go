package fern

import (
	"fmt"
	"strings"
)

// Type describes a Fern type. Identity is structural: two types match when
// Match says so, not when the pointers are equal.
type Type interface {
	// Match reports whether t is assignment-compatible with the receiver.
	Match(t Type) bool
	// IsScalar reports whether values of the type fit in a register
	// (integers, booleans, chars, and pointers; not arrays or void).
	IsScalar() bool
	// Size is the value's size in bytes. Open arrays report -1.
	Size() int
	String() string
}

type basicKind int

const (
	basicInt basicKind = iota
	basicBool
	basicChar
)

// BasicType is one of the built-in scalar types.
type BasicType struct {
	kind basicKind
}

var (
	intType  = &BasicType{basicInt}
	boolType = &BasicType{basicBool}
	charType = &BasicType{basicChar}
	voidType = &VoidType{}
)

// IntType returns the signed 32-bit integer type.
func IntType() *BasicType { return intType }

// BoolType returns the boolean type.
func BoolType() *BasicType { return boolType }

// CharType returns the 8-bit character type.
func CharType() *BasicType { return charType }

func (b *BasicType) Match(t Type) bool {
	o, ok := t.(*BasicType)
	return ok && o.kind == b.kind
}

func (b *BasicType) IsScalar() bool { return true }

func (b *BasicType) Size() int {
	if b.kind == basicInt {
		return 4
	}
	return 1
}

func (b *BasicType) String() string {
	switch b.kind {
	case basicInt:
		return "integer"
	case basicBool:
		return "boolean"
	default:
		return "char"
	}
}

// VoidType is the "no value" type of procedures without a result. It is
// never the type of an expression that passes checking.
type VoidType struct{}

// NoType returns the void type.
func NoType() *VoidType { return voidType }

func (v *VoidType) Match(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}

func (v *VoidType) IsScalar() bool { return false }
func (v *VoidType) Size() int      { return 0 }
func (v *VoidType) String() string { return "void" }

// PointerType is a typed pointer.
type PointerType struct {
	base Type
}

// PointerTo returns the pointer type with the given pointee.
func PointerTo(base Type) *PointerType { return &PointerType{base: base} }

// Base returns the pointee type.
func (p *PointerType) Base() Type { return p.base }

func (p *PointerType) Match(t Type) bool {
	o, ok := t.(*PointerType)
	if !ok {
		return false
	}
	if p.base == nil || o.base == nil {
		return true
	}
	return p.base.Match(o.base)
}

func (p *PointerType) IsScalar() bool { return true }
func (p *PointerType) Size() int      { return 8 }

func (p *PointerType) String() string {
	if p.base == nil {
		return "ptr"
	}
	return "ptr to " + p.base.String()
}

// OpenExtent marks an array dimension whose extent is only known at run
// time (open arrays in parameter positions).
const OpenExtent = -1

// ArrayType is an array with a (possibly open) extent. Multi-dimensional
// arrays nest: ArrayOf(3, ArrayOf(4, IntType())) is integer[3][4].
type ArrayType struct {
	extent int
	elem   Type
}

// ArrayOf returns the array type with the given extent and element type.
// Pass OpenExtent for an open array.
func ArrayOf(extent int, elem Type) *ArrayType {
	if elem == nil {
		panic("fern: array of nil element type")
	}
	return &ArrayType{extent: extent, elem: elem}
}

// Extent returns the outermost dimension's extent, or OpenExtent.
func (a *ArrayType) Extent() int { return a.extent }

// Elem returns the type with one dimension peeled off.
func (a *ArrayType) Elem() Type { return a.elem }

// BaseType returns the innermost non-array element type.
func (a *ArrayType) BaseType() Type {
	t := a.elem
	for {
		inner, ok := t.(*ArrayType)
		if !ok {
			return t
		}
		t = inner.elem
	}
}

// NDim returns the number of dimensions.
func (a *ArrayType) NDim() int {
	n := 1
	t := a.elem
	for {
		inner, ok := t.(*ArrayType)
		if !ok {
			return n
		}
		n++
		t = inner.elem
	}
}

// Dim returns the statically declared extent of dimension d (1-based,
// outermost first), or OpenExtent. Requesting a dimension out of range
// panics; callers validate against NDim first.
func (a *ArrayType) Dim(d int) int {
	if d < 1 || d > a.NDim() {
		panic(fmt.Sprintf("fern: array dimension %d out of range", d))
	}
	t := Type(a)
	for ; d > 1; d-- {
		t = t.(*ArrayType).elem
	}
	return t.(*ArrayType).extent
}

// Match allows an open extent on either side to stand in for any extent;
// element types must match exactly.
func (a *ArrayType) Match(t Type) bool {
	o, ok := t.(*ArrayType)
	if !ok {
		return false
	}
	if a.extent != OpenExtent && o.extent != OpenExtent && a.extent != o.extent {
		return false
	}
	return a.elem.Match(o.elem)
}

func (a *ArrayType) IsScalar() bool { return false }

func (a *ArrayType) Size() int {
	if a.extent == OpenExtent {
		return -1
	}
	elem := a.elem.Size()
	if elem < 0 {
		return -1
	}
	return a.extent * elem
}

func (a *ArrayType) String() string {
	var dims strings.Builder
	t := Type(a)
	for {
		inner, ok := t.(*ArrayType)
		if !ok {
			break
		}
		if inner.extent == OpenExtent {
			dims.WriteString("[]")
		} else {
			fmt.Fprintf(&dims, "[%d]", inner.extent)
		}
		t = inner.elem
	}
	return t.String() + dims.String()
}

// typeString renders a possibly missing type for diagnostics.
func typeString(t Type) string {
	if t == nil {
		return "<INVALID>"
	}
	return t.String()
}
