package fern

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestBasicTypeMatch(t *testing.T) {
	be.True(t, IntType().Match(IntType()))
	be.True(t, BoolType().Match(BoolType()))
	be.True(t, !IntType().Match(BoolType()))
	be.True(t, !CharType().Match(IntType()))
	be.True(t, !IntType().Match(NoType()))
}

func TestBasicTypeSize(t *testing.T) {
	be.Equal(t, IntType().Size(), 4)
	be.Equal(t, BoolType().Size(), 1)
	be.Equal(t, CharType().Size(), 1)
}

func TestPointerMatch(t *testing.T) {
	pi := PointerTo(IntType())
	pb := PointerTo(BoolType())
	be.True(t, pi.Match(PointerTo(IntType())))
	be.True(t, !pi.Match(pb))
	be.True(t, !pi.Match(IntType()))

	// a pointer with no base type matches any pointer
	be.True(t, PointerTo(nil).Match(pi))
	be.True(t, PointerTo(nil).Match(pb))
}

func TestPointerIsScalar(t *testing.T) {
	be.True(t, PointerTo(IntType()).IsScalar())
	be.Equal(t, PointerTo(IntType()).Size(), 8)
}

func TestArrayDimensions(t *testing.T) {
	a := ArrayOf(3, ArrayOf(4, IntType()))
	be.Equal(t, a.NDim(), 2)
	be.Equal(t, a.Dim(1), 3)
	be.Equal(t, a.Dim(2), 4)
	be.Equal(t, a.BaseType(), Type(IntType()))
	be.Equal(t, a.Size(), 48)
	be.True(t, !a.IsScalar())
}

func TestArrayMatchOpenExtent(t *testing.T) {
	fixed := ArrayOf(10, CharType())
	open := ArrayOf(OpenExtent, CharType())
	be.True(t, open.Match(fixed))
	be.True(t, fixed.Match(open))
	be.True(t, !fixed.Match(ArrayOf(9, CharType())))
	be.True(t, !fixed.Match(ArrayOf(10, IntType())))
}

func TestTypeStrings(t *testing.T) {
	be.Equal(t, IntType().String(), "integer")
	be.Equal(t, BoolType().String(), "boolean")
	be.Equal(t, NoType().String(), "void")
	be.Equal(t, PointerTo(IntType()).String(), "ptr to integer")
	be.Equal(t, ArrayOf(3, ArrayOf(4, IntType())).String(), "integer[3][4]")
	be.Equal(t, typeString(nil), "<INVALID>")
}
