package ast

import (
	"fmt"
	"strconv"
)

// Names of the opaque builtin types literals inhabit.
const (
	BuiltinInt    Identifier = "Int"
	BuiltinFloat  Identifier = "Float"
	BuiltinChar   Identifier = "Char"
	BuiltinString Identifier = "String"
)

var Builtins = []Identifier{BuiltinInt, BuiltinFloat, BuiltinChar, BuiltinString}

type ConstValue interface {
	fmt.Stringer
	EqualsTo(o ConstValue) bool
	TypeName() Identifier
}

type CChar struct {
	Value rune
}

func (c CChar) EqualsTo(o ConstValue) bool {
	if y, ok := o.(CChar); ok {
		return c.Value == y.Value
	}
	return false
}

func (c CChar) TypeName() Identifier {
	return BuiltinChar
}

func (c CChar) String() string {
	return strconv.QuoteRune(c.Value)
}

type CInt struct {
	Value int64
}

func (c CInt) EqualsTo(o ConstValue) bool {
	if y, ok := o.(CInt); ok {
		return c.Value == y.Value
	}
	return false
}

func (c CInt) TypeName() Identifier {
	return BuiltinInt
}

func (c CInt) String() string {
	return fmt.Sprintf("%d", c.Value)
}

type CFloat struct {
	Value float64
}

func (c CFloat) EqualsTo(o ConstValue) bool {
	if y, ok := o.(CFloat); ok {
		return c.Value == y.Value
	}
	return false
}

func (c CFloat) TypeName() Identifier {
	return BuiltinFloat
}

func (c CFloat) String() string {
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

type CString struct {
	Value string
}

func (c CString) EqualsTo(o ConstValue) bool {
	if y, ok := o.(CString); ok {
		return c.Value == y.Value
	}
	return false
}

func (c CString) TypeName() Identifier {
	return BuiltinString
}

func (c CString) String() string {
	return strconv.Quote(c.Value)
}
