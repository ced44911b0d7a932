// Package fieldtype implements the field type grammar shared by all engines.
//
// A field's type is written as compact text such as "varchar(255)",
// "decimal(10,2)" or "array(int32)". Parse turns that text into a Type,
// a closed set of variants that each engine maps to its own vocabulary.
package fieldtype

import (
	"fmt"
	"strconv"
)

// Kind identifies a Type variant.
type Kind uint8

// Kinds in grammar order. The zero value is not a valid kind.
const (
	KindChar Kind = iota + 1
	KindVarchar
	KindFixedString
	KindText
	KindVarBinary
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindUInt128
	KindUInt256
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt128
	KindInt256
	KindFloat16
	KindFloat32
	KindFloat64
	KindDouble
	KindDecimal
	KindBoolean
	KindDate
	KindTime
	KindDateTime
	KindDateTime64
	KindTimestamp
	KindJSON
	KindIPv4
	KindIPv6
	KindArray
	KindStruct
	KindNull

	kindEnd
)

var kindNames = [...]string{
	KindChar:        "char",
	KindVarchar:     "varchar",
	KindFixedString: "fixedstring",
	KindText:        "text",
	KindVarBinary:   "varbinary",
	KindUInt8:       "uint8",
	KindUInt16:      "uint16",
	KindUInt32:      "uint32",
	KindUInt64:      "uint64",
	KindUInt128:     "uint128",
	KindUInt256:     "uint256",
	KindInt8:        "int8",
	KindInt16:       "int16",
	KindInt32:       "int32",
	KindInt64:       "int64",
	KindInt128:      "int128",
	KindInt256:      "int256",
	KindFloat16:     "float16",
	KindFloat32:     "float32",
	KindFloat64:     "float64",
	KindDouble:      "double",
	KindDecimal:     "decimal",
	KindBoolean:     "boolean",
	KindDate:        "date",
	KindTime:        "time",
	KindDateTime:    "datetime",
	KindDateTime64:  "datetime64",
	KindTimestamp:   "timestamp",
	KindJSON:        "json",
	KindIPv4:        "ipv4",
	KindIPv6:        "ipv6",
	KindArray:       "array",
	KindStruct:      "struct",
	KindNull:        "null",
}

// String returns the grammar name of the kind.
func (k Kind) String() string {
	if k == 0 || k >= kindEnd {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// HasArgs reports whether the kind carries parameters and therefore has its
// own Type implementation instead of Basic.
func (k Kind) HasArgs() bool {
	switch k {
	case KindChar, KindVarchar, KindFixedString, KindDecimal, KindArray:
		return true
	}
	return false
}

// Kinds returns every kind in grammar order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindEnd-1)
	for k := KindChar; k < kindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Type is a parsed field type. The set of implementations is closed:
// Basic, Char, Varchar, FixedString, Decimal and Array.
type Type interface {
	// Kind returns the variant tag.
	Kind() Kind
	// String returns the canonical grammar text; Parse(t.String()) yields t.
	String() string

	fieldType()
}

// Basic is an argument-free type such as int32 or datetime.
type Basic Kind

// Argument-free types.
const (
	Text       = Basic(KindText)
	VarBinary  = Basic(KindVarBinary)
	UInt8      = Basic(KindUInt8)
	UInt16     = Basic(KindUInt16)
	UInt32     = Basic(KindUInt32)
	UInt64     = Basic(KindUInt64)
	UInt128    = Basic(KindUInt128)
	UInt256    = Basic(KindUInt256)
	Int8       = Basic(KindInt8)
	Int16      = Basic(KindInt16)
	Int32      = Basic(KindInt32)
	Int64      = Basic(KindInt64)
	Int128     = Basic(KindInt128)
	Int256     = Basic(KindInt256)
	Float16    = Basic(KindFloat16)
	Float32    = Basic(KindFloat32)
	Float64    = Basic(KindFloat64)
	Double     = Basic(KindDouble)
	Boolean    = Basic(KindBoolean)
	Date       = Basic(KindDate)
	Time       = Basic(KindTime)
	DateTime   = Basic(KindDateTime)
	DateTime64 = Basic(KindDateTime64)
	Timestamp  = Basic(KindTimestamp)
	JSON       = Basic(KindJSON)
	IPv4       = Basic(KindIPv4)
	IPv6       = Basic(KindIPv6)
	Struct     = Basic(KindStruct)
	Null       = Basic(KindNull)
)

func (b Basic) Kind() Kind     { return Kind(b) }
func (b Basic) String() string { return Kind(b).String() }
func (Basic) fieldType()       {}

// Char is a bounded character type.
type Char struct {
	Width uint8
}

func (Char) Kind() Kind       { return KindChar }
func (c Char) String() string { return fmt.Sprintf("char(%d)", c.Width) }
func (Char) fieldType()       {}

// Varchar is a bounded variable character type.
type Varchar struct {
	Width uint32
}

func (Varchar) Kind() Kind       { return KindVarchar }
func (v Varchar) String() string { return fmt.Sprintf("varchar(%d)", v.Width) }
func (Varchar) fieldType()       {}

// FixedString is a string of exactly Length bytes.
type FixedString struct {
	Length uint32
}

func (FixedString) Kind() Kind       { return KindFixedString }
func (f FixedString) String() string { return fmt.Sprintf("fixedstring(%d)", f.Length) }
func (FixedString) fieldType()       {}

// Decimal is a fixed-precision number with Scale digits after the point.
type Decimal struct {
	Precision uint32
	Scale     uint32
}

func (Decimal) Kind() Kind       { return KindDecimal }
func (d Decimal) String() string { return fmt.Sprintf("decimal(%d,%d)", d.Precision, d.Scale) }
func (Decimal) fieldType()       {}

// Array is a list of Elem values. Elem is never nil.
type Array struct {
	Elem Type
}

func (Array) Kind() Kind       { return KindArray }
func (a Array) String() string { return "array(" + a.Elem.String() + ")" }
func (Array) fieldType()       {}

// Depth returns how many arrays wrap the innermost element type.
func (a Array) Depth() int {
	depth := 1
	for inner, ok := a.Elem.(Array); ok; inner, ok = inner.Elem.(Array) {
		depth++
	}
	return depth
}

// Innermost returns the first non-array element type.
func (a Array) Innermost() Type {
	var t Type = a
	for {
		arr, ok := t.(Array)
		if !ok {
			return t
		}
		t = arr.Elem
	}
}
