// pkg/types/value.go
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueType represents the type of a database value
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInt
	TypeFloat
	TypeText
	TypeBool
	TypeDate
)

// String returns the SQL-ish name of the type
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return "INTEGER"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBool:
		return "BOOLEAN"
	case TypeDate:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// Value represents a single typed scalar. The zero value is NULL.
type Value struct {
	typ      ValueType
	intVal   int64
	floatVal float64
	textVal  string
	boolVal  bool
	timeVal  time.Time
}

func NewNull() Value {
	return Value{typ: TypeNull}
}

func NewInt(i int64) Value {
	return Value{typ: TypeInt, intVal: i}
}

func NewFloat(f float64) Value {
	return Value{typ: TypeFloat, floatVal: f}
}

func NewText(s string) Value {
	return Value{typ: TypeText, textVal: s}
}

func NewBool(b bool) Value {
	return Value{typ: TypeBool, boolVal: b}
}

func NewDate(t time.Time) Value {
	return Value{typ: TypeDate, timeVal: t}
}

// Date builds a date value from year, month and day. Convenience for
// datasets that hardcode sample rows.
func Date(year int, month time.Month, day int) Value {
	return NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateTime builds a timestamp value.
func DateTime(year int, month time.Month, day, hour, min int) Value {
	return NewDate(time.Date(year, month, day, hour, min, 0, 0, time.UTC))
}

func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool    { return v.typ == TypeNull }
func (v Value) Int() int64      { return v.intVal }
func (v Value) Float() float64  { return v.floatVal }
func (v Value) Text() string    { return v.textVal }
func (v Value) Bool() bool      { return v.boolVal }
func (v Value) Time() time.Time { return v.timeVal }

// IsNumeric reports whether the value participates in arithmetic.
func (v Value) IsNumeric() bool {
	return v.typ == TypeInt || v.typ == TypeFloat
}

// AsFloat widens a numeric value to float64.
func (v Value) AsFloat() float64 {
	if v.typ == TypeInt {
		return float64(v.intVal)
	}
	return v.floatVal
}

// Compare orders v against o. The second return is false when the
// comparison result is Unknown: either side is NULL, or the kinds are
// incompatible. Callers treat Unknown as "no match".
func (v Value) Compare(o Value) (int, bool) {
	if v.IsNull() || o.IsNull() {
		return 0, false
	}

	// Numeric kinds compare across int/float.
	if v.IsNumeric() && o.IsNumeric() {
		a, b := v.AsFloat(), o.AsFloat()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}

	if v.typ != o.typ {
		return 0, false
	}

	switch v.typ {
	case TypeText:
		return strings.Compare(v.textVal, o.textVal), true
	case TypeBool:
		a, b := 0, 0
		if v.boolVal {
			a = 1
		}
		if o.boolVal {
			b = 1
		}
		return a - b, true
	case TypeDate:
		switch {
		case v.timeVal.Before(o.timeVal):
			return -1, true
		case v.timeVal.After(o.timeVal):
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// Equal reports equality under SQL semantics: comparing NULL to
// anything, including NULL, is never true.
func (v Value) Equal(o Value) bool {
	c, ok := v.Compare(o)
	return ok && c == 0
}

// Arith applies a binary arithmetic operator (+ - * /). The second
// return is false for non-numeric operands, NULL operands, or division
// by zero.
func (v Value) Arith(op byte, o Value) (Value, bool) {
	if !v.IsNumeric() || !o.IsNumeric() {
		return NewNull(), false
	}

	// Integer arithmetic stays integral except for division.
	if v.typ == TypeInt && o.typ == TypeInt && op != '/' {
		a, b := v.intVal, o.intVal
		switch op {
		case '+':
			return NewInt(a + b), true
		case '-':
			return NewInt(a - b), true
		case '*':
			return NewInt(a * b), true
		}
		return NewNull(), false
	}

	a, b := v.AsFloat(), o.AsFloat()
	switch op {
	case '+':
		return NewFloat(a + b), true
	case '-':
		return NewFloat(a - b), true
	case '*':
		return NewFloat(a * b), true
	case '/':
		if b == 0 {
			return NewNull(), false
		}
		return NewFloat(a / b), true
	}
	return NewNull(), false
}

// String formats the value for display. NULL renders as the literal
// string NULL, matching what a SQL client would show.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case TypeText:
		return v.textVal
	case TypeBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case TypeDate:
		if v.timeVal.Hour() == 0 && v.timeVal.Minute() == 0 && v.timeVal.Second() == 0 {
			return v.timeVal.Format("2006-01-02")
		}
		return v.timeVal.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("<%d>", v.typ)
	}
}
