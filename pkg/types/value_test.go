package types

import (
	"testing"
	"time"
)

func TestValue_Compare_Numeric(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
		ok   bool
	}{
		{"int lt", NewInt(1), NewInt(2), -1, true},
		{"int eq", NewInt(5), NewInt(5), 0, true},
		{"int gt", NewInt(9), NewInt(2), 1, true},
		{"int vs float", NewInt(3), NewFloat(3.0), 0, true},
		{"float vs int", NewFloat(2.5), NewInt(3), -1, true},
		{"text", NewText("apple"), NewText("banana"), -1, true},
		{"bool", NewBool(false), NewBool(true), -1, true},
		{"null left", NewNull(), NewInt(1), 0, false},
		{"null right", NewInt(1), NewNull(), 0, false},
		{"null both", NewNull(), NewNull(), 0, false},
		{"int vs text", NewInt(1), NewText("1"), 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.a.Compare(tt.b)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && sign(got) != tt.want {
			t.Errorf("%s: cmp = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestValue_Compare_Date(t *testing.T) {
	early := Date(2020, time.March, 15)
	late := Date(2023, time.January, 1)

	if c, ok := early.Compare(late); !ok || c >= 0 {
		t.Errorf("early.Compare(late) = %d, %v", c, ok)
	}
	if c, ok := late.Compare(early); !ok || c <= 0 {
		t.Errorf("late.Compare(early) = %d, %v", c, ok)
	}
	if c, ok := early.Compare(Date(2020, time.March, 15)); !ok || c != 0 {
		t.Errorf("same date compare = %d, %v", c, ok)
	}
}

func TestValue_Equal_NullNeverEqual(t *testing.T) {
	if NewNull().Equal(NewNull()) {
		t.Error("NULL = NULL must not be true")
	}
	if NewNull().Equal(NewInt(0)) {
		t.Error("NULL = 0 must not be true")
	}
}

func TestValue_Arith(t *testing.T) {
	tests := []struct {
		name string
		a    Value
		op   byte
		b    Value
		want Value
		ok   bool
	}{
		{"int add", NewInt(2), '+', NewInt(3), NewInt(5), true},
		{"int sub", NewInt(2), '-', NewInt(3), NewInt(-1), true},
		{"int mul", NewInt(4), '*', NewInt(3), NewInt(12), true},
		{"int div widens", NewInt(7), '/', NewInt(2), NewFloat(3.5), true},
		{"float add", NewFloat(1.5), '+', NewInt(1), NewFloat(2.5), true},
		{"div by zero", NewInt(1), '/', NewInt(0), NewNull(), false},
		{"null operand", NewNull(), '+', NewInt(1), NewNull(), false},
		{"text operand", NewText("a"), '+', NewInt(1), NewNull(), false},
	}

	for _, tt := range tests {
		got, ok := tt.a.Arith(tt.op, tt.b)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NewNull(), "NULL"},
		{NewInt(42), "42"},
		{NewFloat(3.5), "3.5"},
		{NewText("hi"), "hi"},
		{NewBool(true), "true"},
		{Date(2023, time.June, 15), "2023-06-15"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRow_OrderAndClone(t *testing.T) {
	r := NewRow()
	r.Set("id", NewInt(1))
	r.Set("name", NewText("Alice"))
	r.Set("salary", NewFloat(95000))
	r.Set("id", NewInt(2)) // overwrite must not duplicate the column

	wantCols := []string{"id", "name", "salary"}
	gotCols := r.Columns()
	if len(gotCols) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", gotCols, wantCols)
	}
	for i := range wantCols {
		if gotCols[i] != wantCols[i] {
			t.Errorf("column[%d] = %q, want %q", i, gotCols[i], wantCols[i])
		}
	}
	if v := r.Value("id"); v.Int() != 2 {
		t.Errorf("id = %v, want 2", v)
	}

	c := r.Clone()
	c.Set("name", NewText("Bob"))
	if r.Value("name").Text() != "Alice" {
		t.Error("Clone must not share storage with the original")
	}
	if v := r.Value("missing"); !v.IsNull() {
		t.Errorf("missing column = %v, want NULL", v)
	}
}
