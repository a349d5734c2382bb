package sqlerrors

import (
	"strings"
	"testing"
)

func TestNewSyntax_KeywordTypo(t *testing.T) {
	e := NewSyntax("SELCT * FROM employees")
	if e.Kind != KindSyntax || e.Severity != SeverityError {
		t.Fatalf("error = %+v", e)
	}
	if !strings.Contains(e.Suggestion, "SELECT") {
		t.Errorf("suggestion = %q, want SELECT correction", e.Suggestion)
	}
}

func TestNewSyntax_NoTypo(t *testing.T) {
	e := NewSyntax("completely not sql")
	if e.Suggestion != "" {
		t.Errorf("suggestion = %q, want none", e.Suggestion)
	}
	if e.Message == "" {
		t.Error("empty message")
	}
}

func TestNewUnknownTable_Suggests(t *testing.T) {
	known := []string{"employees", "departments", "orders", "products", "customers"}
	e := NewUnknownTable("employes", known)
	if e.Kind != KindUnknownTable {
		t.Fatalf("kind = %v", e.Kind)
	}
	if !strings.Contains(e.Suggestion, "employees") {
		t.Errorf("suggestion = %q, want employees", e.Suggestion)
	}
}

func TestNewUnknownTable_NoCloseMatch(t *testing.T) {
	known := []string{"employees", "departments"}
	e := NewUnknownTable("zzz", known)
	if !strings.Contains(e.Suggestion, "Available tables") {
		t.Errorf("suggestion = %q, want table listing", e.Suggestion)
	}
}

func TestNewUnknownColumn_Suggests(t *testing.T) {
	known := []string{"id", "name", "salary", "department_id", "hire_date"}
	e := NewUnknownColumn("salry", "employees", known)
	if !strings.Contains(e.Suggestion, "salary") {
		t.Errorf("suggestion = %q, want salary", e.Suggestion)
	}
	if !strings.Contains(e.Message, "employees") {
		t.Errorf("message = %q, want table name", e.Message)
	}
}

func TestNewUnsupported_IsWarning(t *testing.T) {
	e := NewUnsupported("INSERT", "This engine is read-only; SELECT from the sample tables instead.")
	if e.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", e.Severity)
	}
	if e.Suggestion == "" {
		t.Error("no alternative offered")
	}
}

func TestNewEmptyQuery_IsInfo(t *testing.T) {
	e := NewEmptyQuery()
	if e.Severity != SeverityInfo {
		t.Errorf("severity = %v, want info", e.Severity)
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Message: "table missing", Suggestion: "Did you mean orders?"}
	got := e.Error()
	if !strings.Contains(got, "table missing") || !strings.Contains(got, "Did you mean") {
		t.Errorf("Error() = %q", got)
	}
}

func TestAsError(t *testing.T) {
	var err error = NewEmptyQuery()
	if AsError(err) == nil {
		t.Error("failed to extract structured error")
	}
	if AsError(nil) != nil {
		t.Error("extracted from nil")
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityInfo.String() != "info" || SeverityWarning.String() != "warning" || SeverityError.String() != "error" {
		t.Error("severity strings wrong")
	}
}
