// pkg/cli/shell_test.go
package cli

import (
	"strings"
	"testing"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"simple", "SELECT 1;", true},
		{"no semicolon", "SELECT 1", false},
		{"semicolon in string", "SELECT ';'", false},
		{"string then semicolon", "SELECT ';' AS s;", true},
		{"escaped quote", "SELECT 'it''s;' AS s;", true},
		{"double quoted", `SELECT ";"`, false},
		{"semicolon in comment", "SELECT 1 -- trailing;", false},
		{"comment then next line", "SELECT 1 -- note\n;", true},
		{"multi line", "SELECT name\nFROM employees\nWHERE id = 1;", true},
		{"unclosed string", "SELECT 'open;", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplete(tt.sql); got != tt.want {
				t.Errorf("IsComplete(%q) = %v, want %v", tt.sql, got, tt.want)
			}
		})
	}
}

func TestShell_ReadStatement_MultiLine(t *testing.T) {
	input := strings.NewReader("SELECT name\nFROM employees;\n")
	shell := NewShell(input, nil)

	stmt, eof := shell.ReadStatement()
	if eof {
		t.Fatal("unexpected EOF")
	}
	if stmt != "SELECT name\nFROM employees;" {
		t.Errorf("stmt = %q", stmt)
	}
}

func TestShell_ReadStatement_DotCommandSingleLine(t *testing.T) {
	input := strings.NewReader(".tables\nSELECT 1;\n")
	shell := NewShell(input, nil)

	stmt, eof := shell.ReadStatement()
	if eof || stmt != ".tables" {
		t.Fatalf("stmt = %q, eof = %v", stmt, eof)
	}

	stmt, _ = shell.ReadStatement()
	if stmt != "SELECT 1;" {
		t.Errorf("stmt = %q", stmt)
	}
}

func TestShell_ReadStatement_EOF(t *testing.T) {
	shell := NewShell(strings.NewReader(""), nil)
	stmt, eof := shell.ReadStatement()
	if !eof || stmt != "" {
		t.Errorf("stmt = %q, eof = %v", stmt, eof)
	}

	// Incomplete statement at EOF is returned as-is.
	shell = NewShell(strings.NewReader("SELECT 1"), nil)
	stmt, eof = shell.ReadStatement()
	if !eof || stmt != "SELECT 1" {
		t.Errorf("stmt = %q, eof = %v", stmt, eof)
	}
}

func TestShell_HistorySkipsDuplicates(t *testing.T) {
	shell := NewShell(nil, nil)
	shell.AddHistory("SELECT 1;")
	shell.AddHistory("SELECT 1;")
	shell.AddHistory("SELECT 2;")

	h := shell.History()
	if len(h) != 2 || h[0] != "SELECT 1;" || h[1] != "SELECT 2;" {
		t.Errorf("history = %v", h)
	}
}

func TestShell_HistoryBound(t *testing.T) {
	shell := NewShell(nil, nil)
	shell.maxHistory = 3
	for _, s := range []string{"a;", "b;", "c;", "d;"} {
		shell.AddHistory(s)
	}

	h := shell.History()
	if len(h) != 3 || h[0] != "b;" {
		t.Errorf("history = %v", h)
	}
}
