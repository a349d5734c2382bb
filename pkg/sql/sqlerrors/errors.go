// pkg/sql/sqlerrors/errors.go
package sqlerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Severity ranks how much a problem matters to the person running the
// query. Info is advice, Warning executed anyway, Error stopped it.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Kind classifies what went wrong.
type Kind int

const (
	KindSyntax Kind = iota
	KindUnknownTable
	KindUnknownColumn
	KindTypeMismatch
	KindUnsupported
	KindEmptyQuery
	KindNoTables
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax_error"
	case KindUnknownTable:
		return "unknown_table"
	case KindUnknownColumn:
		return "unknown_column"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindUnsupported:
		return "unsupported_feature"
	case KindEmptyQuery:
		return "empty_query"
	default:
		return "no_tables"
	}
}

// Error is a structured query diagnostic. Suggestion is the human fix
// ("did you mean ..."), Context the offending fragment.
type Error struct {
	Kind       Kind
	Severity   Severity
	Message    string
	Suggestion string
	Context    string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		b.WriteString(". ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// AsError extracts a structured *Error from anywhere in err's chain,
// nil when there is none.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// keywordTypos maps common clause misspellings to the intended keyword.
var keywordTypos = map[string]string{
	"SELCT":   "SELECT",
	"SELET":   "SELECT",
	"SLECT":   "SELECT",
	"FORM":    "FROM",
	"FRM":     "FROM",
	"WHER":    "WHERE",
	"WHRE":    "WHERE",
	"GROOP":   "GROUP",
	"ODER":    "ORDER",
	"ORDR":    "ORDER",
	"LIMTI":   "LIMIT",
	"LIMT":    "LIMIT",
	"HAVNG":   "HAVING",
	"JION":    "JOIN",
	"INSER":   "INSERT",
	"UPDTE":   "UPDATE",
	"DELTE":   "DELETE",
	"DISTINC": "DISTINCT",
}

// NewSyntax reports a malformed statement. When the first word looks
// like a misspelled keyword the suggestion names the correction.
func NewSyntax(query string) *Error {
	e := &Error{
		Kind:     KindSyntax,
		Severity: SeverityError,
		Message:  "could not parse the query",
		Context:  query,
	}
	fields := strings.Fields(query)
	if len(fields) > 0 {
		if fix, ok := keywordTypos[strings.ToUpper(fields[0])]; ok {
			e.Message = fmt.Sprintf("unrecognized keyword %q", fields[0])
			e.Suggestion = fmt.Sprintf("Did you mean %s?", fix)
		}
	}
	return e
}

// NewUnknownTable reports a table that is not in the dataset, with a
// fuzzy-matched suggestion against the known table names.
func NewUnknownTable(name string, known []string) *Error {
	e := &Error{
		Kind:     KindUnknownTable,
		Severity: SeverityError,
		Message:  fmt.Sprintf("table %q does not exist", name),
		Context:  name,
	}
	if near := Suggest(name, known); near != "" {
		e.Suggestion = fmt.Sprintf("Did you mean %q?", near)
	} else if len(known) > 0 {
		e.Suggestion = "Available tables: " + strings.Join(known, ", ")
	}
	return e
}

// NewUnknownColumn reports a column absent from the named table.
func NewUnknownColumn(column, table string, known []string) *Error {
	e := &Error{
		Kind:     KindUnknownColumn,
		Severity: SeverityError,
		Message:  fmt.Sprintf("column %q does not exist in table %q", column, table),
		Context:  column,
	}
	if near := Suggest(column, known); near != "" {
		e.Suggestion = fmt.Sprintf("Did you mean %q?", near)
	} else if len(known) > 0 {
		e.Suggestion = fmt.Sprintf("Columns of %s: %s", table, strings.Join(known, ", "))
	}
	return e
}

// NewTypeMismatch reports a comparison between incompatible types.
func NewTypeMismatch(column, columnType, valueType string) *Error {
	return &Error{
		Kind:       KindTypeMismatch,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf("comparing %s column %q against a %s value", columnType, column, valueType),
		Suggestion: "The comparison never matches; check the literal's type.",
		Context:    column,
	}
}

// NewUnsupported reports a recognized but unimplemented feature. Always
// a warning: the engine explains what it would do instead of failing
// silently.
func NewUnsupported(feature, alternative string) *Error {
	e := &Error{
		Kind:     KindUnsupported,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("%s is not supported", feature),
		Context:  feature,
	}
	if alternative != "" {
		e.Suggestion = alternative
	}
	return e
}

// NewEmptyQuery reports an empty input. Informational only.
func NewEmptyQuery() *Error {
	return &Error{
		Kind:       KindEmptyQuery,
		Severity:   SeverityInfo,
		Message:    "the query is empty",
		Suggestion: "Type a SELECT statement to run it.",
	}
}

// NewNoTables reports a SELECT with no FROM clause and no literal
// select list the engine can evaluate.
func NewNoTables(query string) *Error {
	return &Error{
		Kind:       KindNoTables,
		Severity:   SeverityError,
		Message:    "no table named in the FROM clause",
		Suggestion: "Add FROM <table> to the query.",
		Context:    query,
	}
}

// Suggest returns the best fuzzy match for name among candidates, or
// "" when nothing is close enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	matches := fuzzy.Find(strings.ToLower(name), candidates)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	// A match shorter than half the candidate is coincidence, not typo.
	if len(best.MatchedIndexes)*2 < len(candidates[best.Index]) {
		return ""
	}
	return candidates[best.Index]
}
