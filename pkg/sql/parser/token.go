// pkg/sql/parser/token.go
package parser

import "strings"

// The clause scanner works on a flat token stream with a precomputed
// parenthesis depth per token. Splitting a select list on commas or
// finding the top-level FROM is then a linear walk that cannot be
// fooled by nested function calls, subqueries, or quoted strings.

type tokKind int

const (
	tokWord tokKind = iota
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type tok struct {
	kind tokKind
	text string // for strings, the unquoted content
	pos  int    // byte offset of the token start in the source
	end  int    // byte offset just past the token
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || c == '.' || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// lex tokenizes s. Unrecognized bytes are skipped; the parser degrades
// gracefully rather than failing on odd input.
func lex(s string) []tok {
	var out []tok
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			out = append(out, tok{tokLParen, "(", i, i + 1})
			i++
		case c == ')':
			out = append(out, tok{tokRParen, ")", i, i + 1})
			i++
		case c == ',':
			out = append(out, tok{tokComma, ",", i, i + 1})
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < len(s) && s[j] != quote {
				j++
			}
			if j >= len(s) {
				// Unterminated string; take the rest.
				out = append(out, tok{tokString, s[i+1:], i, len(s)})
				i = len(s)
				break
			}
			out = append(out, tok{tokString, s[i+1 : j], i, j + 1})
			i = j + 1
		case isWordStart(c):
			j := i + 1
			for j < len(s) && isWordPart(s[j]) {
				j++
			}
			out = append(out, tok{tokWord, s[i:j], i, j})
			i = j
		case isDigit(c):
			j := i + 1
			sawDot := false
			for j < len(s) && (isDigit(s[j]) || (s[j] == '.' && !sawDot)) {
				if s[j] == '.' {
					sawDot = true
				}
				j++
			}
			out = append(out, tok{tokNumber, s[i:j], i, j})
			i = j
		default:
			// Two-character operators first.
			if i+1 < len(s) {
				two := s[i : i+2]
				if two == ">=" || two == "<=" || two == "<>" || two == "!=" {
					out = append(out, tok{tokOp, two, i, i + 2})
					i += 2
					continue
				}
			}
			if strings.IndexByte("=<>+-*/%", c) >= 0 {
				out = append(out, tok{tokOp, string(c), i, i + 1})
			}
			i++
		}
	}
	return out
}

// scanner pairs a source string with its tokens and per-token depth.
type scanner struct {
	src   string
	toks  []tok
	depth []int
}

func newScanner(s string) *scanner {
	toks := lex(s)
	depth := make([]int, len(toks))
	d := 0
	for i, t := range toks {
		switch t.kind {
		case tokLParen:
			depth[i] = d
			d++
		case tokRParen:
			d--
			if d < 0 {
				d = 0
			}
			depth[i] = d
		default:
			depth[i] = d
		}
	}
	return &scanner{src: s, toks: toks, depth: depth}
}

// wordIs reports whether token i is the given keyword, case-insensitively.
func (sc *scanner) wordIs(i int, word string) bool {
	return i < len(sc.toks) && sc.toks[i].kind == tokWord && strings.EqualFold(sc.toks[i].text, word)
}

// keyword finds the first top-level occurrence of the given word
// sequence at or after token index start. Returns -1 when absent.
func (sc *scanner) keyword(start int, words ...string) int {
	for i := start; i+len(words) <= len(sc.toks); i++ {
		if sc.depth[i] != 0 {
			continue
		}
		match := true
		for j, w := range words {
			if !sc.wordIs(i+j, w) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// text reconstructs the source between token i (inclusive) and token j
// (exclusive). j may be len(toks).
func (sc *scanner) text(i, j int) string {
	if i >= len(sc.toks) || i >= j {
		return ""
	}
	end := len(sc.src)
	if j < len(sc.toks) {
		end = sc.toks[j].pos
	}
	return strings.TrimSpace(sc.src[sc.toks[i].pos:end])
}

// splitCommas returns the token ranges between top-level commas within
// [i, j).
func (sc *scanner) splitCommas(i, j int) [][2]int {
	var out [][2]int
	segStart := i
	base := 0
	if i < len(sc.toks) {
		base = sc.depth[i]
	}
	for k := i; k < j && k < len(sc.toks); k++ {
		if sc.toks[k].kind == tokComma && sc.depth[k] == base {
			out = append(out, [2]int{segStart, k})
			segStart = k + 1
		}
	}
	if segStart < j {
		out = append(out, [2]int{segStart, j})
	}
	return out
}

// matchParen returns the token index of the ')' matching the '(' at
// open, or -1 when unbalanced.
func (sc *scanner) matchParen(open int) int {
	if open >= len(sc.toks) || sc.toks[open].kind != tokLParen {
		return -1
	}
	d := 0
	for i := open; i < len(sc.toks); i++ {
		switch sc.toks[i].kind {
		case tokLParen:
			d++
		case tokRParen:
			d--
			if d == 0 {
				return i
			}
		}
	}
	return -1
}

// containsWord reports whether word appears as its own token anywhere
// in s, at any depth, outside quoted strings.
func containsWord(s, word string) bool {
	for _, t := range lex(s) {
		if t.kind == tokWord && strings.EqualFold(t.text, word) {
			return true
		}
	}
	return false
}
