// pkg/cli/shell.go
package cli

import (
	"bufio"
	"io"
	"strings"
)

// Shell reads statements from an input stream: multi-line SQL ending
// in a semicolon, or single-line dot commands. It keeps a bounded
// command history.
type Shell struct {
	reader         *bufio.Reader
	output         io.Writer
	prompt         string
	continuePrompt string
	history        []string
	maxHistory     int
}

// NewShell wraps an input stream. Prompts are written to output before
// each read; pass nil to suppress them.
func NewShell(input io.Reader, output io.Writer) *Shell {
	var r *bufio.Reader
	if input != nil {
		r = bufio.NewReader(input)
	}
	return &Shell{
		reader:         r,
		output:         output,
		prompt:         "sqlscope> ",
		continuePrompt: "     ...> ",
		maxHistory:     1000,
	}
}

// SetPrompt changes the primary prompt string.
func (s *Shell) SetPrompt(p string) { s.prompt = p }

// readLine returns one line without trailing whitespace and whether
// EOF was reached.
func (s *Shell) readLine() (string, bool) {
	if s.reader == nil {
		return "", true
	}
	line, err := s.reader.ReadString('\n')
	return strings.TrimRight(line, " \t\r\n"), err != nil
}

// ReadStatement reads until a complete statement is collected: a dot
// command is complete on its first line, SQL when a semicolon closes
// it. Returns the statement and whether EOF was reached.
func (s *Shell) ReadStatement() (string, bool) {
	var lines []string
	for {
		if s.output != nil {
			if len(lines) == 0 {
				io.WriteString(s.output, s.prompt)
			} else {
				io.WriteString(s.output, s.continuePrompt)
			}
		}

		line, eof := s.readLine()
		if eof && line == "" && len(lines) == 0 {
			return "", true
		}
		lines = append(lines, line)
		combined := strings.Join(lines, "\n")

		// Dot commands never span lines.
		if len(lines) == 1 && strings.HasPrefix(strings.TrimSpace(line), ".") {
			s.AddHistory(strings.TrimSpace(line))
			return combined, eof
		}

		if IsComplete(combined) {
			if trimmed := strings.TrimSpace(combined); trimmed != "" {
				s.AddHistory(trimmed)
			}
			return combined, eof
		}
		if eof {
			return combined, true
		}
	}
}

// IsComplete reports whether the SQL text ends in a semicolon that is
// outside string literals and line comments.
func IsComplete(sql string) bool {
	inSingle, inDouble, inComment := false, false, false
	lastSemicolon := -1

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n':
			inComment = false
		case inComment:
		case r == '-' && !inSingle && !inDouble && i+1 < len(runes) && runes[i+1] == '-':
			inComment = true
			i++
		case r == '\'' && !inDouble:
			// '' escapes a quote inside a literal.
			if inSingle && i+1 < len(runes) && runes[i+1] == '\'' {
				i++
				continue
			}
			inSingle = !inSingle
		case r == '"' && !inSingle:
			if inDouble && i+1 < len(runes) && runes[i+1] == '"' {
				i++
				continue
			}
			inDouble = !inDouble
		case r == ';' && !inSingle && !inDouble:
			lastSemicolon = i
		}
	}
	return !inSingle && !inDouble && lastSemicolon >= 0
}

// AddHistory appends a statement, skipping immediate duplicates and
// trimming to the history bound.
func (s *Shell) AddHistory(stmt string) {
	if len(s.history) > 0 && s.history[len(s.history)-1] == stmt {
		return
	}
	s.history = append(s.history, stmt)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// History returns a copy of the command history.
func (s *Shell) History() []string {
	return append([]string(nil), s.history...)
}
