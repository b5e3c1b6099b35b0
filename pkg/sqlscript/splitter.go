package sqlscript

import "strings"

// lexState is the lexical mode of the scanner. Exactly one is active at a time.
type lexState int

const (
	stateNormal lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
)

// Split splits script text into individual statements on semicolons that are
// outside of quoted strings and comments.
//
// Comments and whitespace preceding the first token of a statement are not
// part of it, so comment-only regions produce nothing. Comments after the
// first token are kept verbatim. Unterminated quotes or comments are absorbed
// into the final statement; Split never fails.
func Split(script string) []string {
	var stmts []string
	var sb strings.Builder
	state := stateNormal
	// started is set once the current statement has seen a token byte.
	started := false

	write := func(b ...byte) {
		if started {
			sb.Write(b)
		}
	}
	flush := func() {
		if started {
			if stmt := strings.TrimSpace(sb.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
		}
		sb.Reset()
		started = false
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		next := byte(0)
		if i+1 < len(script) {
			next = script[i+1]
		}

		switch state {
		case stateLineComment:
			write(c)
			if c == '\n' {
				state = stateNormal
			}
			continue
		case stateBlockComment:
			if c == '*' && next == '/' {
				write(c, next)
				i++
				state = stateNormal
				continue
			}
			write(c)
			continue
		case stateSingleQuote:
			if c == '\'' && next == '\'' {
				write(c, next)
				i++
				continue
			}
			write(c)
			if c == '\'' {
				state = stateNormal
			}
			continue
		case stateDoubleQuote:
			write(c)
			if c == '"' {
				state = stateNormal
			}
			continue
		}

		switch {
		case c == '-' && next == '-':
			state = stateLineComment
			write(c, next)
			i++
		case c == '/' && next == '*':
			state = stateBlockComment
			write(c, next)
			i++
		case c == ';':
			flush()
		default:
			switch c {
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
			if !isSpace(c) {
				started = true
			}
			write(c)
		}
	}
	flush()
	return stmts
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
