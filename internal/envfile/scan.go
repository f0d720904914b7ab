package envfile

import "strings"

type scanState int

const (
	stateNormal scanState = iota
	stateInQuotes
	stateAfterEscape
)

// scanValue decodes the text after '=' on an entry line.
//
// A value opening with a double or single quote runs to the matching unescaped
// quote; '#' inside quotes is literal. Double quotes honour backslash escapes,
// single quotes do not. In an unquoted value a '#' preceded by whitespace starts
// an inline comment. When the closing quote is missing the raw text is returned
// together with a problem description.
func scanValue(raw string) (string, string) {
	s := strings.TrimLeft(raw, " \t")
	if s == "" {
		return "", ""
	}
	if s[0] != '"' && s[0] != '\'' {
		return scanUnquoted(raw), ""
	}

	quote := s[0]
	state := stateInQuotes
	var b strings.Builder

	for i := 1; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateInQuotes:
			switch {
			case c == '\\' && quote == '"':
				state = stateAfterEscape
			case c == quote:
				return b.String(), trailingProblem(s[i+1:])
			default:
				b.WriteByte(c)
			}
		case stateAfterEscape:
			b.WriteString(unescape(c))
			state = stateInQuotes
		}
	}

	if state == stateAfterEscape {
		return strings.TrimSpace(s), "trailing backslash in quoted value"
	}
	return strings.TrimSpace(s), "unterminated quoted value"
}

func scanUnquoted(raw string) string {
	for i := 1; i < len(raw); i++ {
		if raw[i] == '#' && isBlank(raw[i-1]) {
			return strings.TrimSpace(raw[:i])
		}
	}
	return strings.TrimSpace(raw)
}

// trailingProblem checks what follows a closing quote: whitespace and an
// optional comment are fine.
func trailingProblem(rest string) string {
	rest = strings.TrimSpace(rest)
	if rest == "" || strings.HasPrefix(rest, "#") {
		return ""
	}
	return "unexpected text after closing quote"
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case '"', '\\':
		return string(c)
	default:
		return "\\" + string(c)
	}
}
