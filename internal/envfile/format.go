package envfile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatLine renders a KEY=VALUE line that parses back to exactly value.
//
// Values made only of shell-safe characters are written bare. Otherwise single
// quotes are preferred because their content is literal in every common dotenv
// dialect; values containing a single quote or a line break fall back to double
// quotes with backslash escapes.
func FormatLine(key, value string) string {
	return key + "=" + QuoteValue(value)
}

// QuoteValue returns value in its serialized form.
func QuoteValue(value string) string {
	if !needsQuoting(value) {
		return value
	}
	if !strings.ContainsAny(value, "'\n\r") {
		return "'" + value + "'"
	}

	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// needsQuoting also reports true for values starting or ending in any Unicode
// space, since unquoted values are trimmed with strings.TrimSpace.
func needsQuoting(value string) bool {
	if first, _ := utf8.DecodeRuneInString(value); unicode.IsSpace(first) {
		return true
	}
	if last, _ := utf8.DecodeLastRuneInString(value); unicode.IsSpace(last) {
		return true
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c <= ' ' || c == 0x7f {
			return true
		}
		switch c {
		case '"', '\'', '#', '\\', '$', '`':
			return true
		}
	}
	return false
}
