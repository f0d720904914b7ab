package runner

import (
	"strings"

	"github.com/aidanlsb/opz/internal/model"
)

// ExpandArgs substitutes $VAR and ${VAR} in each argument using env.
//
// Only keys present in env are replaced. Unknown references stay as written so
// a shell further down the line can still expand them, and a "${" without a
// closing brace is copied through literally. Names follow shell rules: the
// longest run of ASCII letters, digits and '_' after '$'.
func ExpandArgs(args []string, env []model.EnvEntry) []string {
	vars := model.EnvMap(env)
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = expand(arg, vars)
	}
	return out
}

func expand(s string, vars map[string]string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		j := i + 1
		braced := j < len(s) && s[j] == '{'
		if braced {
			j++
		}
		start := j
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		name := s[start:j]

		if braced {
			if j >= len(s) || s[j] != '}' {
				// Malformed: emit what was consumed and carry on after it.
				b.WriteString(s[i:j])
				i = j
				continue
			}
			j++
		}

		if v, ok := vars[name]; ok && name != "" {
			b.WriteString(v)
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}

	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
