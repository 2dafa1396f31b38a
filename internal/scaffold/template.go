package scaffold

import (
	"fmt"
	"strings"
)

// Render substitutes $NAME and ${NAME} placeholders in the template text
// with values from vars. "$$" renders a literal "$". Placeholder names are
// ASCII identifiers. A placeholder with no entry in vars, a "$" not followed
// by a valid placeholder form, and an unterminated "${" are all errors; the
// reported line is where the offending "$" sits.
func Render(template string, vars map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	line := 1
	for i := 0; i < len(template); {
		c := template[i]
		if c != '$' {
			if c == '\n' {
				line++
			}
			out.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(template) {
			return "", fmt.Errorf("invalid placeholder on line %d: lone $ at end of template", line)
		}

		switch next := template[i+1]; {
		case next == '$':
			out.WriteByte('$')
			i += 2

		case next == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				return "", fmt.Errorf("invalid placeholder on line %d: unterminated ${", line)
			}
			name := template[i+2 : i+2+end]
			if !isIdentifier(name) {
				return "", fmt.Errorf("invalid placeholder ${%s} on line %d", name, line)
			}
			value, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("undefined placeholder %q on line %d", name, line)
			}
			out.WriteString(value)
			i += 2 + end + 1

		default:
			name := identifierPrefix(template[i+1:])
			if name == "" {
				return "", fmt.Errorf("invalid placeholder on line %d: $ must be followed by a name, ${name} or $$", line)
			}
			value, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("undefined placeholder %q on line %d", name, line)
			}
			out.WriteString(value)
			i += 1 + len(name)
		}
	}

	return out.String(), nil
}

// identifierPrefix returns the longest identifier prefix of s: an ASCII
// letter or underscore followed by letters, digits or underscores.
func identifierPrefix(s string) string {
	n := 0
	for n < len(s) {
		c := s[n]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			n++
		case c >= '0' && c <= '9' && n > 0:
			n++
		default:
			return s[:n]
		}
	}
	return s[:n]
}

func isIdentifier(s string) bool {
	return s != "" && identifierPrefix(s) == s
}
