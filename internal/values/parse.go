package values

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/SirPigari/mewo/internal/errs"
)

// Lookup resolves a bare-identifier right-hand side to the variable it
// names, for the "clone an existing variable" fallback of the value parser.
type Lookup func(name string) (Value, bool)

var numberPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// Parse converts the interpolated right-hand side of an assignment into a
// typed Value, per §4.2: empty string, implicit array (bare top-level
// commas), quoted string, bool, bracketed array, number, or a bare
// identifier cloned from lookup.
func Parse(raw string, lookup Lookup, line int) (Value, error) {
	s := strings.TrimSpace(raw)

	if s == "" {
		return EmptyString, nil
	}

	if hasTopLevelComma(s) {
		return Parse("["+s+"]", lookup, line)
	}

	if isQuoted(s) {
		return String(s[1 : len(s)-1]), nil
	}

	if s == "true" {
		return Boolean(true), nil
	}
	if s == "false" {
		return Boolean(false), nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := s[1 : len(s)-1]
		parts := splitTopLevel(inner)
		elems := make([]Value, 0, len(parts))
		for _, p := range parts {
			if strings.TrimSpace(p) == "" && len(parts) == 1 {
				continue // "[]" parses to an empty array
			}
			v, err := Parse(p, lookup, line)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Array(elems), nil
	}

	if numberPattern.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return Number(n), nil
		}
	}

	if lookup != nil {
		if v, ok := lookup(s); ok {
			return v.Clone(), nil
		}
	}
	return Value{}, errs.Runtimef(line, "undefined variable %q", s)
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '"' && last == '"') || (first == '\'' && last == '\'')
}

// hasTopLevelComma reports whether s contains a comma outside quotes and
// outside bracket nesting.
func hasTopLevelComma(s string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// splitTopLevel splits s on commas at bracket/paren depth 0, respecting quotes,
// the way array elements and attribute parameters are both delimited.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
