package mewo

import (
	"bufio"
	"os"
	"runtime"
	"strings"

	"github.com/SirPigari/mewo/internal/errs"
	"github.com/SirPigari/mewo/internal/interp"
)

// evalPredicate evaluates one conditional-attribute or #if condition name
// against the running process, per §4.5/§4.6. cond is the already
// interpolated condition text (e.g. "windows", "arch(amd64)",
// "feature(fast)", "env(CI, true)", "exists(./out)"). Boolean combinators
// are not part of the grammar; a condition names exactly one predicate.
func (in *Interpreter) evalPredicate(cond string, line int) (bool, *errs.MewoError) {
	cond = strings.TrimSpace(cond)

	name, arg, hasArgs := splitPredicateCall(cond)

	switch name {
	case "windows", "win32":
		return runtime.GOOS == "windows", nil
	case "linux":
		return runtime.GOOS == "linux", nil
	case "macos", "darwin":
		return runtime.GOOS == "darwin", nil
	case "unix":
		return runtime.GOOS != "windows", nil
	case "arch":
		if !hasArgs {
			return false, errs.Syntaxf(line, "arch() requires an argument")
		}
		return runtime.GOARCH == unquoteCond(arg), nil
	case "distro":
		if !hasArgs {
			return false, errs.Syntaxf(line, "distro() requires an argument")
		}
		id, err := readDistroID()
		if err != nil {
			return false, nil
		}
		return id == unquoteCond(arg), nil
	case "feature":
		if !hasArgs {
			return false, errs.Syntaxf(line, "feature() requires an argument")
		}
		return in.features.Exists(unquoteCond(arg)), nil
	case "env":
		if !hasArgs {
			return false, errs.Syntaxf(line, "env() requires an argument")
		}
		parts := splitPredicateArgs(arg)
		name := unquoteCond(strings.TrimSpace(parts[0]))
		val, ok := os.LookupEnv(name)
		if !ok {
			return false, nil
		}
		if len(parts) > 1 {
			return val == unquoteCond(strings.TrimSpace(parts[1])), nil
		}
		return true, nil
	case "exists":
		if !hasArgs {
			return false, errs.Syntaxf(line, "exists() requires an argument")
		}
		path, err := in.resolveExistsPath(unquoteCond(arg), line)
		if err != nil {
			return false, err
		}
		_, statErr := os.Stat(path)
		return statErr == nil, nil
	default:
		return false, errs.Syntaxf(line, "unknown condition '%s'", cond)
	}
}

// conditionalPredicateNames lists the attribute names that act as
// conditional gates, both for label registration (§4.5 startup step 2) and
// for the statement that follows them during execution.
var conditionalPredicateNames = map[string]bool{
	"windows": true, "win32": true, "linux": true, "macos": true,
	"darwin": true, "unix": true, "arch": true, "distro": true,
	"feature": true, "env": true, "exists": true,
}

func isConditionalAttr(name string) bool {
	return conditionalPredicateNames[name]
}

// splitPredicateCall parses "name" or "name(args)".
func splitPredicateCall(s string) (name, args string, hasArgs bool) {
	idx := strings.IndexByte(s, '(')
	if idx < 0 {
		return s, "", false
	}
	if !strings.HasSuffix(s, ")") {
		return s, "", false
	}
	return s[:idx], s[idx+1 : len(s)-1], true
}

func splitPredicateArgs(s string) []string {
	var parts []string
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
		case ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquoteCond(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// readDistroID reads the first ID=... line of /etc/os-release, stripping
// surrounding quotes, per exec.c's check_conditional_attr.
func readDistroID() (string, error) {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "ID=") {
			return unquoteCond(strings.TrimPrefix(line, "ID=")), nil
		}
	}
	return "", nil
}

// resolveExistsPath honors §4.6's "path may be a quoted literal, a variable
// name resolving to a string, or an interpolation template" rule: the
// already unquoted text is interpolated here (attribute conditions arrive
// raw; an #if condition, already expanded by its caller, is expanded a
// second time), then a result that names a variable resolves to that
// variable's value.
func (in *Interpreter) resolveExistsPath(text string, line int) (string, *errs.MewoError) {
	expanded, err := interp.Expand(text, in.interpCtx(), line)
	if err != nil {
		return "", err
	}
	if v, ok := in.vars.Get(expanded); ok {
		return v.Coerce(), nil
	}
	return expanded, nil
}
