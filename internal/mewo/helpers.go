package mewo

import (
	"strconv"

	"github.com/SirPigari/mewo/internal/errs"
	"github.com/SirPigari/mewo/internal/values"
)

// parseValue value-parses an already-interpolated right-hand side against
// the interpreter's own variable store for the bare-identifier-clone
// fallback, translating the generic error into a *errs.MewoError.
func parseValue(raw string, in *Interpreter, line int) (values.Value, *errs.MewoError) {
	v, err := values.Parse(raw, in.vars.Get, line)
	if err != nil {
		if me, ok := err.(*errs.MewoError); ok {
			return values.Value{}, me
		}
		return values.Value{}, errs.Wrap(errs.Runtime, line, "value parse failed", err)
	}
	return v, nil
}

func parseIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
