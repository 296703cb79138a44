// Package mewo implements the Mewofile executor: label registration,
// statement dispatch, Goto/Call control flow, and command spawning, on top
// of the script parser, the interpolator, and the typed variable store.
package mewo

import (
	"log/slog"

	"github.com/SirPigari/mewo/internal/errs"
	"github.com/SirPigari/mewo/internal/interp"
	"github.com/SirPigari/mewo/internal/script"
	"github.com/SirPigari/mewo/internal/values"
)

// label describes one registered top-level entry point.
type label struct {
	name       string
	startIndex int // index of the Label statement itself
	bodyStart  int // first statement index strictly inside the block
	bodyEnd    int // exclusive end index of the block
}

// Interpreter owns every piece of process-wide state described by §4.5:
// the statement list, the label table, the variable/feature stores, the
// return-address stack, the pending-attribute buffer, and the #once set.
type Interpreter struct {
	stmts  []script.Statement
	labels map[string]label

	vars     *values.Store
	features *values.FeatureStore

	argv         []string
	lastExitCode int

	globalShell string
	dryRun      bool

	onceDone map[int]bool

	callStack       []int
	currentLabelIdx int // -1 = top-level

	pending []script.Statement

	errSlot *errs.Slot
	logger  *slog.Logger

	// trace, when non-nil, records one entry per spawned command for the
	// --trace-file debug artifact.
	trace *Trace

	// execCommand spawns a #exec(...) helper command for the interpolator;
	// nil in tests that never need it.
	execCommand interp.Exec
}

// Options configures a new Interpreter.
type Options struct {
	Argv         []string
	DefaultShell string
	DryRun       bool
	Logger       *slog.Logger
	Trace        *Trace
}

// New constructs an Interpreter over a parsed statement list. Feature seeds
// and variable overrides (CLI `+F`/`-F`/`-D`) should be applied to the
// returned Interpreter's Vars()/Features() before calling Run.
func New(stmts []script.Statement, opts Options) *Interpreter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	in := &Interpreter{
		stmts:           stmts,
		labels:          make(map[string]label),
		vars:            values.NewStore(),
		features:        values.NewFeatureStore(),
		argv:            opts.Argv,
		globalShell:     opts.DefaultShell,
		dryRun:          opts.DryRun,
		onceDone:        make(map[int]bool),
		currentLabelIdx: -1,
		errSlot:         &errs.Slot{},
		logger:          logger,
		trace:           opts.Trace,
	}
	in.execCommand = in.execIntrinsicCommand
	return in
}

// Vars exposes the variable store for CLI seeding (-D) and tests.
func (in *Interpreter) Vars() *values.Store { return in.vars }

// Features exposes the feature store for CLI seeding (+F/-F) and tests.
func (in *Interpreter) Features() *values.FeatureStore { return in.features }

// Err returns the first recorded error, if any.
func (in *Interpreter) Err() *errs.MewoError { return in.errSlot.Err() }

// RegisterLabels implements §4.5 startup step 2: scan top-level statements,
// build the label table, and skip any label gated by a false conditional
// attribute immediately preceding it. Duplicate surviving names are fatal.
func (in *Interpreter) RegisterLabels() *errs.MewoError {
	i := 0
	var pendingCond []script.Statement
	for i < len(in.stmts) {
		st := in.stmts[i]
		if st.Indent != 0 {
			i++
			continue
		}

		switch st.Kind {
		case script.KindAttr:
			pendingCond = append(pendingCond, st)
			i++
			continue
		case script.KindLabel:
			skip, err := in.conditionalGateFalse(pendingCond)
			pendingCond = nil
			if err != nil {
				return err
			}
			bodyStart := i + 1
			bodyEnd := bodyStart
			for bodyEnd < len(in.stmts) && in.stmts[bodyEnd].Indent > st.Indent {
				bodyEnd++
			}
			if !skip && st.Name != "" {
				if _, dup := in.labels[st.Name]; dup {
					return errs.Runtimef(st.Line, "duplicate label '%s'", st.Name)
				}
				in.labels[st.Name] = label{name: st.Name, startIndex: i, bodyStart: bodyStart, bodyEnd: bodyEnd}
				in.logger.Debug("registered label", "name", st.Name, "line", st.Line)
			} else if skip {
				in.logger.Debug("label gated out by conditional attribute", "line", st.Line)
			}
			i = bodyEnd
			continue
		default:
			pendingCond = nil
			i++
		}
	}
	return nil
}

// conditionalGateFalse reports whether the pending attribute buffer
// contains a conditional attribute that evaluates false, gating the label
// (or statement) that follows out of consideration.
func (in *Interpreter) conditionalGateFalse(pending []script.Statement) (bool, *errs.MewoError) {
	for _, attr := range pending {
		if !isConditionalAttr(attr.Name) {
			continue
		}
		cond := renderAttrCondition(attr)
		ok, err := in.evalPredicate(cond, attr.Line)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
	}
	return false, nil
}

// renderAttrCondition reconstructs "name(params...)" or "name" from an
// Attr statement's Name/Params for predicate evaluation.
func renderAttrCondition(attr script.Statement) string {
	if len(attr.Params) == 0 {
		return attr.Name
	}
	s := attr.Name + "("
	for i, p := range attr.Params {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + ")"
}
