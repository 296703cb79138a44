package mewo

import (
	"strings"

	"github.com/SirPigari/mewo/internal/errs"
	"github.com/SirPigari/mewo/internal/interp"
	"github.com/SirPigari/mewo/internal/script"
)

// Run executes the program. If label is non-empty, that label's body runs
// (after the top-level setup rerun described in §4.5); otherwise the
// top-level statement list runs start to finish.
func (in *Interpreter) Run(label string) *errs.MewoError {
	if err := in.RegisterLabels(); err != nil {
		in.errSlot.Set(err)
		return err
	}

	in.logger.Debug("run starting", "label", label, "statements", len(in.stmts))

	var err *errs.MewoError
	if label == "" {
		err = in.runRange(0, len(in.stmts), false)
	} else {
		err = in.executeLabel(label, 0)
	}
	if err != nil {
		in.errSlot.Set(err)
		in.logger.Debug("run failed", "label", label, "error", err.Message, "line", err.Line)
	} else {
		in.logger.Debug("run complete", "label", label)
	}
	return err
}

// executeLabel implements §4.5's label-execution recipe: rerun the
// top-level setup pass, then run the label's own body as a bounded range,
// tracking current_label_index for nested Call resolution.
func (in *Interpreter) executeLabel(name string, line int) *errs.MewoError {
	lbl, ok := in.labels[name]
	if !ok {
		return errs.Runtimef(line, "unknown label '%s'", name)
	}

	if err := in.runRange(0, len(in.stmts), true); err != nil {
		return err
	}

	prev := in.currentLabelIdx
	in.currentLabelIdx = lbl.startIndex
	in.pending = nil
	err := in.runRange(lbl.bodyStart, lbl.bodyEnd, false)
	in.currentLabelIdx = prev
	return err
}

// runRange walks statements in [start, end) carrying out §4.5's top-level
// and range execution rules. setupOnly implements the "rerun top-level" pass
// for label entry: Call and Goto are skipped (not executed) and named-label
// bodies are skipped over, while anonymous labels and VarAssign/IndexAssign
// and conditional structure still apply.
func (in *Interpreter) runRange(start, end int, setupOnly bool) *errs.MewoError {
	i := start
	for i < end && i < len(in.stmts) {
		if in.errSlot.HasError() {
			return in.errSlot.Err()
		}
		st := in.stmts[i]

		switch st.Kind {
		case script.KindVarAssign, script.KindIndexAssign, script.KindGoto, script.KindCall:
			// Pending conditional attributes gate these statements just as
			// they gate a Command (handled in its own case below).
			skip, err := in.conditionalGateFalse(in.pending)
			if err != nil {
				return err
			}
			if skip {
				in.pending = nil
				i++
				continue
			}
		}

		switch st.Kind {
		case script.KindLabel:
			in.pending = nil
			bodyEnd := i + 1
			for bodyEnd < len(in.stmts) && in.stmts[bodyEnd].Indent > st.Indent {
				bodyEnd++
			}
			if st.Name == "" {
				// Anonymous label: execute its body inline, always.
				if err := in.runRange(i+1, bodyEnd, setupOnly); err != nil {
					return err
				}
			}
			// Named labels are skipped during both top-level and setup
			// passes; they only run via explicit Call/Goto/label-arg entry.
			i = bodyEnd
			continue

		case script.KindIf:
			takeBranch, elseStart, afterEndif, err := in.scanConditional(i, end)
			if err != nil {
				return err
			}
			if takeBranch {
				if err := in.runRange(i+1, elseStart, setupOnly); err != nil {
					return err
				}
			} else if elseStart < afterEndif {
				if err := in.runRange(elseStart+1, afterEndif-1, setupOnly); err != nil {
					return err
				}
			}
			i = afterEndif
			continue

		case script.KindElse, script.KindEndif:
			// Reached only when scanConditional's bounds are respected;
			// treat as a no-op boundary marker if encountered directly.
			i++
			continue

		case script.KindAttr:
			switch st.Name {
			case "assert":
				if !setupOnly {
					if err := in.handleAssert(st); err != nil {
						return err
					}
				}
			case "features":
				if !setupOnly {
					in.handleFeaturesAttr(st)
				}
			default:
				in.pending = append(in.pending, st)
			}
			i++
			continue

		case script.KindGoto:
			in.pending = nil
			if setupOnly {
				i++
				continue
			}
			lbl, ok := in.labels[st.Target]
			if !ok {
				return errs.Runtimef(st.Line, "unknown label '%s'", st.Target)
			}
			in.logger.Debug("goto", "target", st.Target, "line", st.Line)
			i = lbl.bodyStart
			end = len(in.stmts)
			continue

		case script.KindCall:
			in.pending = nil
			if setupOnly {
				i++
				continue
			}
			in.logger.Debug("call", "target", st.Target, "line", st.Line)
			if err := in.executeLabel(st.Target, st.Line); err != nil {
				return err
			}
			i++
			continue

		case script.KindVarAssign:
			if err := in.handleVarAssign(st); err != nil {
				return err
			}
			in.pending = nil
			i++
			continue

		case script.KindIndexAssign:
			if err := in.handleIndexAssign(st); err != nil {
				return err
			}
			in.pending = nil
			i++
			continue

		case script.KindCommand:
			skip, err := in.conditionalGateFalse(in.pending)
			if err != nil {
				return err
			}
			cmdAttrs := in.pending
			in.pending = nil
			if skip {
				i++
				continue
			}
			if !setupOnly {
				if err := in.handleCommand(st, cmdAttrs); err != nil {
					return err
				}
			}
			i++
			continue

		default:
			i++
		}
	}
	return nil
}

// scanConditional locates the Else (or -1) and the index after the matching
// Endif for an If statement at index i, then evaluates the condition.
func (in *Interpreter) scanConditional(i, limit int) (takeBranch bool, elseIdx, afterEndif int, err *errs.MewoError) {
	st := in.stmts[i]
	depth := 0
	elseIdx = -1
	j := i + 1
	for j < len(in.stmts) {
		switch in.stmts[j].Kind {
		case script.KindIf:
			depth++
		case script.KindElse:
			if depth == 0 && elseIdx == -1 {
				elseIdx = j
			}
		case script.KindEndif:
			if depth == 0 {
				afterEndif = j + 1
				goto found
			}
			depth--
		}
		j++
	}
	return false, -1, len(in.stmts), errs.Syntaxf(st.Line, "#if without matching #endif")

found:
	if elseIdx == -1 {
		elseIdx = afterEndif - 1
	}
	cond, ierr := interp.Expand(st.RawCondition, in.interpCtx(), st.Line)
	if ierr != nil {
		return false, elseIdx, afterEndif, ierr
	}
	ok, perr := in.evalPredicate(cond, st.Line)
	if perr != nil {
		return false, elseIdx, afterEndif, perr
	}
	in.logger.Debug("if condition", "condition", cond, "result", ok, "line", st.Line)
	return ok, elseIdx, afterEndif, nil
}

func (in *Interpreter) interpCtx() *interp.Context {
	return &interp.Context{
		Vars:         in.vars,
		Features:     in.features,
		Argv:         in.argv,
		LastExitCode: in.lastExitCode,
		DefaultShell: in.globalShell,
		Exec:         in.execCommand,
	}
}

// handleAssert evaluates a stand-alone #assert attribute immediately, as
// the original interpreter does at exec.c's STMT_ATTR case, rather than
// folding it into the pending-attribute buffer where it could be dropped
// by a following Label or EOF.
func (in *Interpreter) handleAssert(st script.Statement) *errs.MewoError {
	if len(st.Params) == 0 {
		return errs.Syntaxf(st.Line, "#assert requires a condition")
	}
	cond, err := interp.Expand(st.Params[0], in.interpCtx(), st.Line)
	if err != nil {
		return err
	}
	cond = strings.TrimSpace(cond)
	ok, perr := in.evalPredicate(cond, st.Line)
	if perr != nil {
		return perr
	}
	if !ok {
		return errs.Runtimef(st.Line, "assertion failed: %s", cond)
	}
	return nil
}

// handleFeaturesAttr enables every comma-separated name in a #features(...)
// attribute immediately, matching the original's feature_enable loop over
// the raw parameter body rather than deferring to the next Command.
func (in *Interpreter) handleFeaturesAttr(st script.Statement) {
	if len(st.Params) == 0 {
		return
	}
	for _, name := range strings.Split(st.Params[0], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			in.features.Enable(name)
		}
	}
}

func (in *Interpreter) handleVarAssign(st script.Statement) *errs.MewoError {
	raw, err := interp.Expand(st.RawValue, in.interpCtx(), st.Line)
	if err != nil {
		return err
	}
	in.logger.Debug("interpolated value", "name", st.Name, "raw", st.RawValue, "expanded", raw, "line", st.Line)
	v, perr := parseValue(raw, in, st.Line)
	if perr != nil {
		return perr
	}
	in.vars.Set(st.Name, v)
	return nil
}

func (in *Interpreter) handleIndexAssign(st script.Statement) *errs.MewoError {
	idxRaw, err := interp.Expand(st.RawIndex, in.interpCtx(), st.Line)
	if err != nil {
		return err
	}
	valRaw, err := interp.Expand(st.RawValue, in.interpCtx(), st.Line)
	if err != nil {
		return err
	}
	v, perr := parseValue(valRaw, in, st.Line)
	if perr != nil {
		return perr
	}
	idx, atoiErr := parseIndex(idxRaw)
	if atoiErr != nil {
		return errs.Syntaxf(st.Line, "invalid index '%s'", idxRaw)
	}
	if !in.vars.Exists(st.Name) {
		return errs.Runtimef(st.Line, "undefined variable '%s'", st.Name)
	}
	if !in.vars.SetIndex(st.Name, idx, v) {
		return errs.Runtimef(st.Line, "cannot index-assign into non-array variable '%s'", st.Name)
	}
	return nil
}
