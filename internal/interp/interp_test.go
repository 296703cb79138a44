package interp

import (
	"fmt"
	"testing"

	"github.com/SirPigari/mewo/internal/errs"
	"github.com/SirPigari/mewo/internal/values"
)

func newCtx() *Context {
	return &Context{
		Vars:         values.NewStore(),
		Features:     values.NewFeatureStore(),
		Argv:         []string{"build", "release"},
		LastExitCode: 0,
		DefaultShell: "sh",
	}
}

func TestExpandLiteral(t *testing.T) {
	got, err := Expand("hello world", newCtx(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("got %q", got)
	}
}

func TestExpandPositionalArg(t *testing.T) {
	ctx := newCtx()
	got, err := Expand("mode=$0 target=$1", ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "mode=build target=release" {
		t.Errorf("got %q", got)
	}
}

func TestExpandMissingPositionalIsEmpty(t *testing.T) {
	got, err := Expand("extra=$9", newCtx(), 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "extra=" {
		t.Errorf("got %q", got)
	}
}

func TestExpandExitCode(t *testing.T) {
	ctx := newCtx()
	ctx.LastExitCode = 7
	got, err := Expand("code=$?", ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "code=7" {
		t.Errorf("got %q", got)
	}
}

func TestExpandEscapedDollarBrace(t *testing.T) {
	got, err := Expand(`literal $${x}`, newCtx(), 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "literal ${x}" {
		t.Errorf("got %q", got)
	}
}

func TestExpandEscapedDollarDigit(t *testing.T) {
	got, err := Expand(`price is $$5`, newCtx(), 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "price is $5" {
		t.Errorf("got %q", got)
	}
}

func TestExpandVariableLookup(t *testing.T) {
	ctx := newCtx()
	ctx.Vars.SetString("name", "mewo")
	got, err := Expand("hi ${name}", ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "hi mewo" {
		t.Errorf("got %q", got)
	}
}

func TestExpandUndefinedVariableErrors(t *testing.T) {
	_, err := Expand("${missing}", newCtx(), 3)
	if err == nil {
		t.Fatal("expected error for undefined variable")
	}
	if err.Line != 3 {
		t.Errorf("expected line 3, got %d", err.Line)
	}
}

func TestExpandArrayIndex(t *testing.T) {
	ctx := newCtx()
	ctx.Vars.Set("y", values.Array([]values.Value{values.Number(1), values.Number(2), values.Number(3)}))
	got, err := Expand("${y[1]}", ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "2" {
		t.Errorf("got %q", got)
	}
}

func TestExpandArgvIntrinsic(t *testing.T) {
	got, err := Expand("${argv}", newCtx(), 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "build release" {
		t.Errorf("got %q", got)
	}
}

func TestExpandLenIntrinsic(t *testing.T) {
	ctx := newCtx()
	ctx.Vars.Set("items", values.Array([]values.Value{values.Number(1), values.Number(2)}))
	got, err := Expand("${#len(items)}", ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "2" {
		t.Errorf("got %q", got)
	}
}

func TestExpandEnvIntrinsic(t *testing.T) {
	ctx := newCtx()
	ctx.Env = func(name string) (string, bool) {
		if name == "MEWO_HOME" {
			return "/opt/mewo", true
		}
		return "", false
	}
	got, err := Expand(`${#env(MEWO_HOME)}`, ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "/opt/mewo" {
		t.Errorf("got %q", got)
	}
}

func TestExpandEnvIntrinsicDefault(t *testing.T) {
	ctx := newCtx()
	ctx.Env = func(string) (string, bool) { return "", false }
	got, err := Expand(`${#env(MISSING, "fallback")}`, ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "fallback" {
		t.Errorf("got %q", got)
	}
}

func TestExpandExecIntrinsic(t *testing.T) {
	ctx := newCtx()
	ctx.Exec = func(shell, command string) (string, error) {
		return fmt.Sprintf("%s ran %q\n", shell, command), nil
	}
	got, err := Expand(`${#exec("echo hi")}`, ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != `sh ran "echo hi"` {
		t.Errorf("got %q", got)
	}
}

func TestExpandRecursiveInnerExpression(t *testing.T) {
	ctx := newCtx()
	ctx.Vars.SetString("idx", "1")
	ctx.Vars.Set("y", values.Array([]values.Value{values.String("a"), values.String("b")}))
	got, err := Expand("${y[${idx}]}", ctx, 1)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got != "b" {
		t.Errorf("got %q", got)
	}
}

func TestExpandUnterminatedBraceIsSyntaxError(t *testing.T) {
	_, err := Expand("${oops", newCtx(), 5)
	if err == nil {
		t.Fatal("expected syntax error for unterminated brace")
	}
	if err.Kind != errs.Syntax {
		t.Errorf("expected Syntax kind, got %v", err.Kind)
	}
}

func TestExpandDeepNestingIsRuntimeError(t *testing.T) {
	ctx := newCtx()
	template := "${argv}"
	for i := 0; i < 70; i++ {
		template = "${" + template + "}"
	}
	_, err := Expand(template, ctx, 1)
	if err == nil {
		t.Fatal("expected depth-limit error")
	}
}
