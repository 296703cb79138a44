// Package cmd implements Mewo's command-line surface: a single-action
// cobra root command rather than the teacher's multi-subcommand tree,
// since Mewo has exactly one job (run a Mewofile).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SirPigari/mewo/internal/config"
	"github.com/SirPigari/mewo/internal/logging"
	"github.com/SirPigari/mewo/internal/mewo"
	"github.com/SirPigari/mewo/internal/script"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	debug        bool
	dryRun       bool
	mewofilePath string
	shellFlag    string
	traceFile    string
	defines      []string

	// enableFeatures/disableFeatures are populated by prescanPlusMinusFlags
	// before cobra/pflag ever sees os.Args, since pflag has no concept of a
	// '+'-prefixed flag.
	enableFeatures  []string
	disableFeatures []string

	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "mewo [LABEL] [-- ARGS...]",
	Short: "Mewo runs Mewofile build-automation scripts",
	Long: `Mewo is a small, line-oriented build-automation interpreter.

It reads a Mewofile (labels, variables, conditional attributes, and
shell commands) and runs either the named LABEL or the whole
top-level script.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE:          runMewo,
}

func init() {
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print the version and exit")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "verbose logging and an AST dump before execution")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print each command instead of spawning it")
	rootCmd.Flags().StringVarP(&mewofilePath, "mewofile", "f", "Mewofile", "path to the Mewofile to run")
	rootCmd.Flags().StringVar(&mewofilePath, "file", "Mewofile", "alias for --mewofile")
	rootCmd.Flags().StringVar(&shellFlag, "shell", "", "default shell for commands lacking their own #shell")
	rootCmd.Flags().StringVar(&traceFile, "trace-file", "", "write a YAML execution trace here (only with --debug)")
	rootCmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "seed a string variable: -D name=value")
}

// Execute pre-scans +F/-F pairs, lets cobra parse everything else, then
// runs the root command.
func Execute() error {
	args, err := prescanPlusMinusFlags(os.Args[1:])
	if err != nil {
		return err
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// prescanPlusMinusFlags extracts "+F name" / "-F name" pairs from args
// before pflag sees them. pflag treats a bare '+' token as a positional
// argument rather than a flag prefix, so Mewo carves these out the same
// way the teacher's root command carves the workflow-shorthand positional
// argument out of cobra's args before delegating the rest to pflag.
func prescanPlusMinusFlags(args []string) ([]string, error) {
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "+F":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("+F requires a feature name")
			}
			enableFeatures = append(enableFeatures, args[i+1])
			i++
		case a == "-F":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-F requires a feature name")
			}
			disableFeatures = append(disableFeatures, args[i+1])
			i++
		case strings.HasPrefix(a, "+F") && len(a) > 2:
			enableFeatures = append(enableFeatures, a[2:])
		default:
			rest = append(rest, a)
		}
	}
	return rest, nil
}

func runMewo(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("mewo %s\n", Version)
		return nil
	}

	cfg, err := config.LoadUser()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg)
	if debug {
		logger = logging.NewDebug(cfg)
	}

	defaultShell := cfg.DefaultShell
	if shellFlag != "" {
		defaultShell = shellFlag
	}

	f, err := os.Open(mewofilePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", mewofilePath, err)
	}
	defer f.Close()

	stmts, perr := script.Parse(f)
	if perr != nil {
		return fmt.Errorf("%s", perr.Format(mewofilePath))
	}
	logger.Debug("parsed Mewofile", "file", mewofilePath, "statements", len(stmts))

	if debug {
		dumpAST(stmts)
	}

	var trace *mewo.Trace
	if debug && traceFile != "" {
		trace = mewo.NewTrace(traceFile)
	}

	// Positional argument 0 is the program name; $1 is the first argument
	// after "--".
	argvSep := cmd.ArgsLenAtDash()
	argv := []string{os.Args[0]}
	var label string
	if argvSep >= 0 {
		if argvSep > 0 {
			label = args[0]
		}
		argv = append(argv, args[argvSep:]...)
	} else if len(args) > 0 {
		label = args[0]
	}

	in := mewo.New(stmts, mewo.Options{
		Argv:         argv,
		DefaultShell: defaultShell,
		DryRun:       dryRun,
		Logger:       logger,
		Trace:        trace,
	})

	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			return fmt.Errorf("-D %q is not in name=value form", d)
		}
		in.Vars().SetString(name, value)
	}
	for _, name := range enableFeatures {
		in.Features().Enable(name)
	}
	for _, name := range disableFeatures {
		in.Features().Disable(name)
	}

	runErr := in.Run(label)

	if trace != nil {
		if ferr := trace.Flush(); ferr != nil {
			logger.Warn("writing trace file", "error", ferr)
		}
	}

	if runErr != nil {
		return fmt.Errorf("%s", runErr.Format(mewofilePath))
	}
	return nil
}

// dumpAST prints the parsed statement sequence, grounded on the original
// C interpreter's print_ast debug dump.
func dumpAST(stmts []script.Statement) {
	for i, st := range stmts {
		fmt.Fprintf(os.Stderr, "%4d | L%-4d indent=%d %s\n", i, st.Line, st.Indent, describeStatement(st))
	}
}

func describeStatement(st script.Statement) string {
	switch st.Kind {
	case script.KindLabel:
		return fmt.Sprintf("Label %q", st.Name)
	case script.KindVarAssign:
		return fmt.Sprintf("VarAssign %s = %q", st.Name, st.RawValue)
	case script.KindIndexAssign:
		return fmt.Sprintf("IndexAssign %s[%s] = %q", st.Name, st.RawIndex, st.RawValue)
	case script.KindCommand:
		return fmt.Sprintf("Command %q", st.RawLine)
	case script.KindAttr:
		return fmt.Sprintf("Attr #%s(%s)", st.Name, strings.Join(st.Params, ", "))
	case script.KindGoto:
		return fmt.Sprintf("Goto %s", st.Target)
	case script.KindCall:
		return fmt.Sprintf("Call %s", st.Target)
	case script.KindIf:
		return fmt.Sprintf("If (%s)", st.RawCondition)
	default:
		return st.Kind.String()
	}
}
