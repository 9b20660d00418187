package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/srg/cut/pkg/cut"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// runOptions holds the flag values of one invocation.
type runOptions struct {
	configPath   string
	logLevel     string
	verbose      bool
	scripts      []string
	list         bool
	recap        int
	slowTest     time.Duration
	color        string
	forceFailure bool
	demo         bool
	summary      bool

	// verbosity flags removed from the command line before cobra sees it
	verbosityArgs []string

	result cut.Result
}

func newRootCmd() (*cobra.Command, *runOptions) {
	o := &runOptions{result: cut.Pass}

	cmd := &cobra.Command{
		Use:   "cutrun [flags] [test-substring...]",
		Short: "Run cut test suites",
		Long: `Runs the built-in demo suites and Lua suite scripts, printing one line per
test and a summary table.

Positional arguments restrict the run to tests whose "suite.test" name
contains one of them; an argument that matches no test is an error.

The exit status is the verdict: 0 PASS, 1 FAIL, 2 SKIP, 3 ERROR.`,
		Version:      formatVersion(version),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, o, args)
		},
	}

	// Silence Cobra's "Error:" prefix - main() prints clean errors
	cmd.SilenceErrors = true

	flags := cmd.Flags()
	flags.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&o.verbose, "verbose", false, "Debug logging when --log-level is not set")
	flags.StringSliceVarP(&o.scripts, "lua", "l", nil, "Lua suite scripts to load (repeatable)")
	flags.BoolVar(&o.list, "list", false, "List registered test names and exit")
	flags.IntVar(&o.recap, "recap", 16, "Failures kept for the end-of-run recap (0 disables)")
	flags.DurationVar(&o.slowTest, "slow", 0, "Warn about tests running longer than this (0 disables)")
	flags.StringVar(&o.color, "color", "auto", "Colour output (auto, always, never)")
	flags.BoolVar(&o.forceFailure, "force-failure", false, "Plant a failure in every demo suite")
	flags.BoolVar(&o.demo, "demo", true, "Register the built-in demo suites")
	flags.BoolVar(&o.summary, "summary", true, "Print the summary table")

	// Add -v as a short flag for --version
	flags.BoolP("version", "v", false, "Show version information")

	var usage bytes.Buffer
	usage.WriteString("\nTest verbosity flags (one or two leading dashes):\n")
	cut.Usage(&usage)
	cmd.SetUsageTemplate(cmd.UsageTemplate() + usage.String())
	cmd.SetVersionTemplate(fmt.Sprintf("cutrun %s (commit %s, built %s)\n", formatVersion(version), commit, date))

	return cmd, o
}

// splitVerbosityArgs separates the framework verbosity flags, which cobra
// would misread as shorthand flags, from everything else. Arguments after
// "--" are left alone.
func splitVerbosityArgs(args []string) (verbosity, rest []string) {
	for i, arg := range args {
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		if cut.IsVerbosityFlag(arg) {
			verbosity = append(verbosity, arg)
			continue
		}
		rest = append(rest, arg)
	}
	return verbosity, rest
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, o := newRootCmd()
	o.verbosityArgs, args = splitVerbosityArgs(args)

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		// Ctrl+C is a normal exit, not an error - report the verdict so far
		if errors.Is(err, context.Canceled) {
			return int(o.result)
		}
		fmt.Fprintf(stderr, "ERROR: %s\n", FormatUserError(err))
		return 1
	}
	return int(o.result)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
