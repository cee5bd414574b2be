package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-cbm/internal/host"
	"github.com/cwbudde/go-cbm/pkg/basic"
	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	trace      bool
	dumpLines  bool
	profileArg string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a BASIC program file or inline expression",
	Long: `Execute a BASIC program from a file or inline source.

Examples:
  # Run a program file
  cbm run prog.bas

  # Evaluate inline source
  cbm run -e "10 PRINT \"HELLO, WORLD!\""

  # Trace line execution
  cbm run --trace prog.bas

  # Reproduce the original 256-byte line-buffer ROM
  cbm run --profile=classic prog.bas`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print each BASIC line number as it executes")
	runCmd.Flags().BoolVar(&dumpLines, "dump-lines", false, "dump the loaded program's lines before running")
	runCmd.Flags().StringVar(&profileArg, "profile", "optimised", "line-buffer profile: classic (256 bytes) or optimised (128 bytes)")
}

func parseProfile(s string) (host.Profile, error) {
	switch s {
	case "classic":
		return host.ProfileClassic, nil
	case "optimised", "optimized", "":
		return host.ProfileOptimised, nil
	default:
		return host.ProfileOptimised, fmt.Errorf("unknown profile %q (want classic or optimised)", s)
	}
}

func runProgram(_ *cobra.Command, args []string) error {
	var source string
	var filename string

	if evalExpr != "" {
		source = evalExpr
		filename = "<eval>"
	} else if len(args) == 1 {
		filename = args[0]
	} else {
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	profile, err := parseProfile(profileArg)
	if err != nil {
		return err
	}

	opts := []basic.Option{basic.WithProfile(profile)}
	if trace {
		opts = append(opts, basic.WithTrace(os.Stderr))
	}

	engine := basic.New(opts...)

	if filename == "<eval>" {
		if err := engine.LoadSource(source); err != nil {
			return err
		}
	} else {
		if err := engine.LoadFile(filename); err != nil {
			return err
		}
	}

	if dumpLines {
		for _, line := range engine.Lines() {
			fmt.Fprintf(os.Stderr, "%5d %s\n", line.Number, line.Text)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[running %s]\n", filename)
	}

	return engine.Run()
}
