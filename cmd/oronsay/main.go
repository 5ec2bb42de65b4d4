// Command oronsay reads a file of Sudoku puzzles, solves each one on a
// pool of worker goroutines, and writes a file pairing every input puzzle
// with its solution, preserving input order.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/bungogood/oronsay/internal/debug"
	"github.com/bungogood/oronsay/internal/errors"
	"github.com/bungogood/oronsay/internal/pipeline"
	"github.com/bungogood/oronsay/internal/source"
	"github.com/bungogood/oronsay/internal/stats"
)

func init() {
	// don't import go.uber.org/automaxprocs for its log output, we run
	// quietly by default
	_, _ = maxprocs.Set()
}

// options bundles every flag oronsay accepts; the zero value already
// matches the documented defaults except for ChunkKiB and OnInvalid, set
// in opts below, and Workers, set in the command's flag defaults.
type options struct {
	Output    string
	Workers   int
	ChunkKiB  chunkKiBFlag
	NoHash    bool
	NoMCV     bool
	Stream    bool
	Stats     bool
	OnInvalid onInvalidFlag
}

var opts = options{
	ChunkKiB:  16,
	OnInvalid: onInvalidFail,
}

var cmdRoot = &cobra.Command{
	Use:   "oronsay [flags] <input>",
	Short: "Solve a file of Sudoku puzzles concurrently",
	Long: `
oronsay reads a text file of Sudoku puzzles, solves each one, and writes a
file pairing every input puzzle with its solution. Input order is
preserved in the output regardless of how many worker goroutines are used.
`,
	Args:              cobra.ExactArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd.Context(), args[0])
	},
}

func init() {
	f := cmdRoot.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "output file path (default: <input>.solved)")
	f.IntVarP(&opts.Workers, "workers", "w", runtime.NumCPU(), "number of worker goroutines")
	f.VarP(&opts.ChunkKiB, "chunk-kib", "c", "reader chunk size in KiB")
	f.BoolVar(&opts.NoHash, "no-hash", false, "skip computing the SHA-256 of the output")
	f.BoolVar(&opts.NoMCV, "no-mcv", false, "disable the most-constrained-variable heuristic")
	f.BoolVar(&opts.Stream, "stream", false, "use buffered streaming reads instead of mmap")
	f.BoolVar(&opts.Stats, "stats", false, "print run statistics to stderr")
	f.Var(&opts.OnInvalid, "on-invalid", "policy for invalid/unsolvable puzzles (fail|skip)")
}

func runSolve(ctx context.Context, input string) error {
	outPath := opts.Output
	if outPath == "" {
		outPath = input + ".solved"
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer out.Close()

	cfg := pipeline.Config{
		Sink:      out,
		Workers:   opts.Workers,
		ChunkSize: opts.ChunkKiB.Bytes(),
		MCV:       !opts.NoMCV,
		NoHash:    opts.NoHash,
		OnFailure: failurePolicy(opts.OnInvalid),
	}

	if opts.Stream || input == "-" {
		r, err := source.OpenStream(input)
		if err != nil {
			return err
		}
		defer r.Close()
		cfg.Stream = r
	} else {
		m, err := source.OpenMapped(input)
		if err != nil {
			return err
		}
		defer m.Close()
		cfg.Mapped = m.Bytes()
	}

	start := time.Now()
	result, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	wall := time.Since(start)

	if !opts.NoHash {
		fmt.Fprintf(os.Stdout, "%s\n", result.Hash)
	}

	if opts.Stats {
		stats.Print(os.Stderr, stats.Report{
			Totals:  result.Totals,
			Workers: opts.Workers,
			Wall:    wall,
			Hash:    result.Hash,
		})
	}

	return nil
}

func failurePolicy(v onInvalidFlag) pipeline.FailurePolicy {
	if v == onInvalidSkip {
		return pipeline.SkipAndLog
	}
	return pipeline.FailFast
}

// run executes the root command under a context that cancels on
// SIGINT/SIGTERM, giving the reader, workers and writer a chance to
// unwind through their ctx.Done() cases. Whatever was already written to
// the output file stays there; a cancelled run does not remove it. It
// returns the process exit code.
func run() int {
	debug.Log("oronsay %#v", os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmdRoot.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.IsFatal(err):
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	default:
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
}

func main() {
	os.Exit(run())
}
