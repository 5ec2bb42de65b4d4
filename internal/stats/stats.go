// Package stats formats the pipeline's global ChunkStats for the CLI's
// --stats flag. Computing and accumulating the numbers is the pipeline's
// job; this package only renders them.
package stats

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/term"

	"github.com/bungogood/oronsay/internal/pipeline"
)

// Report holds everything the CLI prints after a run.
type Report struct {
	Totals  pipeline.ChunkStats
	Workers int
	Wall    time.Duration
	Hash    string
}

// Print writes a human-readable report to w. When w is a terminal, a
// slightly wider, aligned table is used (detected via golang.org/x/term);
// otherwise a plain key: value dump is printed, which is friendlier to
// pipes and log collectors.
func Print(w io.Writer, r Report) {
	isTerminal := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		isTerminal = term.IsTerminal(int(f.Fd()))
	}

	rows := [][2]string{
		{"workers", fmt.Sprintf("%d", r.Workers)},
		{"chunks", fmt.Sprintf("%d", r.Totals.Chunks)},
		{"puzzles", fmt.Sprintf("%d", r.Totals.Puzzles)},
		{"no-guess puzzles", fmt.Sprintf("%d", r.Totals.NoGuesses)},
		{"total guesses", fmt.Sprintf("%d", r.Totals.Guesses)},
		{"solver time", r.Totals.Elapsed.String()},
		{"wall time", r.Wall.String()},
	}
	if r.Hash != "" {
		rows = append(rows, [2]string{"sha256", r.Hash})
	}

	if !isTerminal {
		for _, row := range rows {
			fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
		}
		return
	}

	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	fmt.Fprintln(w, "oronsay run statistics")
	for _, row := range rows {
		fmt.Fprintf(w, "  %-*s  %s\n", width, row[0], row[1])
	}
}
