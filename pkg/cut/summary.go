package cut

import (
	"fmt"
	"io"
)

// PrintSummary writes the two-row count table and the verdict line:
//
//	                PASS    FAIL    SKIP   ERROR    Total
//	Assertions        12       1       0       0       13
//	Tests              4       1       1       0        6
//	Result: FAIL
func PrintSummary(w io.Writer, counts Counts, verdict Result) {
	fmt.Fprintf(w, "%12s", "")
	for _, name := range resultNames {
		fmt.Fprintf(w, " %7s", name)
	}
	fmt.Fprintf(w, " %8s\n", "Total")

	printRow(w, "Assertions", counts.Assertions)
	printRow(w, "Tests", counts.Tests)

	fmt.Fprintf(w, "Result: %s\n", verdict)
}

func printRow(w io.Writer, label string, row [NumResults]int) {
	fmt.Fprintf(w, "%-12s", label)
	for _, n := range row {
		fmt.Fprintf(w, " %7d", n)
	}
	fmt.Fprintf(w, " %8d\n", sum(row))
}

// PrintSummary writes the table for the session's most recent run.
func (s *Session) PrintSummary(w io.Writer) {
	PrintSummary(w, s.counts, s.counts.Verdict())
}
