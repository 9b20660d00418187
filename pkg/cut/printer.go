package cut

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	nameColumn = 50

	// clearLineSequence returns to column 0 and erases the line
	clearLineSequence = "\r\033[K"
)

// printer renders test headers, assertion lines and test results.
//
// On a terminal the header of a running test is printed up front and left
// "hanging" until the test ends, so a long test shows what it is doing. When
// its result is not to be shown the header is erased. Elsewhere the header is
// held back until something needs it, which produces the same lines without
// cursor control.
type printer struct {
	w           io.Writer
	interactive bool
	color       bool

	header  string
	hanging bool // header printed, line not terminated
	pending bool // header not printed yet

	palette [NumResults]*color.Color
}

func newPrinter(w io.Writer) *printer {
	p := &printer{
		w:           w,
		interactive: isTerminal(w),
		palette: [NumResults]*color.Color{
			Pass:  color.New(color.FgGreen),
			Fail:  color.New(color.FgRed, color.Bold),
			Skip:  color.New(color.FgYellow),
			Error: color.New(color.FgMagenta, color.Bold),
		},
	}
	p.setColor(false)
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) setColor(enabled bool) {
	p.color = enabled
	for _, c := range p.palette {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func (p *printer) result(r Result) string {
	word := fmt.Sprintf("%-5s", r)
	if !p.color || !r.Valid() {
		return word
	}
	return p.palette[r].Sprint(word)
}

// testHeader is "hh:mm:ss <name> " followed by dots up to the name column.
func testHeader(stamp time.Time, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d:%02d:%02d %s ", stamp.Hour(), stamp.Minute(), stamp.Second(), name)
	if n := nameColumn - len(name); n > 0 {
		b.WriteString(strings.Repeat(".", n))
	}
	b.WriteByte(' ')
	return b.String()
}

func (p *printer) begin(header string) {
	p.header = header
	if p.interactive {
		fmt.Fprint(p.w, header)
		p.hanging, p.pending = true, false
		return
	}
	p.hanging, p.pending = false, true
}

// breakLine terminates a hanging header, or prints a pending one, so the next
// line starts at column 0.
func (p *printer) breakLine() {
	switch {
	case p.hanging:
		fmt.Fprintln(p.w)
		p.hanging = false
	case p.pending:
		fmt.Fprintln(p.w, p.header)
		p.pending = false
	}
}

func (p *printer) assertion(loc Location, r Result, msg string) {
	p.breakLine()
	fmt.Fprintf(p.w, "%s: %s %s\n", loc, p.result(r), msg)
}

// abandon ends the current header line without a result.
func (p *printer) abandon() {
	p.breakLine()
	p.header, p.pending = "", false
}

// end prints the test result line, or erases the header when show is false.
func (p *printer) end(show bool, r Result, elapsed time.Duration) {
	defer func() { p.header, p.hanging, p.pending = "", false, false }()

	if !show {
		if p.hanging {
			fmt.Fprint(p.w, clearLineSequence)
		}
		return
	}

	if !p.hanging {
		fmt.Fprint(p.w, p.header)
	}
	ms := elapsed.Milliseconds()
	fmt.Fprintf(p.w, "%s (%02d:%02d.%03d)\n", p.result(r), ms/60000, (ms/1000)%60, ms%1000)
}

func (p *printer) printf(format string, args ...any) {
	p.breakLine()
	fmt.Fprintf(p.w, format, args...)
}
