package compare

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/mcuadros/go-defaults"
)

// TextOptions tune how multi-line text is normalized before it is compared.
type TextOptions struct {
	IgnoreTrailingWhitespace bool `default:"false"`
	IgnoreEmptyLines         bool `default:"false"`
	TrimSpace                bool `default:"false"`
	Color                    bool `default:"false"`
}

// TextOption is a functional option for Text.
type TextOption func(*TextOptions)

func WithIgnoreTrailingWhitespace(ignore bool) TextOption {
	return func(o *TextOptions) { o.IgnoreTrailingWhitespace = ignore }
}

func WithIgnoreEmptyLines(ignore bool) TextOption {
	return func(o *TextOptions) { o.IgnoreEmptyLines = ignore }
}

func WithTrimSpace(trim bool) TextOption {
	return func(o *TextOptions) { o.TrimSpace = trim }
}

// WithColor colorizes the unified diff of a mismatch.
func WithColor(enabled bool) TextOption {
	return func(o *TextOptions) { o.Color = enabled }
}

// Text compares multi-line text. On mismatch the message is a unified diff
// from proper to actual.
func Text(proper, actual string, opts ...TextOption) (bool, string) {
	o := TextOptions{}
	defaults.SetDefaults(&o)
	for _, opt := range opts {
		opt(&o)
	}

	p := normalizeText(proper, o)
	a := normalizeText(actual, o)
	if p == a {
		lines := strings.Count(p, "\n") + 1
		return true, fmt.Sprintf("texts of %d lines match", lines)
	}

	edits := myers.ComputeEdits("", p, a)
	unified := fmt.Sprint(gotextdiff.ToUnified("proper", "actual", p, edits))
	if o.Color {
		unified = colorizeUnified(unified)
	}
	return false, "\n" + strings.TrimRight(unified, "\n")
}

func normalizeText(text string, o TextOptions) string {
	if o.TrimSpace {
		text = strings.TrimSpace(text)
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if o.IgnoreTrailingWhitespace {
			line = strings.TrimRight(line, " \t\r")
		}
		if o.IgnoreEmptyLines && strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func colorizeUnified(diff string) string {
	red := color.New(color.FgRed)
	red.EnableColor()
	green := color.New(color.FgGreen)
	green.EnableColor()
	cyan := color.New(color.FgCyan)
	cyan.EnableColor()
	yellow := color.New(color.FgYellow)
	yellow.EnableColor()

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++"):
			lines[i] = yellow.Sprint(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = cyan.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = red.Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = green.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}
