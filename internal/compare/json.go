package compare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// JSON compares two JSON documents structurally. Both are brought to their
// RFC 8785 canonical form first, so key order, whitespace and number spelling
// (1.0 vs 1) are ignored. On mismatch the message is an ASCII diff annotated
// with + and -.
func JSON(proper, actual []byte) (bool, string) {
	pc, err := jsoncanonicalizer.Transform(proper)
	if err != nil {
		return false, fmt.Sprintf("\n  Proper: invalid JSON: %v", err)
	}
	ac, err := jsoncanonicalizer.Transform(actual)
	if err != nil {
		return false, fmt.Sprintf("\n  Actual: invalid JSON: %v", err)
	}
	if bytes.Equal(pc, ac) {
		return true, fmt.Sprintf("canonical documents of %d bytes match", len(ac))
	}

	var p, a any
	if err := json.Unmarshal(pc, &p); err != nil {
		return false, fmt.Sprintf("\n  Proper: invalid JSON: %v", err)
	}
	if err := json.Unmarshal(ac, &a); err != nil {
		return false, fmt.Sprintf("\n  Actual: invalid JSON: %v", err)
	}

	// gojsondiff only diffs objects at the root
	p, a = wrapRoot(p), wrapRoot(a)

	pb, _ := json.Marshal(p)
	ab, _ := json.Marshal(a)

	diff, err := gojsondiff.New().Compare(pb, ab)
	if err != nil {
		return false, fmt.Sprintf("\n  JSON comparison failed: %v", err)
	}
	if !diff.Modified() {
		return true, fmt.Sprintf("documents of %d bytes match", len(actual))
	}

	f := formatter.NewAsciiFormatter(p, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       false,
	})
	out, err := f.Format(diff)
	if err != nil {
		return false, fmt.Sprintf("\n  JSON diff formatting failed: %v", err)
	}
	return false, "\n" + strings.TrimRight(out, "\n")
}

func wrapRoot(v any) any {
	if _, ok := v.(map[string]any); ok {
		return v
	}
	return map[string]any{"value": v}
}
