package compare

import (
	"fmt"
	"reflect"
)

// MaxPrintableDiff caps the rendering of a mismatching string, including
// the room reserved for a terminator.
const MaxPrintableDiff = 64

const halfDiff = MaxPrintableDiff/2 - 2

// CharImage renders a byte the way it is shown in mismatch messages: printable
// characters are quoted, common control characters use their escape and
// everything else is shown as a decimal (below 10) or hex escape.
func CharImage(c byte) string {
	if c >= 0x20 && c < 0x7f {
		return "'" + string(rune(c)) + "'"
	}

	switch c {
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	case '\n':
		return `'\n'`
	}

	if c < 10 {
		return fmt.Sprintf(`'\%d'`, c)
	}
	return fmt.Sprintf(`'\x%02X'`, c)
}

// PrintableDiff returns at most MaxPrintableDiff-1 bytes of src around index.
// Long strings get a leading ".." when index is past the first half of the
// window and a trailing ".." when content remains beyond the window.
func PrintableDiff(src string, index int) string {
	const width = MaxPrintableDiff - 1

	index = min(max(index, 0), len(src))
	var b []byte
	switch {
	case len(src) < MaxPrintableDiff:
		return src
	case index > halfDiff:
		b = append([]byte(".."), src[index-halfDiff:]...)
		if len(b) > width {
			b = b[:width]
		}
		if len(src) > index+halfDiff {
			b[width-2] = '.'
			b[width-1] = '.'
		}
	default:
		b = []byte(src[:width])
		b[width-2] = '.'
		b[width-1] = '.'
	}
	return string(b)
}

// String compares two strings byte by byte, including the position one past the
// longer string, which compares as a zero terminator.
func String(proper, actual string) (bool, string) {
	n := max(len(proper), len(actual)) + 1
	for i := 0; i < n; i++ {
		p, a := terminated(proper, i), terminated(actual, i)
		if p == a {
			continue
		}
		return false, fmt.Sprintf("\n  Proper at [%d]: 0x%02X %3d %-6s \"%s\"\n  Actual at [%d]: 0x%02X %3d %-6s \"%s\"",
			i, p, p, CharImage(p), PrintableDiff(proper, i),
			i, a, a, CharImage(a), PrintableDiff(actual, i))
	}
	return true, fmt.Sprintf("strings of length %d (0x%02X) match", len(proper), len(proper))
}

// NullableString is String for values that may be absent. Two absent values
// match; a single absent value never does.
func NullableString(proper, actual *string) (bool, string) {
	if ok, msg, done := nullCheck(proper == nil, actual == nil); done {
		return ok, msg
	}
	return String(*proper, *actual)
}

// Memory compares the first n bytes of two buffers. A nil buffer is treated as
// absent. Reading past the end of either buffer is a mismatch.
func Memory(proper, actual []byte, n int) (bool, string) {
	if ok, msg, done := nullCheck(proper == nil, actual == nil); done {
		return ok, msg
	}

	for i := 0; i < n; i++ {
		if i >= len(proper) || i >= len(actual) {
			return false, fmt.Sprintf("\n  Proper: %d bytes\n  Actual: %d bytes\n  Compared: %d bytes",
				len(proper), len(actual), n)
		}
		p, a := proper[i], actual[i]
		if p == a {
			continue
		}
		return false, fmt.Sprintf("\n  Proper at [%d]: 0x%02X (%d, %s)\n  Actual at [%d]: 0x%02X (%d, %s)",
			i, p, p, CharImage(p), i, a, a, CharImage(a))
	}
	return true, fmt.Sprintf("buffers of length %d (0x%02X) match", n, n)
}

// Pointer reports whether proper and actual refer to the same object. Both
// values must be pointer-like (pointer, map, slice, chan, func, unsafe pointer)
// or nil.
func Pointer(proper, actual any) (bool, string) {
	pp, pok := address(proper)
	ap, aok := address(actual)
	msg := fmt.Sprintf("\n  Proper: @%s\n  Actual: @%s", formatAddress(pp, pok), formatAddress(ap, aok))
	return pok && aok && pp == ap, msg
}

func nullCheck(properNil, actualNil bool) (ok bool, msg string, done bool) {
	switch {
	case properNil && actualNil:
		return true, "\n  Proper: NULL\n  Actual: NULL", true
	case properNil:
		return false, "\n  Proper: NULL\n  Actual: non-NULL", true
	case actualNil:
		return false, "\n  Proper: non-NULL\n  Actual: NULL", true
	}
	return false, "", false
}

func terminated(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func address(v any) (uintptr, bool) {
	if v == nil {
		return 0, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.Pointer(), true
	}
	return 0, false
}

func formatAddress(p uintptr, ok bool) string {
	if !ok {
		return "<not a pointer>"
	}
	if p == 0 {
		return "(nil)"
	}
	return fmt.Sprintf("0x%x", p)
}
