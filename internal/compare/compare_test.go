package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntIn(t *testing.T) {
	tests := []struct {
		name       string
		lo, hi, in int64
		want       bool
	}{
		{"exact match", 7, 7, 7, true},
		{"exact mismatch", 7, 7, 8, false},
		{"lower bound inclusive", 0, 10, 0, true},
		{"upper bound exclusive", 0, 10, 10, false},
		{"inside", 0, 10, 9, true},
		{"below", 0, 10, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := IntIn(tt.lo, tt.hi, tt.in)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIntMessages(t *testing.T) {
	_, msg := Int(6, 5)
	assert.Equal(t, "\n  Proper:          6 (0x00000006)\n  Actual:          5 (0x00000005)", msg)

	_, msg = IntIn(1, 3, 4)
	assert.Equal(t, "\n  Lower:           1 (0x00000001)\n  Actual:          4 (0x00000004)\n  Upper:           3 (0x00000003)", msg)
}

func TestDoubleNear(t *testing.T) {
	ok, _ := DoubleNear(1.0, 1.0+Epsilon/2, Epsilon)
	assert.True(t, ok)

	ok, _ = DoubleNear(1.0, 1.0+2*Epsilon, Epsilon)
	assert.False(t, ok)

	ok, msg := DoubleNear(-2.0, -2.0, Epsilon)
	assert.True(t, ok, "negative proper values must produce an ordered range: %s", msg)

	ok, _ = DoubleIn(0.5, 0.5, 0.5)
	assert.True(t, ok)

	_, msg = DoubleIn(1, 1, 2)
	assert.Contains(t, msg, "Proper: 1.000000000000000E+00 (1)")
	assert.Contains(t, msg, "Actual: 2.000000000000000E+00 (2)")
}

func TestCharImage(t *testing.T) {
	tests := map[byte]string{
		'A':  "'A'",
		' ':  "' '",
		'\t': `'\t'`,
		'\r': `'\r'`,
		'\n': `'\n'`,
		0:    `'\0'`,
		7:    `'\7'`,
		0x1b: `'\x1B'`,
		0xff: `'\xFF'`,
	}
	for in, want := range tests {
		assert.Equal(t, want, CharImage(in), "byte 0x%02X", in)
	}
}

func TestPrintableDiff(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, PrintableDiff(short, 2))

	long := strings.Repeat("0123456789", 10)

	early := PrintableDiff(long, 5)
	require.Len(t, early, MaxPrintableDiff-1)
	assert.True(t, strings.HasSuffix(early, ".."))
	assert.Equal(t, long[:61], early[:61])

	middle := PrintableDiff(long, 50)
	require.Len(t, middle, MaxPrintableDiff-1)
	assert.True(t, strings.HasPrefix(middle, ".."))
	assert.True(t, strings.HasSuffix(middle, ".."))
	assert.Equal(t, long[50-halfDiff:50-halfDiff+10], middle[2:12])

	tail := PrintableDiff(long, 95)
	assert.True(t, strings.HasPrefix(tail, ".."))
	assert.Equal(t, long[95-halfDiff:], tail[2:])

	assert.Equal(t, PrintableDiff(long, len(long)), PrintableDiff(long, 500))
	assert.Equal(t, PrintableDiff(long, 0), PrintableDiff(long, -3))
}

func TestString(t *testing.T) {
	ok, msg := String("12345678", "123A5678")
	assert.False(t, ok)
	assert.Equal(t,
		"\n  Proper at [3]: 0x34  52 '4'    \"12345678\"\n  Actual at [3]: 0x41  65 'A'    \"123A5678\"",
		msg)

	ok, msg = String("abc", "abc")
	assert.True(t, ok)
	assert.Equal(t, "strings of length 3 (0x03) match", msg)

	ok, msg = String("abc", "abcd")
	assert.False(t, ok)
	assert.Contains(t, msg, `Proper at [3]: 0x00   0 '\0'`)
}

func TestNullableString(t *testing.T) {
	a, b := "x", "x"

	ok, msg := NullableString(nil, nil)
	assert.True(t, ok)
	assert.Equal(t, "\n  Proper: NULL\n  Actual: NULL", msg)

	ok, msg = NullableString(nil, &a)
	assert.False(t, ok)
	assert.Equal(t, "\n  Proper: NULL\n  Actual: non-NULL", msg)

	ok, _ = NullableString(&a, &b)
	assert.True(t, ok)
}

func TestMemory(t *testing.T) {
	ok, msg := Memory([]byte("ab"), []byte("ab"), 2)
	assert.True(t, ok)
	assert.Equal(t, "buffers of length 2 (0x02) match", msg)

	ok, _ = Memory(nil, nil, 5)
	assert.True(t, ok)

	ok, msg = Memory(nil, []byte("x"), 1)
	assert.False(t, ok)
	assert.Equal(t, "\n  Proper: NULL\n  Actual: non-NULL", msg)

	ok, msg = Memory([]byte("12345678"), []byte("123A5678"), 8)
	assert.False(t, ok)
	assert.Equal(t, "\n  Proper at [3]: 0x34 (52, '4')\n  Actual at [3]: 0x41 (65, 'A')", msg)

	ok, _ = Memory([]byte("ab"), []byte("a"), 2)
	assert.False(t, ok)
}

func TestPointer(t *testing.T) {
	x, y := 1, 1

	ok, _ := Pointer(&x, &x)
	assert.True(t, ok)

	ok, _ = Pointer(&x, &y)
	assert.False(t, ok)

	ok, msg := Pointer(nil, nil)
	assert.True(t, ok)
	assert.Equal(t, "\n  Proper: @(nil)\n  Actual: @(nil)", msg)

	ok, _ = Pointer(x, x)
	assert.False(t, ok, "non-pointer values never compare as the same object")
}

func TestText(t *testing.T) {
	ok, _ := Text("a\nb\n", "a\nb\n")
	assert.True(t, ok)

	ok, msg := Text("a\nb\nc\n", "a\nB\nc\n")
	assert.False(t, ok)
	assert.Contains(t, msg, "--- proper")
	assert.Contains(t, msg, "+++ actual")
	assert.Contains(t, msg, "-b")
	assert.Contains(t, msg, "+B")

	ok, _ = Text("a  \n\nb", "a\nb", WithIgnoreTrailingWhitespace(true), WithIgnoreEmptyLines(true))
	assert.True(t, ok)

	_, colored := Text("a", "b", WithColor(true))
	assert.Contains(t, colored, "\x1b[")
}

func TestJSON(t *testing.T) {
	ok, _ := JSON([]byte(`{"a":1,"b":[1,2]}`), []byte(`{"b":[1,2],"a":1}`))
	assert.True(t, ok)

	ok, msg := JSON([]byte(`{"a":1}`), []byte(`{"a":2}`))
	assert.False(t, ok)
	assert.Contains(t, msg, `"a": 1`)
	assert.Contains(t, msg, `"a": 2`)

	ok, _ = JSON([]byte(`[1,2,3]`), []byte(`[1,2,3]`))
	assert.True(t, ok)

	ok, msg = JSON([]byte(`{"n": 1.0, "s": "\u0041"}`), []byte(`{"s":"A","n":1}`))
	assert.True(t, ok, msg)
	assert.Equal(t, "canonical documents of 15 bytes match", msg)

	ok, msg = JSON([]byte(`{`), []byte(`{}`))
	assert.False(t, ok)
	assert.Contains(t, msg, "Proper: invalid JSON")
}
