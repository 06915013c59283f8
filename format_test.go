package tinylog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/tinylog/sanitizer"
)

func TestFormatRecord(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	line := formatRecord(defaultConfig.Format, "", ts, LevelInfo, []any{"hello"}, nil)
	assert.Equal(t, "[time: 2026-03-04 05:06:07 level: INFO] hello", line)

	line = formatRecord("{msg}", "abc", ts, LevelWarn, []any{"x"}, nil)
	assert.Equal(t, "[abc] x", line)
}

func TestFormatRecordLeavesPlaceholdersInMessage(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	line := formatRecord("{level}: {msg}", "", ts, LevelError, []any{"literal {time} and {level}"}, nil)
	assert.Equal(t, "ERROR: literal {time} and {level}", line)
}

type point struct {
	X, Y int
}

type named string

func (n named) String() string { return "named:" + string(n) }

func TestWriteTxtValue(t *testing.T) {
	str := "ptr"
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"nil", []any{nil}, ""},
		{"strings joined", []any{"a", "b"}, "a b"},
		{"string pointer", []any{&str}, "ptr"},
		{"bytes", []any{[]byte("raw")}, "raw"},
		{"integers", []any{1, int32(-2), int64(3), uint(4), uint32(5), uint64(6)}, "1 -2 3 4 5 6"},
		{"floats", []any{1.5, float32(0.25)}, "1.5 0.25"},
		{"bool", []any{true}, "true"},
		{"duration", []any{1500 * time.Millisecond}, "1.5s"},
		{"time", []any{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}, "2026-01-02 03:04:05"},
		{"error", []any{errors.New("failed")}, "failed"},
		{"stringer", []any{named("n")}, "named:n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSerializer(nil)
			s.writeArgs(tt.args)
			assert.Equal(t, tt.want, string(s.buf))
		})
	}
}

func TestWriteTxtValueDumpsComplexValues(t *testing.T) {
	s := newSerializer(nil)
	s.writeArgs([]any{point{X: 1, Y: 2}, map[string]int{"b": 2, "a": 1}})

	out := string(s.buf)
	assert.Contains(t, out, "X: (int) 1")
	assert.Contains(t, out, "Y: (int) 2")
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`), "map keys are sorted")
}

func TestWriteTxtValueSanitized(t *testing.T) {
	s := newSerializer(sanitizer.ForPolicy(sanitizer.PolicyTxt))
	s.writeArgs([]any{"a\nb", point{X: 1, Y: 2}, errors.New("e\x1b")})
	assert.Equal(t, "a<0a>b {X:1 Y:2} e<1b>", string(s.buf))
}
