package tinylog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/tinylog/sanitizer"
)

// dumper renders values the txt path has no direct form for
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// serializer renders one record into its reusable buffer. Text taken from
// record values passes through san.
type serializer struct {
	buf []byte
	san *sanitizer.Sanitizer
}

func newSerializer(san *sanitizer.Sanitizer) *serializer {
	return &serializer{buf: make([]byte, 0, 256), san: san}
}

// formatRecord expands the record template. The message is substituted in a
// single pass, so placeholders inside it are left untouched.
func formatRecord(template, id string, timestamp time.Time, level string, args []any, san *sanitizer.Sanitizer) string {
	s := newSerializer(san)
	s.writeArgs(args)

	r := strings.NewReplacer(
		placeholderTime, timestamp.Format(timestampLayout),
		placeholderLevel, level,
		placeholderMessage, string(s.buf),
	)
	line := r.Replace(template)
	if id != "" {
		line = "[" + id + "] " + line
	}
	return line
}

// writeArgs joins args with single spaces
func (s *serializer) writeArgs(args []any) {
	for i, arg := range args {
		if i > 0 {
			s.buf = append(s.buf, ' ')
		}
		s.writeTxtValue(arg)
	}
}

// writeTxtValue converts any value to its txt representation.
// nil renders as nothing, so a nil message is an empty message.
func (s *serializer) writeTxtValue(v any) {
	switch val := v.(type) {
	case nil:
	case string:
		s.buf = s.san.Append(s.buf, val)
	case *string:
		if val != nil {
			s.buf = s.san.Append(s.buf, *val)
		}
	case []byte:
		s.buf = s.san.Append(s.buf, string(val))
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int32:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, val, 10)
	case uint:
		s.buf = strconv.AppendUint(s.buf, uint64(val), 10)
	case uint32:
		s.buf = strconv.AppendUint(s.buf, uint64(val), 10)
	case uint64:
		s.buf = strconv.AppendUint(s.buf, val, 10)
	case float32:
		s.buf = strconv.AppendFloat(s.buf, float64(val), 'f', -1, 32)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, val, 'f', -1, 64)
	case bool:
		s.buf = strconv.AppendBool(s.buf, val)
	case time.Time:
		s.buf = val.AppendFormat(s.buf, timestampLayout)
	case time.Duration:
		s.buf = append(s.buf, val.String()...)
	case error:
		s.buf = s.san.Append(s.buf, val.Error())
	case fmt.Stringer:
		s.buf = s.san.Append(s.buf, val.String())
	default:
		if !s.san.Passthrough() {
			s.buf = s.san.Append(s.buf, fmt.Sprintf("%+v", val))
			return
		}
		// Structs, maps, slices and pointers get spew's multi-line dump
		var b bytes.Buffer
		dumper.Fdump(&b, val)
		s.buf = append(s.buf, bytes.TrimSpace(b.Bytes())...)
	}
}
