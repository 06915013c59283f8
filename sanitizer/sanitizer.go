// Package sanitizer neutralizes characters in record values that would let a
// single log call forge extra lines or terminal control sequences in a
// line-per-record log file. A Sanitizer holds an ordered list of rules, each a
// filter mask paired with a transform. Rules are immutable once built, so one
// Sanitizer is safe for concurrent use.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes strconv.IsPrint rejects, including '\n' and ESC
	FilterControl                         // unicode.IsControl
	FilterLineBreak                       // '\n', '\r', U+0085, U+2028, U+2029
)

// Transform flags, the lowest set bit wins
const (
	TransformStrip     uint64 = 1 << iota // Drop the rune
	TransformHexEncode                    // "<hh..>" of the rune's UTF-8 bytes
	TransformEscape                       // Backslash escape, \uXXXX for the rest
)

// Policy names a preset rule list, selectable from configuration
type Policy string

const (
	PolicyRaw    Policy = "raw"    // Passthrough
	PolicyTxt    Policy = "txt"    // Non-printable runes hex encoded
	PolicyEscape Policy = "escape" // Control runes backslash escaped
	PolicyStrip  Policy = "strip"  // Control runes and line breaks dropped
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[Policy][]rule{
	PolicyRaw:    {},
	PolicyTxt:    {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyEscape: {{filter: FilterControl | FilterLineBreak, transform: TransformEscape}},
	PolicyStrip:  {{filter: FilterControl | FilterLineBreak, transform: TransformStrip}},
}

// ParsePolicy resolves a configuration value to a Policy. Empty means raw.
func ParsePolicy(name string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return PolicyRaw, nil
	}
	if _, ok := policyRules[p]; !ok {
		return "", fmt.Errorf("sanitizer: unknown policy '%s' (use raw, txt, escape or strip)", name)
	}
	return p, nil
}

// Sanitizer applies its rules in order, first match wins
type Sanitizer struct {
	rules []rule
}

// New creates a sanitizer from the given policies, applied in order
func New(policies ...Policy) *Sanitizer {
	s := &Sanitizer{}
	for _, p := range policies {
		s.rules = append(s.rules, policyRules[p]...)
	}
	return s
}

// Rule returns a copy of s with a custom rule appended
func (s *Sanitizer) Rule(filter, transform uint64) *Sanitizer {
	rules := make([]rule, len(s.rules), len(s.rules)+1)
	copy(rules, s.rules)
	return &Sanitizer{rules: append(rules, rule{filter: filter, transform: transform})}
}

// Passthrough reports whether s leaves every input unchanged
func (s *Sanitizer) Passthrough() bool {
	return s == nil || len(s.rules) == 0
}

var presets = func() map[Policy]*Sanitizer {
	m := make(map[Policy]*Sanitizer, len(policyRules))
	for p := range policyRules {
		m[p] = New(p)
	}
	return m
}()

// ForPolicy returns the shared sanitizer for a preset, matching names as
// ParsePolicy does. Unknown policies behave as raw.
func ForPolicy(p Policy) *Sanitizer {
	if s, ok := presets[p]; ok {
		return s
	}
	if parsed, err := ParsePolicy(string(p)); err == nil {
		return presets[parsed]
	}
	return presets[PolicyRaw]
}

// Sanitize returns data with every rule applied
func (s *Sanitizer) Sanitize(data string) string {
	if s.Passthrough() {
		return data
	}
	return string(s.Append(make([]byte, 0, len(data)), data))
}

// Append appends the sanitized form of data to dst and returns the extended buffer
func (s *Sanitizer) Append(dst []byte, data string) []byte {
	if s.Passthrough() {
		return append(dst, data...)
	}

	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matches(r, rl.filter) {
				dst = transform(dst, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

func matches(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterLineBreak != 0 {
		switch r {
		case '\n', '\r', '\u0085', '\u2028', '\u2029':
			return true
		}
	}
	return false
}

func transform(dst []byte, r rune, mask uint64) []byte {
	switch {
	case mask&TransformStrip != 0:
		return dst

	case mask&TransformHexEncode != 0:
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		dst = append(dst, '<')
		dst = hex.AppendEncode(dst, rb[:n])
		return append(dst, '>')

	case mask&TransformEscape != 0:
		switch r {
		case '\n':
			return append(dst, '\\', 'n')
		case '\r':
			return append(dst, '\\', 'r')
		case '\t':
			return append(dst, '\\', 't')
		case '\b':
			return append(dst, '\\', 'b')
		case '\f':
			return append(dst, '\\', 'f')
		}
		if r > 0xffff {
			return fmt.Appendf(dst, "\\U%08x", r)
		}
		return fmt.Appendf(dst, "\\u%04x", r)
	}
	return utf8.AppendRune(dst, r)
}
