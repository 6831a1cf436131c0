package config

import (
	"sort"
	"strconv"
	"strings"
)

// StatusSet is an immutable set of accepted HTTP status codes. The zero
// value is an empty set that matches nothing.
type StatusSet struct {
	codes map[int]struct{}
}

// NewStatusSet builds a set from the given codes, collapsing duplicates.
func NewStatusSet(codes ...int) StatusSet {
	s := StatusSet{codes: make(map[int]struct{}, len(codes))}
	for _, c := range codes {
		s.codes[c] = struct{}{}
	}
	return s
}

// ParseStatusCodes parses a comma-separated list such as "200,204,301".
// Every entry must be an unsigned 16-bit integer. Empty entries are skipped
// but at least one code is required.
func ParseStatusCodes(s string) (StatusSet, error) {
	var codes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return StatusSet{}, newError("status code", part, "expected an integer between 0 and 65535", nil)
		}
		codes = append(codes, int(n))
	}
	if len(codes) == 0 {
		return StatusSet{}, newError("status codes", s, "at least one status code is required", nil)
	}
	return NewStatusSet(codes...), nil
}

// Contains reports whether code is in the set.
func (s StatusSet) Contains(code int) bool {
	_, ok := s.codes[code]
	return ok
}

// Len returns the number of distinct codes.
func (s StatusSet) Len() int {
	return len(s.codes)
}

// Codes returns the codes in ascending order.
func (s StatusSet) Codes() []int {
	out := make([]int, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

func (s StatusSet) String() string {
	codes := s.Codes()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}
