// Package anchor locates literal anchors in template input.
package anchor

import "strings"

// Find returns the offset of the leftmost occurrence of lit in input[from:to],
// as an offset into input, or -1 if there is none.
func Find(lit, input string, from, to int) int {
	if from < 0 || from > to || to > len(input) || len(lit) > to-from {
		return -1
	}
	window := input[from:to]

	var i int
	if len(lit) == 1 {
		i = strings.IndexByte(window, lit[0])
	} else {
		i = strings.Index(window, lit)
	}
	if i < 0 {
		return -1
	}
	return from + i
}

// At reports whether lit occurs in input[:to] exactly at offset at.
func At(lit, input string, at, to int) bool {
	if at < 0 || at > to || to > len(input) {
		return false
	}
	return strings.HasPrefix(input[at:to], lit)
}

// Partial reports whether input[at:to] is a non-empty strict prefix of lit,
// meaning the input ended while lit was still being matched.
func Partial(lit, input string, at, to int) bool {
	if at < 0 || at >= to || to > len(input) {
		return false
	}
	rest := input[at:to]
	return len(rest) < len(lit) && strings.HasPrefix(lit, rest)
}
