package formatter

import "strings"

// Position is a 1-based line and byte column.
type Position struct {
	Line   int
	Column int
}

// Locate converts a byte offset into a position in text. Offsets past the
// end are clamped to the end.
func Locate(text string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - (strings.LastIndexByte(before, '\n') + 1) + 1
	return Position{Line: line, Column: col}
}

func lineAt(text string, line int) string {
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			return ""
		}
		text = text[nl+1:]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return strings.TrimSuffix(text, "\r")
}
