package anchor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		lit      string
		input    string
		from, to int
		want     int
	}{
		{"single byte", "-", "12-34", 0, 5, 2},
		{"single byte absent", "-", "12_34", 0, 5, -1},
		{"multi byte", "::", "a:b::c", 0, 6, 3},
		{"leftmost wins", ",", "1,2,3", 0, 5, 1},
		{"search from cursor", ",", "1,2,3", 2, 5, 3},
		{"bounded window", ",", "1,2,3", 2, 3, -1},
		{"match ending at bound", "34", "12-34", 0, 5, 3},
		{"match crossing bound", "34", "12-34", 0, 4, -1},
		{"literal longer than window", "abc", "ab", 0, 2, -1},
		{"empty window", "x", "abc", 3, 3, -1},
		{"from past to", "a", "abc", 2, 1, -1},
		{"to past input", "a", "abc", 0, 9, -1},
		{"multi byte utf8", "é", "caféx", 0, 6, 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Find(tt.lit, tt.input, tt.from, tt.to))
		})
	}
}

func TestFindMatchesGeneralPath(t *testing.T) {
	t.Parallel()
	input := "a,b;c,d;;e"
	for _, lit := range []string{",", ";"} {
		for from := 0; from <= len(input); from++ {
			want := strings.Index(input[from:], lit)
			if want >= 0 {
				want += from
			}
			assert.Equal(t, want, Find(lit, input, from, len(input)), "lit=%q from=%d", lit, from)
		}
	}
}

func TestAt(t *testing.T) {
	t.Parallel()
	assert.True(t, At("ab", "xxab", 2, 4))
	assert.False(t, At("ab", "xxab", 1, 4))
	assert.False(t, At("ab", "xxab", 2, 3))
	assert.True(t, At("", "x", 1, 1))
}

func TestPartial(t *testing.T) {
	t.Parallel()
	assert.True(t, Partial("abc", "xab", 1, 3))
	assert.False(t, Partial("abc", "xabc", 1, 4))
	assert.False(t, Partial("abc", "xay", 1, 3))
	assert.False(t, Partial("abc", "x", 1, 1))
}

func BenchmarkFind(b *testing.B) {
	input := strings.Repeat("0123456789", 1000) + "-end"
	b.Run("SingleByte", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Find("-", input, 0, len(input))
		}
	})
	b.Run("MultiByte", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Find("-end", input, 0, len(input))
		}
	})
}
