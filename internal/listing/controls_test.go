package listing

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strip(links []PageLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		switch {
		case l.Ellipsis:
			out[i] = "..."
		case l.Current:
			out[i] = "[" + strconv.Itoa(l.Number) + "]"
		default:
			out[i] = strconv.Itoa(l.Number)
		}
	}
	return out
}

func TestPageStrip(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []string
	}{
		{"empty", 1, 0, []string{}},
		{"single", 1, 1, []string{"[1]"}},
		{"short", 2, 3, []string{"1", "[2]", "3"}},
		{"start of long", 1, 10, []string{"[1]", "2", "...", "10"}},
		{"middle of long", 5, 10, []string{"1", "...", "4", "[5]", "6", "...", "10"}},
		{"end of long", 10, 10, []string{"1", "...", "9", "[10]"}},
		{"near start", 3, 10, []string{"1", "2", "[3]", "4", "...", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, strip(PageStrip(tt.current, tt.total)))
		})
	}
}

func TestNewControls(t *testing.T) {
	c := NewControls(2, 2)
	assert.True(t, c.HasPrev)
	assert.False(t, c.HasNext)

	c = NewControls(1, 0)
	assert.False(t, c.HasPrev)
	assert.False(t, c.HasNext)
}
