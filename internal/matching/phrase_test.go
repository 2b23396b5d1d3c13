package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_MatchPhrases_Degenerate(t *testing.T) {
	m := newTestMatcher()
	p := m.Points()

	tests := []struct {
		name    string
		search  *string
		compare *string
		want    float64
	}{
		{"both absent", nil, nil, p.Exact},
		{"empty vs absent", str(""), nil, 0},
		{"absent vs text", nil, str("some text"), 0},
		{"both single blank", str(" "), str(" "), p.Exact},
		{"blank vs text", str("  "), str("note"), 0},
		{"text vs blank", str("note"), str("  "), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MatchPhrases(tt.search, tt.compare))
		})
	}
}

func TestMatcher_MatchPhrases(t *testing.T) {
	m := newTestMatcher()
	p := m.Points()

	tests := []struct {
		name    string
		search  string
		compare string
		want    float64
	}{
		{
			name:    "no match",
			search:  "test test",
			compare: "noMatch noMatch",
			want:    0,
		},
		{
			name:    "single exact word",
			search:  "groceries",
			compare: "Weekly GROCERIES list",
			want:    p.Exact,
		},
		{
			name:    "best match per word, no adjacency",
			search:  "input1 input3 input2",
			compare: "input1AndSomeMore input1AndSomeMore containsInput2 containsInput2 containsInput2 input3 containsInput3",
			want:    2*p.Approximate + p.Exact,
		},
		{
			name:    "adjacency across consecutive words",
			search:  "input1 input2 input3",
			compare: "input1AndSomeMore containsInput2 input3",
			want:    p.Approximate + (p.Approximate + p.Adjacent) + (p.Exact + p.Adjacent),
		},
		{
			name:    "adjacency inside one compare word",
			search:  "foo bar",
			compare: "foobar",
			want:    p.Approximate + p.Approximate + p.Adjacent,
		},
		{
			name:    "overlapping substrings are not adjacent",
			search:  "foob obar",
			compare: "foobar",
			want:    2 * p.Approximate,
		},
		{
			name:    "reverse order earns no bonus",
			search:  "world hello",
			compare: "hello world",
			want:    2 * p.Exact,
		},
		{
			name:    "whitespace runs are ignored",
			search:  "  hello    world ",
			compare: "hello\t\tworld",
			want:    2*p.Exact + p.Adjacent,
		},
		{
			name:    "repeated compare words add a bonus per adjacent pair",
			search:  "a b",
			compare: "a b a b",
			// b at 1 and 3; a at 0 and 2: pairs 0->1 and 2->3
			want: 2*p.Exact + 2*p.Adjacent,
		},
		{
			name:    "search word longer than compare word",
			search:  "abcdefg",
			compare: "bcd",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, m.MatchPhrases(str(tt.search), str(tt.compare)), 1e-9)
		})
	}
}

func TestMatcher_MatchPhrases_UsesConfiguredPoints(t *testing.T) {
	m := NewMatcher(Points{Exact: 10, Approximate: 4, Adjacent: 0.5})
	got := m.MatchPhrases(str("red car"), str("red carpet"))
	assert.InDelta(t, 10+4+0.5, got, 1e-9)
}
