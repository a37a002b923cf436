package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sam Example", "sam example"},
		{"  SAM   EXAMPLE ", "sam example"},
		{"D.J. Moore", "dj moore"},
		{"DJ Moore", "dj moore"},
		{"A.J. Brown Jr.", "aj brown"},
		{"Marvin Harrison Jr.", "marvin harrison"},
		{"John Doe III", "john doe"},
		{"Ja'Marr Chase", "jamarr chase"},
		{"Smith-Njigba", "smith njigba"},
		{"John P. Smith", "john p smith"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestRatio(t *testing.T) {
	require.Equal(t, 100.0, Ratio("sam example", "sam example"))
	require.Equal(t, 100.0, Ratio("", ""))
	require.Equal(t, 0.0, Ratio("abc", "xyz"))
	require.Equal(t, 80.0, Ratio("hello", "hallo"))

	// One dropped letter out of eleven still scores high.
	require.Greater(t, Ratio("sam example", "sam exmple"), 90.0)
	require.Less(t, Ratio("sam example", "tom sampler"), 80.0)

	// Multi-byte letters count as one rune on both sides of the ratio.
	require.Equal(t, 100.0, Ratio("josé cruz", "josé cruz"))
	require.InDelta(t, 100.0*16.0/18.0, Ratio("josé cruz", "jose cruz"), 1e-9)
}

func TestPositionMatches(t *testing.T) {
	require.True(t, PositionMatches("QB", "QB"))
	require.True(t, PositionMatches("OL", "G"))
	require.True(t, PositionMatches("DE", "ED"))
	require.True(t, PositionMatches("S", "FS"))
	require.True(t, PositionMatches("db", "cb"))
	require.False(t, PositionMatches("QB", "WR"))
	require.False(t, PositionMatches("XX", "QB"))
}

func TestRefinesPosition(t *testing.T) {
	require.True(t, RefinesPosition("OL", "C"))
	require.True(t, RefinesPosition("OT", "T"))
	require.False(t, RefinesPosition("OL", "OL"))
	require.False(t, RefinesPosition("QB", "C"))
}
