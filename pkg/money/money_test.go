package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMinor(t *testing.T) {
	cases := map[string]int64{
		"1":      100,
		"12.5":   1250,
		"12.50":  1250,
		"0.01":   1,
		"100.00": 10000,
	}
	for in, want := range cases {
		got, err := ParseMinor(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestParseMinorRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-5", "0.00"} {
		_, err := ParseMinor(in)
		require.ErrorIs(t, err, ErrInvalidAmount, in)
	}
	_, err := ParseMinor("1.005")
	require.ErrorIs(t, err, ErrTooPrecise)
}

func TestFormatMinor(t *testing.T) {
	require.Equal(t, "12.50", FormatMinor(1250))
	require.Equal(t, "0.07", FormatMinor(7))
	require.Equal(t, int64(12_500_000), MinorToMicros(1250))
	require.InDelta(t, 12.5, MinorToMajor(1250), 1e-9)
}
