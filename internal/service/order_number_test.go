package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "#0001", FormatOrderNumber(1))
	assert.Equal(t, "#0042", FormatOrderNumber(42))
	assert.Equal(t, "#9999", FormatOrderNumber(9999))
	// Past four digits the number grows wider, no wraparound
	assert.Equal(t, "#10000", FormatOrderNumber(10000))
}

func TestNextOrderNumber(t *testing.T) {
	cases := []struct {
		last string
		want string
	}{
		{"#0001", "#0002"},
		{"#0009", "#0010"},
		{"#0099", "#0100"},
		{"#9999", "#10000"},
		{"#10000", "#10001"},
	}
	for _, tc := range cases {
		got, err := NextOrderNumber(tc.last)
		require.NoError(t, err, "last=%s", tc.last)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextOrderNumberMalformed(t *testing.T) {
	for _, last := range []string{"", "#", "ABC", "#12AB"} {
		_, err := NextOrderNumber(last)
		assert.Error(t, err, "last=%q", last)
	}
}

func TestFirstOrderNumber(t *testing.T) {
	assert.Equal(t, "#0001", FirstOrderNumber)
}
