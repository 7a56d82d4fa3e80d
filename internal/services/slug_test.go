package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A/B Test!!", "a-b-test"},
		{"  Brand   Site  ", "brand-site"},
		{"Already-slugged", "already-slugged"},
		{"???", "item"},
		{"", "item"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
