package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ursula_le_guin@gmail.com", "u…@g….com"},
		{" Ursula@Example.co.uk ", "u…@e….co.uk"},
		{"a@b.io", "a@b.io"},
		{"", ""},
		{"abc", "***"},
		{"no-at-sign", "n…n"},
		{"@gmail.com", "@…m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MaskEmail(tc.in), tc.in)
	}
}
