package util

import "testing"

func TestMaskSecret(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "***"},
		{"12345678", "***"},
		{"0815f9a2-74c1-4ab8-9e6f-2d5c8b1a3e70", "0815…3e70"},
	}
	for _, c := range cases {
		if got := MaskSecret(c.in); got != c.want {
			t.Fatalf("MaskSecret(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
