package strings_test

import (
	"math"
	"testing"

	ningstrings "ning/internal/builtins/strings"
)

func TestLetter(t *testing.T) {
	if got := ningstrings.Letter("héllo", 1); got != "é" {
		t.Fatalf("expected é, got %q", got)
	}
	for _, index := range []float64{-1, 5, 1.5, math.NaN(), math.Inf(1)} {
		if got := ningstrings.Letter("héllo", index); got != "" {
			t.Errorf("Letter(%v) = %q, want empty", index, got)
		}
	}
}

func TestSubstring(t *testing.T) {
	cases := []struct {
		start, end float64
		want       string
	}{
		{0, 3, "hel"},
		{1, 100, "ello"},
		{-3, -1, "ll"},
		{3, 1, ""},
		{0.5, 2, ""},
		{0, math.Inf(1), ""},
	}
	for _, tc := range cases {
		if got := ningstrings.Substring("hello", tc.start, tc.end); got != tc.want {
			t.Errorf("Substring(%v, %v) = %q, want %q", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestIndexOf(t *testing.T) {
	if got := ningstrings.IndexOf("añb", "b"); got != 2 {
		t.Fatalf("expected code point index 2, got %d", got)
	}
	if got := ningstrings.IndexOf("abc", "z"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := ningstrings.IndexOf("abc", ""); got != 0 {
		t.Fatalf("expected 0 for empty needle, got %d", got)
	}
}
