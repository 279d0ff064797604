package util

import "testing"

func TestPreviewString(t *testing.T) {
	var tests = []struct {
		In  string
		Max int
		Out string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"señor", 3, "señ"},
		{"⚽⚽⚽", 2, "⚽⚽"},
		{"", 1, ""},
	}
	for _, v := range tests {
		t.Run(v.In, func(t *testing.T) {
			if got := PreviewString(v.In, v.Max); got != v.Out {
				t.Errorf("PreviewString(%q, %d) = %q, want %q", v.In, v.Max, got, v.Out)
			}
		})
	}
}
