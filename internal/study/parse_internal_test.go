package study

import (
	"testing"
	"unicode/utf8"
)

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 5, "abcde..."},
		{"multibyte", "Fotosíntesis ☀️ energía", 11, "Fotosíntesi..."},
		{"cut inside rune bytes", "éééé", 3, "ééé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snippet(tt.in, tt.n)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("snippet produced invalid UTF-8: %q", got)
			}
		})
	}
}
