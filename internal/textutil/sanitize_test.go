package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5 - T1 MPRAGE", "5 - T1 MPRAGE"},
		{"a/b\\c:d*e", "a-b-c-d-e"},
		{"what?\"<>|", "what"},
		{"  spaced   out  ", "spaced out"},
		{"...", "fallback"},
		{"", "fallback"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in, "fallback"); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeSegment(t *testing.T) {
	if got := SanitizeSegment("Brain Study/2024"); got != "Brain_Study-2024" {
		t.Fatalf("SanitizeSegment = %q", got)
	}
	if got := SanitizeSegment("   "); got != "unknown" {
		t.Fatalf("SanitizeSegment(blank) = %q", got)
	}
}
