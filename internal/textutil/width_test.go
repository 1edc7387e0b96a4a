package textutil

import "testing"

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"\tx", 4, "    x"},
		{"ab\tc", 4, "ab  c"},
		{"abcd\te", 4, "abcd    e"},
		{"界\tx", 4, "界  x"},
		{"no tabs", 4, "no tabs"},
		{"a\tb", 0, "a\tb"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in, tt.width); got != tt.want {
			t.Fatalf("ExpandTabs(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"abc", 3},
		{"界面", 4},
		{"zażółć", 6},
		{"", 0},
	}
	for _, tt := range tests {
		if got := DisplayWidth(tt.text); got != tt.want {
			t.Fatalf("DisplayWidth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("界面界面", 5); DisplayWidth(got) > 5 {
		t.Fatalf("truncated text too wide: %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestWindow(t *testing.T) {
	if got := Window("0123456789", 3, 4); got != "3456" {
		t.Fatalf("got %q", got)
	}
	if got := Window("abc", 5, 4); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := Window("界面ab", 1, 10); got != "面ab" {
		t.Fatalf("wide rune at the edge: got %q", got)
	}
}
