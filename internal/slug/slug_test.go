package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{"simple two words", "Hello World", "hello-world"},
		{"title with year", "Hello World 2026", "hello-world-2026"},
		{"already lowercase", "already lowercase", "already-lowercase"},
		{"single word", "GoLang", "golang"},
		{"two letters", "Hi", "hi"},

		// --- Punctuation ---
		{"comma and bang", "Hello, World! 2026", "hello-world-2026"},
		{"question mark", "Why Go?", "why-go"},

		// --- Unicode ---
		{"accented latin", "Café Crème", "cafe-creme"},

		// --- Separators ---
		{"underscores become hyphens", "snake_case title", "snake-case-title"},
		{"runs of spaces", "hello    world", "hello-world"},
		{"runs of hyphens", "hello---world", "hello-world"},
		{"leading and trailing spaces", "  hello world  ", "hello-world"},
		{"leading and trailing hyphens", "--hello--", "hello"},

		// --- Degenerate ---
		{"empty", "", ""},
		{"only spaces", "    ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 100)

	got := Generate(long)
	if len(got) > MaxLength {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug %q ends with a hyphen", got)
	}
	if !Valid(got) {
		t.Errorf("generated slug %q is not valid", got)
	}
}

func TestGenerate_OutputIsValid(t *testing.T) {
	for _, in := range []string{"Hello World", "Go 1.25 release notes", "Café Crème", "A_B_C"} {
		if got := Generate(in); !Valid(got) {
			t.Errorf("Generate(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hello-world", true},
		{"hi", true},
		{"2026", true},
		{"a", true},
		{"", false},
		{"Hello", false},
		{"hello world", false},
		{"hello_world", false},
		{"héllo", false},
		{"hello/world", false},
		{strings.Repeat("a", MaxLength), true},
		{strings.Repeat("a", MaxLength+1), false},
	}

	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
