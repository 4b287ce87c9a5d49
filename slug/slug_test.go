package slug

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"The Future of Web Development: Trends to Watch in 2025!", "the-future-of-web-development-trends-to-watch-in-2025"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   spaces   collapse", "multiple-spaces-collapse"},
		{"already-a-slug", "already-a-slug"},
		{"Hyphens -- everywhere --", "hyphens-everywhere"},
		{"---", ""},
		{"", ""},
		{"C'est l'été!", "cest-lt"},
		{"zero\u200Bwidth\uFEFFchars", "zerowidthchars"},
		{"under_score survives", "under_score-survives"},
		{"MiXeD CaSe 123", "mixed-case-123"},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.input); got != tt.expected {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"The Future of Web Development: Trends to Watch in 2025!",
		"  --  weird -- input  --  ",
		"zero\u200B\u200C\u200D\uFEFFwidth",
		"tabs\tand\nnewlines",
		"ünïcödé갤러리",
		"a_b_c",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestGenerate(t *testing.T) {
	got := Generate("The Future of Web Development: Trends to Watch in 2025!")
	want := "the-future-of-web-development-trends-to-watch-in-2025"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		slug    string
		valid   bool
		message string
	}{
		{"a-b-c", true, ""},
		{"hello-world", true, ""},
		{"abc", true, ""},
		{"", false, "Slug is required"},
		{"ab", false, "Slug must be at least 3 characters long"},
		{longSlug(101), false, "Slug must be less than 100 characters"},
		{"My Title", false, "Slug can only contain lowercase letters, numbers, and hyphens"},
		{"with_underscore", false, "Slug can only contain lowercase letters, numbers, and hyphens"},
		{"UPPER", false, "Slug can only contain lowercase letters, numbers, and hyphens"},
		{"ab--cd", false, "Slug cannot contain consecutive hyphens"},
	}

	for _, tt := range tests {
		valid, message := Validate(tt.slug)
		if valid != tt.valid {
			t.Errorf("Validate(%q) valid = %v, want %v", tt.slug, valid, tt.valid)
		}
		if message != tt.message {
			t.Errorf("Validate(%q) message = %q, want %q", tt.slug, message, tt.message)
		}
	}
}

// The character-set rule permits hyphens anywhere, so an edge hyphen must
// fall through to its own rule and message.
func TestValidateEdgeHyphenOrder(t *testing.T) {
	for _, s := range []string{"-abc", "abc-"} {
		valid, message := Validate(s)
		if valid {
			t.Fatalf("Validate(%q) should be invalid", s)
		}
		if message != "Slug cannot start or end with a hyphen" {
			t.Errorf("Validate(%q) message = %q, want edge-hyphen message", s, message)
		}
	}
}

func TestValidateAcceptsSanitizedOutput(t *testing.T) {
	inputs := []string{
		"The Future of Web Development: Trends to Watch in 2025!",
		"Ordinary Title",
		"numbers 123 and words",
	}
	for _, in := range inputs {
		s := Sanitize(in)
		if valid, msg := Validate(s); !valid {
			t.Errorf("Validate(Sanitize(%q)) = invalid (%s), want valid", in, msg)
		}
	}
}

func longSlug(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
