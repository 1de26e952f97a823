package doc

import "testing"

func TestExtractJavadoc(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantKind ExtractionKind
	}{
		{
			name:     "complete block",
			raw:      "/**\n * Computes the total.\n * @return the total\n */",
			want:     "/**\n* Computes the total.\n* @return the total\n*/",
			wantKind: ExtractionFound,
		},
		{
			name:     "block inside code fence",
			raw:      "```java\n/**\n * Does work.\n */\n```",
			want:     "/**\n* Does work.\n*/",
			wantKind: ExtractionFound,
		},
		{
			name:     "single line block",
			raw:      "Here you go:\n/** Does bar. */",
			want:     "/** Does bar. */",
			wantKind: ExtractionFound,
		},
		{
			name:     "plain text gets wrapped",
			raw:      "Returns the sum of two numbers.",
			want:     "/**\n * Returns the sum of two numbers.\n */",
			wantKind: ExtractionWrapped,
		},
		{
			name:     "empty response",
			raw:      "   \n  ",
			want:     "",
			wantKind: ExtractionEmpty,
		},
		{
			name:     "fences only",
			raw:      "```java\n```",
			want:     "",
			wantKind: ExtractionEmpty,
		},
		{
			name:     "unterminated block",
			raw:      "/**\n * Never closed",
			want:     "",
			wantKind: ExtractionEmpty,
		},
		{
			name:     "text before block is dropped",
			raw:      "Sure, here is the comment:\n/**\n* Parses input.\n*/\nLet me know.",
			want:     "/**\n* Parses input.\n*/",
			wantKind: ExtractionFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := ExtractJavadoc(tt.raw)
			if got != tt.want {
				t.Errorf("ExtractJavadoc() = %q, want %q", got, tt.want)
			}
			if kind != tt.wantKind {
				t.Errorf("ExtractJavadoc() kind = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}

func TestIsValidJavadoc(t *testing.T) {
	tests := []struct {
		comment string
		want    bool
	}{
		{"/** Does things. */", true},
		{"/**\n * Multi\n */", true},
		{"// regular comment", false},
		{"/** unterminated", false},
		{"missing open */", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidJavadoc(tt.comment); got != tt.want {
			t.Errorf("IsValidJavadoc(%q) = %v, want %v", tt.comment, got, tt.want)
		}
	}
}
