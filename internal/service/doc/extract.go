package doc

import "strings"

// ExtractionKind describes how a javadoc comment was obtained from a raw
// LLM response
type ExtractionKind int

const (
	// ExtractionEmpty means the response contained no usable text
	ExtractionEmpty ExtractionKind = iota
	// ExtractionFound means a complete /** ... */ block was present
	ExtractionFound
	// ExtractionWrapped means plain text was wrapped into a javadoc block
	ExtractionWrapped
)

// ExtractJavadoc pulls a javadoc comment out of a raw LLM response. Code
// fences are stripped first. If a block starting with /** and ending with
// */ is present it is returned as-is; otherwise any remaining text is
// wrapped into a single-line javadoc body.
func ExtractJavadoc(raw string) (string, ExtractionKind) {
	cleaned := stripCodeFences(raw)
	if strings.TrimSpace(cleaned) == "" {
		return "", ExtractionEmpty
	}

	lines := strings.Split(cleaned, "\n")
	var block []string
	inComment := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inComment && strings.HasPrefix(trimmed, "/**") {
			inComment = true
		}
		if inComment {
			block = append(block, trimmed)
			if strings.HasSuffix(trimmed, "*/") {
				return strings.Join(block, "\n"), ExtractionFound
			}
		}
	}
	if inComment {
		// opened but never closed, unusable
		return "", ExtractionEmpty
	}

	text := strings.TrimSpace(cleaned)
	return "/**\n * " + text + "\n */", ExtractionWrapped
}

// IsValidJavadoc reports whether a comment carries both javadoc markers
func IsValidJavadoc(comment string) bool {
	return strings.Contains(comment, "/**") && strings.Contains(comment, "*/")
}

// stripCodeFences removes markdown code fence markers from an LLM response
func stripCodeFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```java", "")
	return strings.ReplaceAll(cleaned, "```", "")
}
