package doc

import (
	"fmt"
	"strings"

	"github.com/javagraph/docgen/internal/model"
)

const classPurposeExcerptLimit = 256

// MethodContext builds the context hint passed to the LLM for a method:
// the parent class name and an excerpt of its purpose when the class is
// documented, plus up to the first three called methods.
func MethodContext(method *model.MethodEntity, parent *model.ClassEntity) string {
	var parts []string

	if parent != nil && parent.HasDoc() {
		parts = append(parts, fmt.Sprintf("Parent class: %s", method.Src.ClassName))
		parts = append(parts, fmt.Sprintf("Class purpose: %s", purposeExcerpt(parent.JavaDoc)))
	}

	if len(method.Calls) > 0 {
		calls := make([]string, 0, 3)
		for _, ref := range method.Calls {
			if len(calls) == 3 {
				break
			}
			calls = append(calls, ref.Key.String())
		}
		parts = append(parts, fmt.Sprintf("Method calls: %s", strings.Join(calls, ", ")))
	}

	return strings.Join(parts, ". ")
}

// ClassContext builds the context hint passed to the LLM for a class
func ClassContext(class *model.ClassEntity, methodCount int) string {
	if methodCount == 0 {
		return ""
	}
	return fmt.Sprintf("Contains %d methods", methodCount)
}

// purposeExcerpt flattens a javadoc into a single line capped at 256
// characters, with newlines and comment asterisks removed. The cap counts
// runes so a multibyte character is never split.
func purposeExcerpt(javadoc string) string {
	excerpt := javadoc
	if runes := []rune(excerpt); len(runes) > classPurposeExcerptLimit {
		excerpt = string(runes[:classPurposeExcerptLimit])
	}
	excerpt = strings.ReplaceAll(excerpt, "\n", " ")
	excerpt = strings.ReplaceAll(excerpt, "*", "")
	return excerpt
}
