package doc

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/service/llm"
)

// javadocStopSequences cut generation off before the model starts echoing
// the prompt structure or emitting code blocks
var javadocStopSequences = []string{"```", "Java Code:", "Context:", "Example:"}

const methodPromptHeader = `You are a Java documentation expert. Generate a proper JavaDoc comment for the following Java method.

Rules:
1. Generate ONLY the JavaDoc comment (/** ... */)
2. Include @param tags for all parameters with clear descriptions
3. Include @return tag if method returns something other than void
4. Include @throws tags for checked exceptions if applicable
5. Write clear, concise descriptions of what the method does
6. Do not include the code itself in your response
7. Start with /** and end with */
8. Use proper JavaDoc formatting

`

const classPromptHeader = `You are a Java documentation expert. Generate a proper JavaDoc comment for the following Java class.

Rules:
1. Generate ONLY the JavaDoc comment (/** ... */)
2. Describe the purpose and responsibility of the class
3. Include @author tag if appropriate
4. Include @since tag if version information is available
5. Include @see tags for related classes if relevant
6. Write clear, concise descriptions
7. Do not include the code itself in your response
8. Start with /** and end with */
9. Use proper JavaDoc formatting

`

const fieldPromptHeader = `You are a Java documentation expert. Generate a proper JavaDoc comment for the following Java field.

Rules:
1. Generate ONLY the JavaDoc comment (/** ... */)
2. Describe the purpose and usage of the field
3. Include information about field constraints if applicable
4. Write clear, concise descriptions
5. Do not include the code itself in your response
6. Start with /** and end with */
7. Use proper JavaDoc formatting

`

// JavadocGenerator turns Java source snippets into javadoc comments by
// prompting an LLM and extracting the comment block from its response
type JavadocGenerator struct {
	llm    llm.Client
	logger *zap.Logger
}

// NewJavadocGenerator creates a javadoc generator backed by the given client
func NewJavadocGenerator(client llm.Client, logger *zap.Logger) *JavadocGenerator {
	return &JavadocGenerator{llm: client, logger: logger}
}

// IsReady reports whether the backing service and model are available
func (g *JavadocGenerator) IsReady(ctx context.Context) bool {
	return g.llm.IsServiceAvailable(ctx) && g.llm.IsModelAvailable(ctx, "")
}

// GenerateMethodDoc generates a javadoc comment for a Java method
func (g *JavadocGenerator) GenerateMethodDoc(ctx context.Context, javaCode, docContext string) (string, error) {
	prompt := buildPrompt(methodPromptHeader, "Java Method", javaCode, docContext)
	return g.generateAndExtract(ctx, prompt)
}

// GenerateClassDoc generates a javadoc comment for a Java class
func (g *JavadocGenerator) GenerateClassDoc(ctx context.Context, javaCode, docContext string) (string, error) {
	prompt := buildPrompt(classPromptHeader, "Java Class", javaCode, docContext)
	return g.generateAndExtract(ctx, prompt)
}

// GenerateFieldDoc generates a javadoc comment for a Java field
func (g *JavadocGenerator) GenerateFieldDoc(ctx context.Context, javaCode, docContext string) (string, error) {
	prompt := buildPrompt(fieldPromptHeader, "Java Field", javaCode, docContext)
	return g.generateAndExtract(ctx, prompt)
}

// PullModelIfNeeded pulls the configured model if it is not available
func (g *JavadocGenerator) PullModelIfNeeded(ctx context.Context) bool {
	return g.llm.PullModel(ctx, "")
}

// ListAvailableModels returns the models served by the backing service
func (g *JavadocGenerator) ListAvailableModels(ctx context.Context) []string {
	return g.llm.ListAvailableModels(ctx)
}

func (g *JavadocGenerator) generateAndExtract(ctx context.Context, prompt string) (string, error) {
	response, err := g.llm.GenerateResponse(ctx, prompt, llm.GenerateOptions{
		StopSequences: javadocStopSequences,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate documentation: %w", err)
	}

	javadoc, kind := ExtractJavadoc(response)
	if kind == ExtractionEmpty || !IsValidJavadoc(javadoc) {
		g.logger.Warn("Failed to extract valid javadoc from response")
		return "", fmt.Errorf("no valid javadoc in response")
	}
	if kind == ExtractionWrapped {
		g.logger.Debug("Wrapped plain response into javadoc format")
	}
	return javadoc, nil
}

func buildPrompt(header, codeLabel, javaCode, docContext string) string {
	var b strings.Builder
	b.WriteString(header)
	if docContext != "" {
		b.WriteString(fmt.Sprintf("Context: %s\n\n", docContext))
	}
	b.WriteString(fmt.Sprintf("%s:\n%s\n\nGenerate JavaDoc:", codeLabel, javaCode))
	return b.String()
}
