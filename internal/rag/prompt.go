package rag

import (
	"fmt"
	"strings"

	"eduplatform/internal/models"
)

// CreateSystemPrompt composes the grounded system prompt: instruction header
// plus the ranked materials, or an explicit no-materials notice. The output
// is deterministic for identical inputs.
func CreateSystemPrompt(username string, relevantContext []string) string {
	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf(models.SystemPromptHeader, username))

	if len(relevantContext) > 0 {
		prompt.WriteString(fmt.Sprintf(models.SystemPromptMaterials, strings.Join(relevantContext, "\n")))
	} else {
		prompt.WriteString(models.SystemPromptNoMaterials)
	}

	return prompt.String()
}
