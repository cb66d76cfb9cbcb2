package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eduplatform/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestCreateSystemPromptWithMaterials(t *testing.T) {
	materials := []string{
		"[FLASHCARD] Term: Osmosis\nDefinition: Diffusion of water\nClass: Biology 101",
		"[DOCUMENT_CHUNK] Document: Cell Structure\nClass: Biology 101\nContent: Cells contain organelles.",
	}

	prompt := CreateSystemPrompt("sam", materials)

	assert.Contains(t, prompt, "educational AI assistant for sam")
	assert.Contains(t, prompt, "Only answer questions related to the student's course materials")
	assert.Contains(t, prompt, "RELEVANT COURSE MATERIALS:")
	for _, m := range materials {
		assert.Contains(t, prompt, m)
	}
	assert.NotContains(t, prompt, "No specific course materials were found")
}

func TestCreateSystemPromptWithoutMaterials(t *testing.T) {
	prompt := CreateSystemPrompt("sam", nil)

	assert.Contains(t, prompt, "No specific course materials were found")
	assert.NotContains(t, prompt, "RELEVANT COURSE MATERIALS:")
}

func TestCreateSystemPromptDeterministic(t *testing.T) {
	materials := []string{"[FLASHCARD] Term: A\nDefinition: B\nClass: C"}
	assert.Equal(t, CreateSystemPrompt("sam", materials), CreateSystemPrompt("sam", materials))
	assert.Equal(t, CreateSystemPrompt("sam", nil), CreateSystemPrompt("sam", nil))
}
