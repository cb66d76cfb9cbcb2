package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextItemLabeled(t *testing.T) {
	item := ContextItem{Source: SourceFlashcard, Text: "Term: Osmosis\nDefinition: ..."}
	assert.Equal(t, "[FLASHCARD] Term: Osmosis\nDefinition: ...", item.Labeled())

	item = ContextItem{Source: SourceDocumentChunk, Text: "Document: Notes\nClass: Bio\nContent: ..."}
	assert.Equal(t, "[DOCUMENT_CHUNK] Document: Notes\nClass: Bio\nContent: ...", item.Labeled())
}

func TestUserContextItemsOrdering(t *testing.T) {
	userContext := UserContext{
		Flashcards:     []string{"f1", "f2"},
		DocumentChunks: []string{"c1"},
	}

	items := userContext.Items()
	require.Len(t, items, 3)
	assert.Equal(t, SourceFlashcard, items[0].Source)
	assert.Equal(t, SourceFlashcard, items[1].Source)
	assert.Equal(t, SourceDocumentChunk, items[2].Source)
	assert.Equal(t, "f1", items[0].Text)
	assert.Equal(t, "c1", items[2].Text)
}
