package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduplatform/internal/db"
)

// fakeStore serves two active classes; only class 1 has enrollments.
type fakeStore struct {
	chats []db.ChatMessage
}

func (f *fakeStore) ActiveClasses(ctx context.Context) ([]db.Class, error) {
	return []db.Class{
		{ID: 1, Name: "Biology 101", IsActive: true},
		{ID: 2, Name: "Chemistry 201", IsActive: true},
	}, nil
}

func (f *fakeStore) EnrolledActiveClasses(ctx context.Context, userID int64) ([]db.Class, error) {
	if userID == 7 {
		return []db.Class{{ID: 1, Name: "Biology 101", IsActive: true}}, nil
	}
	return nil, nil
}

func (f *fakeStore) FlashcardsForClass(ctx context.Context, classID int64) ([]db.Flashcard, error) {
	switch classID {
	case 1:
		return []db.Flashcard{
			{ID: 10, Term: "Mitochondria", Definition: "The powerhouse of the cell", Category: "Cell Biology", IsActive: true},
			{ID: 11, Term: "Osmosis", Definition: "Diffusion of water across a membrane", IsActive: true},
		}, nil
	case 2:
		return []db.Flashcard{
			{ID: 20, Term: "Mole", Definition: "Avogadro's number of particles", IsActive: true},
		}, nil
	}
	return nil, nil
}

func (f *fakeStore) SlidesForClass(ctx context.Context, classID int64) ([]db.Slide, error) {
	switch classID {
	case 1:
		return []db.Slide{{ID: 100, Title: "Cell Structure", ClassID: 1}}, nil
	case 2:
		return []db.Slide{{ID: 200, Title: "Stoichiometry", ClassID: 2}}, nil
	}
	return nil, nil
}

func (f *fakeStore) ChunksForSlide(ctx context.Context, slideID int64) ([]db.DocumentChunk, error) {
	switch slideID {
	case 100:
		return []db.DocumentChunk{
			{SlideID: 100, ChunkIndex: 0, ChunkText: "Cells contain organelles."},
			{SlideID: 100, ChunkIndex: 1, ChunkText: "Organelles divide labor."},
		}, nil
	case 200:
		return []db.DocumentChunk{
			{SlideID: 200, ChunkIndex: 0, ChunkText: "Balance the equation first."},
		}, nil
	}
	return nil, nil
}

func (f *fakeStore) SaveChatMessage(ctx context.Context, message *db.ChatMessage) error {
	message.ID = int64(len(f.chats) + 1)
	f.chats = append(f.chats, *message)
	return nil
}

func (f *fakeStore) ChatHistory(ctx context.Context, userID int64, limit int) ([]db.ChatMessage, error) {
	return f.chats, nil
}

func (f *fakeStore) ClearChatHistory(ctx context.Context, userID int64) error {
	f.chats = nil
	return nil
}

func TestGatherContextEnrolledOnly(t *testing.T) {
	student := &db.User{ID: 7, Username: "sam"}

	got, err := GatherContext(context.Background(), &fakeStore{}, student)
	require.NoError(t, err)

	require.Len(t, got.Flashcards, 2)
	require.Len(t, got.DocumentChunks, 2)
	for _, text := range append(got.Flashcards, got.DocumentChunks...) {
		assert.NotContains(t, text, "Chemistry 201")
	}
}

func TestGatherContextAdminSeesAllActiveClasses(t *testing.T) {
	admin := &db.User{ID: 1, Username: "root", IsAdmin: true}

	got, err := GatherContext(context.Background(), &fakeStore{}, admin)
	require.NoError(t, err)

	assert.Len(t, got.Flashcards, 3)
	assert.Len(t, got.DocumentChunks, 3)
}

func TestGatherContextRendering(t *testing.T) {
	student := &db.User{ID: 7, Username: "sam"}

	got, err := GatherContext(context.Background(), &fakeStore{}, student)
	require.NoError(t, err)

	assert.Equal(t, "Term: Mitochondria\nDefinition: The powerhouse of the cell\nCategory: Cell Biology\nClass: Biology 101", got.Flashcards[0])
	// category line is omitted when the flashcard has none
	assert.Equal(t, "Term: Osmosis\nDefinition: Diffusion of water across a membrane\nClass: Biology 101", got.Flashcards[1])

	assert.Equal(t, "Document: Cell Structure\nClass: Biology 101\nContent: Cells contain organelles.", got.DocumentChunks[0])
	assert.Equal(t, "Document: Cell Structure\nClass: Biology 101\nContent: Organelles divide labor.", got.DocumentChunks[1])
}

func TestGatherContextUnenrolledUserIsEmpty(t *testing.T) {
	outsider := &db.User{ID: 99, Username: "eve"}

	got, err := GatherContext(context.Background(), &fakeStore{}, outsider)
	require.NoError(t, err)
	assert.Empty(t, got.Flashcards)
	assert.Empty(t, got.DocumentChunks)
}

func TestBuildGroundedPromptDegradedEmbedder(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeEncoder{degraded: true}, testConfig())
	student := &db.User{ID: 7, Username: "sam"}

	prompt, err := svc.BuildGroundedPrompt(context.Background(), student, "what is an organelle?")
	require.NoError(t, err)

	// degraded mode grounds on the first top-k candidates, flashcards first
	assert.Contains(t, prompt, "RELEVANT COURSE MATERIALS:")
	assert.Contains(t, prompt, "[FLASHCARD] Term: Mitochondria")
	assert.Contains(t, prompt, "[DOCUMENT_CHUNK] Document: Cell Structure")
}

func TestBuildGroundedPromptRanked(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeEncoder{}, testConfig())
	student := &db.User{ID: 7, Username: "sam"}

	prompt, err := svc.BuildGroundedPrompt(context.Background(), student, "what do mitochondria do?")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Term: Mitochondria")
	// unrelated items fall below the similarity threshold
	assert.NotContains(t, prompt, "Term: Osmosis")

	again, err := svc.BuildGroundedPrompt(context.Background(), student, "what do mitochondria do?")
	require.NoError(t, err)
	assert.Equal(t, prompt, again)
}

func TestBuildGroundedPromptNoVisibleContext(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeEncoder{}, testConfig())
	outsider := &db.User{ID: 99, Username: "eve"}

	prompt, err := svc.BuildGroundedPrompt(context.Background(), outsider, "anything")
	require.NoError(t, err)
	assert.Contains(t, prompt, "No specific course materials were found")
	assert.False(t, strings.Contains(prompt, "RELEVANT COURSE MATERIALS"))
}
