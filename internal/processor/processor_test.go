package processor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduplatform/internal/config"
	"eduplatform/internal/db"
	"eduplatform/internal/models"
)

type fakeChunkStore struct {
	chunks   map[int64][]models.Chunk
	replaces int
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{chunks: make(map[int64][]models.Chunk)}
}

func (f *fakeChunkStore) ReplaceChunks(ctx context.Context, slideID int64, chunks []models.Chunk) error {
	f.replaces++
	stored := make([]models.Chunk, len(chunks))
	copy(stored, chunks)
	f.chunks[slideID] = stored
	return nil
}

type fakeEncoder struct {
	degraded bool
}

func (f *fakeEncoder) Degraded() bool { return f.degraded }

func (f *fakeEncoder) EmbedQuery(ctx context.Context, text string) []float32 {
	if f.degraded {
		return nil
	}
	return []float32{float32(len(text)), 1}
}

func (f *fakeEncoder) EmbedTexts(ctx context.Context, texts []string) [][]float32 {
	if f.degraded {
		return nil
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1}
	}
	return vectors
}

func testRAGConfig() *config.RAGConfig {
	return &config.RAGConfig{ChunkSize: 1000, ChunkOverlap: 200}
}

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessDocumentStoresDenseChunks(t *testing.T) {
	store := newFakeChunkStore()
	proc := NewProcessor(store, &fakeEncoder{}, nil, testRAGConfig())

	path := writeTempDoc(t, "lecture.txt", strings.Repeat("word ", 520))
	slide := &db.Slide{ID: 1, Title: "Lecture", FilePath: path, FileType: models.MediaTypeText}

	ok := proc.ProcessDocument(context.Background(), slide)
	require.True(t, ok)

	chunks := store.chunks[1]
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.NotEmpty(t, chunk.Content)
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestProcessDocumentIdempotent(t *testing.T) {
	store := newFakeChunkStore()
	proc := NewProcessor(store, &fakeEncoder{}, nil, testRAGConfig())

	path := writeTempDoc(t, "lecture.txt", strings.Repeat("sentence one. ", 200))
	slide := &db.Slide{ID: 2, Title: "Lecture", FilePath: path, FileType: models.MediaTypeText}

	require.True(t, proc.ProcessDocument(context.Background(), slide))
	first := store.chunks[2]

	require.True(t, proc.ProcessDocument(context.Background(), slide))
	second := store.chunks[2]

	assert.Equal(t, 2, store.replaces)
	assert.Equal(t, first, second)
}

func TestProcessDocumentMissingFile(t *testing.T) {
	store := newFakeChunkStore()
	proc := NewProcessor(store, &fakeEncoder{}, nil, testRAGConfig())

	slide := &db.Slide{ID: 3, Title: "Ghost", FilePath: "/nonexistent/ghost.pdf", FileType: models.MediaTypePDF}

	assert.False(t, proc.ProcessDocument(context.Background(), slide))
	assert.Zero(t, store.replaces, "a failed run must not touch the stored chunk set")
}

func TestProcessDocumentEmptyFile(t *testing.T) {
	store := newFakeChunkStore()
	proc := NewProcessor(store, &fakeEncoder{}, nil, testRAGConfig())

	path := writeTempDoc(t, "empty.txt", "   \n  ")
	slide := &db.Slide{ID: 4, Title: "Empty", FilePath: path, FileType: models.MediaTypeText}

	assert.False(t, proc.ProcessDocument(context.Background(), slide))
}

func TestProcessDocumentDegradedEmbedderStoresChunksWithoutVectors(t *testing.T) {
	store := newFakeChunkStore()
	proc := NewProcessor(store, &fakeEncoder{degraded: true}, nil, testRAGConfig())

	path := writeTempDoc(t, "lecture.txt", strings.Repeat("plain prose ", 300))
	slide := &db.Slide{ID: 5, Title: "Lecture", FilePath: path, FileType: models.MediaTypeText}

	ok := proc.ProcessDocument(context.Background(), slide)
	require.True(t, ok, "missing embeddings degrade, they do not fail processing")

	chunks := store.chunks[5]
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Nil(t, chunk.Embedding)
	}
}

func TestProcessDocumentSkipsNonProcessableType(t *testing.T) {
	store := newFakeChunkStore()
	proc := NewProcessor(store, &fakeEncoder{}, nil, testRAGConfig())

	slide := &db.Slide{ID: 6, Title: "Logo", FilePath: "/uploads/logo.png", FileType: "image/png"}

	assert.True(t, proc.ProcessDocument(context.Background(), slide))
	assert.Zero(t, store.replaces)
}
