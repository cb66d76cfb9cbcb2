package models

// Chunk is one contiguous slice of a document's extracted text.
type Chunk struct {
	Content    string
	PageNumber int
	ChunkIndex int
	Embedding  []float32
}

// ContextSource labels where a context item came from.
type ContextSource string

const (
	SourceFlashcard     ContextSource = "FLASHCARD"
	SourceDocumentChunk ContextSource = "DOCUMENT_CHUNK"
)

// ContextItem is an ephemeral, rendered unit of candidate context built at
// query time. Text already carries its provenance (document/class name).
type ContextItem struct {
	Source ContextSource
	Text   string
}

// Labeled returns the item text with its source tag, the form the ranker and
// prompt composer operate on.
func (c ContextItem) Labeled() string {
	return "[" + string(c.Source) + "] " + c.Text
}

// UserContext is the full eligible context universe for one query.
type UserContext struct {
	Flashcards     []string
	DocumentChunks []string
}

// Items flattens the context into labeled candidates, flashcards first.
func (u UserContext) Items() []ContextItem {
	items := make([]ContextItem, 0, len(u.Flashcards)+len(u.DocumentChunks))
	for _, f := range u.Flashcards {
		items = append(items, ContextItem{Source: SourceFlashcard, Text: f})
	}
	for _, c := range u.DocumentChunks {
		items = append(items, ContextItem{Source: SourceDocumentChunk, Text: c})
	}
	return items
}

type PromptResponse struct {
	Query   string
	Prompt  string
	Content string
}
