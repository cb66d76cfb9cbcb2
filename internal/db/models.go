package db

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Username       string    `bun:"username,notnull,unique"`
	Email          string    `bun:"email,notnull,unique"`
	HashedPassword string    `bun:"hashed_password,notnull"`
	IsAdmin        bool      `bun:"is_admin"`
	IsActive       bool      `bun:"is_active,default:true"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero"`
}

type Class struct {
	bun.BaseModel `bun:"table:classes,alias:c"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	IsActive    bool      `bun:"is_active,default:true"`
	CreatedBy   int64     `bun:"created_by,nullzero"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}

// ClassUser is the enrollment join table.
type ClassUser struct {
	bun.BaseModel `bun:"table:class_users,alias:cu"`

	ClassID int64 `bun:"class_id,notnull"`
	UserID  int64 `bun:"user_id,notnull"`
}

// Slide is one uploaded course document.
type Slide struct {
	bun.BaseModel `bun:"table:slides,alias:s"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Title       string    `bun:"title,notnull"`
	Filename    string    `bun:"filename,notnull"`
	FilePath    string    `bun:"file_path,notnull"`
	FileType    string    `bun:"file_type,notnull"`
	ClassID     int64     `bun:"class_id,notnull"`
	UploadOrder int       `bun:"upload_order"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}

type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description"`
	Filename    string    `bun:"filename,notnull"`
	FilePath    string    `bun:"file_path,notnull"`
	FileType    string    `bun:"file_type,notnull"`
	IsGlobal    bool      `bun:"is_global"`
	ClassID     int64     `bun:"class_id,nullzero"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}

type Flashcard struct {
	bun.BaseModel `bun:"table:flashcards,alias:f"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Term       string    `bun:"term,notnull"`
	Definition string    `bun:"definition,notnull"`
	Category   string    `bun:"category"`
	IsActive   bool      `bun:"is_active,default:true"`
	CreatedBy  int64     `bun:"created_by,nullzero"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero"`
}

// ClassFlashcard assigns a flashcard to a class.
type ClassFlashcard struct {
	bun.BaseModel `bun:"table:class_flashcards,alias:cf"`

	ClassID     int64 `bun:"class_id,notnull"`
	FlashcardID int64 `bun:"flashcard_id,notnull"`
}

// DocumentChunk is one retrieval unit of a slide's extracted text. Embedding
// is stored as jsonb and may be NULL when embedding generation failed.
type DocumentChunk struct {
	bun.BaseModel `bun:"table:document_chunks,alias:dc"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SlideID    int64     `bun:"slide_id,notnull"`
	ChunkText  string    `bun:"chunk_text,notnull"`
	ChunkIndex int       `bun:"chunk_index,notnull"`
	Embedding  []float32 `bun:"embedding,nullzero,type:jsonb"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages,alias:cm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	Message   string    `bun:"message,notnull"`
	Response  string    `bun:"response,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
