package db

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"eduplatform/internal/models"
)

// Store wraps the bun connection with the queries the services need.
type Store struct {
	db    *bun.DB
	locks *keyedMutex
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db, locks: newKeyedMutex()}
}

func (s *Store) DB() *bun.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// InitDB creates all tables if they do not exist yet.
func (s *Store) InitDB(ctx context.Context) error {
	tables := []interface{}{
		(*User)(nil),
		(*Class)(nil),
		(*ClassUser)(nil),
		(*Slide)(nil),
		(*Resource)(nil),
		(*Flashcard)(nil),
		(*ClassFlashcard)(nil),
		(*DocumentChunk)(nil),
		(*ChatMessage)(nil),
	}
	for _, table := range tables {
		if _, err := s.db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceChunks deletes all chunks for a slide and inserts the new sequence,
// chunk_index = position, inside one transaction. Concurrent replacement for
// the same slide is serialized; different slides proceed in parallel.
func (s *Store) ReplaceChunks(ctx context.Context, slideID int64, chunks []models.Chunk) error {
	unlock := s.locks.Lock(slideID)
	defer unlock()

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*DocumentChunk)(nil)).Where("slide_id = ?", slideID).Exec(ctx); err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		rows := make([]DocumentChunk, len(chunks))
		for i, chunk := range chunks {
			rows[i] = DocumentChunk{
				SlideID:    slideID,
				ChunkText:  chunk.Content,
				ChunkIndex: i,
				Embedding:  chunk.Embedding,
			}
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}

// ChunksForSlide returns a slide's chunks ordered by index.
func (s *Store) ChunksForSlide(ctx context.Context, slideID int64) ([]DocumentChunk, error) {
	var chunks []DocumentChunk
	err := s.db.NewSelect().
		Model(&chunks).
		Where("slide_id = ?", slideID).
		Order("chunk_index ASC").
		Scan(ctx)
	return chunks, err
}

func (s *Store) CountChunks(ctx context.Context, slideID int64) (int, error) {
	return s.db.NewSelect().
		Model((*DocumentChunk)(nil)).
		Where("slide_id = ?", slideID).
		Count(ctx)
}

// DeleteSlide removes a slide and cascades its chunks.
func (s *Store) DeleteSlide(ctx context.Context, slideID int64) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*DocumentChunk)(nil)).Where("slide_id = ?", slideID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*Slide)(nil)).Where("id = ?", slideID).Exec(ctx)
		return err
	})
}

func (s *Store) GetSlide(ctx context.Context, slideID int64) (*Slide, error) {
	slide := new(Slide)
	err := s.db.NewSelect().Model(slide).Where("id = ?", slideID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return slide, nil
}

func (s *Store) CreateSlide(ctx context.Context, slide *Slide) error {
	_, err := s.db.NewInsert().Model(slide).Exec(ctx)
	return err
}

// NextUploadOrder returns the ordering position for a new slide in a class.
func (s *Store) NextUploadOrder(ctx context.Context, classID int64) (int, error) {
	count, err := s.db.NewSelect().
		Model((*Slide)(nil)).
		Where("class_id = ?", classID).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

func (s *Store) SlidesForClass(ctx context.Context, classID int64) ([]Slide, error) {
	var slides []Slide
	err := s.db.NewSelect().
		Model(&slides).
		Where("class_id = ?", classID).
		Order("upload_order ASC").
		Scan(ctx)
	return slides, err
}

// ActiveClasses returns every active class, the admin visibility set.
func (s *Store) ActiveClasses(ctx context.Context) ([]Class, error) {
	var classes []Class
	err := s.db.NewSelect().
		Model(&classes).
		Where("is_active = TRUE").
		Order("id ASC").
		Scan(ctx)
	return classes, err
}

// EnrolledActiveClasses returns the active classes a user is enrolled in.
func (s *Store) EnrolledActiveClasses(ctx context.Context, userID int64) ([]Class, error) {
	var classes []Class
	err := s.db.NewSelect().
		Model(&classes).
		Join("JOIN class_users AS cu ON cu.class_id = c.id").
		Where("cu.user_id = ?", userID).
		Where("c.is_active = TRUE").
		Order("c.id ASC").
		Scan(ctx)
	return classes, err
}

// FlashcardsForClass returns the active flashcards assigned to a class.
func (s *Store) FlashcardsForClass(ctx context.Context, classID int64) ([]Flashcard, error) {
	var cards []Flashcard
	err := s.db.NewSelect().
		Model(&cards).
		Join("JOIN class_flashcards AS cf ON cf.flashcard_id = f.id").
		Where("cf.class_id = ?", classID).
		Where("f.is_active = TRUE").
		Order("f.id ASC").
		Scan(ctx)
	return cards, err
}

func (s *Store) CreateClass(ctx context.Context, class *Class) error {
	_, err := s.db.NewInsert().Model(class).Exec(ctx)
	return err
}

func (s *Store) EnrollUser(ctx context.Context, classID, userID int64) error {
	_, err := s.db.NewInsert().Model(&ClassUser{ClassID: classID, UserID: userID}).Exec(ctx)
	return err
}

func (s *Store) CreateFlashcard(ctx context.Context, card *Flashcard) error {
	_, err := s.db.NewInsert().Model(card).Exec(ctx)
	return err
}

func (s *Store) AssignFlashcard(ctx context.Context, classID, flashcardID int64) error {
	_, err := s.db.NewInsert().Model(&ClassFlashcard{ClassID: classID, FlashcardID: flashcardID}).Exec(ctx)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	_, err := s.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	user := new(User)
	err := s.db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) CreateResource(ctx context.Context, resource *Resource) error {
	_, err := s.db.NewInsert().Model(resource).Exec(ctx)
	return err
}

func (s *Store) SaveChatMessage(ctx context.Context, message *ChatMessage) error {
	_, err := s.db.NewInsert().Model(message).Exec(ctx)
	return err
}

// ChatHistory returns a user's most recent exchanges in chronological order.
func (s *Store) ChatHistory(ctx context.Context, userID int64, limit int) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := s.db.NewSelect().
		Model(&messages).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *Store) ClearChatHistory(ctx context.Context, userID int64) error {
	_, err := s.db.NewDelete().Model((*ChatMessage)(nil)).Where("user_id = ?", userID).Exec(ctx)
	return err
}
