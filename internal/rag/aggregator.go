package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"eduplatform/internal/db"
	"eduplatform/internal/models"
)

// Store is the persistence surface the query-time core reads from.
type Store interface {
	ActiveClasses(ctx context.Context) ([]db.Class, error)
	EnrolledActiveClasses(ctx context.Context, userID int64) ([]db.Class, error)
	FlashcardsForClass(ctx context.Context, classID int64) ([]db.Flashcard, error)
	SlidesForClass(ctx context.Context, classID int64) ([]db.Slide, error)
	ChunksForSlide(ctx context.Context, slideID int64) ([]db.DocumentChunk, error)
	SaveChatMessage(ctx context.Context, message *db.ChatMessage) error
	ChatHistory(ctx context.Context, userID int64, limit int) ([]db.ChatMessage, error)
	ClearChatHistory(ctx context.Context, userID int64) error
}

// GatherContext collects every flashcard and document chunk visible to the
// user: admins see all active classes, everyone else their enrolled active
// classes. No ranking or filtering happens here.
func GatherContext(ctx context.Context, store Store, user *db.User) (models.UserContext, error) {
	var userContext models.UserContext

	var classes []db.Class
	var err error
	if user.IsAdmin {
		classes, err = store.ActiveClasses(ctx)
	} else {
		classes, err = store.EnrolledActiveClasses(ctx, user.ID)
	}
	if err != nil {
		return userContext, err
	}

	for _, class := range classes {
		cards, err := store.FlashcardsForClass(ctx, class.ID)
		if err != nil {
			return userContext, err
		}
		for _, card := range cards {
			userContext.Flashcards = append(userContext.Flashcards, renderFlashcard(card, class.Name))
		}

		slides, err := store.SlidesForClass(ctx, class.ID)
		if err != nil {
			return userContext, err
		}
		for _, slide := range slides {
			chunks, err := store.ChunksForSlide(ctx, slide.ID)
			if err != nil {
				return userContext, err
			}
			for _, chunk := range chunks {
				userContext.DocumentChunks = append(userContext.DocumentChunks, renderChunk(slide.Title, class.Name, chunk.ChunkText))
			}
		}
	}

	log.Debug().
		Str("user", user.Username).
		Int("flashcards", len(userContext.Flashcards)).
		Int("document_chunks", len(userContext.DocumentChunks)).
		Msg("Gathered user context")
	return userContext, nil
}

func renderFlashcard(card db.Flashcard, className string) string {
	text := fmt.Sprintf("Term: %s\nDefinition: %s", card.Term, card.Definition)
	if card.Category != "" {
		text += fmt.Sprintf("\nCategory: %s", card.Category)
	}
	text += fmt.Sprintf("\nClass: %s", className)
	return text
}

func renderChunk(documentTitle, className, content string) string {
	return fmt.Sprintf("Document: %s\nClass: %s\nContent: %s", documentTitle, className, content)
}
