package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eduplatform/internal/config"
	"eduplatform/internal/db"
	"eduplatform/internal/embedding"
	"eduplatform/internal/processor"
	"eduplatform/internal/rag"
	"eduplatform/internal/uploads"
	"eduplatform/internal/vectorindex"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	initSchema := flag.Bool("init", false, "Create the database schema")
	filePath := flag.String("upload", "", "Path to a document file to upload")
	classID := flag.Int64("class", 0, "Class id for the upload")
	title := flag.String("title", "", "Document title for the upload")
	username := flag.String("user", "", "Acting user")
	query := flag.String("ask", "", "Question to answer with grounded context")
	promptOnly := flag.Bool("prompt-only", false, "Print the grounded prompt without calling the model")
	search := flag.String("search", "", "Direct similarity search over indexed chunks")
	reprocess := flag.Int64("reprocess", 0, "Re-run document processing for a slide id")
	remove := flag.Int64("remove", 0, "Delete a slide and its chunks")
	seed := flag.Bool("seed", false, "Create demo users, classes and flashcards")
	flag.Parse()

	ctx := context.Background()

	switch {
	case *initSchema:
		runInitSchema(ctx)
	case *seed:
		runSeed(ctx)
	case *reprocess != 0:
		runReprocess(ctx, *reprocess)
	case *remove != 0:
		runRemove(ctx, *remove)
	case *filePath != "":
		if *classID == 0 || *title == "" {
			log.Fatal().Msg("Please provide -class and -title together with -upload")
		}
		runUpload(ctx, *filePath, *classID, *title)
	case *query != "":
		if *username == "" {
			log.Fatal().Msg("Please provide -user together with -ask")
		}
		runAsk(ctx, *username, *query, *promptOnly)
	case *search != "":
		runSearch(ctx, *search)
	default:
		flag.Usage()
	}
}

func runInitSchema(ctx context.Context) {
	_, store := mustStore(ctx)
	defer store.Close()

	if err := store.InitDB(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	log.Info().Msg("Database schema created")
}

func runUpload(ctx context.Context, filePath string, classID int64, title string) {
	cfg, store := mustStore(ctx)
	defer store.Close()

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening document file")
	}
	defer file.Close()

	encoder := embedding.NewEmbedder(&cfg.EmbedLLM)
	var index processor.Indexer
	if idx := openIndex(cfg); idx != nil {
		index = idx
	}
	proc := processor.NewProcessor(store, encoder, index, &cfg.RAG)
	svc := uploads.NewService(store, proc, &cfg.Uploads)

	result, err := svc.UploadSlide(ctx, classID, title, filePath, "", file)
	if err != nil {
		log.Fatal().Err(err).Msg("Error uploading document")
	}

	log.Info().
		Int64("slide_id", result.Slide.ID).
		Bool("processed", result.ProcessingSuccess).
		Int("chunks", result.ChunksCreated).
		Msg(result.ProcessingMessage)
}

func runReprocess(ctx context.Context, slideID int64) {
	cfg, store := mustStore(ctx)
	defer store.Close()

	slide, err := store.GetSlide(ctx, slideID)
	if err != nil {
		log.Fatal().Err(err).Int64("slide_id", slideID).Msg("Slide not found")
	}

	encoder := embedding.NewEmbedder(&cfg.EmbedLLM)
	var index processor.Indexer
	if idx := openIndex(cfg); idx != nil {
		index = idx
	}
	proc := processor.NewProcessor(store, encoder, index, &cfg.RAG)

	if !proc.ProcessDocument(ctx, slide) {
		log.Fatal().Str("title", slide.Title).Msg("Document processing failed")
	}

	count, err := store.CountChunks(ctx, slideID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error counting chunks")
	}
	log.Info().Str("title", slide.Title).Int("chunks", count).Msg("Reprocessed document")
}

func runRemove(ctx context.Context, slideID int64) {
	cfg, store := mustStore(ctx)
	defer store.Close()

	if err := store.DeleteSlide(ctx, slideID); err != nil {
		log.Fatal().Err(err).Int64("slide_id", slideID).Msg("Error deleting slide")
	}
	if index := openIndex(cfg); index != nil {
		if err := index.DeleteDocument(ctx, slideID); err != nil {
			log.Warn().Err(err).Msg("Vector index cleanup failed")
		}
	}
	log.Info().Int64("slide_id", slideID).Msg("Deleted slide and its chunks")
}

func runSeed(ctx context.Context) {
	_, store := mustStore(ctx)
	defer store.Close()

	admin := &db.User{Username: "admin", Email: "admin@example.com", HashedPassword: "change-me", IsAdmin: true, IsActive: true}
	student := &db.User{Username: "sam", Email: "sam@example.com", HashedPassword: "change-me", IsActive: true}
	for _, user := range []*db.User{admin, student} {
		if err := store.CreateUser(ctx, user); err != nil {
			log.Fatal().Err(err).Str("user", user.Username).Msg("Error creating user")
		}
	}

	class := &db.Class{Name: "Biology 101", Description: "Introductory cell biology", IsActive: true, CreatedBy: admin.ID}
	if err := store.CreateClass(ctx, class); err != nil {
		log.Fatal().Err(err).Msg("Error creating class")
	}
	if err := store.EnrollUser(ctx, class.ID, student.ID); err != nil {
		log.Fatal().Err(err).Msg("Error enrolling user")
	}

	card := &db.Flashcard{Term: "Mitochondria", Definition: "The powerhouse of the cell", Category: "Cell Biology", IsActive: true, CreatedBy: admin.ID}
	if err := store.CreateFlashcard(ctx, card); err != nil {
		log.Fatal().Err(err).Msg("Error creating flashcard")
	}
	if err := store.AssignFlashcard(ctx, class.ID, card.ID); err != nil {
		log.Fatal().Err(err).Msg("Error assigning flashcard")
	}

	log.Info().Int64("class_id", class.ID).Msg("Seeded demo data")
}

func runAsk(ctx context.Context, username, query string, promptOnly bool) {
	cfg, store := mustStore(ctx)
	defer store.Close()

	user, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		log.Fatal().Err(err).Str("user", username).Msg("Unknown user")
	}

	encoder := embedding.NewEmbedder(&cfg.EmbedLLM)
	svc := rag.NewService(store, encoder, cfg)

	if promptOnly {
		prompt, err := svc.BuildGroundedPrompt(ctx, user, query)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building prompt")
		}
		fmt.Printf("%s\n", prompt)
		return
	}

	message, err := svc.Chat(ctx, user, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", message.Response)
}

func runSearch(ctx context.Context, query string) {
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	index := openIndex(cfg)
	if index == nil {
		log.Fatal().Msg("Vector index is not configured (rag.vector_db_path)")
	}

	encoder := embedding.NewEmbedder(&cfg.EmbedLLM)
	queryEmbedding := encoder.EmbedQuery(ctx, query)
	if len(queryEmbedding) == 0 {
		log.Fatal().Msg("No query embedding available")
	}

	results, err := index.Search(ctx, queryEmbedding, cfg.RAG.TopK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching vector index")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Matches: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	for _, result := range results {
		fmt.Printf("[%.3f] %s (%s)\n%s\n\n", result.Similarity, result.Metadata["document"], result.ID, result.Content)
	}
}

func mustStore(ctx context.Context) (*config.Config, *db.Store) {
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	return cfg, db.NewStore(db.NewDB(sqldb, cfg.Database.Debug))
}

func openIndex(cfg *config.Config) *vectorindex.Index {
	if cfg.RAG.VectorDBPath == "" {
		return nil
	}
	collection := cfg.RAG.Collection
	if collection == "" {
		collection = "course_chunks"
	}
	index, err := vectorindex.NewIndex(cfg.RAG.VectorDBPath, collection, false, cfg.RAG.EncryptionKey)
	if err != nil {
		log.Warn().Err(err).Msg("Vector index unavailable, continuing without it")
		return nil
	}
	return index
}
