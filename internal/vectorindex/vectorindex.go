// Package vectorindex keeps a chromem-go mirror of the stored chunk vectors
// for direct similarity search over processed documents. The relational
// chunk store stays the source of truth; this index is rebuilt alongside it.
package vectorindex

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

const compress = false

// Index wraps one chromem collection keyed by slide and chunk.
type Index struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	encryptionKey string
	filePath      string
}

// NewIndex opens (or creates) the vector index at dbPath. inMemory is used
// by tests and one-shot CLI runs.
func NewIndex(dbPath, collectionName string, inMemory bool, encryptionKey string) (*Index, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create vector index: %v", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Index{
		db:            db,
		collection:    collection,
		dbPath:        dbPath,
		encryptionKey: encryptionKey,
		filePath:      dbPath + "/" + collectionName + ".chromem",
	}, nil
}

// ChunkID builds the stable per-chunk document id.
func ChunkID(slideID int64, chunkIndex int) string {
	return fmt.Sprintf("slide-%d-chunk-%d", slideID, chunkIndex)
}

// ReplaceDocument drops every indexed chunk of a slide and adds the new set.
func (x *Index) ReplaceDocument(ctx context.Context, slideID int64, docs []chromem.Document) error {
	where := map[string]string{"slide_id": strconv.FormatInt(slideID, 10)}
	if err := x.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("failed to delete indexed chunks: %v", err)
	}
	if len(docs) == 0 {
		return nil
	}
	if err := x.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	log.Debug().Int64("slide_id", slideID).Int("chunks", len(docs)).Msg("Vector index updated")
	return nil
}

// DeleteDocument removes a slide's chunks from the index.
func (x *Index) DeleteDocument(ctx context.Context, slideID int64) error {
	where := map[string]string{"slide_id": strconv.FormatInt(slideID, 10)}
	return x.collection.Delete(ctx, where, nil)
}

// Search runs a similarity query against the indexed chunk vectors.
func (x *Index) Search(ctx context.Context, queryEmbedding []float32, nResults int) ([]chromem.Result, error) {
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("query embedding must be provided")
	}
	if count := x.collection.Count(); nResults > count {
		nResults = count
	}
	if nResults == 0 {
		return nil, nil
	}
	results, err := x.collection.QueryEmbedding(ctx, queryEmbedding, nResults, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	return results, nil
}

// Export writes the collection to an encrypted file.
func (x *Index) Export(ctx context.Context) error {
	if x.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	if err := x.db.ExportToFile(x.filePath, compress, x.encryptionKey, x.collection.Name); err != nil {
		return fmt.Errorf("failed to export vector index: %v", err)
	}
	return nil
}

// Import restores a previously exported collection.
func (x *Index) Import(ctx context.Context) error {
	if err := x.db.ImportFromFile(x.filePath, x.encryptionKey); err != nil {
		return fmt.Errorf("failed to import vector index: %v", err)
	}
	return nil
}
