// Package uploads stores uploaded course files on disk, creates their
// records and runs document processing for slides. Processing failures do
// not fail the upload.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"eduplatform/internal/config"
	"eduplatform/internal/db"
	"eduplatform/internal/helper"
	"eduplatform/internal/models"
	"eduplatform/internal/processor"
)

var mediaTypeByExt = map[string]string{
	".pdf":  models.MediaTypePDF,
	".docx": models.MediaTypeDOCX,
	".pptx": models.MediaTypePPTX,
	".xlsx": models.MediaTypeXLSX,
	".ods":  models.MediaTypeODS,
	".txt":  models.MediaTypeText,
	".md":   models.MediaTypeMD,
}

type Service struct {
	store     *db.Store
	processor *processor.Processor
	cfg       *config.UploadsConfig
}

func NewService(store *db.Store, proc *processor.Processor, cfg *config.UploadsConfig) *Service {
	return &Service{store: store, processor: proc, cfg: cfg}
}

// SlideUploadResult reports the upload plus the processing outcome; a slide
// can upload successfully and still end up non-searchable.
type SlideUploadResult struct {
	Slide             *db.Slide
	ProcessingSuccess bool
	ProcessingMessage string
	ChunksCreated     int
}

// UploadSlide writes the file under the class's slide directory, records it
// with the next upload order and processes it synchronously.
func (s *Service) UploadSlide(ctx context.Context, classID int64, title, originalFilename, contentType string, file io.Reader) (*SlideUploadResult, error) {
	mediaType, err := resolveMediaType(originalFilename, contentType)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.cfg.SlidesPath, strconv.FormatInt(classID, 10))
	filePath, storedName, err := s.storeFile(dir, originalFilename, file)
	if err != nil {
		return nil, err
	}

	order, err := s.store.NextUploadOrder(ctx, classID)
	if err != nil {
		return nil, err
	}

	slide := &db.Slide{
		Title:       title,
		Filename:    storedName,
		FilePath:    filePath,
		FileType:    mediaType,
		ClassID:     classID,
		UploadOrder: order,
	}
	if err := s.store.CreateSlide(ctx, slide); err != nil {
		return nil, err
	}

	result := &SlideUploadResult{Slide: slide}
	if s.processor.ProcessDocument(ctx, slide) {
		count, err := s.store.CountChunks(ctx, slide.ID)
		if err != nil {
			count = 0
		}
		result.ProcessingSuccess = true
		result.ChunksCreated = count
		result.ProcessingMessage = fmt.Sprintf("Successfully processed document into %d searchable chunks", count)
	} else {
		result.ProcessingMessage = "Document processing failed - content uploaded but not searchable"
	}
	return result, nil
}

// UploadResource stores a supplementary file without document processing.
func (s *Service) UploadResource(ctx context.Context, classID int64, title, description, originalFilename, contentType string, file io.Reader) (*db.Resource, error) {
	mediaType := contentType
	if t, err := resolveMediaType(originalFilename, contentType); err == nil {
		mediaType = t
	}

	dir := s.cfg.ResourcesPath
	isGlobal := classID == 0
	if !isGlobal {
		dir = filepath.Join(dir, strconv.FormatInt(classID, 10))
	}
	filePath, storedName, err := s.storeFile(dir, originalFilename, file)
	if err != nil {
		return nil, err
	}

	resource := &db.Resource{
		Title:       title,
		Description: description,
		Filename:    storedName,
		FilePath:    filePath,
		FileType:    mediaType,
		IsGlobal:    isGlobal,
		ClassID:     classID,
	}
	if err := s.store.CreateResource(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *Service) storeFile(dir, originalFilename string, file io.Reader) (filePath, storedName string, err error) {
	if err := helper.CreateFolder(dir); err != nil {
		return "", "", err
	}

	uid, err := helper.GenerateUUID()
	if err != nil {
		return "", "", err
	}
	storedName = uid[:8] + "_" + filepath.Base(originalFilename)
	filePath = filepath.Join(dir, storedName)

	out, err := os.Create(filePath)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", "", err
	}
	log.Debug().Str("path", filePath).Msg("Stored uploaded file")
	return filePath, storedName, nil
}

// resolveMediaType trusts a known declared type, otherwise falls back to the
// file extension; browsers often report application/octet-stream.
func resolveMediaType(filename, declared string) (string, error) {
	for _, known := range mediaTypeByExt {
		if declared == known {
			return declared, nil
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := mediaTypeByExt[ext]; ok {
		log.Debug().Str("file", filename).Str("declared", declared).Str("resolved", t).Msg("Resolved media type by extension")
		return t, nil
	}
	return "", fmt.Errorf("file type %q not allowed", declared)
}
