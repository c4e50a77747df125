package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"slidedeck/internal/models"
)

// DocumentStore persists the single presentation document
type DocumentStore interface {
	// Load returns the persisted document. It fails with KindNotFound when
	// nothing has been saved yet and KindParseFailure when the stored bytes
	// are not a document.
	Load(ctx context.Context) (*models.Document, error)
	// Save overwrites the persisted document in full.
	Save(ctx context.Context, doc *models.Document) error
	// UpdateSlideAt replaces one slide and persists the whole document.
	UpdateSlideAt(ctx context.Context, index int, slide models.Slide) error
}

// DefaultFileName is the document file inside the data directory
const DefaultFileName = "presentation.json"

// FileStore manages the presentation document in a JSON file
type FileStore struct {
	mu       sync.Mutex
	filePath string
	logger   *zap.Logger
}

// NewFileStore creates a file store under dataPath, creating the directory if needed
func NewFileStore(dataPath, fileName string, logger *zap.Logger) (*FileStore, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store := &FileStore{
		filePath: filepath.Join(dataPath, fileName),
		logger:   logger.Named("filestore"),
	}
	store.logger.Debug("initialized", zap.String("path", store.filePath))
	return store, nil
}

// Path returns the document file location
func (s *FileStore) Path() string {
	return s.filePath
}

// Load reads and parses the document file
func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load must be called with lock held
func (s *FileStore) load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, newError(KindNotFound, nil, "Presentation not found")
	}
	if err != nil {
		return nil, newError(KindParseFailure, err, "Failed to read presentation data")
	}

	doc, err := decodeDocument(data)
	if err != nil {
		s.logger.Error("failed to parse presentation", zap.String("path", s.filePath), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("loaded presentation",
		zap.String("documentName", doc.DocumentName),
		zap.Int("slideCount", len(doc.Slides)))
	return doc, nil
}

// Save atomically writes the document file (temp file → rename)
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// save must be called with lock held
func (s *FileStore) save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return newError(KindValidationFailure, nil, "Invalid presentation data")
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	tempPath := s.filePath + ".tmp"
	if err := writeSynced(tempPath, data); err != nil {
		os.Remove(tempPath)
		return newError(KindWriteFailure, err, "Failed to save presentation data")
	}

	if err := os.Rename(tempPath, s.filePath); err != nil {
		os.Remove(tempPath)
		return newError(KindWriteFailure, err, "Failed to save presentation data")
	}

	s.logger.Info("saved presentation",
		zap.String("documentName", doc.DocumentName),
		zap.Int("slideCount", len(doc.Slides)))
	return nil
}

// UpdateSlideAt replaces slides[index] and rewrites the file
func (s *FileStore) UpdateSlideAt(ctx context.Context, index int, slide models.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := replaceSlide(doc, index, slide); err != nil {
		s.logger.Warn("slide index out of bounds", zap.Int("index", index), zap.Int("slideCount", len(doc.Slides)))
		return err
	}
	if err := s.save(ctx, doc); err != nil {
		return err
	}

	s.logger.Info("updated slide", zap.Int("index", index), zap.String("type", string(slide.Type())))
	return nil
}

func writeSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	return file.Close()
}

func decodeDocument(data []byte) (*models.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, newError(KindParseFailure, nil, "Failed to parse presentation data")
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newError(KindParseFailure, err, "Failed to parse presentation data")
	}
	return &doc, nil
}

func encodeDocument(doc *models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, newError(KindValidationFailure, err, "Invalid presentation data")
	}
	return append(data, '\n'), nil
}

func replaceSlide(doc *models.Document, index int, slide models.Slide) error {
	if index < 0 || index >= len(doc.Slides) {
		return newError(KindOutOfRange, nil, "Slide index out of bounds")
	}
	doc.Slides[index] = slide
	return nil
}
