package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"slidedeck/internal/models"
)

// SQLiteStore keeps the presentation document in a single SQLite row
type SQLiteStore struct {
	mu       sync.Mutex
	database *sql.DB
	logger   *zap.Logger
}

// NewSQLiteStore creates a store on an opened database (see db.Open)
func NewSQLiteStore(database *sql.DB, logger *zap.Logger) *SQLiteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStore{
		database: database,
		logger:   logger.Named("sqlitestore"),
	}
}

// Load returns the stored document
func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, s.database)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) load(ctx context.Context, q queryer) (*models.Document, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM presentation_documents WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newError(KindNotFound, nil, "Presentation not found")
	}
	if err != nil {
		return nil, newError(KindParseFailure, err, "Failed to read presentation data")
	}

	doc, err := decodeDocument([]byte(body))
	if err != nil {
		s.logger.Error("failed to parse stored presentation", zap.Error(err))
		return nil, err
	}
	return doc, nil
}

// Save replaces the stored document in one transaction
func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return newError(KindWriteFailure, err, "Failed to save presentation data")
	}
	defer tx.Rollback()

	if err := s.save(ctx, tx, doc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return newError(KindWriteFailure, err, "Failed to save presentation data")
	}

	s.logger.Info("saved presentation",
		zap.String("documentName", doc.DocumentName),
		zap.Int("slideCount", len(doc.Slides)))
	return nil
}

func (s *SQLiteStore) save(ctx context.Context, tx *sql.Tx, doc *models.Document) error {
	if doc == nil {
		return newError(KindValidationFailure, nil, "Invalid presentation data")
	}
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	query := `INSERT INTO presentation_documents (id, document_name, body, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_name = excluded.document_name,
			body = excluded.body,
			updated_at = excluded.updated_at`

	if _, err := tx.ExecContext(ctx, query, doc.DocumentName, string(data), time.Now()); err != nil {
		return newError(KindWriteFailure, err, "Failed to save presentation data")
	}
	return nil
}

// UpdateSlideAt replaces one slide inside the same transaction as the read
func (s *SQLiteStore) UpdateSlideAt(ctx context.Context, index int, slide models.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return newError(KindWriteFailure, err, "Failed to update slide")
	}
	defer tx.Rollback()

	doc, err := s.load(ctx, tx)
	if err != nil {
		return err
	}
	if err := replaceSlide(doc, index, slide); err != nil {
		s.logger.Warn("slide index out of bounds", zap.Int("index", index), zap.Int("slideCount", len(doc.Slides)))
		return err
	}
	if err := s.save(ctx, tx, doc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return newError(KindWriteFailure, err, "Failed to update slide")
	}

	s.logger.Info("updated slide", zap.Int("index", index), zap.String("type", string(slide.Type())))
	return nil
}
