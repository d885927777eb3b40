package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/pizza-search-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GormStore is a DocumentStore kept in a relational database, used to run the API without a cluster.
// It answers with the same status codes Elasticsearch uses.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates the documents table if needed and returns the store
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return nil, fmt.Errorf("migrating documents table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Insert(ctx context.Context, index string, document []byte) (*IndexResponse, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(document, &object); err != nil || object == nil {
		return &IndexResponse{
			StatusCode:  http.StatusBadRequest,
			ErrorType:   "mapper_parsing_exception",
			ErrorReason: "failed to parse document: not a JSON object",
		}, nil
	}

	doc := &models.Document{
		DocumentID: uuid.NewString(),
		IndexName:  index,
		Source:     string(document),
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("%w: inserting into %s: %w", ErrUnavailable, index, err)
	}

	log.WithFields(logrus.Fields{
		"index": index,
		"id":    doc.DocumentID,
	}).Debug("Document stored")

	return &IndexResponse{
		StatusCode: http.StatusCreated,
		ID:         doc.DocumentID,
		Result:     "created",
	}, nil
}

// QueryAll returns the documents of the index in insertion order.
// An index that never received a document does not exist.
func (s *GormStore) QueryAll(ctx context.Context, index string) (*SearchResponse, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).Where("index_name = ?", index).Order("seq asc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", ErrUnavailable, index, err)
	}

	if len(docs) == 0 {
		return &SearchResponse{
			StatusCode:  http.StatusNotFound,
			Hits:        []Hit{},
			ErrorType:   IndexNotFound,
			ErrorReason: "no such index [" + index + "]",
		}, nil
	}

	hits := make([]Hit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, Hit{ID: doc.DocumentID, Source: json.RawMessage(doc.Source)})
	}
	return &SearchResponse{StatusCode: http.StatusOK, Hits: hits}, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
