package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.IngestedDocument
	remote    map[string]string // remote item ID -> document ID
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.IngestedDocument),
		remote:    make(map[string]string),
	}
}

// HasBeenIngested reports whether a document exists for the remote item.
func (s *DocumentStore) HasBeenIngested(_ context.Context, remoteItemID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.remote[remoteItemID]
	return ok, nil
}

// RecordIngestion inserts a document.
func (s *DocumentStore) RecordIngestion(_ context.Context, doc *domain.IngestedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; ok {
		return domain.ErrAlreadyExists
	}
	if doc.IsRemote() {
		if _, ok := s.remote[*doc.RemoteItemID]; ok {
			return domain.ErrAlreadyExists
		}
		s.remote[*doc.RemoteItemID] = doc.ID
	}
	s.documents[doc.ID] = copyDocument(*doc)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.IngestedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc = copyDocument(doc)
	return &doc, nil
}

// ListDocuments returns documents newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.IngestedDocument, 0, len(s.documents))
	for id := range s.documents {
		doc := s.documents[id]
		if filter.Format != "" && doc.Format != filter.Format {
			continue
		}
		if filter.RemoteOnly && !doc.IsRemote() {
			continue
		}
		result = append(result, copyDocument(doc))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// UpdateExtraction replaces a document's extracted text.
func (s *DocumentStore) UpdateExtraction(_ context.Context, id string, e domain.Extraction, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.ExtractedText = e.Text
	doc.ExtractionMethod = e.Method
	doc.PageCount = e.PageCount
	doc.ProcessedAt = processedAt
	s.documents[id] = doc
	return nil
}

// UpdateTags replaces a document's tags.
func (s *DocumentStore) UpdateTags(_ context.Context, id string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Tags = slices.Clone(tags)
	s.documents[id] = doc
	return nil
}

// CountDocuments returns the number of recorded documents.
func (s *DocumentStore) CountDocuments(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

func copyDocument(doc domain.IngestedDocument) domain.IngestedDocument {
	if doc.RemoteItemID != nil {
		id := *doc.RemoteItemID
		doc.RemoteItemID = &id
	}
	doc.Tags = slices.Clone(doc.Tags)
	return doc
}
