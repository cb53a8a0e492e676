package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

const documentColumns = `id, original_name, format, extension, size, extracted_text, extraction_method,
	page_count, remote_item_id, remote_drive_id, remote_folder, blob_key, checksum, tags,
	processed_at, created_at`

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// HasBeenIngested reports whether a document exists for the remote item.
func (s *documentStore) HasBeenIngested(ctx context.Context, remoteItemID string) (bool, error) {
	var exists int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE remote_item_id = ?)", remoteItemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking ledger: %w", err)
	}
	return exists == 1, nil
}

// RecordIngestion inserts a complete document record.
func (s *documentStore) RecordIngestion(ctx context.Context, doc *domain.IngestedDocument) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	tagsJSON, err := json.Marshal(nonNilTags(doc.Tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	var remoteItemID any
	if doc.RemoteItemID != nil {
		remoteItemID = *doc.RemoteItemID
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.OriginalName, string(doc.Format), doc.Extension, doc.Size,
		doc.ExtractedText, string(doc.ExtractionMethod), doc.PageCount,
		remoteItemID, nullString(doc.RemoteDriveID), nullString(doc.RemoteFolder),
		nullString(doc.BlobKey), doc.Checksum, string(tagsJSON),
		formatNullableTime(doc.ProcessedAt), formatTime(doc.CreatedAt))

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("recording ingestion: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.IngestedDocument, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// ListDocuments returns documents newest first.
func (s *documentStore) ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error) {
	var where []string
	var args []any
	if filter.Format != "" {
		where = append(where, "format = ?")
		args = append(args, string(filter.Format))
	}
	if filter.RemoteOnly {
		where = append(where, "remote_item_id IS NOT NULL AND remote_item_id != ''")
	}

	query := "SELECT " + documentColumns + " FROM documents"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.IngestedDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// UpdateExtraction replaces a document's extracted text and processed time.
func (s *documentStore) UpdateExtraction(
	ctx context.Context,
	id string,
	extraction domain.Extraction,
	processedAt time.Time,
) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE documents
		SET extracted_text = ?, extraction_method = ?, page_count = ?, processed_at = ?
		WHERE id = ?
	`, extraction.Text, string(extraction.Method), extraction.PageCount, formatNullableTime(processedAt), id)
	if err != nil {
		return fmt.Errorf("updating extraction: %w", err)
	}
	return requireAffected(res)
}

// UpdateTags replaces a document's tags.
func (s *documentStore) UpdateTags(ctx context.Context, id string, tags []string) error {
	tagsJSON, err := json.Marshal(nonNilTags(tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	res, err := s.store.db.ExecContext(ctx, "UPDATE documents SET tags = ? WHERE id = ?", string(tagsJSON), id)
	if err != nil {
		return fmt.Errorf("updating tags: %w", err)
	}
	return requireAffected(res)
}

// CountDocuments returns the number of recorded documents.
func (s *documentStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// ==================== Expense Store ====================

// expenseStore implements driven.ExpenseStore.
type expenseStore struct {
	store *Store
}

var _ driven.ExpenseStore = (*expenseStore)(nil)

// SaveExpense inserts an expense.
func (s *expenseStore) SaveExpense(ctx context.Context, e *domain.Expense) error {
	if e == nil || e.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO expenses (id, document_id, vendor, date, amount, category, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.DocumentID, nullString(e.Vendor), nullString(e.Date), e.Amount,
		e.Category, nullString(e.Description), string(e.Status), formatTime(e.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving expense: %w", err)
	}
	return nil
}

// ListExpenses returns expenses linked to a document.
func (s *expenseStore) ListExpenses(ctx context.Context, documentID string) ([]domain.Expense, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, vendor, date, amount, category, description, status, created_at
		FROM expenses WHERE document_id = ?
		ORDER BY created_at ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.Expense
		var vendor, date, description sql.NullString
		var status, createdAt string
		if err := rows.Scan(&e.ID, &e.DocumentID, &vendor, &date, &e.Amount,
			&e.Category, &description, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		e.Vendor = vendor.String
		e.Date = date.String
		e.Description = description.String
		e.Status = domain.ExpenseStatus(status)
		e.CreatedAt = parseNullableTime(sql.NullString{String: createdAt, Valid: true})
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a single document row.
func scanDocument(row rowScanner) (*domain.IngestedDocument, error) {
	var doc domain.IngestedDocument
	var format, method, tagsJSON, createdAt string
	var remoteItemID, remoteDriveID, remoteFolder, blobKey, processedAt sql.NullString

	if err := row.Scan(&doc.ID, &doc.OriginalName, &format, &doc.Extension, &doc.Size,
		&doc.ExtractedText, &method, &doc.PageCount, &remoteItemID, &remoteDriveID,
		&remoteFolder, &blobKey, &doc.Checksum, &tagsJSON, &processedAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Format = domain.Format(format)
	doc.ExtractionMethod = domain.ExtractionMethod(method)
	if remoteItemID.Valid {
		id := remoteItemID.String
		doc.RemoteItemID = &id
	}
	doc.RemoteDriveID = remoteDriveID.String
	doc.RemoteFolder = remoteFolder.String
	doc.BlobKey = blobKey.String
	doc.ProcessedAt = parseNullableTime(processedAt)
	doc.CreatedAt = parseNullableTime(sql.NullString{String: createdAt, Valid: true})

	if tagsJSON != "" && tagsJSON != "[]" {
		if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
			return nil, fmt.Errorf("unmarshalling tags: %w", err)
		}
	}

	return &doc, nil
}

// requireAffected maps an update that matched no rows to domain.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
