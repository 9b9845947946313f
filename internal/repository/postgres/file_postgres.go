package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"filedesk/internal/model"
	"filedesk/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const (
	summaryColumns = `id::text, name, COALESCE(octet_length(content), 0), created_at, updated_at`
	fileColumns    = `id::text, name, COALESCE(content, ''), COALESCE(octet_length(content), 0), created_at, updated_at`
)

// List returns all files ordered by name, without content.
func (r *FilePostgres) List(ctx context.Context) ([]model.FileSummary, error) {
	const q = `SELECT ` + summaryColumns + ` FROM excel_files ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

// FindByID fetches a single file by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.StoredFile, error) {
	const q = `SELECT ` + fileColumns + ` FROM excel_files WHERE id = $1`
	row := r.db.QueryRowContext(ctx, q, id)
	var f model.StoredFile
	if err := row.Scan(&f.ID, &f.Name, &f.Content, &f.Size, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByIDs fetches every file whose ID is in ids, ordered by name.
func (r *FilePostgres) FindByIDs(ctx context.Context, ids []string) ([]model.StoredFile, error) {
	if len(ids) == 0 {
		return []model.StoredFile{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := `SELECT ` + fileColumns + ` FROM excel_files WHERE id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0, len(ids))
	for rows.Next() {
		var f model.StoredFile
		if err := rows.Scan(&f.ID, &f.Name, &f.Content, &f.Size, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SearchByName returns files whose name contains term, ignoring case.
// LIKE wildcards in term match literally.
func (r *FilePostgres) SearchByName(ctx context.Context, term string) ([]model.FileSummary, error) {
	const q = `SELECT ` + summaryColumns + ` FROM excel_files WHERE name ILIKE $1 ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, name, content string) (*model.StoredFile, error) {
	const q = `
		INSERT INTO excel_files (name, content, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q, name, content)
	var f model.StoredFile
	if err := row.Scan(&f.ID, &f.Name, &f.Content, &f.Size, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// Stats returns the row count and the summed content size.
func (r *FilePostgres) Stats(ctx context.Context) (model.FileStats, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(octet_length(content)), 0) FROM excel_files`
	var s model.FileStats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Count, &s.TotalSize); err != nil {
		return model.FileStats{}, err
	}
	return s, nil
}

// Ping runs SELECT 1.
func (r *FilePostgres) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

func scanSummaries(rows *sql.Rows) ([]model.FileSummary, error) {
	defer rows.Close()

	items := make([]model.FileSummary, 0)
	for rows.Next() {
		var f model.FileSummary
		if err := rows.Scan(&f.ID, &f.Name, &f.Size, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
