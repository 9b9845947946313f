package repository

import (
	"context"

	"filedesk/internal/model"
)

// FileRepository defines data access for the excel_files table using SQL queries only.
// No business logic here — strictly persistence operations.
type FileRepository interface {
	// List returns every file without content, ordered by name.
	List(ctx context.Context) ([]model.FileSummary, error)

	// FindByID returns a file by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.StoredFile, error)

	// FindByIDs returns the files matching ids, ordered by name. Unknown ids are omitted.
	FindByIDs(ctx context.Context, ids []string) ([]model.StoredFile, error)

	// SearchByName returns files whose name contains term, case-insensitively, ordered by name.
	SearchByName(ctx context.Context, term string) ([]model.FileSummary, error)

	// Create inserts a file and returns the stored record.
	Create(ctx context.Context, name, content string) (*model.StoredFile, error)

	// Stats returns the number of files and the total content size in bytes.
	Stats(ctx context.Context) (model.FileStats, error)

	// Ping runs a trivial query to check the database is reachable.
	Ping(ctx context.Context) error
}
