package model

import "time"

// StoredFile is a row of excel_files: a CSV-formatted text body with its name.
// Size is always the byte length of Content; it is computed by the database, never stored.
type StoredFile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the record without its content.
func (f StoredFile) Summary() FileSummary {
	return FileSummary{
		ID:        f.ID,
		Name:      f.Name,
		Size:      f.Size,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// FileSummary is a StoredFile without its content, used for listings.
type FileSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStats aggregates the whole table.
type FileStats struct {
	Count     int64 `json:"count"`
	TotalSize int64 `json:"total_size"`
}
