package csvdoc

import "errors"

var (
	// ErrEmptyDocument is returned when the input has no non-blank lines.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrNoColumnsSelected is returned when a selection resolves to zero columns.
	ErrNoColumnsSelected = errors.New("no columns selected")
	// ErrNoFilesSelected is returned when a join is requested with no inputs.
	ErrNoFilesSelected = errors.New("no files selected")
	// ErrInvalidFileType is returned for file names outside the accepted extensions.
	ErrInvalidFileType = errors.New("invalid file type")
)
