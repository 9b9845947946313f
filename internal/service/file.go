package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"filedesk/internal/csvdoc"
	"filedesk/internal/model"
	"filedesk/internal/repository"
	"filedesk/internal/storage"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("file not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrSearchTermRequired = errors.New("search term is required")
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
)

const (
	defaultMaxUploadBytes = 10 << 20
	defaultPreviewRows    = 10
	defaultExportExpiry   = 15 * time.Minute
)

// FileListResult is the service-level DTO for file listings.
type FileListResult struct {
	Items []model.FileSummary `json:"data"`
	Total int                 `json:"total"`
}

// StatsResult reports table totals with a human-readable size.
type StatsResult struct {
	Count          int64  `json:"count"`
	TotalSize      int64  `json:"total_size"`
	TotalSizeHuman string `json:"total_size_human"`
}

// DocumentView describes the columns of a parsed file for column pickers.
type DocumentView struct {
	FileID   string     `json:"file_id,omitempty"`
	FileName string     `json:"file_name"`
	Headers  []string   `json:"headers"`
	RowCount int        `json:"row_count"`
	Preview  [][]string `json:"preview"`
}

// FilterResult is a column-filtered file ready for download.
type FilterResult struct {
	FileName    string     `json:"file_name"`
	Content     string     `json:"content"`
	Size        int        `json:"size"`
	Headers     []string   `json:"headers"`
	RowCount    int        `json:"row_count"`
	Preview     [][]string `json:"preview"`
	Unresolved  []string   `json:"unresolved,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
}

// JoinRequest selects stored files and how to combine them.
type JoinRequest struct {
	IDs    []string
	Method csvdoc.Method
	// Banners labels each concatenated file with its name.
	Banners bool
}

// JoinResult is the combined content of several stored files.
type JoinResult struct {
	FileName      string        `json:"file_name"`
	Content       string        `json:"content"`
	Size          int           `json:"size"`
	Method        csvdoc.Method `json:"join_method"`
	OriginalFiles []string      `json:"original_files"`
	DownloadURL   string        `json:"download_url,omitempty"`
}

// Options tune a FileService. Zero values select defaults.
type Options struct {
	MaxUploadBytes int64
	PreviewRows    int
	ExportExpiry   time.Duration
}

// FileService defines the use cases over stored and uploaded CSV files.
type FileService interface {
	// List returns every stored file without content.
	List(ctx context.Context) (*FileListResult, error)

	// Get returns a stored file including its content.
	Get(ctx context.Context, id string) (*model.StoredFile, error)

	// Search returns stored files whose name contains term, ignoring case.
	Search(ctx context.Context, term string) (*FileListResult, error)

	// Stats returns the number of stored files and their total size.
	Stats(ctx context.Context) (*StatsResult, error)

	// Upload validates, decodes and stores an uploaded file.
	Upload(ctx context.Context, r io.Reader, name string, size int64) (*model.FileSummary, error)

	// Columns parses a stored file and describes its columns.
	Columns(ctx context.Context, id string) (*DocumentView, error)

	// Filter projects a stored file onto the selected columns.
	Filter(ctx context.Context, id string, columns []string) (*FilterResult, error)

	// Join combines several stored files into one.
	Join(ctx context.Context, req JoinRequest) (*JoinResult, error)

	// InspectUpload describes the columns of an uploaded file without storing it.
	InspectUpload(ctx context.Context, r io.Reader, name string, size int64) (*DocumentView, error)

	// FilterUpload projects an uploaded file onto the selected columns without storing it.
	FilterUpload(ctx context.Context, r io.Reader, name string, size int64, columns []string) (*FilterResult, error)

	// Ping checks that the file store is reachable.
	Ping(ctx context.Context) error
}

// fileService is a concrete implementation of FileService.
type fileService struct {
	repo  repository.FileRepository
	store storage.Storage
	opts  Options
	now   func() time.Time
}

// NewFileService constructs a new FileService. store may be nil, in which case
// results are not exported to object storage.
func NewFileService(repo repository.FileRepository, store storage.Storage, opts Options) FileService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = defaultPreviewRows
	}
	if opts.ExportExpiry <= 0 {
		opts.ExportExpiry = defaultExportExpiry
	}
	return &fileService{repo: repo, store: store, opts: opts, now: time.Now}
}

func (s *fileService) List(ctx context.Context) (*FileListResult, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &FileListResult{Items: items, Total: len(items)}, nil
}

func (s *fileService) Get(ctx context.Context, id string) (*model.StoredFile, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *fileService) Search(ctx context.Context, term string) (*FileListResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	items, err := s.repo.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}
	return &FileListResult{Items: items, Total: len(items)}, nil
}

func (s *fileService) Stats(ctx context.Context) (*StatsResult, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResult{
		Count:          st.Count,
		TotalSize:      st.TotalSize,
		TotalSizeHuman: csvdoc.FormatSize(st.TotalSize),
	}, nil
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, name string, size int64) (*model.FileSummary, error) {
	text, _, err := s.readUpload(r, name, size)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Create(ctx, name, text)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	summary := stored.Summary()
	return &summary, nil
}

func (s *fileService) Columns(ctx context.Context, id string) (*DocumentView, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := csvdoc.Build(f.Content)
	if err != nil {
		return nil, err
	}
	view := s.view(f.Name, doc)
	view.FileID = f.ID
	return view, nil
}

func (s *fileService) Filter(ctx context.Context, id string, columns []string) (*FilterResult, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := csvdoc.Build(f.Content)
	if err != nil {
		return nil, err
	}
	res, err := s.project(csvdoc.FilteredFilename(f.Name), doc, columns)
	if err != nil {
		return nil, err
	}
	if res.DownloadURL, err = s.export(ctx, res.FileName, res.Content); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *fileService) Join(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	if len(req.IDs) == 0 {
		return nil, csvdoc.ErrNoFilesSelected
	}
	files, err := s.repo.FindByIDs(ctx, req.IDs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNotFound
	}

	method := csvdoc.ParseMethod(string(req.Method))
	contents := make([]string, len(files))
	named := make([]csvdoc.NamedContent, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		contents[i] = f.Content
		named[i] = csvdoc.NamedContent{Name: f.Name, Content: f.Content}
		names[i] = f.Name
	}

	var content string
	if req.Banners {
		content, err = csvdoc.JoinNamed(named, method)
	} else {
		content, err = csvdoc.Join(contents, method)
	}
	if err != nil {
		return nil, err
	}

	res := &JoinResult{
		FileName:      csvdoc.JoinedFilename(s.now()),
		Content:       content,
		Size:          len(content),
		Method:        method,
		OriginalFiles: names,
	}
	if res.DownloadURL, err = s.export(ctx, res.FileName, res.Content); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *fileService) InspectUpload(_ context.Context, r io.Reader, name string, size int64) (*DocumentView, error) {
	_, doc, err := s.readUpload(r, name, size)
	if err != nil {
		return nil, err
	}
	return s.view(name, doc), nil
}

func (s *fileService) FilterUpload(_ context.Context, r io.Reader, name string, size int64, columns []string) (*FilterResult, error) {
	_, doc, err := s.readUpload(r, name, size)
	if err != nil {
		return nil, err
	}
	return s.project(csvdoc.UploadFilteredFilename(name), doc, columns)
}

func (s *fileService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// readUpload checks the file type and size before parsing, then decodes and parses the body.
func (s *fileService) readUpload(r io.Reader, name string, size int64) (string, *csvdoc.Document, error) {
	if err := csvdoc.ValidateFileType(name); err != nil {
		return "", nil, err
	}
	if r == nil {
		return "", nil, ErrReaderNil
	}
	if size > s.opts.MaxUploadBytes {
		return "", nil, ErrFileTooLarge
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, s.opts.MaxUploadBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if n > s.opts.MaxUploadBytes {
		return "", nil, ErrFileTooLarge
	}

	text, err := csvdoc.Decode(buf.Bytes())
	if err != nil {
		return "", nil, err
	}
	doc, err := csvdoc.Build(text)
	if err != nil {
		return "", nil, err
	}
	return text, doc, nil
}

func (s *fileService) view(name string, doc *csvdoc.Document) *DocumentView {
	return &DocumentView{
		FileName: name,
		Headers:  doc.Headers,
		RowCount: len(doc.Rows),
		Preview:  doc.Preview(s.opts.PreviewRows),
	}
}

// project filters doc to columns; fileName names the resulting download.
func (s *fileService) project(fileName string, doc *csvdoc.Document, columns []string) (*FilterResult, error) {
	p, err := csvdoc.Project(doc, columns)
	if err != nil {
		return nil, err
	}
	content := csvdoc.Serialize(p.Document)
	return &FilterResult{
		FileName:   fileName,
		Content:    content,
		Size:       len(content),
		Headers:    p.Document.Headers,
		RowCount:   len(p.Document.Rows),
		Preview:    p.Document.Preview(s.opts.PreviewRows),
		Unresolved: p.Unresolved,
	}, nil
}

// export writes content to object storage and returns a presigned download URL.
// Without a store it returns "".
func (s *fileService) export(ctx context.Context, fileName, content string) (string, error) {
	if s.store == nil {
		return "", nil
	}

	key := path.Join("exports", ksuid.New().String(), csvdoc.SanitizeFilename(fileName))
	if _, err := s.store.Put(ctx, key, strings.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: "text/csv",
		Metadata: map[string]string{
			"original-filename": fileName,
		},
	}); err != nil {
		return "", fmt.Errorf("export to storage: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, s.opts.ExportExpiry)
	if err != nil {
		// Rollback: delete the exported object
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return "", fmt.Errorf("presign export failed: %v; rollback delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("presign export: %w", err)
	}
	return url, nil
}
