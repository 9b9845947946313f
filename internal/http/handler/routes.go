package handler

import (
	"context"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filedesk/internal/csvdoc"
	"filedesk/internal/service"
)

const healthTimeout = 2 * time.Second

const (
	// HeaderUnresolvedCount carries the number of selected columns that matched no header.
	HeaderUnresolvedCount = "X-Unresolved-Columns-Count"
	// HeaderUnresolvedColumns lists those columns, query-escaped and comma-separated.
	HeaderUnresolvedColumns = "X-Unresolved-Columns"
)

var validate = validator.New()

// joinBody is the JSON body of POST /api/files/join.
type joinBody struct {
	FileIDs    []string `json:"file_ids" validate:"dive,uuid"`
	JoinMethod string   `json:"join_method"`
	Banners    bool     `json:"banners"`
}

// filterBody is the JSON body of POST /api/files/:id/filter.
// An empty name is allowed and selects a column whose header is empty.
type filterBody struct {
	Columns []string `json:"columns"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// When gatherer is nil the /metrics endpoint is not mounted.
func RegisterRoutes(app *fiber.App, svc service.FileService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	files := app.Group("/api/files")
	files.Get("/", ListFiles(svc))
	files.Get("/search", SearchFiles(svc))
	files.Get("/stats", FileStats(svc))
	files.Post("/", UploadFile(svc))
	files.Post("/join", JoinFiles(svc))
	files.Get("/:id", GetFile(svc))
	files.Get("/:id/columns", FileColumns(svc))
	files.Post("/:id/filter", FilterFile(svc))

	uploads := app.Group("/api/uploads")
	uploads.Post("/inspect", InspectUpload(svc))
	uploads.Post("/filter", FilterUpload(svc))
}

// HealthCheck godoc
// @Summary Readiness check
// @Description Checks database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"database":  "connected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListFiles godoc
// @Summary List stored files
// @Tags files
// @Produce json
// @Success 200 {object} service.FileListResult
// @Router /api/files [get]
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchFiles godoc
// @Summary Search stored files by name
// @Tags files
// @Produce json
// @Param q query string true "name fragment, case-insensitive"
// @Success 200 {object} service.FileListResult
// @Failure 400 {object} errorPayload
// @Router /api/files/search [get]
func SearchFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// FileStats godoc
// @Summary Count and total size of stored files
// @Tags files
// @Produce json
// @Success 200 {object} service.StatsResult
// @Router /api/files/stats [get]
func FileStats(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Stats(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetFile godoc
// @Summary Get a stored file with its content
// @Tags files
// @Produce json
// @Param id path string true "file id (uuid)"
// @Success 200 {object} model.StoredFile
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/files/{id} [get]
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		f, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(f)
	}
}

// FileColumns godoc
// @Summary Describe the columns of a stored file
// @Tags files
// @Produce json
// @Param id path string true "file id (uuid)"
// @Success 200 {object} service.DocumentView
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/files/{id}/columns [get]
func FileColumns(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.Columns(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	}
}

// UploadFile godoc
// @Summary Upload and store a CSV file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "csv file"
// @Success 201 {object} model.FileSummary
// @Failure 413 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/files [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		summary, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(summary)
	}
}

// JoinFiles godoc
// @Summary Join stored files
// @Description Concatenates or merges stored files line by line. With download=1 the result is sent as a CSV attachment.
// @Tags files
// @Accept json
// @Produce json
// @Produce text/csv
// @Param body body joinBody true "files to join"
// @Param download query bool false "send as attachment"
// @Success 200 {object} service.JoinResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/files/join [post]
func JoinFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body joinBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return respondError(c, err)
		}

		res, err := svc.Join(c.UserContext(), service.JoinRequest{
			IDs:     body.FileIDs,
			Method:  csvdoc.Method(body.JoinMethod),
			Banners: body.Banners,
		})
		if err != nil {
			return respondError(c, err)
		}
		if c.QueryBool("download") {
			return sendCSV(c, res.FileName, res.Content)
		}
		return c.JSON(res)
	}
}

// FilterFile godoc
// @Summary Keep only the selected columns of a stored file
// @Tags files
// @Accept json
// @Produce json
// @Produce text/csv
// @Param id path string true "file id (uuid)"
// @Param body body filterBody true "columns to keep, in output order"
// @Param download query bool false "send as attachment"
// @Success 200 {object} service.FilterResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/files/{id}/filter [post]
func FilterFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body filterBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Filter(c.UserContext(), id, body.Columns)
		if err != nil {
			return respondError(c, err)
		}
		if c.QueryBool("download") {
			flagUnresolved(c, res.Unresolved)
			return sendCSV(c, res.FileName, res.Content)
		}
		return c.JSON(res)
	}
}

// InspectUpload godoc
// @Summary Describe the columns of an uploaded file without storing it
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "csv file"
// @Success 200 {object} service.DocumentView
// @Failure 415 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/uploads/inspect [post]
func InspectUpload(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		view, err := svc.InspectUpload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	}
}

// FilterUpload godoc
// @Summary Filter the columns of an uploaded file and download the result
// @Tags uploads
// @Accept multipart/form-data
// @Produce text/csv
// @Param file formData file true "csv file"
// @Param columns formData []string true "columns to keep, in output order" collectionFormat(multi)
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Router /api/uploads/filter [post]
func FilterUpload(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		fh := firstFile(form, "file")
		if fh == nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.FilterUpload(c.UserContext(), f, fh.Filename, fh.Size, form.Value["columns"])
		if err != nil {
			return respondError(c, err)
		}
		flagUnresolved(c, res.Unresolved)
		return sendCSV(c, res.FileName, res.Content)
	}
}

func fileID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

// flagUnresolved reports selected columns that matched no header on CSV
// attachment responses, which have no JSON body to carry them.
func flagUnresolved(c *fiber.Ctx, names []string) {
	c.Set(HeaderUnresolvedCount, strconv.Itoa(len(names)))
	if len(names) == 0 {
		return
	}
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = url.QueryEscape(n)
	}
	c.Set(HeaderUnresolvedColumns, strings.Join(escaped, ","))
}

func sendCSV(c *fiber.Ctx, name, content string) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(content)
}
