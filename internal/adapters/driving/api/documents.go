package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// DocumentResponse is an ingested document as served over HTTP.
type DocumentResponse struct {
	ID               string     `json:"id"`
	OriginalName     string     `json:"originalName"`
	Format           string     `json:"format"`
	Extension        string     `json:"extension"`
	Size             int64      `json:"size"`
	ExtractedText    string     `json:"extractedText"`
	ExtractionMethod string     `json:"extractionMethod"`
	PageCount        int        `json:"pageCount,omitempty"`
	RemoteItemID     *string    `json:"remoteItemId"`
	RemoteDriveID    string     `json:"remoteDriveId,omitempty"`
	RemoteFolder     string     `json:"remoteFolder,omitempty"`
	Checksum         string     `json:"checksum"`
	Tags             []string   `json:"tags"`
	ProcessedAt      *time.Time `json:"processedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (s *Server) registerDocumentRoutes(g *echo.Group) {
	limit := fmt.Sprintf("%dM", s.cfg.MaxUploadMB)
	g.POST("/upload", s.upload, middleware.BodyLimit(limit))
	g.GET("", s.listDocuments)
	g.GET("/:id", s.getDocument)
	g.GET("/:id/file", s.getFile)
	g.POST("/:id/reprocess", s.reprocess)
}

// upload handles POST /api/documents/upload with a multipart "file" field.
func (s *Server) upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "No file uploaded",
		})
	}

	name := filepath.Base(file.Filename)
	if !domain.IsAcceptedName(name) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("File type %s not allowed", strings.ToLower(filepath.Ext(name))),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to process uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to read uploaded file",
		})
	}

	doc, err := s.ports.Ingest.IngestUploadedFile(c.Request().Context(), name, data)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// listDocuments handles GET /api/documents.
// Query parameters: format, remote, limit, offset.
func (s *Server) listDocuments(c echo.Context) error {
	var (
		format string
		filter domain.DocumentFilter
	)
	err := echo.QueryParamsBinder(c).
		String("format", &format).
		Bool("remote", &filter.RemoteOnly).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid query parameters",
		})
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "limit and offset must not be negative",
		})
	}
	if format != "" {
		f, ok := domain.FormatFromExtension("." + format)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("unknown format %q", format),
			})
		}
		filter.Format = f
	}

	docs, err := s.ports.Ingest.List(c.Request().Context(), filter)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// getDocument handles GET /api/documents/:id.
func (s *Server) getDocument(c echo.Context) error {
	doc, err := s.ports.Ingest.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toDocumentResponse(doc))
}

// getFile handles GET /api/documents/:id/file and serves the original bytes.
func (s *Server) getFile(c echo.Context) error {
	doc, data, err := s.ports.Ingest.Original(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	contentType := mime.TypeByExtension(doc.Extension)
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName}))
	return c.Blob(http.StatusOK, contentType, data)
}

// reprocess handles POST /api/documents/:id/reprocess.
func (s *Server) reprocess(c echo.Context) error {
	doc, err := s.ports.Ingest.Reprocess(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toDocumentResponse(doc))
}

func toDocumentResponse(d *domain.IngestedDocument) DocumentResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return DocumentResponse{
		ID:               d.ID,
		OriginalName:     d.OriginalName,
		Format:           d.Format.String(),
		Extension:        d.Extension,
		Size:             d.Size,
		ExtractedText:    d.ExtractedText,
		ExtractionMethod: string(d.ExtractionMethod),
		PageCount:        d.PageCount,
		RemoteItemID:     d.RemoteItemID,
		RemoteDriveID:    d.RemoteDriveID,
		RemoteFolder:     d.RemoteFolder,
		Checksum:         d.Checksum,
		Tags:             tags,
		ProcessedAt:      timePtr(d.ProcessedAt),
		CreatedAt:        d.CreatedAt,
	}
}
