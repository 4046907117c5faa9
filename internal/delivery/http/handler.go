package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/labellens/backend/internal/domain"
)

// Response messages
const (
	MessageIndex        = "Image API - Send an image to /predict"
	MessageExtracted    = "Product details extracted successfully."
	MessageNoDetails    = "No relevant product details found."
	MessageUploadFailed = "Failed to upload the image"
)

// FormatXLSX selects the spreadsheet rendering of /predict
const FormatXLSX = "xlsx"

// LabelAnalyzer runs the extraction pipeline for one uploaded image
type LabelAnalyzer interface {
	Analyze(ctx context.Context, filename string, image []byte) (*domain.LabelReport, error)
}

// RecordExporter renders flat records as a downloadable document
type RecordExporter interface {
	Export(records []domain.FlatRecord) ([]byte, error)
	ContentType() string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	labelService LabelAnalyzer
	exporter     RecordExporter
}

// NewHandler creates a new HTTP handler
func NewHandler(labelService LabelAnalyzer, exporter RecordExporter) *Handler {
	return &Handler{
		labelService: labelService,
		exporter:     exporter,
	}
}

// Index describes the API
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": MessageIndex})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labellens-backend",
		"version": "1.0.0",
	})
}

// Predict extracts product details from the image in the multipart field "file".
// Every outcome is reported with status 200; failures carry only an "error" field.
func (h *Handler) Predict(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.WithError(err).Warn("missing or unreadable file field")
		respondError(c, fmt.Errorf("%w: %v", domain.ErrUpload, err))
		return
	}

	image, err := readUpload(fileHeader)
	if err != nil {
		log.WithError(err).WithField("filename", fileHeader.Filename).Warn("failed to read uploaded file")
		respondError(c, fmt.Errorf("%w: %v", domain.ErrUpload, err))
		return
	}

	report, err := h.labelService.Analyze(c.Request.Context(), fileHeader.Filename, image)
	if err != nil {
		respondError(c, err)
		return
	}

	if report.Outcome == domain.OutcomeEmpty {
		c.JSON(http.StatusOK, gin.H{
			"filename": report.Filename,
			"message":  MessageNoDetails,
		})
		return
	}

	if strings.EqualFold(c.Query("format"), FormatXLSX) && h.exporter != nil {
		h.respondSpreadsheet(c, report)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":        report.Filename,
		"message":         MessageExtracted,
		"product_details": report.Records,
	})
}

// respondSpreadsheet sends the records as an attachment named after the upload
func (h *Handler) respondSpreadsheet(c *gin.Context, report *domain.LabelReport) {
	data, err := h.exporter.Export(report.Records)
	if err != nil {
		log.WithError(err).WithField("filename", report.Filename).Error("failed to export records")
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(report.Filename)))
	c.Data(http.StatusOK, h.exporter.ContentType(), data)
}

// respondError writes {"error": message}. Upload failures use a fixed message;
// everything else exposes the error text.
func respondError(c *gin.Context, err error) {
	message := err.Error()
	if errors.Is(err, domain.ErrUpload) {
		message = MessageUploadFailed
	}
	c.JSON(http.StatusOK, gin.H{"error": message})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// exportName turns "label.png" into "label.xlsx"
func exportName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "product_details"
	}
	return base + "." + FormatXLSX
}
