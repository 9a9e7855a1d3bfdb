package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invox/internal/service"
)

// BatchHandler handles batch processing endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Create handles POST /api/v1/batches
// @Summary Process a batch of PDF invoices
// @Description Upload one or more PDF invoices; each is converted to text, run through field extraction, and collected into an Excel workbook
// @Tags batches
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "PDF invoices to process"
// @Success 200 {object} APIResponse "Batch summary with workbook ID"
// @Failure 400 {object} APIResponse "Missing files, non-PDF upload, or batch too large"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "No file processed successfully"
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form required")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "NO_FILES", "files field is required")
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	opened := make([]interface{ Close() error }, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file: "+header.Filename)
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, service.Upload{
			Name:   header.Filename,
			Size:   header.Size,
			Reader: f,
		})
	}

	summary, err := h.batchService.Run(c.Request.Context(), uploads)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}
