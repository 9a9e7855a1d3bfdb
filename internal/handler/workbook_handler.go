package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invox/internal/port"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookHandler handles workbook download endpoints.
type WorkbookHandler struct {
	store port.WorkbookStore
}

// NewWorkbookHandler creates a new WorkbookHandler.
func NewWorkbookHandler(store port.WorkbookStore) *WorkbookHandler {
	return &WorkbookHandler{store: store}
}

// Download handles GET /api/v1/workbooks/:id
// @Summary Download a generated workbook
// @Description Stream a previously generated Excel workbook
// @Tags workbooks
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Workbook ID (UUID)"
// @Success 200 {file} binary "The workbook"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Workbook not found"
// @Router /workbooks/{id} [get]
func (h *WorkbookHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workbook ID")
		return
	}

	reader, wb, err := h.store.Open(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer func() { _ = reader.Close() }()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", wb.FileName))
	c.DataFromReader(http.StatusOK, wb.Size, xlsxContentType, reader, nil)
}
