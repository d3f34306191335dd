package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"audioscribe/internal/api/dto"
	"audioscribe/internal/api/errors"
	"audioscribe/internal/api/middleware"
	"audioscribe/internal/app/history"
	"audioscribe/internal/app/model"
)

// HistoryHandler serves the bounded history collection.
type HistoryHandler struct {
	repo history.Repository
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(repo history.Repository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to read history"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /api/history/:id
func (h *HistoryHandler) Get(c *gin.Context) {
	item, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err == history.ErrNotFound {
		middleware.HandleError(c, errors.NewNotFoundError("history item"))
		return
	}
	if err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to read history"))
		return
	}
	c.JSON(http.StatusOK, item)
}

// Add handles POST /api/history
func (h *HistoryHandler) Add(c *gin.Context) {
	var req dto.AddHistoryRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	item, err := h.repo.Add(c.Request.Context(), history.NewItem{
		Kind:          model.ItemKind(req.Kind),
		Text:          req.Text,
		Language:      req.Language,
		LanguageCodes: req.LanguageCodes,
		Metadata:      req.Metadata,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to save history item"))
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Delete handles DELETE /api/history/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to delete history item"))
		return
	}
	if !deleted {
		middleware.HandleError(c, errors.NewNotFoundError("history item"))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Item deleted"})
}

// Clear handles DELETE /api/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.repo.Clear(c.Request.Context()); err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to clear history"))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "History cleared"})
}

// Export handles GET /api/history/export. The whole collection is served
// as a downloadable JSON document.
func (h *HistoryHandler) Export(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to read history"))
		return
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to encode history"))
		return
	}

	filename := fmt.Sprintf("transcriptions-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles POST /api/history/import. The body must be a JSON array
// of history items; the legacy item shape is accepted and migrated.
func (h *HistoryHandler) Import(c *gin.Context) {
	var items []dto.ImportItem
	if err := c.ShouldBindJSON(&items); err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid JSON format: array expected"))
		return
	}

	candidates := lo.Map(items, func(it dto.ImportItem, _ int) model.HistoryItem {
		return it.ToModel()
	})

	if err := h.repo.ImportMerge(c.Request.Context(), candidates); err != nil {
		middleware.HandleError(c, errors.NewStorageError("failed to import history"))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "History imported successfully"})
}
