package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audioscribe/internal/api/dto"
	"audioscribe/internal/api/errors"
	"audioscribe/internal/api/middleware"
	"audioscribe/internal/app/secret"
)

// ConfigHandler manages the provider credential.
type ConfigHandler struct {
	secrets secret.Store
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(secrets secret.Store) *ConfigHandler {
	return &ConfigHandler{secrets: secrets}
}

// GetAPIKey handles GET /api/config/api-key. Only a masked form of the
// credential is ever returned.
func (h *ConfigHandler) GetAPIKey(c *gin.Context) {
	key, err := h.secrets.Get()
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to read API key"))
		return
	}
	if key == "" {
		c.JSON(http.StatusOK, dto.APIKeyResponse{Configured: false})
		return
	}
	c.JSON(http.StatusOK, dto.APIKeyResponse{
		APIKey:     secret.Mask(key),
		Configured: true,
		FullLength: len(key),
	})
}

// SetAPIKey handles POST /api/config/api-key
func (h *ConfigHandler) SetAPIKey(c *gin.Context) {
	var req dto.SetAPIKeyRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.secrets.Set(req.APIKey); err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to save API key"))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "API key updated successfully"})
}
