package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"audioscribe/internal/api/dto"
	"audioscribe/internal/app/history"
	"audioscribe/internal/app/secret"
)

// InfosHandler serves the health and diagnostic snapshot.
type InfosHandler struct {
	repo    history.Repository
	secrets secret.Store
	port    string
	started time.Time
}

// NewInfosHandler creates a new infos handler
func NewInfosHandler(repo history.Repository, secrets secret.Store, port string) *InfosHandler {
	return &InfosHandler{
		repo:    repo,
		secrets: secrets,
		port:    port,
		started: time.Now(),
	}
}

// Infos handles GET /api/infos
func (h *InfosHandler) Infos(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	key, _ := h.secrets.Get()

	c.JSON(http.StatusOK, dto.InfosResponse{
		Status:    "ok",
		Server:    "audioscribe",
		Port:      h.port,
		Timestamp: time.Now().UTC(),
		UptimeSec: time.Since(h.started).Seconds(),
		History: dto.HistoryInfos{
			Count:    count,
			Capacity: h.repo.Capacity(),
		},
		APIKey: dto.APIKeyInfos{
			Configured: key != "",
			Masked:     secret.Mask(key),
		},
		Environment: dto.EnvironmentInfo{
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS,
		},
	})
}
