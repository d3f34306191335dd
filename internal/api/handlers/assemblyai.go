package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audioscribe/internal/api/dto"
	"audioscribe/internal/api/errors"
	"audioscribe/internal/api/middleware"
	"audioscribe/internal/app/assemblyai"
)

// AssemblyAIHandler proxies upload, job creation and poll requests to the
// transcription provider.
type AssemblyAIHandler struct {
	client *assemblyai.Client
}

// NewAssemblyAIHandler creates a new provider proxy handler
func NewAssemblyAIHandler(client *assemblyai.Client) *AssemblyAIHandler {
	return &AssemblyAIHandler{client: client}
}

// Upload handles POST /api/assemblyai/upload (multipart file)
func (h *AssemblyAIHandler) Upload(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	uploadURL, err := h.client.Upload(c.Request.Context(), file)
	if err != nil {
		middleware.HandleError(c, assemblyai.ErrorFor(err))
		return
	}
	c.JSON(http.StatusOK, dto.UploadResponse{UploadURL: uploadURL})
}

// CreateTranscript handles POST /api/assemblyai/transcripts
func (h *AssemblyAIHandler) CreateTranscript(c *gin.Context) {
	var req dto.CreateTranscriptRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	transcript, err := h.client.CreateTranscript(c.Request.Context(), assemblyai.TranscriptRequest{
		AudioURL:      req.AudioURL,
		LanguageCode:  req.LanguageCode,
		LanguageCodes: req.LanguageCodes,
		SpeakerLabels: req.SpeakerLabels,
		Punctuate:     req.Punctuate,
	})
	if err != nil {
		middleware.HandleError(c, assemblyai.ErrorFor(err))
		return
	}

	// Forward the provider response unchanged.
	c.Data(http.StatusOK, "application/json", transcript.Raw)
}

// GetTranscript handles GET /api/assemblyai/transcripts/:id
func (h *AssemblyAIHandler) GetTranscript(c *gin.Context) {
	transcript, err := h.client.GetTranscript(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, assemblyai.ErrorFor(err))
		return
	}
	c.Data(http.StatusOK, "application/json", transcript.Raw)
}
