package dto

import (
	"audioscribe/internal/api/errors"
	"audioscribe/internal/app/model"
)

// CreateTranscriptRequest represents the body of
// POST /api/assemblyai/transcripts. Field names follow the provider's wire
// format so the UI payload forwards unchanged.
type CreateTranscriptRequest struct {
	AudioURL      string   `json:"audio_url" binding:"required"`
	LanguageCode  string   `json:"language_code,omitempty"`
	LanguageCodes []string `json:"language_codes,omitempty"`
	SpeakerLabels *bool    `json:"speaker_labels,omitempty"`
	Punctuate     *bool    `json:"punctuate,omitempty"`
}

// Validate performs domain-specific validation
func (r *CreateTranscriptRequest) Validate() error {
	validationErrors := make(map[string]string)

	if r.LanguageCode != "" && !model.ValidLanguage(r.LanguageCode) {
		validationErrors["language_code"] = "must be one of: fr, en"
	}
	for _, code := range r.LanguageCodes {
		if !model.ValidLanguage(code) {
			validationErrors["language_codes"] = "must contain only: fr, en"
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Invalid transcript request", validationErrors)
	}
	return nil
}

// UploadResponse carries the provider-issued reference URL.
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
}
