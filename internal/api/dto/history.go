package dto

import (
	"time"

	"audioscribe/internal/api/errors"
	"audioscribe/internal/app/model"
)

// AddHistoryRequest represents the body of POST /api/history.
type AddHistoryRequest struct {
	Kind          string          `json:"kind" binding:"required"`
	Text          string          `json:"text" binding:"required"`
	Language      string          `json:"language,omitempty"`
	LanguageCodes []string        `json:"languageCodes,omitempty"`
	Metadata      *model.Metadata `json:"metadata,omitempty"`
}

// Validate performs domain-specific validation
func (r *AddHistoryRequest) Validate() error {
	validationErrors := make(map[string]string)

	if !model.ItemKind(r.Kind).Valid() {
		validationErrors["kind"] = "must be one of: transcription, text"
	}
	if r.Language != "" && !model.ValidLanguage(r.Language) {
		validationErrors["language"] = "must be one of: fr, en"
	}
	for _, code := range r.LanguageCodes {
		if !model.ValidLanguage(code) {
			validationErrors["languageCodes"] = "must contain only: fr, en"
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Invalid history item", validationErrors)
	}
	return nil
}

// ImportItem is one element of the POST /api/history/import body. It
// accepts both the canonical schema and the legacy status/url/transcript
// shape from older exports.
type ImportItem struct {
	ID            string          `json:"id"`
	Kind          model.ItemKind  `json:"kind"`
	Text          string          `json:"text"`
	Language      string          `json:"language,omitempty"`
	LanguageCodes []string        `json:"languageCodes,omitempty"`
	Metadata      *model.Metadata `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`

	// Legacy fields.
	Status          string `json:"status,omitempty"`
	URL             string `json:"url,omitempty"`
	Transcript      string `json:"transcript,omitempty"`
	LegacyCreatedAt string `json:"created_at,omitempty"`
}

// ToModel converts an imported element to the canonical schema, migrating
// the legacy shape when the canonical discriminator is absent.
func (i ImportItem) ToModel() model.HistoryItem {
	if i.Kind == "" && (i.Transcript != "" || i.Status != "") {
		legacy := model.LegacyHistoryItem{
			ID:         i.ID,
			Status:     i.Status,
			URL:        i.URL,
			Transcript: i.Transcript,
			CreatedAt:  i.LegacyCreatedAt,
		}
		return legacy.ToHistoryItem()
	}

	createdAt := i.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return model.HistoryItem{
		ID:            i.ID,
		Kind:          i.Kind,
		Text:          i.Text,
		Language:      i.Language,
		LanguageCodes: i.LanguageCodes,
		Metadata:      i.Metadata,
		CreatedAt:     createdAt,
	}
}

// MessageResponse is the generic confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
