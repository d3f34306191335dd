package model

import (
	"time"
)

// ItemKind discriminates between items produced by the transcription flow
// and plain text notes saved by the user.
type ItemKind string

const (
	KindTranscription ItemKind = "transcription"
	KindText          ItemKind = "text"
)

// Valid reports whether the kind is one of the known discriminators.
func (k ItemKind) Valid() bool {
	return k == KindTranscription || k == KindText
}

// Metadata carries optional free-form attributes of a history item.
type Metadata struct {
	Filename      string `json:"filename,omitempty"`
	SpeakerLabels bool   `json:"speakerLabels,omitempty"`
	Punctuate     bool   `json:"punctuate,omitempty"`
}

// HistoryItem is one persisted transcription or text record shown in the
// recent-activity list. ID and CreatedAt are assigned at creation and never
// change; CreatedAt is the sole sort key (newest first).
type HistoryItem struct {
	ID            string    `json:"id"`
	Kind          ItemKind  `json:"kind"`
	Text          string    `json:"text"`
	Language      string    `json:"language,omitempty"`
	LanguageCodes []string  `json:"languageCodes,omitempty"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SupportedLanguages is the closed set of single-language tags.
var SupportedLanguages = []string{"fr", "en"}

// ValidLanguage reports whether tag belongs to the supported set.
func ValidLanguage(tag string) bool {
	for _, l := range SupportedLanguages {
		if tag == l {
			return true
		}
	}
	return false
}

// LegacyHistoryItem is the older persisted shape (status/url/transcript).
// It survives only as a migration case on import.
type LegacyHistoryItem struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	URL        string `json:"url"`
	Transcript string `json:"transcript"`
	CreatedAt  string `json:"created_at"`
}

// ToHistoryItem converts a legacy record to the canonical schema. The
// transcript body becomes the item text and the source URL is kept as the
// filename metadata so nothing user-visible is lost.
func (l LegacyHistoryItem) ToHistoryItem() HistoryItem {
	createdAt, err := time.Parse(time.RFC3339, l.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}
	return HistoryItem{
		ID:        l.ID,
		Kind:      KindTranscription,
		Text:      l.Transcript,
		Metadata:  &Metadata{Filename: l.URL},
		CreatedAt: createdAt,
	}
}
