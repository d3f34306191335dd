package dto

// SetAPIKeyRequest represents the body of POST /api/config/api-key.
type SetAPIKeyRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// APIKeyResponse is the masked credential view. The raw value is never
// returned.
type APIKeyResponse struct {
	APIKey     string `json:"apiKey,omitempty"`
	Configured bool   `json:"configured"`
	FullLength int    `json:"fullLength,omitempty"`
}
