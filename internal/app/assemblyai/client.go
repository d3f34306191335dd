package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apierrors "audioscribe/internal/api/errors"
	"audioscribe/internal/app/metrics"
	"audioscribe/internal/app/secret"
)

// DefaultBaseURL is the AssemblyAI v2 API root.
const DefaultBaseURL = "https://api.assemblyai.com/v2"

// Transcript job statuses reported by the provider.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// TranscriptRequest is the job creation payload. LanguageCodes takes
// precedence over LanguageCode when both are present and non-empty.
type TranscriptRequest struct {
	AudioURL      string   `json:"audio_url"`
	LanguageCode  string   `json:"language_code,omitempty"`
	LanguageCodes []string `json:"language_codes,omitempty"`
	SpeakerLabels *bool    `json:"speaker_labels,omitempty"`
	Punctuate     *bool    `json:"punctuate,omitempty"`
}

// Transcript is the provider's view of a job. Raw carries the full
// provider response so the proxy can forward fields it does not model.
type Transcript struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Text         string `json:"text,omitempty"`
	Error        string `json:"error,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	AudioURL     string `json:"audio_url,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Terminal reports whether the job reached a final state.
func (t Transcript) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusError
}

// Client forwards upload, create and poll requests to AssemblyAI and
// normalizes its error responses. The credential is resolved from the
// secret store before every call; a missing credential short-circuits
// without touching the network.
type Client struct {
	baseURL string
	secrets secret.Store
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a provider client. An empty baseURL selects the
// production API.
func NewClient(baseURL string, secrets secret.Store, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		secrets: secrets,
		http:    &http.Client{Timeout: 5 * time.Minute},
		logger:  logger,
	}
}

func (c *Client) apiKey() (string, error) {
	key, err := c.secrets.Get()
	if err != nil {
		return "", apierrors.NewInternalError("failed to read provider API key")
	}
	if key == "" {
		return "", apierrors.NewNotConfiguredError("ASSEMBLYAI_API_KEY is not configured")
	}
	return key, nil
}

// Upload forwards a binary payload to the provider's upload endpoint and
// returns the provider-issued reference URL.
func (c *Client) Upload(ctx context.Context, payload io.Reader) (string, error) {
	key, err := c.apiKey()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", payload)
	if err != nil {
		return "", apierrors.NewInternalError("failed to build upload request")
	}
	req.Header.Set("Authorization", key)
	req.Header.Set("Content-Type", "application/octet-stream")

	body, err := c.do(req, "upload", nil)
	if err != nil {
		return "", err
	}

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apierrors.NewUpstreamError(http.StatusBadGateway)
	}
	return result.UploadURL, nil
}

// CreateTranscript submits a transcription job.
func (c *Client) CreateTranscript(ctx context.Context, treq TranscriptRequest) (Transcript, error) {
	key, err := c.apiKey()
	if err != nil {
		return Transcript{}, err
	}

	// language_codes wins over language_code when both are supplied.
	if len(treq.LanguageCodes) > 0 {
		treq.LanguageCode = ""
	}

	payload, err := json.Marshal(treq)
	if err != nil {
		return Transcript{}, apierrors.NewInternalError("failed to encode transcript request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return Transcript{}, apierrors.NewInternalError("failed to build transcript request")
	}
	req.Header.Set("Authorization", key)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "create", nil)
	if err != nil {
		return Transcript{}, err
	}
	return decodeTranscript(body)
}

// GetTranscript fetches the current state of a job.
func (c *Client) GetTranscript(ctx context.Context, id string) (Transcript, error) {
	key, err := c.apiKey()
	if err != nil {
		return Transcript{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+id, nil)
	if err != nil {
		return Transcript{}, apierrors.NewInternalError("failed to build transcript request")
	}
	req.Header.Set("Authorization", key)

	notFound := apierrors.NewNotFoundError("transcript")
	body, err := c.do(req, "poll", notFound)
	if err != nil {
		return Transcript{}, err
	}
	return decodeTranscript(body)
}

// do executes the request and translates failure statuses into the error
// taxonomy. on404 overrides the generic upstream error for endpoints where
// a 404 means a missing job.
func (c *Client) do(req *http.Request, endpoint string, on404 *apierrors.APIError) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("provider request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, apierrors.NewUpstreamError(http.StatusBadGateway)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, apierrors.NewUpstreamError(http.StatusBadGateway)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error("provider returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, apierrors.NewInvalidCredentialError(resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound && on404 != nil:
			return nil, on404
		default:
			return nil, apierrors.NewUpstreamError(resp.StatusCode)
		}
	}

	metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

func decodeTranscript(body []byte) (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(body, &t); err != nil {
		return Transcript{}, apierrors.NewUpstreamError(http.StatusBadGateway)
	}
	t.Raw = json.RawMessage(body)
	return t, nil
}

// ErrorFor maps any error returned by the client to an APIError. Non-API
// errors become internal errors.
func ErrorFor(err error) *apierrors.APIError {
	if apiErr, ok := err.(*apierrors.APIError); ok {
		return apiErr
	}
	return apierrors.NewInternalError(fmt.Sprintf("provider call failed: %v", err))
}
