package secret

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// EnvKey is the environment variable consulted when no key has been saved
// through the store.
const EnvKey = "ASSEMBLYAI_API_KEY"

// Store is the single authoritative home of the provider credential.
type Store interface {
	// Get returns the credential, or "" when none is configured.
	Get() (string, error)
	Set(apiKey string) error
}

// FileStore persists the credential in a small JSON document. The
// environment variable is a read-only fallback for deployments that inject
// the key from outside.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type keyFile struct {
	APIKey string `json:"assemblyai_api_key"`
}

func (s *FileStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err == nil {
		var kf keyFile
		if err := json.Unmarshal(data, &kf); err == nil && kf.APIKey != "" {
			return kf.APIKey, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read api key file: %w", err)
	}

	return strings.TrimSpace(os.Getenv(EnvKey)), nil
}

func (s *FileStore) Set(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("api key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(keyFile{APIKey: apiKey}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write api key file: %w", err)
	}
	return nil
}

// Mask returns the credential with only its first and last four characters
// visible. Short keys are fully masked.
func Mask(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:4] + strings.Repeat("*", len(apiKey)-8) + apiKey[len(apiKey)-4:]
}
