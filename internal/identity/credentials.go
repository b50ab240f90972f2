package identity

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials is the service account file for the identity provider.
type Credentials struct {
	Origin string `json:"origin"`
	APIKey string `json:"api_key"`
}

// LoadCredentials reads and validates the provider credentials file.
// The caller is expected to treat a failure here as fatal.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("identity provider credentials file not found at %s: %w", path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("identity provider credentials file %s is not valid JSON: %w", path, err)
	}
	if creds.Origin == "" || creds.APIKey == "" {
		return nil, fmt.Errorf("identity provider credentials file %s must set origin and api_key", path)
	}

	return &creds, nil
}
