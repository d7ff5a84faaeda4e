// Package keystore persists the provider API key for the CLI between
// runs, the way the browser app keeps it in local storage. One secret,
// one file, owner-only permissions.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const apiKeyField = "api_key"

type Store struct {
	path string
}

// DefaultPath resolves to ~/.config/echoscribe/credentials.json.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(configDir, "echoscribe", "credentials.json"), nil
}

func New(path string) *Store {
	return &Store{path: path}
}

// Get returns the stored value and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes the value, creating the store file on first use.
func (s *Store) Set(key, value string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// APIKey is the Get shorthand for the one secret the CLI cares about.
func (s *Store) APIKey() (string, bool, error) {
	return s.Get(apiKeyField)
}

func (s *Store) SetAPIKey(value string) error {
	return s.Set(apiKeyField, value)
}

func (s *Store) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return values, nil
}
