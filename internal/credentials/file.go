package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/filecms/internal/model"
)

// LoadAll reads the credentials file: a YAML map of username to password hash.
func LoadAll(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(model.ErrConfig, fmt.Errorf("failed to read %s: %w", path, err))
	}

	users := map[string]string{}
	if len(bytes.TrimSpace(data)) == 0 {
		return users, nil
	}
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, errors.Join(model.ErrConfig, fmt.Errorf("failed to parse %s: %w", path, err))
	}

	for username, hash := range users {
		if strings.TrimSpace(username) == "" || hash == "" {
			return nil, errors.Join(model.ErrConfig, fmt.Errorf("empty username or hash in %s", path))
		}
	}

	return users, nil
}

// SetUser adds or replaces one user in the credentials file, creating it if missing.
func SetUser(path, username, hash string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is empty")
	}

	users, err := LoadAll(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		users = map[string]string{}
	}
	users[username] = hash

	data, err := yaml.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".users-*.yml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace credentials: %w", err)
	}
	return nil
}
