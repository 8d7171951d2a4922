package credentials

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// dummyHash is compared against for unknown users so both paths cost one bcrypt run.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z1sPzHcJl4GCDyyVjK/Tp.rS"

var _ model.CredentialStore = (*Store)(nil)

// Store caches the credentials file in memory.
type Store struct {
	path     string
	verifier model.PasswordVerifier
	logger   *logger.Logger

	mu    sync.RWMutex
	users map[string]string
}

// NewStore loads path once. The file must exist and be well formed.
func NewStore(path string, verifier model.PasswordVerifier, logger *logger.Logger) (*Store, error) {
	s := &Store{
		path:     path,
		verifier: verifier,
		logger:   logger,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Verify checks a sign-in attempt.
func (s *Store) Verify(username, password string) bool {
	s.mu.RLock()
	hash, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		s.verifier.Verify(password, dummyHash)
		return false
	}
	return s.verifier.Verify(password, hash)
}

// Reload re-reads the file. On error the previous credentials stay in place.
func (s *Store) Reload() error {
	users, err := LoadAll(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()

	s.logger.Debug("Credentials store: loaded users",
		"path", s.path,
		"count", len(users))
	return nil
}

// Watch reloads the credentials whenever the file changes, until ctx is done.
// The parent directory is watched so that editors replacing the file are noticed.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error("Credentials store: failed to reload, keeping previous users",
					"path", s.path,
					"error", err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("Credentials store: watcher error",
				"error", err.Error())
		}
	}
}
