// Package session holds the client-side session: the bearer token and
// user snapshot for the signed-in account, its durable storage, and the
// change notifications the UI reacts to.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aribellam/lumina/pkg/domain"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Storage persists a session across runs. Token and user snapshot are
// written together and removed together; a Load that finds only one of
// them reports an anonymous session.
type Storage interface {
	Load() (domain.Session, error)
	Save(s domain.Session) error
	Clear() error
}

// FileStorage keeps the session under a config directory: a token file
// and a JSON user snapshot, both 0600.
type FileStorage struct {
	dir string
}

// NewFileStorage creates storage rooted at dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// DefaultDir returns ~/.lumina.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".lumina"), nil
}

// Load restores the persisted session. A missing token file means
// anonymous and is not an error. A token without a readable user
// snapshot is treated as absent so a partial session never surfaces.
func (f *FileStorage) Load() (domain.Session, error) {
	tok, err := os.ReadFile(filepath.Join(f.dir, tokenFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(tok))
	if token == "" {
		return domain.Session{}, nil
	}

	data, err := os.ReadFile(filepath.Join(f.dir, userFile))
	if err != nil {
		return domain.Session{}, fmt.Errorf("read user snapshot: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.Session{}, fmt.Errorf("decode user snapshot: %w", err)
	}
	return domain.Session{Token: token, User: user}, nil
}

// Save writes both session files.
func (f *FileStorage) Save(s domain.Session) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, tokenFile), []byte(s.Token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, userFile), data, 0600); err != nil {
		return fmt.Errorf("save user snapshot: %w", err)
	}
	return nil
}

// Clear removes both session files. Already-absent files are fine.
func (f *FileStorage) Clear() error {
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
