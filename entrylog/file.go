package entrylog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per feed in a directory
type FileStore struct {
	Dir string
}

// NewFileStore makes a store rooted at dir, creating it when missing
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("error creating log dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// Path is the file holding the log of the feed
func (s *FileStore) Path(feed string) string {
	return filepath.Join(s.Dir, feed+".json")
}

// Load implements Store
func (s *FileStore) Load(feed string) ([]string, error) {
	if err := checkName(feed); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(feed))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	var messages []string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return messages, nil
}

// Save implements Store, the file is replaced by rename so readers never see a partial write
func (s *FileStore) Save(feed string, messages []string) error {
	if err := checkName(feed); err != nil {
		return err
	}
	data, err := json.Marshal(nonEmpty(messages))
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, "."+feed+".*.tmp")
	if err != nil {
		return fmt.Errorf("error saving log file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("error saving log file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("error saving log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving log file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(feed)); err != nil {
		return fmt.Errorf("error saving log file: %w", err)
	}
	return nil
}

func checkName(feed string) error {
	if feed == "" || strings.ContainsAny(feed, `/\`) || feed == "." || feed == ".." {
		return fmt.Errorf("invalid feed name %q", feed)
	}
	return nil
}
