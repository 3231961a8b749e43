package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Loader returns fresh settings of a feed
type Loader interface {
	Load(ctx context.Context) (*Feed, error)
}

// FileLoader reads a feed config from a local .json or .toml file
type FileLoader struct {
	Path string
}

// Name is the feed name derived from the file stem
func (l *FileLoader) Name() string {
	return strings.TrimSuffix(filepath.Base(l.Path), filepath.Ext(l.Path))
}

// Load implements Loader
func (l *FileLoader) Load(_ context.Context) (*Feed, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	feed := Feed{}
	switch filepath.Ext(l.Path) {
	case ".toml":
		err = toml.Unmarshal(data, &feed)
	default:
		err = json.Unmarshal(data, &feed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing config file %s: %v", ErrInvalid, l.Path, err)
	}
	feed.Name = l.Name()
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Discover returns a loader per feed config in dir.
// A s3_<feed>.json file makes that feed sync its config from object storage first,
// the local <feed>.json is created by the first sync when missing.
func Discover(dir string) ([]Loader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading config dir: %w", err)
	}
	files := map[string]string{}
	synced := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || strings.HasPrefix(name, ".") || (ext != ".json" && ext != ".toml") {
			continue
		}
		stem := strings.TrimSuffix(name, ext)
		if strings.HasPrefix(stem, s3Prefix) {
			if ext == ".json" {
				synced[strings.TrimPrefix(stem, s3Prefix)] = true
			}
			continue
		}
		if other, ok := files[stem]; ok {
			return nil, fmt.Errorf("%w: feed %q has two configs, %s and %s", ErrInvalid, stem, other, name)
		}
		files[stem] = name
	}
	for feed := range synced {
		if _, ok := files[feed]; !ok {
			files[feed] = feed + ".json"
		}
	}
	names := make([]string, 0, len(files))
	for feed := range files {
		names = append(names, feed)
	}
	sort.Strings(names)
	loaders := make([]Loader, 0, len(names))
	for _, feed := range names {
		file := &FileLoader{Path: filepath.Join(dir, files[feed])}
		if synced[feed] {
			loaders = append(loaders, &S3Loader{SettingsPath: filepath.Join(dir, s3Prefix+feed+".json"), File: file})
			continue
		}
		loaders = append(loaders, file)
	}
	return loaders, nil
}

// LoaderName returns the feed name a loader serves
func LoaderName(l Loader) string {
	switch v := l.(type) {
	case *FileLoader:
		return v.Name()
	case *S3Loader:
		return v.File.Name()
	}
	return ""
}
