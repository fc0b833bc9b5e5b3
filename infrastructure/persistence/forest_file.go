package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/somabay/handbook/domain/page"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a forest document on disk.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeForest parses a forest document. YAML documents are converted to
// their JSON equivalent first so both formats share one set of field names.
func DecodeForest(data []byte, format Format) ([]page.Page, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml forest: %w", err)
		}
		if doc == nil {
			return []page.Page{}, nil
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml forest: %w", err)
		}
		data = converted
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []page.Page{}, nil
	}
	return page.ParseForest(data)
}

// EncodeForest renders a forest document. JSON output is indented.
func EncodeForest(forest []page.Page, format Format) ([]byte, error) {
	data, err := page.MarshalForest(forest)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("encode yaml forest: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml forest: %w", err)
		}
		return out, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return nil, fmt.Errorf("encode json forest: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ReadForestFile loads a forest document from disk.
func ReadForestFile(path string) ([]page.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forest file: %w", err)
	}
	forest, err := DecodeForest(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return forest, nil
}

// WriteForestFile writes a forest document, replacing the file atomically.
func WriteForestFile(path string, forest []page.Page) error {
	data, err := EncodeForest(forest, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create forest directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".forest-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write forest file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close forest file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace forest file: %w", err)
	}
	return nil
}

// FileStore implements page.Store over a single forest document on disk,
// the layout served to the public site under /data.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the forest. A missing file holds an empty forest.
func (s *FileStore) Load(_ context.Context) ([]page.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forest, err := ReadForestFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []page.Page{}, nil
	}
	return forest, err
}

// Save replaces the document.
func (s *FileStore) Save(_ context.Context, forest []page.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteForestFile(s.path, forest)
}
