package blob

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store holds message attachments. The core only produces and consumes the
// opaque URLs; the bytes live behind this boundary.
type Store interface {
	Put(ctx context.Context, content []byte, contentType string) (string, error)
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// LocalStore implements Store on the local filesystem, serving objects
// under baseURL.
type LocalStore struct {
	BaseDir string
	BaseURL string
}

func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &LocalStore{BaseDir: baseDir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Put(ctx context.Context, content []byte, contentType string) (string, error) {
	id := uuid.New().String()
	if err := os.WriteFile(filepath.Join(s.BaseDir, id+".bin"), content, 0644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.BaseDir, id+".type"), []byte(contentType), 0644); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + id, nil
}

func (s *LocalStore) Get(ctx context.Context, url string) ([]byte, string, error) {
	id := path.Base(url)
	if id == "" || id == "." || strings.ContainsAny(id, `/\`) {
		return nil, "", errors.New("invalid object url")
	}
	content, err := os.ReadFile(filepath.Join(s.BaseDir, id+".bin"))
	if err != nil {
		return nil, "", err
	}
	contentType, err := os.ReadFile(filepath.Join(s.BaseDir, id+".type"))
	if err != nil {
		return content, "application/octet-stream", nil
	}
	return content, string(contentType), nil
}
