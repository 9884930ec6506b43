package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Local stores images as files under a directory on this server and serves
// them back through the /api/getImage route.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the storage directory if needed and returns a
// filesystem-backed Backend.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Local{dir: dir, baseURL: baseURL}, nil
}

func (l *Local) Save(ctx context.Context, name string, data []byte) (string, string, error) {
	// filepath.Base strips any client-supplied directory components
	key := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(name))

	if err := os.WriteFile(filepath.Join(l.dir, key), data, 0o660); err != nil {
		return "", "", fmt.Errorf("write image: %w", err)
	}

	url := l.baseURL + "/api/getImage/" + key
	return url, key, nil
}

func (l *Local) Delete(ctx context.Context, localPath string) error {
	if localPath == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, filepath.Base(localPath))); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Dir returns the directory images are stored in, for static file serving.
func (l *Local) Dir() string {
	return l.dir
}
