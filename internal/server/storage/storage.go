// Package storage provides the artefact-image storage backends. A Backend
// persists raw image bytes and hands back the public URL the client renders,
// plus a local path when the image lives on this server's filesystem.
// The backend is chosen by configuration: local filesystem or an
// S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Backend stores and removes artefact images.
//
// Save returns the public URL of the stored image and, for filesystem-backed
// storage, the server-local key needed to delete it later; object-store
// backends return an empty localPath.
//
// Delete is a best-effort cleanup of a locally stored image; callers pass
// the localPath recorded at save time. An empty localPath is a no-op.
type Backend interface {
	Save(ctx context.Context, name string, data []byte) (url string, localPath string, err error)
	Delete(ctx context.Context, localPath string) error
}

// objectKey builds a collision-free storage key for an uploaded image,
// preserving the client-provided name for readability.
func objectKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("artefacts/%d/%d/%d/%v_%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}
