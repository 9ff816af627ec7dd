// Package fs provides the on-disk archive store. It owns the output
// layout and guarantees per-file atomicity: documents and assets are
// written to a temporary name and renamed into place, so a reader (or an
// interrupted run) never observes a partial file.
package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/postarch/postarch"
)

// Compile-time interface verification.
var _ postarch.Store = (*Store)(nil)

// Store writes rendered documents and localized assets under
// {outputDir}/{sourceID}/, with assets in a shared per-source
// subdirectory.
type Store struct {
	outputDir     string
	assetsDirName string
}

// NewStore creates a Store rooted at outputDir. assetsDirName is the
// per-source subdirectory for localized images.
func NewStore(outputDir, assetsDirName string) *Store {
	return &Store{
		outputDir:     outputDir,
		assetsDirName: assetsDirName,
	}
}

// SourceDir returns the directory posts for the source are written to.
func (s *Store) SourceDir(sourceID string) string {
	return filepath.Join(s.outputDir, sourceID)
}

// WritePost atomically writes a rendered document and returns the path
// written.
func (s *Store) WritePost(_ context.Context, sourceID, filename string, data []byte) (string, error) {
	full := filepath.Join(s.SourceDir(sourceID), filename)
	if err := writeAtomic(full, data); err != nil {
		return "", postarch.Errorf(postarch.ESTORE, "writing %s: %v", full, err)
	}
	return full, nil
}

// WriteAsset atomically writes a localized asset and returns its path
// relative to the source directory.
func (s *Store) WriteAsset(_ context.Context, sourceID, name string, data []byte) (string, error) {
	full := filepath.Join(s.SourceDir(sourceID), s.assetsDirName, name)
	if err := writeAtomic(full, data); err != nil {
		return "", postarch.Errorf(postarch.ESTORE, "writing asset %s: %v", full, err)
	}
	return path.Join(s.assetsDirName, name), nil
}

// AssetPath reports whether the asset already exists on disk. Asset
// names are derived from the original URL, so presence means the bytes
// are already localized and the download can be skipped.
func (s *Store) AssetPath(sourceID, name string) (string, bool) {
	full := filepath.Join(s.SourceDir(sourceID), s.assetsDirName, name)
	if _, err := os.Stat(full); err != nil {
		return "", false
	}
	return path.Join(s.assetsDirName, name), true
}

// writeAtomic writes data to a unique temporary name in the target
// directory and renames it into place.
func writeAtomic(full string, data []byte) error {
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := full + ".tmp-" + uuid.NewString()[:8]
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
