package mock

import (
	"context"

	"github.com/postarch/postarch"
)

var _ postarch.Store = (*Store)(nil)

// Store is a mock implementation of postarch.Store.
type Store struct {
	WritePostFn  func(ctx context.Context, sourceID, filename string, data []byte) (string, error)
	WriteAssetFn func(ctx context.Context, sourceID, name string, data []byte) (string, error)
	AssetPathFn  func(sourceID, name string) (string, bool)
	SourceDirFn  func(sourceID string) string
}

func (s *Store) WritePost(ctx context.Context, sourceID, filename string, data []byte) (string, error) {
	return s.WritePostFn(ctx, sourceID, filename, data)
}

func (s *Store) WriteAsset(ctx context.Context, sourceID, name string, data []byte) (string, error) {
	return s.WriteAssetFn(ctx, sourceID, name, data)
}

func (s *Store) AssetPath(sourceID, name string) (string, bool) {
	if s.AssetPathFn == nil {
		return "", false
	}
	return s.AssetPathFn(sourceID, name)
}

func (s *Store) SourceDir(sourceID string) string {
	if s.SourceDirFn == nil {
		return sourceID
	}
	return s.SourceDirFn(sourceID)
}

var _ postarch.ArchiveService = (*ArchiveService)(nil)

// ArchiveService is a mock implementation of postarch.ArchiveService.
type ArchiveService struct {
	ArchivedFn    func(ctx context.Context, ref postarch.PostRef, formats []postarch.Format) (bool, error)
	RecordFn      func(ctx context.Context, rec *postarch.ArchiveRecord) error
	FindRecordsFn func(ctx context.Context, filter postarch.RecordFilter) ([]*postarch.ArchiveRecord, error)
}

func (s *ArchiveService) Archived(ctx context.Context, ref postarch.PostRef, formats []postarch.Format) (bool, error) {
	if s.ArchivedFn == nil {
		return false, nil
	}
	return s.ArchivedFn(ctx, ref, formats)
}

func (s *ArchiveService) Record(ctx context.Context, rec *postarch.ArchiveRecord) error {
	if s.RecordFn == nil {
		return nil
	}
	return s.RecordFn(ctx, rec)
}

func (s *ArchiveService) FindRecords(ctx context.Context, filter postarch.RecordFilter) ([]*postarch.ArchiveRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}
