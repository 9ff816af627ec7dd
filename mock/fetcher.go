package mock

import (
	"context"

	"github.com/postarch/postarch"
)

var _ postarch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of postarch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ postarch.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of postarch.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) ([]byte, string, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) ([]byte, string, error) {
	return f.FetchAssetFn(ctx, url)
}
