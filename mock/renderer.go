package mock

import (
	"context"

	"github.com/postarch/postarch"
)

var _ postarch.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of postarch.Renderer.
type Renderer struct {
	FormatFn func() postarch.Format
	RenderFn func(ctx context.Context, post *postarch.ExtractedPost) ([]byte, error)
}

func (r *Renderer) Format() postarch.Format {
	return r.FormatFn()
}

func (r *Renderer) Render(ctx context.Context, post *postarch.ExtractedPost) ([]byte, error) {
	return r.RenderFn(ctx, post)
}

var _ postarch.AssetLocalizer = (*AssetLocalizer)(nil)

// AssetLocalizer is a mock implementation of postarch.AssetLocalizer.
type AssetLocalizer struct {
	LocalizeFn func(ctx context.Context, post *postarch.ExtractedPost) (*postarch.ExtractedPost, []postarch.Failure)
}

func (l *AssetLocalizer) Localize(ctx context.Context, post *postarch.ExtractedPost) (*postarch.ExtractedPost, []postarch.Failure) {
	return l.LocalizeFn(ctx, post)
}
