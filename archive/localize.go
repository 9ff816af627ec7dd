package archive

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"mime"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/postarch/postarch"
	"golang.org/x/sync/singleflight"
)

// Compile-time interface verification.
var _ postarch.AssetLocalizer = (*Localizer)(nil)

// Localizer downloads the images a post references and rewrites the
// post's blocks to point at the local copies. Identity is the source
// plus the original URL: asset bytes live under the source's own
// directory, so a URL shared by posts of one source downloads once per
// run, while each source keeps its own copy. Failures degrade: the
// block keeps its remote URL and the post collects an EASSET warning.
type Localizer struct {
	Fetcher postarch.AssetFetcher
	Store   postarch.Store
	Limiter postarch.HostLimiter

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]string // source ID + original URL -> relative local path
}

// NewLocalizer creates a Localizer.
func NewLocalizer(fetcher postarch.AssetFetcher, store postarch.Store, limiter postarch.HostLimiter) *Localizer {
	return &Localizer{
		Fetcher: fetcher,
		Store:   store,
		Limiter: limiter,
		cache:   make(map[string]string),
	}
}

// Localize returns a copy of the post with image blocks rewritten to
// local paths where the download succeeded. The original post is never
// mutated. Reading order is unchanged: only LocalPath fields are filled
// in.
func (l *Localizer) Localize(ctx context.Context, post *postarch.ExtractedPost) (*postarch.ExtractedPost, []postarch.Failure) {
	out := post.Clone()
	var warnings []postarch.Failure

	for i := range out.Blocks {
		b := &out.Blocks[i]
		if b.Kind != postarch.BlockImage || b.ImageURL == "" {
			continue
		}
		// Inline data URIs are already local by definition.
		if strings.HasPrefix(b.ImageURL, "data:") {
			continue
		}

		absURL, err := resolveAssetURL(post.Ref.URL, b.ImageURL)
		if err != nil {
			warnings = append(warnings, postarch.Failure{
				Ref:     post.Ref,
				Code:    postarch.EASSET,
				Message: postarch.ErrorMessage(err),
			})
			continue
		}

		relPath, err := l.localizeOne(ctx, post.Ref.SourceID, absURL)
		if err != nil {
			warnings = append(warnings, postarch.Failure{
				Ref:     post.Ref,
				Code:    postarch.EASSET,
				Message: postarch.ErrorMessage(err),
			})
			continue
		}
		b.LocalPath = relPath
	}

	return out, warnings
}

// localizeOne downloads one asset, collapsing concurrent requests for
// the same URL into a single fetch. The key is source-scoped: a cached
// relative path only resolves under the directory of the source it was
// written for.
func (l *Localizer) localizeOne(ctx context.Context, sourceID, absURL string) (string, error) {
	key := sourceID + "\x00" + absURL

	l.mu.Lock()
	if relPath, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return relPath, nil
	}
	l.mu.Unlock()

	v, err, _ := l.group.Do(key, func() (any, error) {
		relPath, err := l.download(ctx, sourceID, absURL)
		if err != nil {
			return "", err
		}
		l.mu.Lock()
		l.cache[key] = relPath
		l.mu.Unlock()
		return relPath, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (l *Localizer) download(ctx context.Context, sourceID, absURL string) (string, error) {
	u, err := url.Parse(absURL)
	if err != nil {
		return "", postarch.Errorf(postarch.EASSET, "invalid asset URL %q", absURL)
	}

	// A prior run may already hold the bytes: names derive from the URL,
	// so presence on disk means the download can be skipped. Try the
	// URL-path extension first; the content-type variant needs a fetch.
	if ext := extFromURLPath(u.Path); ext != "" {
		if relPath, ok := l.Store.AssetPath(sourceID, assetName(absURL, ext)); ok {
			return relPath, nil
		}
	}

	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	data, contentType, err := l.Fetcher.FetchAsset(ctx, absURL)
	if err != nil {
		return "", postarch.Errorf(postarch.EASSET, "downloading %s: %s", absURL, postarch.ErrorMessage(err))
	}

	name := assetName(absURL, assetExt(u.Path, contentType))
	if relPath, ok := l.Store.AssetPath(sourceID, name); ok {
		return relPath, nil
	}

	relPath, err := l.Store.WriteAsset(ctx, sourceID, name, data)
	if err != nil {
		return "", postarch.Errorf(postarch.EASSET, "storing %s: %s", absURL, postarch.ErrorMessage(err))
	}
	return relPath, nil
}

// resolveAssetURL resolves a possibly relative image reference against
// the post's URL.
func resolveAssetURL(postURL, imageURL string) (string, error) {
	ref, err := url.Parse(imageURL)
	if err != nil {
		return "", postarch.Errorf(postarch.EASSET, "invalid image URL %q", imageURL)
	}
	if ref.IsAbs() {
		return imageURL, nil
	}
	base, err := url.Parse(postURL)
	if err != nil {
		return "", postarch.Errorf(postarch.EASSET, "invalid post URL %q", postURL)
	}
	return base.ResolveReference(ref).String(), nil
}

// assetName derives the stable local filename for an asset URL:
// the hex of the URL's 64-bit hash plus an extension.
func assetName(absURL, ext string) string {
	return hashHex(xxhash.Sum64String(absURL)) + ext
}

// hashHex renders a 64-bit hash as 16 hex digits, big-endian.
func hashHex(sum uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	return hex.EncodeToString(buf[:])
}

// imageExts maps the common image media types directly; the system mime
// table is only consulted for anything else.
var imageExts = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
}

// assetExt picks the filename extension: the URL path's extension when
// it has one, else one derived from the response content type, else
// ".jpg".
func assetExt(urlPath, contentType string) string {
	if ext := extFromURLPath(urlPath); ext != "" {
		return ext
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if ext, ok := imageExts[mediaType]; ok {
			return ext
		}
		if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ".jpg"
}

func extFromURLPath(urlPath string) string {
	ext := strings.ToLower(path.Ext(urlPath))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".avif", ".bmp":
		return ext
	}
	return ""
}
