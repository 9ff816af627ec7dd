// Package archive orchestrates the archival pipeline: discovery,
// rate-limited fetching with retry, content extraction, asset
// localization, multi-format rendering and persistence. Failure
// containment follows the error code: a source failure skips the
// source, a post failure skips the post, an asset or render failure
// degrades within the post.
package archive

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/postarch/postarch"
	"golang.org/x/sync/errgroup"
)

// UntitledTitle is used when neither extraction nor metadata yields a
// post title.
const UntitledTitle = "Untitled Post"

// ProgressType discriminates progress events.
type ProgressType string

// Progress event types, emitted in pipeline order.
const (
	ProgressDiscovered ProgressType = "discovered"
	ProgressSkipped    ProgressType = "skipped"
	ProgressArchived   ProgressType = "archived"
	ProgressFailed     ProgressType = "failed"
)

// ProgressEvent reports one unit of pipeline progress.
type ProgressEvent struct {
	Type     ProgressType
	SourceID string
	URL      string
	Title    string
	Message  string

	// Total is the number of posts discovered (ProgressDiscovered only).
	Total int
}

// ProgressFunc receives progress events. Events for different posts may
// arrive in any order when Concurrency > 1.
type ProgressFunc func(ProgressEvent)

// Archiver runs the archival pipeline for one or more sources.
type Archiver struct {
	Discoverer  postarch.Discoverer
	Fetcher     postarch.Fetcher
	Extractor   postarch.Extractor
	BlockParser postarch.BlockParser
	MetaScanner postarch.MetaScanner
	Localizer   postarch.AssetLocalizer
	Renderers   []postarch.Renderer
	Store       postarch.Store
	Archive     postarch.ArchiveService
	Limiter     postarch.HostLimiter

	// Formats are the output formats rendered for every post. Every
	// format must have a matching renderer.
	Formats []postarch.Format

	// Incremental skips posts already archived in all requested formats
	// without fetching them.
	Incremental bool

	// DownloadImages enables asset localization.
	DownloadImages bool

	// Concurrency is the number of posts processed in parallel per
	// source. Zero or one means sequential.
	Concurrency int

	// RetryDelays overrides the transient-failure backoff schedule.
	RetryDelays []time.Duration

	// Progress, if set, receives pipeline events.
	Progress ProgressFunc

	// slugs disambiguates filename collisions within one run.
	slugMu sync.Mutex
	slugs  map[string]string // source ID + slug -> canonical URL that owns it
}

// ArchiveAll archives every source. Sources are independent: one
// failing does not stop the others. An error is returned only when
// every source failed outright.
func (a *Archiver) ArchiveAll(ctx context.Context, sources []postarch.Source) (postarch.RunSummary, error) {
	var summary postarch.RunSummary
	failed := 0

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		s, err := a.ArchiveSource(ctx, src)
		summary.Merge(s)
		if err != nil {
			failed++
			summary.Failures = append(summary.Failures, postarch.Failure{
				Ref:     postarch.PostRef{SourceID: src.ID, URL: src.URL},
				Code:    postarch.ErrorCode(err),
				Message: postarch.ErrorMessage(err),
			})
		}
	}

	if len(sources) > 0 && failed == len(sources) {
		return summary, postarch.Errorf(postarch.ESOURCE, "all %d sources failed", len(sources))
	}
	return summary, nil
}

// ArchiveSource discovers and archives every post of one source.
// Posts are independent: a post failure is recorded in the summary and
// processing continues.
func (a *Archiver) ArchiveSource(ctx context.Context, src postarch.Source) (postarch.RunSummary, error) {
	var summary postarch.RunSummary

	refs, err := a.Discoverer.Discover(ctx, src)
	if err != nil {
		return summary, err
	}

	a.emit(ProgressEvent{
		Type:     ProgressDiscovered,
		SourceID: src.ID,
		URL:      src.URL,
		Total:    len(refs),
	})

	concurrency := a.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, ref := range refs {
		g.Go(func() error {
			s := a.processPost(ctx, ref)
			mu.Lock()
			summary.Merge(s)
			mu.Unlock()
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processPost runs the full pipeline for one post. The returned summary
// counts exactly one post as succeeded, skipped or failed.
func (a *Archiver) processPost(ctx context.Context, ref postarch.PostRef) postarch.RunSummary {
	var summary postarch.RunSummary

	// The worker pool still launches queued posts after cancellation.
	// A post the run never attempted is not a failure.
	if ctx.Err() != nil {
		return summary
	}

	// The skip check runs before any fetch: the archive log is keyed by
	// canonical URL precisely so this is answerable here.
	if a.Incremental {
		archived, err := a.Archive.Archived(ctx, ref, a.Formats)
		if err != nil {
			return a.fail(ref, postarch.Errorf(postarch.EINTERNAL, "archive lookup for %s: %s", ref.URL, postarch.ErrorMessage(err)))
		}
		if archived {
			summary.Skipped++
			a.emit(ProgressEvent{Type: ProgressSkipped, SourceID: ref.SourceID, URL: ref.URL})
			return summary
		}
	}

	post, err := a.buildPost(ctx, ref)
	if err != nil {
		return a.fail(ref, err)
	}

	if a.DownloadImages && a.Localizer != nil {
		localized, warnings := a.Localizer.Localize(ctx, post)
		post = localized
		summary.Warnings = append(summary.Warnings, warnings...)
	}

	// Formats are independent: one failing must not prevent the others.
	// The post succeeds when at least one format was written.
	written := 0
	for _, r := range a.Renderers {
		if !formatRequested(a.Formats, r.Format()) {
			continue
		}
		if err := a.renderFormat(ctx, r, post); err != nil {
			summary.Failures = append(summary.Failures, postarch.Failure{
				Ref:     ref,
				Format:  r.Format(),
				Code:    postarch.ErrorCode(err),
				Message: postarch.ErrorMessage(err),
			})
			continue
		}
		written++
	}

	if written == 0 {
		summary.Failed++
		a.emit(ProgressEvent{Type: ProgressFailed, SourceID: ref.SourceID, URL: ref.URL, Title: post.Title, Message: "no output format could be rendered"})
		return summary
	}

	summary.Succeeded++
	a.emit(ProgressEvent{Type: ProgressArchived, SourceID: ref.SourceID, URL: ref.URL, Title: post.Title})
	return summary
}

// buildPost fetches and extracts one post into the intermediate
// representation.
func (a *Archiver) buildPost(ctx context.Context, ref postarch.PostRef) (*postarch.ExtractedPost, error) {
	if a.Limiter != nil {
		u, err := url.Parse(ref.URL)
		if err != nil {
			return nil, postarch.Errorf(postarch.EPERMANENT, "invalid post URL %q", ref.URL)
		}
		if err := a.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := a.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays
	}
	rawHTML, err := fetchWithRetry(ctx, a.Fetcher, ref.URL, delays)
	if err != nil {
		return nil, err
	}
	fetchedAt := time.Now().UTC()

	result, err := a.Extractor.Extract(rawHTML)
	if err != nil {
		return nil, err
	}

	blocks, err := a.BlockParser.Parse(result.ContentHTML)
	if err != nil {
		return nil, err
	}

	// Metadata is best effort and never fails the post.
	var meta *postarch.PostMeta
	if a.MetaScanner != nil {
		if m, err := a.MetaScanner.Scan(rawHTML); err == nil {
			meta = m
		}
	}
	if meta == nil {
		meta = &postarch.PostMeta{}
	}

	title := result.Title
	if title == "" {
		title = meta.Title
	}
	if title == "" {
		title = UntitledTitle
	}

	publishedAt := ref.PublishedAt
	if meta.PublishedAt != nil {
		publishedAt = meta.PublishedAt
	}

	post := &postarch.ExtractedPost{
		Ref:         ref,
		Title:       title,
		Author:      meta.Author,
		Tags:        meta.Tags,
		PublishedAt: publishedAt,
		FetchedAt:   fetchedAt,
		Blocks:      blocks,
	}
	post.Slug = a.slugFor(ref, title)

	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

// renderFormat renders one format, writes the document and records the
// archive entry.
func (a *Archiver) renderFormat(ctx context.Context, r postarch.Renderer, post *postarch.ExtractedPost) error {
	data, err := r.Render(ctx, post)
	if err != nil {
		return err
	}

	path, err := a.Store.WritePost(ctx, post.Ref.SourceID, post.Filename(r.Format()), data)
	if err != nil {
		return err
	}

	rec := &postarch.ArchiveRecord{
		SourceID:    post.Ref.SourceID,
		URL:         post.Ref.URL,
		Slug:        post.Slug,
		Title:       post.Title,
		Format:      r.Format(),
		Path:        path,
		ContentHash: hashContent(data),
	}
	if err := a.Archive.Record(ctx, rec); err != nil {
		return postarch.Errorf(postarch.EINTERNAL, "recording %s (%s): %s", post.Ref.URL, r.Format(), postarch.ErrorMessage(err))
	}
	return nil
}

// slugFor returns the post's filename slug, disambiguating run-scoped
// collisions between distinct posts with a stable URL-hash suffix.
func (a *Archiver) slugFor(ref postarch.PostRef, title string) string {
	slug := postarch.Slugify(title)
	if slug == "" || title == UntitledTitle {
		if tail := postarch.Slugify(postarch.URLTail(ref.URL)); tail != "" {
			slug = tail
		}
	}
	if slug == "" {
		slug = "post"
	}

	a.slugMu.Lock()
	defer a.slugMu.Unlock()
	if a.slugs == nil {
		a.slugs = make(map[string]string)
	}

	key := ref.SourceID + "\x00" + slug
	owner, taken := a.slugs[key]
	if taken && owner != ref.URL {
		slug = slug + "-" + hashHex(xxhash.Sum64String(ref.URL))[:8]
		key = ref.SourceID + "\x00" + slug
	}
	a.slugs[key] = ref.URL
	return slug
}

func (a *Archiver) fail(ref postarch.PostRef, err error) postarch.RunSummary {
	summary := postarch.RunSummary{
		Failed: 1,
		Failures: []postarch.Failure{{
			Ref:     ref,
			Code:    postarch.ErrorCode(err),
			Message: postarch.ErrorMessage(err),
		}},
	}
	a.emit(ProgressEvent{Type: ProgressFailed, SourceID: ref.SourceID, URL: ref.URL, Message: postarch.ErrorMessage(err)})
	return summary
}

func (a *Archiver) emit(e ProgressEvent) {
	if a.Progress != nil {
		a.Progress(e)
	}
}

func formatRequested(formats []postarch.Format, f postarch.Format) bool {
	for _, want := range formats {
		if want == f {
			return true
		}
	}
	return false
}

// hashContent returns the hex of the document's 64-bit content hash.
func hashContent(data []byte) string {
	return hashHex(xxhash.Sum64(data))
}
