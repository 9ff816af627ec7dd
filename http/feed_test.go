package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/postarch/postarch"
	posthttp "github.com/postarch/postarch/http"
	"github.com/postarch/postarch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <item>
      <title>First Post</title>
      <link>https://example.com/p/first-post?utm_source=rss</link>
      <pubDate>Mon, 02 Jan 2023 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/p/second-post</link>
    </item>
    <item>
      <title>Duplicate</title>
      <link>https://example.com/p/first-post</link>
    </item>
  </channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Blog</title>
  <entry>
    <title>Atom Post</title>
    <link rel="alternate" href="https://example.com/p/atom-post#section"/>
    <published>2023-06-15T10:00:00Z</published>
  </entry>
</feed>`

func feedServer(t *testing.T, body string) (*httptest.Server, postarch.Source) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	src, err := postarch.NewSource(srv.URL)
	require.NoError(t, err)
	return srv, src
}

func TestFeedDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("parses RSS and canonicalizes URLs", func(t *testing.T) {
		t.Parallel()

		_, src := feedServer(t, rssFeed)

		d := posthttp.NewFeedDiscoverer(nil, nil)
		refs, err := d.Discover(context.Background(), src)

		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "https://example.com/p/first-post", refs[0].URL)
		assert.Equal(t, "https://example.com/p/second-post", refs[1].URL)

		require.NotNil(t, refs[0].PublishedAt)
		assert.Equal(t, time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC), refs[0].PublishedAt.UTC())
		assert.Nil(t, refs[1].PublishedAt)
	})

	t.Run("parses Atom", func(t *testing.T) {
		t.Parallel()

		_, src := feedServer(t, atomFeed)

		d := posthttp.NewFeedDiscoverer(nil, nil)
		refs, err := d.Discover(context.Background(), src)

		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "https://example.com/p/atom-post", refs[0].URL)
		require.NotNil(t, refs[0].PublishedAt)
	})

	t.Run("waits on the host limiter before fetching", func(t *testing.T) {
		t.Parallel()

		srv, src := feedServer(t, rssFeed)
		srvHost := strings.TrimPrefix(srv.URL, "http://")

		var waited []string
		limiter := &mock.HostLimiter{
			WaitFn: func(_ context.Context, host string) error {
				waited = append(waited, host)
				return nil
			},
		}

		d := posthttp.NewFeedDiscoverer(nil, limiter)
		_, err := d.Discover(context.Background(), src)

		require.NoError(t, err)
		assert.Equal(t, []string{srvHost}, waited)
	})

	t.Run("limiter error aborts discovery", func(t *testing.T) {
		t.Parallel()

		_, src := feedServer(t, rssFeed)
		limiter := &mock.HostLimiter{
			WaitFn: func(ctx context.Context, _ string) error {
				return ctx.Err()
			},
		}

		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		d := posthttp.NewFeedDiscoverer(nil, limiter)
		_, err := d.Discover(canceled, src)

		assert.Error(t, err)
	})

	t.Run("missing feed is a source error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)
		src, err := postarch.NewSource(srv.URL)
		require.NoError(t, err)

		d := posthttp.NewFeedDiscoverer(nil, nil)
		_, err = d.Discover(context.Background(), src)

		assert.Equal(t, postarch.ESOURCE, postarch.ErrorCode(err))
	})

	t.Run("malformed XML is a source error", func(t *testing.T) {
		t.Parallel()

		_, src := feedServer(t, "<html>not a feed")

		d := posthttp.NewFeedDiscoverer(nil, nil)
		_, err := d.Discover(context.Background(), src)

		assert.Equal(t, postarch.ESOURCE, postarch.ErrorCode(err))
	})
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/p/x", posthttp.CanonicalURL("https://example.com/p/x?utm=1#frag"))
	assert.Empty(t, posthttp.CanonicalURL(""))
}
