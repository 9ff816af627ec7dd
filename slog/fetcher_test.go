package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/mock"
	postslog "github.com/postarch/postarch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := postslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://blog.example.com/p/one")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://blog.example.com/p/one")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := postslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://blog.example.com/p/one")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := postslog.NewLoggingFetcher(inner, logger)
	err := fetcher.Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Discoverer{
		DiscoverFn: func(ctx context.Context, src postarch.Source) ([]postarch.PostRef, error) {
			return []postarch.PostRef{
				{SourceID: src.ID, URL: "https://blog.example.com/p/one"},
			}, nil
		},
	}

	d := postslog.NewLoggingDiscoverer(inner, logger)
	refs, err := d.Discover(context.Background(), postarch.Source{ID: "blog", URL: "https://blog.example.com"})

	require.NoError(t, err)
	assert.Len(t, refs, 1)
	output := buf.String()
	assert.Contains(t, output, "discover")
	assert.Contains(t, output, "posts=1")
}

func TestLoggingArchiveService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.ArchiveService{
		ArchivedFn: func(context.Context, postarch.PostRef, []postarch.Format) (bool, error) {
			return true, nil
		},
	}

	s := postslog.NewLoggingArchiveService(inner, logger)
	archived, err := s.Archived(context.Background(),
		postarch.PostRef{SourceID: "blog", URL: "https://blog.example.com/p/one"},
		[]postarch.Format{postarch.FormatMarkdown})

	require.NoError(t, err)
	assert.True(t, archived)
	assert.Contains(t, buf.String(), "archived=true")
}
