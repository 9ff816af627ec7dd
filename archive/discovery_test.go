package archive_test

import (
	"context"
	"testing"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/archive"
	"github.com/postarch/postarch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery_Discover(t *testing.T) {
	t.Parallel()

	t.Run("archive listing wins when it has posts", func(t *testing.T) {
		t.Parallel()

		fallbackCalled := false
		d := &archive.Discovery{
			Primary: discoverRefs("https://blog.example.com/p/one"),
			Fallback: &mock.Discoverer{
				DiscoverFn: func(context.Context, postarch.Source) ([]postarch.PostRef, error) {
					fallbackCalled = true
					return nil, nil
				},
			},
		}

		refs, err := d.Discover(context.Background(), source())

		require.NoError(t, err)
		assert.Len(t, refs, 1)
		assert.False(t, fallbackCalled)
	})

	t.Run("falls back to the feed when the listing fails", func(t *testing.T) {
		t.Parallel()

		d := &archive.Discovery{
			Primary: &mock.Discoverer{
				DiscoverFn: func(context.Context, postarch.Source) ([]postarch.PostRef, error) {
					return nil, postarch.Errorf(postarch.ESOURCE, "no archive page")
				},
			},
			Fallback: discoverRefs("https://blog.example.com/p/from-feed"),
		}

		refs, err := d.Discover(context.Background(), source())

		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "https://blog.example.com/p/from-feed", refs[0].URL)
	})

	t.Run("merges and deduplicates when the listing is empty", func(t *testing.T) {
		t.Parallel()

		d := &archive.Discovery{
			Primary: discoverRefs(),
			Fallback: discoverRefs(
				"https://blog.example.com/p/one",
				"https://blog.example.com/p/one",
				"https://blog.example.com/p/two",
			),
		}

		refs, err := d.Discover(context.Background(), source())

		require.NoError(t, err)
		assert.Len(t, refs, 2)
	})

	t.Run("source error when both strategies fail", func(t *testing.T) {
		t.Parallel()

		failing := &mock.Discoverer{
			DiscoverFn: func(context.Context, postarch.Source) ([]postarch.PostRef, error) {
				return nil, postarch.Errorf(postarch.ESOURCE, "unreachable")
			},
		}
		d := &archive.Discovery{Primary: failing, Fallback: failing}

		_, err := d.Discover(context.Background(), source())

		assert.Equal(t, postarch.ESOURCE, postarch.ErrorCode(err))
	})
}

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("unlimited when rps is zero", func(t *testing.T) {
		t.Parallel()

		l := archive.NewHostLimiter(0)
		for range 100 {
			require.NoError(t, l.Wait(context.Background(), "example.com"))
		}
	})

	t.Run("returns on canceled context", func(t *testing.T) {
		t.Parallel()

		l := archive.NewHostLimiter(0.001) // one request per ~17 minutes
		ctx := context.Background()
		require.NoError(t, l.Wait(ctx, "example.com")) // burst token

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, l.Wait(canceled, "example.com"))
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		l := archive.NewHostLimiter(0.001)
		ctx := context.Background()
		require.NoError(t, l.Wait(ctx, "a.example.com"))
		require.NoError(t, l.Wait(ctx, "b.example.com"))
	})
}
