package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(format postarch.Format) *postarch.ArchiveRecord {
	return &postarch.ArchiveRecord{
		SourceID:    "blog-example-com",
		URL:         "https://blog.example.com/p/my-post",
		Slug:        "my-post",
		Title:       "My Post",
		Format:      format,
		Path:        "out/blog-example-com/20230415_my-post" + format.Ext(),
		ContentHash: "0011223344556677",
	}
}

func TestArchiveService_Record(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		rec := testRecord(postarch.FormatMarkdown)

		require.NoError(t, s.Record(context.Background(), rec))
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.ArchivedAt.IsZero())
	})

	t.Run("upserts on re-archive", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		ctx := context.Background()

		first := testRecord(postarch.FormatMarkdown)
		require.NoError(t, s.Record(ctx, first))

		second := testRecord(postarch.FormatMarkdown)
		second.Title = "My Post (revised)"
		second.ContentHash = "8899aabbccddeeff"
		require.NoError(t, s.Record(ctx, second))

		recs, err := s.FindRecords(ctx, postarch.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "My Post (revised)", recs[0].Title)
		assert.Equal(t, "8899aabbccddeeff", recs[0].ContentHash)
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		err := s.Record(context.Background(), &postarch.ArchiveRecord{})
		assert.Equal(t, postarch.EINVALID, postarch.ErrorCode(err))
	})
}

func TestArchiveService_Archived(t *testing.T) {
	t.Parallel()

	ref := postarch.PostRef{
		SourceID: "blog-example-com",
		URL:      "https://blog.example.com/p/my-post",
	}

	t.Run("false when nothing recorded", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		archived, err := s.Archived(context.Background(), ref, []postarch.Format{postarch.FormatMarkdown})
		require.NoError(t, err)
		assert.False(t, archived)
	})

	t.Run("false when only some formats recorded", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		ctx := context.Background()
		require.NoError(t, s.Record(ctx, testRecord(postarch.FormatMarkdown)))

		archived, err := s.Archived(ctx, ref, []postarch.Format{postarch.FormatMarkdown, postarch.FormatJSON})
		require.NoError(t, err)
		assert.False(t, archived)
	})

	t.Run("true when all formats recorded", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		ctx := context.Background()
		require.NoError(t, s.Record(ctx, testRecord(postarch.FormatMarkdown)))
		require.NoError(t, s.Record(ctx, testRecord(postarch.FormatJSON)))

		archived, err := s.Archived(ctx, ref, []postarch.Format{postarch.FormatMarkdown, postarch.FormatJSON})
		require.NoError(t, err)
		assert.True(t, archived)
	})

	t.Run("different URL is not archived", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewArchiveService(mustOpenDB(t))
		ctx := context.Background()
		require.NoError(t, s.Record(ctx, testRecord(postarch.FormatMarkdown)))

		other := ref
		other.URL = "https://blog.example.com/p/other-post"
		archived, err := s.Archived(ctx, other, []postarch.Format{postarch.FormatMarkdown})
		require.NoError(t, err)
		assert.False(t, archived)
	})
}

func TestArchiveService_FindRecords(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) (*sqlite.ArchiveService, context.Context) {
		t.Helper()
		s := sqlite.NewArchiveService(mustOpenDB(t))
		ctx := context.Background()

		a := testRecord(postarch.FormatMarkdown)
		a.ArchivedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.Record(ctx, a))

		b := testRecord(postarch.FormatJSON)
		b.ArchivedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.Record(ctx, b))

		c := testRecord(postarch.FormatMarkdown)
		c.SourceID = "other-example-com"
		c.URL = "https://other.example.com/p/x"
		c.ArchivedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.Record(ctx, c))

		return s, ctx
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		s, ctx := seed(t)
		recs, err := s.FindRecords(ctx, postarch.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "other-example-com", recs[0].SourceID)
	})

	t.Run("filters by source", func(t *testing.T) {
		t.Parallel()

		s, ctx := seed(t)
		sourceID := "blog-example-com"
		recs, err := s.FindRecords(ctx, postarch.RecordFilter{SourceID: &sourceID})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("filters by format", func(t *testing.T) {
		t.Parallel()

		s, ctx := seed(t)
		format := postarch.FormatJSON
		recs, err := s.FindRecords(ctx, postarch.RecordFilter{Format: &format})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, postarch.FormatJSON, recs[0].Format)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		s, ctx := seed(t)
		recs, err := s.FindRecords(ctx, postarch.RecordFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, postarch.FormatJSON, recs[0].Format)
	})

	t.Run("round-trips timestamps", func(t *testing.T) {
		t.Parallel()

		s, ctx := seed(t)
		recs, err := s.FindRecords(ctx, postarch.RecordFilter{})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), recs[0].ArchivedAt.UTC())
	})
}
