package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMain(t *testing.T) *Main {
	t.Helper()

	m := NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "postarch.db")
	return m
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := newTestMain(t)

	err := m.Run(context.Background(), nil, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := newTestMain(t)

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "postarch")
}

func TestMain_Run_List_Empty(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := newTestMain(t)

	err := m.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No archived posts found")
}

func TestMain_Run_List_ShowsRecords(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "postarch.db")

	// Seed a record the way the run command would.
	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	rec := &postarch.ArchiveRecord{
		SourceID:   "blog-example-com",
		URL:        "https://blog.example.com/p/my-post",
		Slug:       "my-post",
		Title:      "My Post",
		Format:     postarch.FormatMarkdown,
		Path:       "out/blog-example-com/20230415_my-post.md",
		ArchivedAt: time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sqlite.NewArchiveService(db).Record(context.Background(), rec))
	require.NoError(t, db.Close())

	var stdout, stderr bytes.Buffer
	m := NewMain()
	m.DBPath = dbPath
	err := m.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "My Post")
	assert.Contains(t, out, "blog-example-com")
	assert.Contains(t, out, "2023-04-15")
}

func TestMain_Run_InvalidFormatFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := newTestMain(t)

	err := m.Run(context.Background(), []string{"run", "https://blog.example.com", "--formats", "docx"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, postarch.EINVALID, postarch.ErrorCode(err))
}
