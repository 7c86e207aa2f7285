package badgerstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
	"github.com/daniilsolovey/newsfeed/internal/newsportal"
	"github.com/daniilsolovey/newsfeed/internal/storetest"
)

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, noOpLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) newsportal.Repository {
		return openTestStore(t, "")
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, noOpLogger())
	require.NoError(t, err)
	require.NoError(t, s.InsertTag(ctx, domain.Tag{ID: "t1", Name: "Weather", Color: domain.DefaultTagColor}))
	require.NoError(t, s.Close())

	reopened := openTestStore(t, dir)
	tag, err := reopened.TagByName(ctx, "weather")
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "t1", tag.ID)
}

func TestStore_DeleteUnknownTagIsNoop(t *testing.T) {
	s := openTestStore(t, "")
	assert.NoError(t, s.DeleteTag(context.Background(), "missing"))
}

func TestStore_DeleteTagCascadeSpansTransactions(t *testing.T) {
	ctx := context.Background()

	// A 4MB memtable caps a single transaction at roughly 600KB, well below the size of
	// rewriting every story below.
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithMemTableSize(4 << 20).
		WithValueThreshold(1 << 10)
	s, err := open(opts, noOpLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.InsertTag(ctx, domain.Tag{ID: "t1", Name: "Weather", Color: domain.DefaultTagColor}))
	require.NoError(t, s.InsertTag(ctx, domain.Tag{ID: "t2", Name: "Sports", Color: domain.DefaultTagColor}))

	const total = 3000
	created := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)
	body := strings.Repeat("long story body ", 25)
	for i := 0; i < total; i++ {
		require.NoError(t, s.InsertStory(ctx, domain.Story{
			ID:        fmt.Sprintf("s%04d", i),
			Title:     fmt.Sprintf("Story %d", i),
			Content:   body,
			Tags:      []string{"t1", "t2"},
			CreatedAt: created,
			UpdatedAt: created,
		}))
	}

	require.NoError(t, s.DeleteTag(ctx, "t1"))

	tag, err := s.TagByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, tag)

	stories, err := s.Stories(ctx, feed.Query{})
	require.NoError(t, err)
	require.Len(t, stories, total)
	for _, st := range stories {
		if !assert.Equal(t, []string{"t2"}, st.Tags, "story %s", st.ID) {
			break
		}
	}
}
