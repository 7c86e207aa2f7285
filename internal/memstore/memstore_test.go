package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
	"github.com/daniilsolovey/newsfeed/internal/newsportal"
	"github.com/daniilsolovey/newsfeed/internal/storetest"
)

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) newsportal.Repository { return New() })
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.InsertStory(ctx, domain.Story{ID: "a", Title: "A", Content: "x", Tags: []string{"t"}}))

	got, err := s.StoryByID(ctx, "a")
	require.NoError(t, err)
	got.Tags[0] = "mutated"
	got.Title = "mutated"

	again, err := s.StoryByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Title)
	assert.Equal(t, []string{"t"}, again.Tags)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Stories(ctx, feed.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}
