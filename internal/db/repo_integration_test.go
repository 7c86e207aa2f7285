//go:build integration

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
	"github.com/daniilsolovey/newsfeed/internal/newsportal"
	"github.com/daniilsolovey/newsfeed/internal/storetest"
)

func TestRepository_Contract_Integration(t *testing.T) {
	storetest.Run(t, func(t *testing.T) newsportal.Repository {
		_, _, repo := withTx(t)
		return repo
	})
}

func TestInsertTag_DuplicateNameIsConflict_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	require.NoError(t, repo.InsertTag(ctx, domain.Tag{ID: "t1", Name: "Weather", Color: domain.DefaultTagColor}))

	err := repo.InsertTag(ctx, domain.Tag{ID: "t2", Name: "WEATHER", Color: domain.DefaultTagColor})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestUpdateStory_KeepsAuthorAndCreatedAt_Integration(t *testing.T) {
	_, ctx, repo := withTx(t)

	s := domain.Story{
		ID:                "s1",
		Title:             "Sunrise",
		Content:           "Good news",
		Author:            "admin",
		WebsiteButtonText: domain.DefaultWebsiteButtonText,
		Tags:              []string{},
		CreatedAt:         storetest.BaseTime,
		UpdatedAt:         storetest.BaseTime,
	}
	require.NoError(t, repo.InsertStory(ctx, s))

	s.Author = "someone else"
	s.CreatedAt = storetest.BaseTime.Add(1)
	s.Title = "Sunset"
	require.NoError(t, repo.UpdateStory(ctx, s))

	got, err := repo.StoryByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sunset", got.Title)
	assert.Equal(t, "admin", got.Author)
	assert.True(t, storetest.BaseTime.Equal(got.CreatedAt))
}
