// Package storetest holds the behaviour every newsportal.Repository backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
	"github.com/daniilsolovey/newsfeed/internal/newsportal"
)

var BaseTime = time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)

// Factory returns an empty repository. Cleanup is registered on t by the factory.
type Factory func(t *testing.T) newsportal.Repository

func Run(t *testing.T, newRepo Factory) {
	t.Run("StoryRoundtrip", func(t *testing.T) { testStoryRoundtrip(t, newRepo(t)) })
	t.Run("StoriesFilterAndOrder", func(t *testing.T) { testStoriesFilterAndOrder(t, newRepo(t)) })
	t.Run("UpdateAndDeleteStory", func(t *testing.T) { testUpdateAndDeleteStory(t, newRepo(t)) })
	t.Run("TagLookups", func(t *testing.T) { testTagLookups(t, newRepo(t)) })
	t.Run("DeleteTagCascades", func(t *testing.T) { testDeleteTagCascades(t, newRepo(t)) })
}

func story(id, title string, age time.Duration, tags ...string) domain.Story {
	if tags == nil {
		tags = []string{}
	}
	return domain.Story{
		ID:                id,
		Title:             title,
		Content:           title + " content",
		Author:            "admin",
		WebsiteButtonText: domain.DefaultWebsiteButtonText,
		Tags:              tags,
		CreatedAt:         BaseTime.Add(-age),
		UpdatedAt:         BaseTime.Add(-age),
	}
}

func ids(list []domain.Story) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}

func testStoryRoundtrip(t *testing.T, repo newsportal.Repository) {
	ctx := context.Background()

	img := "https://example.com/a.png"
	want := story("s1", "Sunrise", 0, "t1", "t2")
	want.Image = &img
	want.Website = "https://example.com"

	require.NoError(t, repo.InsertStory(ctx, want))

	got, err := repo.StoryByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Content, got.Content)
	assert.Equal(t, want.Image, got.Image)
	assert.Equal(t, want.Website, got.Website)
	assert.Equal(t, want.Tags, got.Tags)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	missing, err := repo.StoryByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testStoriesFilterAndOrder(t *testing.T, repo newsportal.Repository) {
	ctx := context.Background()

	for _, s := range []domain.Story{
		story("a", "Weather today", 3*time.Hour, "weather"),
		story("b", "Market report", 1*time.Hour, "business"),
		story("c", "Storm WEATHER alert", 2*time.Hour, "weather", "alerts"),
		story("d", "Quiet day", 2*time.Hour),
	} {
		require.NoError(t, repo.InsertStory(ctx, s))
	}

	tests := []struct {
		name  string
		query feed.Query
		want  []string
	}{
		{"all newest first", feed.Query{}, []string{"b", "c", "d", "a"}},
		{"search is case-insensitive", feed.Query{Search: "weather"}, []string{"c", "a"}},
		{"tags are OR-ed", feed.Query{TagIDs: []string{"business", "alerts"}}, []string{"b", "c"}},
		{"search AND tags", feed.Query{Search: "today", TagIDs: []string{"weather"}}, []string{"a"}},
		{"no match", feed.Query{Search: "nothing like this"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Stories(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func testUpdateAndDeleteStory(t *testing.T, repo newsportal.Repository) {
	ctx := context.Background()

	s := story("s1", "Sunrise", time.Hour, "t1")
	require.NoError(t, repo.InsertStory(ctx, s))

	s.Title = "Sunset"
	s.Tags = []string{}
	s.UpdatedAt = BaseTime
	require.NoError(t, repo.UpdateStory(ctx, s))

	got, err := repo.StoryByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sunset", got.Title)
	assert.Empty(t, got.Tags)
	assert.True(t, BaseTime.Equal(got.UpdatedAt))

	require.NoError(t, repo.DeleteStory(ctx, "s1"))
	got, err = repo.StoryByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testTagLookups(t *testing.T, repo newsportal.Repository) {
	ctx := context.Background()

	require.NoError(t, repo.InsertTag(ctx, domain.Tag{ID: "t2", Name: "sports", Color: "#f093fb"}))
	require.NoError(t, repo.InsertTag(ctx, domain.Tag{ID: "t1", Name: "Business", Color: "#764ba2"}))

	list, err := repo.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Business", list[0].Name)
	assert.Equal(t, "sports", list[1].Name)

	byName, err := repo.TagByName(ctx, "SPORTS")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "t2", byName.ID)

	byID, err := repo.TagByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "#764ba2", byID.Color)

	missing, err := repo.TagByName(ctx, "politics")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testDeleteTagCascades(t *testing.T, repo newsportal.Repository) {
	ctx := context.Background()

	require.NoError(t, repo.InsertTag(ctx, domain.Tag{ID: "w", Name: "Weather", Color: domain.DefaultTagColor}))
	require.NoError(t, repo.InsertStory(ctx, story("a", "A", time.Hour, "w", "x")))
	require.NoError(t, repo.InsertStory(ctx, story("b", "B", 2*time.Hour, "w")))
	require.NoError(t, repo.InsertStory(ctx, story("c", "C", 3*time.Hour, "x")))

	require.NoError(t, repo.DeleteTag(ctx, "w"))

	tag, err := repo.TagByID(ctx, "w")
	require.NoError(t, err)
	assert.Nil(t, tag)

	byName, err := repo.TagByName(ctx, "weather")
	require.NoError(t, err)
	assert.Nil(t, byName)

	all, err := repo.Stories(ctx, feed.Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, s := range all {
		assert.False(t, s.HasTag("w"), s.ID)
	}
	assert.Equal(t, []string{"x"}, all[0].Tags)
	assert.Empty(t, all[1].Tags)

	tagged, err := repo.Stories(ctx, feed.Query{TagIDs: []string{"w"}})
	require.NoError(t, err)
	assert.Empty(t, tagged)
}
