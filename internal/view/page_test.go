package view

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsfeed/internal/domain"
)

var (
	weather = domain.Tag{ID: "t1", Name: "Weather", Color: "#667eea"}
	sports  = domain.Tag{ID: "t2", Name: "Sports", Color: "#f093fb"}
)

func fixture() ([]domain.Story, []domain.Tag) {
	stories := []domain.Story{
		{
			ID:                "s1",
			Title:             "Sunrise",
			Content:           "Good news\n\nMore later",
			Author:            "admin",
			Website:           "https://example.com/sunrise",
			WebsiteButtonText: "Read more",
			Tags:              []string{"t1", "ghost"},
			CreatedAt:         time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "s2",
			Title:     "Markets",
			Content:   strings.Repeat("abcdefghij", 16),
			Author:    "admin",
			Tags:      []string{"t2"},
			CreatedAt: time.Date(2024, 1, 14, 13, 0, 0, 0, time.UTC),
		},
		{
			ID:        "s3",
			Title:     "Storm",
			Content:   "Heavy rain\nWinds",
			Author:    "admin",
			Tags:      []string{"t1"},
			CreatedAt: time.Date(2024, 1, 13, 9, 30, 0, 0, time.UTC),
		},
	}
	return stories, []domain.Tag{sports, weather}
}

func render(t *testing.T, p Page) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	return buf.Bytes()
}

func TestRender_Golden(t *testing.T) {
	stories, tags := fixture()

	tests := []struct {
		name  string
		setup func(s *State)
	}{
		{
			name:  "feed_all",
			setup: func(s *State) { s.ToggleExpanded("s1") },
		},
		{
			name: "feed_filtered",
			setup: func(s *State) {
				s.SetSearch("o")
				s.ToggleTag("t1")
			},
		},
		{
			name:  "feed_no_match",
			setup: func(s *State) { s.SetSearch("zzz") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			tt.setup(s)

			g := goldie.New(t)
			g.Assert(t, tt.name, render(t, s.Compute(stories, tags)))
		})
	}
}

func TestRender_EmptyMirror(t *testing.T) {
	out := render(t, NewState().Compute(nil, nil))
	assert.Equal(t, "Page 1 of 1, 0 stories\n\nNo stories yet\n", string(out))
}

func manyStories(n int) []domain.Story {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Story, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Story{
			ID:      fmt.Sprintf("s%02d", i),
			Title:   fmt.Sprintf("Story %d", i),
			Content: "body",
			Tags:    []string{},
			// Story 1 is the newest.
			CreatedAt: base.Add(time.Duration(n-i) * time.Hour),
		})
	}
	return out
}

func titles(p Page) []string {
	out := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.Story.Title)
	}
	return out
}

func TestCompute_Pagination(t *testing.T) {
	stories := manyStories(45)
	s := NewState()

	p := s.Compute(stories, nil)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 45, p.TotalItems)
	require.Len(t, p.Items, 20)
	assert.Equal(t, "Story 1", p.Items[0].Story.Title)
	assert.Equal(t, "Story 20", p.Items[19].Story.Title)

	s.SetPage(3)
	p = s.Compute(stories, nil)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, []string{"Story 41", "Story 42", "Story 43", "Story 44", "Story 45"}, titles(p))

	s.SetSearch("story 4")
	assert.Equal(t, 1, s.Page())
	p = s.Compute(stories, nil)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 7, p.TotalItems, "story 4 and 40-45")
}

func TestCompute_ClampsPage(t *testing.T) {
	stories := manyStories(45)
	s := NewState()
	s.SetPage(3)

	// Deletions shrink the feed under the current page.
	p := s.Compute(stories[:25], nil)
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 2, p.TotalPages)
	assert.Len(t, p.Items, 5)

	s.SetPage(-4)
	assert.Equal(t, 1, s.Page())
}

func TestCompute_MatchesServerFilter(t *testing.T) {
	stories, tags := fixture()
	s := NewState()
	s.SetSearch("  RAIN ")

	p := s.Compute(stories, tags)
	assert.Equal(t, []string{"Storm"}, titles(p))
	assert.Equal(t, "RAIN", p.Search)

	s.ClearFilters()
	s.ToggleTag("t2")
	s.ToggleTag("t1")
	p = s.Compute(stories, tags)
	assert.Equal(t, []string{"Markets", "Sunrise", "Storm"}, titles(p))
	assert.Equal(t, []domain.Tag{sports, weather}, p.SelectedTags)
}

func TestCompute_UnknownTagsAreSkipped(t *testing.T) {
	stories, tags := fixture()

	p := NewState().Compute(stories, tags)
	require.Len(t, p.Items, 3)
	assert.Equal(t, []domain.Tag{weather}, p.Items[1].Tags)
}
