package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/daniilsolovey/newsfeed/internal/domain"
)

var baseTime = time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)

func testStories() []domain.Story {
	return []domain.Story{
		{ID: "a", Title: "Sunrise over the bay", Content: "Good news", Tags: []string{"weather"}, CreatedAt: baseTime.Add(-2 * time.Hour)},
		{ID: "b", Title: "Market report", Content: "Stocks are UP today", Tags: []string{"business"}, CreatedAt: baseTime},
		{ID: "c", Title: "Storm warning", Content: "Bring an umbrella", Tags: []string{"weather", "alerts"}, CreatedAt: baseTime.Add(-1 * time.Hour)},
		{ID: "d", Title: "Untagged", Content: "nothing to see", Tags: []string{}, CreatedAt: baseTime.Add(-1 * time.Hour)},
	}
}

func ids(stories []domain.Story) []string {
	out := make([]string, len(stories))
	for i, s := range stories {
		out[i] = s.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "no filter returns newest first with id tiebreak",
			query: Query{},
			want:  []string{"b", "c", "d", "a"},
		},
		{
			name:  "search is case-insensitive over title",
			query: Query{Search: "SUNRISE"},
			want:  []string{"a"},
		},
		{
			name:  "search matches content",
			query: Query{Search: "up today"},
			want:  []string{"b"},
		},
		{
			name:  "tag filter is logical OR",
			query: Query{TagIDs: []string{"business", "alerts"}},
			want:  []string{"b", "c"},
		},
		{
			name:  "search and tags combine with AND",
			query: Query{Search: "storm", TagIDs: []string{"weather"}},
			want:  []string{"c"},
		},
		{
			name:  "unknown tag matches nothing",
			query: Query{TagIDs: []string{"missing"}},
			want:  []string{},
		},
		{
			name:  "empty tag list does not filter",
			query: Query{Search: "o", TagIDs: []string{}},
			want:  []string{"b", "c", "d", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(testStories(), tt.query)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_SearchIsSubsequenceOfUnfiltered(t *testing.T) {
	all := Apply(testStories(), Query{})
	filtered := Apply(testStories(), Query{Search: "e"})

	var expected []string
	for _, s := range all {
		if (Query{Search: "e"}).Match(s) {
			expected = append(expected, s.ID)
		}
	}

	assert.Equal(t, expected, ids(filtered))
	assert.Equal(t, ids(filtered), ids(Apply(testStories(), Query{Search: "e"})))
}

func TestApply_DoesNotReorderInput(t *testing.T) {
	in := testStories()
	_ = Apply(in, Query{})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in))
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"a", []string{"a"}},
		{" a , b ,, a,c ", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagList(tt.raw))
		})
	}
}

func TestSortTags(t *testing.T) {
	tags := []domain.Tag{{ID: "1", Name: "sports"}, {ID: "2", Name: "Business"}, {ID: "3", Name: "politics"}}
	SortTags(tags)

	assert.Equal(t, "Business", tags[0].Name)
	assert.Equal(t, "politics", tags[1].Name)
	assert.Equal(t, "sports", tags[2].Name)
}
