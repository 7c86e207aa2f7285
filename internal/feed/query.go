// Package feed holds the story query semantics shared by every store backend and by the
// client view state, so that a filtered mirror and a fresh server query always agree.
package feed

import (
	"sort"
	"strings"

	"github.com/daniilsolovey/newsfeed/internal/domain"
)

// Query filters stories. The zero value matches everything.
type Query struct {
	// Search keeps stories whose title or content contains it, case-insensitively.
	Search string
	// TagIDs keeps stories carrying at least one of the ids.
	TagIDs []string
}

// Match reports whether s passes both filters.
func (q Query) Match(s domain.Story) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(s.Title), needle) &&
			!strings.Contains(strings.ToLower(s.Content), needle) {
			return false
		}
	}

	if len(q.TagIDs) > 0 {
		for _, id := range q.TagIDs {
			if s.HasTag(id) {
				return true
			}
		}
		return false
	}

	return true
}

// Apply returns the matching stories newest first. The input is not modified.
func Apply(stories []domain.Story, q Query) []domain.Story {
	out := make([]domain.Story, 0, len(stories))
	for _, s := range stories {
		if q.Match(s) {
			out = append(out, s)
		}
	}
	Sort(out)
	return out
}

// Sort orders stories by CreatedAt descending, ties broken by id ascending.
func Sort(stories []domain.Story) {
	sort.SliceStable(stories, func(i, j int) bool {
		if !stories[i].CreatedAt.Equal(stories[j].CreatedAt) {
			return stories[i].CreatedAt.After(stories[j].CreatedAt)
		}
		return stories[i].ID < stories[j].ID
	})
}

// ParseTagList normalizes a comma-joined tag list: entries are trimmed, empty entries
// dropped and duplicates removed keeping the first occurrence.
func ParseTagList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTagIDs(strings.Split(raw, ","))
}

// NormalizeTagIDs trims, drops empties and dedupes ids keeping first-seen order.
func NormalizeTagIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SortTags orders tags by name ascending (case-insensitive), ties by id.
func SortTags(tags []domain.Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		a, b := strings.ToLower(tags[i].Name), strings.ToLower(tags[j].Name)
		if a != b {
			return a < b
		}
		return tags[i].ID < tags[j].ID
	})
}
