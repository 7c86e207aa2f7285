// Package view derives what a viewer sees from the mirror: filters, expansion and
// pagination. Nothing here talks to the network.
package view

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

const (
	PageSize      = 20
	PreviewLength = 150
)

// State is the local UI state of one viewer. Changing the search text or the tag
// selection moves back to the first page.
type State struct {
	search   string
	selected []string
	expanded map[string]struct{}
	page     int
}

func NewState() *State {
	return &State{
		expanded: make(map[string]struct{}),
		page:     1,
	}
}

func (s *State) Search() string { return s.search }

func (s *State) SetSearch(text string) {
	if text == s.search {
		return
	}
	s.search = text
	s.page = 1
}

func (s *State) SelectedTags() []string {
	return slices.Clone(s.selected)
}

func (s *State) IsSelected(tagID string) bool {
	return slices.Contains(s.selected, tagID)
}

func (s *State) ToggleTag(tagID string) {
	if i := slices.Index(s.selected, tagID); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = append(s.selected, tagID)
	}
	s.page = 1
}

func (s *State) SelectAllTags(tags []domain.Tag) {
	s.selected = s.selected[:0]
	for _, t := range tags {
		s.selected = append(s.selected, t.ID)
	}
	s.page = 1
}

func (s *State) ClearTags() {
	if len(s.selected) == 0 {
		return
	}
	s.selected = nil
	s.page = 1
}

func (s *State) ClearFilters() {
	s.SetSearch("")
	s.ClearTags()
}

// ForgetTag drops a deleted tag from the selection.
func (s *State) ForgetTag(tagID string) {
	if i := slices.Index(s.selected, tagID); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		s.page = 1
	}
}

// ForgetStory drops a deleted story from the expanded set.
func (s *State) ForgetStory(storyID string) {
	delete(s.expanded, storyID)
}

// Prune forgets selected tags and expanded stories that are no longer in the mirror.
func (s *State) Prune(stories []domain.Story, tags []domain.Tag) {
	for _, id := range slices.Clone(s.selected) {
		if !slices.ContainsFunc(tags, func(t domain.Tag) bool { return t.ID == id }) {
			s.ForgetTag(id)
		}
	}

	for id := range s.expanded {
		if !slices.ContainsFunc(stories, func(st domain.Story) bool { return st.ID == id }) {
			s.ForgetStory(id)
		}
	}
}

func (s *State) ToggleExpanded(storyID string) {
	if _, ok := s.expanded[storyID]; ok {
		delete(s.expanded, storyID)
		return
	}
	s.expanded[storyID] = struct{}{}
}

func (s *State) IsExpanded(storyID string) bool {
	_, ok := s.expanded[storyID]
	return ok
}

func (s *State) Page() int { return s.page }

// SetPage moves to page n. Values below 1 select the first page; values past the last
// page are clamped by Compute.
func (s *State) SetPage(n int) {
	s.page = max(n, 1)
}

// Query is the filter the mirror is run through; it matches what the server would
// answer for the same search and tags.
func (s *State) Query() feed.Query {
	return feed.Query{
		Search: strings.TrimSpace(s.search),
		TagIDs: slices.Clone(s.selected),
	}
}

// Preview cuts text to PreviewLength runes and appends "..." when it was longer.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	return string([]rune(text)[:PreviewLength]) + "..."
}
