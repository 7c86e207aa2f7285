// Package memstore keeps stories and tags in process memory. It backs tests and the
// "memory" storage driver; contents are lost on restart.
package memstore

import (
	"context"
	"strings"
	"sync"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

type Store struct {
	mu      sync.RWMutex
	stories map[string]domain.Story
	tags    map[string]domain.Tag
}

func New() *Store {
	return &Store{
		stories: make(map[string]domain.Story),
		tags:    make(map[string]domain.Tag),
	}
}

func (s *Store) Stories(ctx context.Context, q feed.Query) ([]domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := make([]domain.Story, 0, len(s.stories))
	for _, st := range s.stories {
		if q.Match(st) {
			all = append(all, st.Clone())
		}
	}
	s.mu.RUnlock()

	feed.Sort(all)
	return all, nil
}

func (s *Store) StoryByID(ctx context.Context, id string) (*domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stories[id]
	if !ok {
		return nil, nil
	}

	clone := st.Clone()
	return &clone, nil
}

func (s *Store) InsertStory(ctx context.Context, st domain.Story) error {
	return s.putStory(ctx, st)
}

func (s *Store) UpdateStory(ctx context.Context, st domain.Story) error {
	return s.putStory(ctx, st)
}

func (s *Store) putStory(ctx context.Context, st domain.Story) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.stories[st.ID] = st.Clone()
	s.mu.Unlock()

	return nil
}

func (s *Store) DeleteStory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.stories, id)
	s.mu.Unlock()

	return nil
}

func (s *Store) Tags(ctx context.Context) ([]domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	list := make([]domain.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		list = append(list, t)
	}
	s.mu.RUnlock()

	feed.SortTags(list)
	return list, nil
}

func (s *Store) TagByID(ctx context.Context, id string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tags[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) TagByName(ctx context.Context, name string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tags {
		if strings.EqualFold(t.Name, name) {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertTag(ctx context.Context, t domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.tags[t.ID] = t
	s.mu.Unlock()

	return nil
}

// DeleteTag removes the tag and its references under a single lock.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tags, id)
	for sid, st := range s.stories {
		if st.HasTag(id) {
			s.stories[sid] = st.WithoutTag(id)
		}
	}

	return nil
}
