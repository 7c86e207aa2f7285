package rpc

import (
	"context"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/newsfeed/internal/newsportal"
)

//go:generate zenrpc

// StoryService provides read-only RPC methods for stories.
type StoryService struct {
	zenrpc.Service
	manager *newsportal.Manager
}

func NewStoryService(manager *newsportal.Manager) *StoryService {
	return &StoryService{manager: manager}
}

// List returns stories matching the filter, newest first.
//
//zenrpc:filter optional search and tag filter
//zenrpc:return list of stories
//zenrpc:500 internal server error
func (s StoryService) List(ctx context.Context, filter StoryFilter) (Stories, error) {
	list, err := s.manager.Stories(ctx, filter.ToModel())
	if err != nil {
		return nil, newError(err)
	}

	return NewStories(list), nil
}

// ByID returns a single story.
//
//zenrpc:id story id
//zenrpc:return story
//zenrpc:404 story not found
//zenrpc:500 internal server error
func (s StoryService) ByID(ctx context.Context, id string) (*Story, error) {
	story, err := s.manager.StoryByID(ctx, id)
	if err != nil {
		return nil, newError(err)
	}

	res := NewStory(*story)
	return &res, nil
}

// TagService provides read-only RPC methods for tags.
type TagService struct {
	zenrpc.Service
	manager *newsportal.Manager
}

func NewTagService(manager *newsportal.Manager) *TagService {
	return &TagService{manager: manager}
}

// List returns all tags ordered by name.
//
//zenrpc:return list of tags
//zenrpc:500 internal server error
func (s TagService) List(ctx context.Context) (Tags, error) {
	list, err := s.manager.Tags(ctx)
	if err != nil {
		return nil, newError(err)
	}

	return NewTags(list), nil
}
