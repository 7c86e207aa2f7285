package rpc

import (
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
)

func NewStory(s domain.Story) Story {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	return Story{
		ID:                s.ID,
		Title:             s.Title,
		Content:           s.Content,
		Image:             s.Image,
		Author:            s.Author,
		Website:           s.Website,
		WebsiteButtonText: s.WebsiteButtonText,
		Tags:              tags,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func NewStories(list []domain.Story) Stories {
	out := make(Stories, len(list))
	for i := range list {
		out[i] = NewStory(list[i])
	}
	return out
}

func NewTags(list []domain.Tag) Tags {
	out := make(Tags, len(list))
	for i, t := range list {
		out[i] = Tag{ID: t.ID, Name: t.Name, Color: t.Color}
	}
	return out
}

// newError maps a domain error to a JSON-RPC error carrying the HTTP status as code.
func newError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *errors.Error
	if errors.As(err, &domainErr) && domainErr.HTTPStatus() < 500 {
		return zenrpc.NewStringError(domainErr.HTTPStatus(), domainErr.Message)
	}

	return zenrpc.NewStringError(500, "internal server error")
}
