package rest

import (
	"github.com/daniilsolovey/newsfeed/internal/auth"
	"github.com/daniilsolovey/newsfeed/internal/domain"
)

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

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

func NewStories(list []domain.Story) []Story {
	return Map(list, NewStory)
}

func NewTag(t domain.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Color: t.Color}
}

func NewTags(list []domain.Tag) []Tag {
	return Map(list, NewTag)
}

func NewLoginResponse(s *auth.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User: User{
			ID:       s.Principal.ID,
			Username: s.Principal.Username,
			Role:     string(s.Principal.Role),
		},
	}
}
