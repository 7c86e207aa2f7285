package db

import (
	"github.com/daniilsolovey/newsfeed/internal/domain"
)

func NewStory(s domain.Story) Story {
	return Story{
		ID:                s.ID,
		Title:             s.Title,
		Content:           s.Content,
		Image:             s.Image,
		Author:            s.Author,
		Website:           s.Website,
		WebsiteButtonText: s.WebsiteButtonText,
		TagIDs:            append([]string{}, s.Tags...),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (s Story) ToDomain() domain.Story {
	tags := s.TagIDs
	if tags == nil {
		tags = []string{}
	}

	return domain.Story{
		ID:                s.ID,
		Title:             s.Title,
		Content:           s.Content,
		Image:             s.Image,
		Author:            s.Author,
		Website:           s.Website,
		WebsiteButtonText: s.WebsiteButtonText,
		Tags:              tags,
		CreatedAt:         s.CreatedAt.UTC(),
		UpdatedAt:         s.UpdatedAt.UTC(),
	}
}

func NewTag(t domain.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Color: t.Color}
}

func (t Tag) ToDomain() domain.Tag {
	return domain.Tag{ID: t.ID, Name: t.Name, Color: t.Color}
}
