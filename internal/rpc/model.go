package rpc

import (
	"time"

	"github.com/daniilsolovey/newsfeed/internal/feed"
)

type StoryFilter struct {
	//search optional case-insensitive substring of title or content
	Search string `json:"search,omitempty"`
	//tagIds optional tag ids, a story matches when it carries any of them
	TagIDs []string `json:"tagIds,omitempty"`
}

func (f StoryFilter) ToModel() feed.Query {
	return feed.Query{
		Search: f.Search,
		TagIDs: f.TagIDs,
	}
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Story struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	Image             *string   `json:"image"`
	Author            string    `json:"author"`
	Website           string    `json:"website"`
	WebsiteButtonText string    `json:"websiteButtonText"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Stories []Story

type Tags []Tag
