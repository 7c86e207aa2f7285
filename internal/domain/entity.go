package domain

import (
	"strings"
	"time"
)

const (
	DefaultTagColor          = "#667eea"
	DefaultWebsiteButtonText = "Visit Website"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Principal is the authenticated identity performing a request.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
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

// HasTag reports whether the story references tagID.
func (s Story) HasTag(tagID string) bool {
	for _, id := range s.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}

// WithoutTag returns a copy of the story with tagID removed from its tag set.
func (s Story) WithoutTag(tagID string) Story {
	tags := make([]string, 0, len(s.Tags))
	for _, id := range s.Tags {
		if id != tagID {
			tags = append(tags, id)
		}
	}
	s.Tags = tags
	return s
}

// Paragraphs splits content on line breaks, dropping blank lines.
func (s Story) Paragraphs() []string {
	lines := strings.Split(strings.ReplaceAll(s.Content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Clone returns a deep copy safe to hand out of a store.
func (s Story) Clone() Story {
	if s.Image != nil {
		img := *s.Image
		s.Image = &img
	}
	s.Tags = append(make([]string, 0, len(s.Tags)), s.Tags...)
	return s
}
