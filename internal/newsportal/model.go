package newsportal

import (
	"context"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

// Repository is the persistence contract every backend satisfies. Lookups return nil, nil
// for unknown ids. Writes assume the Manager already checked existence and uniqueness.
type Repository interface {
	Stories(ctx context.Context, q feed.Query) ([]domain.Story, error)
	StoryByID(ctx context.Context, id string) (*domain.Story, error)
	InsertStory(ctx context.Context, s domain.Story) error
	UpdateStory(ctx context.Context, s domain.Story) error
	DeleteStory(ctx context.Context, id string) error

	Tags(ctx context.Context) ([]domain.Tag, error)
	TagByID(ctx context.Context, id string) (*domain.Tag, error)
	// TagByName matches name case-insensitively.
	TagByName(ctx context.Context, name string) (*domain.Tag, error)
	InsertTag(ctx context.Context, t domain.Tag) error
	// DeleteTag removes the tag and strips its id from every story.
	DeleteTag(ctx context.Context, id string) error
}

// Publisher receives an event after each committed mutation. Publish is called with the
// Manager's write lock held, so events arrive in commit order; it must not block and must
// not call back into the Manager.
type Publisher interface {
	Publish(ev domain.Event)
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

// StoryInput carries the fields of a new story.
type StoryInput struct {
	Title             string
	Content           string
	Image             *ImageUpload
	ImageURL          string
	Website           string
	WebsiteButtonText string
	Tags              []string
}

// StoryPatch carries an update. Nil pointers keep the current value, as does a nil Tags
// slice; a non-nil empty Tags clears the tag set. An empty ImageURL removes the image
// unless Image is also set.
type StoryPatch struct {
	Title             *string
	Content           *string
	Image             *ImageUpload
	ImageURL          *string
	Website           *string
	WebsiteButtonText *string
	Tags              []string
}

// DefaultTags are created by SeedDefaultTags on an empty store.
var DefaultTags = []domain.Tag{
	{Name: "Technology", Color: "#667eea"},
	{Name: "Business", Color: "#764ba2"},
	{Name: "Sports", Color: "#f093fb"},
	{Name: "Politics", Color: "#4facfe"},
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.Event) {}
