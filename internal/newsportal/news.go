package newsportal

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daniilsolovey/newsfeed/internal/blob"
	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

// Manager owns stories and tags. Mutations are serialized by mu so that every
// read-modify-write sees the result of the previous one. Events are published under mu
// once the repository accepted the write, so their order is the commit order.
type Manager struct {
	db    Repository
	blobs blob.Store
	pub   Publisher
	lg    *slog.Logger
	now   func() time.Time

	mu sync.Mutex
}

type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPublisher sets the event sink. Without it events are discarded.
func WithPublisher(pub Publisher) Option {
	return func(m *Manager) { m.pub = pub }
}

func NewManager(repo Repository, blobs blob.Store, lg *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		db:    repo,
		blobs: blobs,
		pub:   noopPublisher{},
		lg:    lg,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// timestamp is truncated to microseconds so values survive a Postgres roundtrip unchanged.
func (m *Manager) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Microsecond)
}

// Stories returns the stories matching q, newest first.
func (m *Manager) Stories(ctx context.Context, q feed.Query) ([]domain.Story, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.TagIDs = feed.NormalizeTagIDs(q.TagIDs)

	list, err := m.db.Stories(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db get stories: %w", err)
	}
	if list == nil {
		list = []domain.Story{}
	}

	return list, nil
}

func (m *Manager) StoryByID(ctx context.Context, id string) (*domain.Story, error) {
	s, err := m.db.StoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get story by id: %w", err)
	} else if s == nil {
		return nil, errors.NotFound("story not found")
	}

	return s, nil
}

// CreateStory validates in, stores its image if any and persists a new story authored
// by the given principal.
func (m *Manager) CreateStory(ctx context.Context, author domain.Principal, in StoryInput) (*domain.Story, error) {
	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, errors.Validation("title and content are required")
	}

	var imageURL *string
	if in.Image == nil {
		u, err := normalizeImageURL(in.ImageURL)
		if err != nil {
			return nil, err
		}
		imageURL = u
	}

	uploaded, err := m.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	if uploaded != nil {
		imageURL = uploaded
	}

	now := m.timestamp()
	story := domain.Story{
		ID:                uuid.NewString(),
		Title:             title,
		Content:           content,
		Image:             imageURL,
		Author:            author.Username,
		Website:           strings.TrimSpace(in.Website),
		WebsiteButtonText: buttonText(in.WebsiteButtonText),
		Tags:              feed.NormalizeTagIDs(in.Tags),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	m.mu.Lock()
	err = m.db.InsertStory(ctx, story)
	if err == nil {
		m.pub.Publish(domain.StoryAdded{Story: story.Clone()})
	}
	m.mu.Unlock()
	if err != nil {
		m.release(ctx, uploaded)
		return nil, fmt.Errorf("db insert story: %w", err)
	}

	m.lg.Info("story created", "id", story.ID, "author", story.Author)

	return &story, nil
}

// UpdateStory merges patch into the stored story. A replaced image is released after the
// update is committed; failing to release it is only logged.
func (m *Manager) UpdateStory(ctx context.Context, id string, patch StoryPatch) (*domain.Story, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, errors.Validation("title cannot be empty")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, errors.Validation("content cannot be empty")
	}

	var (
		imageSet bool
		imageURL *string
	)
	if patch.Image == nil && patch.ImageURL != nil {
		u, err := normalizeImageURL(*patch.ImageURL)
		if err != nil {
			return nil, err
		}
		imageSet, imageURL = true, u
	}

	uploaded, err := m.upload(ctx, patch.Image)
	if err != nil {
		return nil, err
	}
	if uploaded != nil {
		imageSet, imageURL = true, uploaded
	}

	m.mu.Lock()
	story, old, err := m.applyPatch(ctx, id, patch, imageSet, imageURL)
	if err == nil {
		m.pub.Publish(domain.StoryUpdated{Story: story.Clone()})
	}
	m.mu.Unlock()
	if err != nil {
		m.release(ctx, uploaded)
		return nil, err
	}

	if old != nil && (story.Image == nil || *story.Image != *old) {
		m.release(ctx, old)
	}

	m.lg.Info("story updated", "id", story.ID)

	return story, nil
}

// applyPatch must be called with mu held. It returns the updated story and the image it
// replaced, if any.
func (m *Manager) applyPatch(ctx context.Context, id string, patch StoryPatch, imageSet bool, imageURL *string) (*domain.Story, *string, error) {
	story, err := m.db.StoryByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("db get story by id: %w", err)
	} else if story == nil {
		return nil, nil, errors.NotFound("story not found")
	}

	if patch.Title != nil {
		story.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		story.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.Website != nil {
		story.Website = strings.TrimSpace(*patch.Website)
	}
	if patch.WebsiteButtonText != nil {
		story.WebsiteButtonText = buttonText(*patch.WebsiteButtonText)
	}
	if patch.Tags != nil {
		story.Tags = feed.NormalizeTagIDs(patch.Tags)
	}

	var old *string
	if imageSet {
		old = story.Image
		story.Image = imageURL
	}

	story.UpdatedAt = m.timestamp()
	if story.UpdatedAt.Before(story.CreatedAt) {
		story.UpdatedAt = story.CreatedAt
	}

	if err := m.db.UpdateStory(ctx, *story); err != nil {
		return nil, nil, fmt.Errorf("db update story: %w", err)
	}

	return story, old, nil
}

// DeleteStory removes the story and releases its image on a best-effort basis.
func (m *Manager) DeleteStory(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	story, err := m.db.StoryByID(ctx, id)
	if err == nil && story != nil {
		err = m.db.DeleteStory(ctx, id)
		if err == nil {
			m.pub.Publish(domain.StoryDeleted{ID: id})
		}
	}
	m.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("db delete story: %w", err)
	} else if story == nil {
		return "", errors.NotFound("story not found")
	}

	m.release(ctx, story.Image)

	m.lg.Info("story deleted", "id", id)

	return id, nil
}

func (m *Manager) upload(ctx context.Context, img *ImageUpload) (*string, error) {
	if img == nil {
		return nil, nil
	}

	u, err := m.blobs.Put(ctx, img.Filename, img.Data)
	if err != nil {
		if errors.CodeOf(err) == errors.CodeValidation {
			return nil, err
		}
		return nil, errors.Upstream("image upload failed", err)
	}

	return &u, nil
}

// release deletes an image from the blob store. Errors are logged and dropped.
func (m *Manager) release(ctx context.Context, image *string) {
	if image == nil || !m.blobs.Owns(*image) {
		return
	}

	if err := m.blobs.Delete(ctx, *image); err != nil {
		m.lg.Warn("failed to release image", "image", *image, "error", err)
	}
}

func normalizeImageURL(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Validation("imageUrl must be an absolute http(s) URL")
	}

	return &raw, nil
}

func buttonText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.DefaultWebsiteButtonText
	}
	return s
}
