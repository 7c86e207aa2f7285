package newsportal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
	"github.com/daniilsolovey/newsfeed/internal/feed"
	"github.com/daniilsolovey/newsfeed/internal/memstore"
)

var (
	baseTime = time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)
	admin    = domain.Principal{ID: "1", Username: "admin", Role: domain.RoleAdmin}
)

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockBlobStore struct {
	mu        sync.Mutex
	putFunc   func(filename string, data []byte) (string, error)
	deleteErr error
	deleted   []string
	seq       int
}

func (m *mockBlobStore) Put(_ context.Context, filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putFunc != nil {
		return m.putFunc(filename, data)
	}
	m.seq++
	return fmt.Sprintf("/uploads/%d-%s", m.seq, filename), nil
}

func (m *mockBlobStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return m.deleteErr
}

func (m *mockBlobStore) Owns(url string) bool {
	return strings.HasPrefix(url, "/uploads/")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(ev domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type()
	}
	return out
}

type fixture struct {
	m     *Manager
	repo  *memstore.Store
	blobs *mockBlobStore
	pub   *recordingPublisher
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := baseTime
	f := &fixture{
		repo:  memstore.New(),
		blobs: &mockBlobStore{},
		pub:   &recordingPublisher{},
		clock: &now,
	}
	f.m = NewManager(f.repo, f.blobs, noOpLogger(),
		WithPublisher(f.pub),
		WithClock(func() time.Time { return *f.clock }),
	)
	return f
}

func (f *fixture) tick(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func ptr[T any](v T) *T { return &v }

func TestManager_CreateStory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s, err := f.m.CreateStory(ctx, admin, StoryInput{
		Title:   "  Sunrise ",
		Content: "Good news",
		Tags:    []string{"b", " a", "b", ""},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Sunrise", s.Title)
	assert.Equal(t, "admin", s.Author)
	assert.Equal(t, domain.DefaultWebsiteButtonText, s.WebsiteButtonText)
	assert.Equal(t, []string{"b", "a"}, s.Tags)
	assert.Nil(t, s.Image)
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)
	assert.True(t, baseTime.Equal(s.CreatedAt))

	other, err := f.m.CreateStory(ctx, admin, StoryInput{Title: "Other", Content: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)

	assert.Equal(t, []domain.EventType{domain.EventStoryAdded, domain.EventStoryAdded}, f.pub.types())
}

func TestManager_CreateStoryValidation(t *testing.T) {
	tests := []struct {
		name string
		in   StoryInput
	}{
		{"missing title", StoryInput{Content: "x"}},
		{"blank content", StoryInput{Title: "x", Content: "   "}},
		{"relative image url", StoryInput{Title: "x", Content: "y", ImageURL: "/img.png"}},
		{"non-http image url", StoryInput{Title: "x", Content: "y", ImageURL: "ftp://host/img.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.m.CreateStory(context.Background(), admin, tt.in)
			assert.ErrorIs(t, err, errors.ErrValidation)
			assert.Empty(t, f.pub.types())

			list, err := f.m.Stories(context.Background(), feed.Query{})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestManager_CreateStoryImagePrecedence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s, err := f.m.CreateStory(ctx, admin, StoryInput{
		Title:    "With both",
		Content:  "x",
		Image:    &ImageUpload{Filename: "a.png", Data: []byte("img")},
		ImageURL: "https://example.com/ignored.png",
	})
	require.NoError(t, err)
	require.NotNil(t, s.Image)
	assert.Equal(t, "/uploads/1-a.png", *s.Image)

	s, err = f.m.CreateStory(ctx, admin, StoryInput{Title: "URL only", Content: "x", ImageURL: " https://example.com/b.png "})
	require.NoError(t, err)
	require.NotNil(t, s.Image)
	assert.Equal(t, "https://example.com/b.png", *s.Image)
}

func TestManager_UploadFailureAbortsCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.blobs.putFunc = func(string, []byte) (string, error) {
		return "", fmt.Errorf("disk full")
	}

	_, err := f.m.CreateStory(ctx, admin, StoryInput{
		Title: "x", Content: "y", Image: &ImageUpload{Filename: "a.png", Data: []byte("img")},
	})
	assert.ErrorIs(t, err, errors.ErrUpstream)

	list, err := f.m.Stories(ctx, feed.Query{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.pub.types())
}

func TestManager_UpdateStoryMerges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.m.CreateStory(ctx, admin, StoryInput{
		Title: "Sunrise", Content: "Good news", Website: "https://example.com", Tags: []string{"t1"},
	})
	require.NoError(t, err)

	f.tick(time.Minute)
	updated, err := f.m.UpdateStory(ctx, created.ID, StoryPatch{Title: ptr("Sunset")})
	require.NoError(t, err)

	assert.Equal(t, "Sunset", updated.Title)
	assert.Equal(t, "Good news", updated.Content)
	assert.Equal(t, []string{"t1"}, updated.Tags)
	assert.Equal(t, "https://example.com", updated.Website)
	assert.Equal(t, "admin", updated.Author)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	cleared, err := f.m.UpdateStory(ctx, created.ID, StoryPatch{Tags: []string{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)

	assert.Equal(t, []domain.EventType{
		domain.EventStoryAdded, domain.EventStoryUpdated, domain.EventStoryUpdated,
	}, f.pub.types())
}

func TestManager_UpdateStoryErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.m.CreateStory(ctx, admin, StoryInput{Title: "x", Content: "y"})
	require.NoError(t, err)

	_, err = f.m.UpdateStory(ctx, "missing", StoryPatch{Title: ptr("z")})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = f.m.UpdateStory(ctx, created.ID, StoryPatch{Content: ptr(" ")})
	assert.ErrorIs(t, err, errors.ErrValidation)

	got, err := f.m.StoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "y", got.Content)
}

func TestManager_UpdateStoryReleasesReplacedImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.m.CreateStory(ctx, admin, StoryInput{
		Title: "x", Content: "y", Image: &ImageUpload{Filename: "old.png", Data: []byte("1")},
	})
	require.NoError(t, err)
	oldImage := *created.Image

	f.blobs.deleteErr = fmt.Errorf("cdn unavailable")
	updated, err := f.m.UpdateStory(ctx, created.ID, StoryPatch{
		Image: &ImageUpload{Filename: "new.png", Data: []byte("2")},
	})
	require.NoError(t, err, "cleanup failures must not fail the update")
	require.NotNil(t, updated.Image)
	assert.Equal(t, "/uploads/2-new.png", *updated.Image)
	assert.Equal(t, []string{oldImage}, f.blobs.deleted)

	f.blobs.deleteErr = nil
	updated, err = f.m.UpdateStory(ctx, created.ID, StoryPatch{ImageURL: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Image)
	assert.Equal(t, []string{oldImage, "/uploads/2-new.png"}, f.blobs.deleted)
}

func TestManager_UpdateStoryKeepsForeignImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.m.CreateStory(ctx, admin, StoryInput{Title: "x", Content: "y", ImageURL: "https://cdn.example.com/a.png"})
	require.NoError(t, err)

	_, err = f.m.UpdateStory(ctx, created.ID, StoryPatch{ImageURL: ptr("https://cdn.example.com/b.png")})
	require.NoError(t, err)
	assert.Empty(t, f.blobs.deleted)
}

func TestManager_UpdateUnknownReleasesUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.m.UpdateStory(context.Background(), "missing", StoryPatch{
		Image: &ImageUpload{Filename: "a.png", Data: []byte("1")},
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Equal(t, []string{"/uploads/1-a.png"}, f.blobs.deleted)
}

func TestManager_DeleteStory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.m.CreateStory(ctx, admin, StoryInput{
		Title: "x", Content: "y", Image: &ImageUpload{Filename: "a.png", Data: []byte("1")},
	})
	require.NoError(t, err)

	f.blobs.deleteErr = fmt.Errorf("boom")
	id, err := f.m.DeleteStory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)
	assert.Equal(t, []string{*created.Image}, f.blobs.deleted)

	_, err = f.m.StoryByID(ctx, created.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = f.m.DeleteStory(ctx, created.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	assert.Equal(t, []domain.EventType{domain.EventStoryAdded, domain.EventStoryDeleted}, f.pub.types())
}

func TestManager_CreateTag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tag, err := f.m.CreateTag(ctx, "  Weather ", "")
	require.NoError(t, err)
	assert.Equal(t, "Weather", tag.Name)
	assert.Equal(t, domain.DefaultTagColor, tag.Color)

	_, err = f.m.CreateTag(ctx, "WEATHER", "#fff")
	assert.ErrorIs(t, err, errors.ErrConflict)

	_, err = f.m.CreateTag(ctx, "   ", "")
	assert.ErrorIs(t, err, errors.ErrValidation)

	assert.Equal(t, []domain.EventType{domain.EventTagAdded}, f.pub.types())
}

func TestManager_DeleteTagScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.m.CreateStory(ctx, admin, StoryInput{Title: "Sunrise", Content: "Good news"})
	require.NoError(t, err)
	weather, err := f.m.CreateTag(ctx, "Weather", "")
	require.NoError(t, err)

	_, err = f.m.UpdateStory(ctx, a.ID, StoryPatch{Tags: []string{weather.ID}})
	require.NoError(t, err)

	byTag := feed.Query{TagIDs: []string{weather.ID}}
	list, err := f.m.Stories(ctx, byTag)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	id, err := f.m.DeleteTag(ctx, weather.ID)
	require.NoError(t, err)
	assert.Equal(t, weather.ID, id)

	list, err = f.m.Stories(ctx, byTag)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.m.StoryByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)

	_, err = f.m.DeleteTag(ctx, weather.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	types := f.pub.types()
	assert.Equal(t, domain.EventTagDeleted, types[len(types)-1])
}

func TestManager_SearchIsSubsequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i, title := range []string{"Box office", "Inbox zero", "Weather", "Sandbox"} {
		f.tick(time.Duration(i) * time.Second)
		_, err := f.m.CreateStory(ctx, admin, StoryInput{Title: title, Content: "story"})
		require.NoError(t, err)
	}

	all, err := f.m.Stories(ctx, feed.Query{})
	require.NoError(t, err)

	q := feed.Query{Search: "X", TagIDs: []string{}}
	first, err := f.m.Stories(ctx, q)
	require.NoError(t, err)
	second, err := f.m.Stories(ctx, q)
	require.NoError(t, err)

	var want []domain.Story
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Title+" "+s.Content), "x") {
			want = append(want, s)
		}
	}

	assert.Equal(t, want, first)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestManager_SeedDefaultTags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n, err := f.m.SeedDefaultTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultTags), n)

	n, err = f.m.SeedDefaultTags(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	tags, err := f.m.Tags(ctx)
	require.NoError(t, err)
	names := make([]string, len(tags))
	for i, tg := range tags {
		names[i] = tg.Name
	}
	assert.Equal(t, []string{"Business", "Politics", "Sports", "Technology"}, names)
}

func TestManager_ConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.m.CreateStory(ctx, admin, StoryInput{Title: "x", Content: "y"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.m.UpdateStory(ctx, created.ID, StoryPatch{Website: ptr(fmt.Sprintf("https://example.com/%d", i))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, f.pub.types(), 21)
}

// hookPublisher runs beforeRecord ahead of recording each event, which lets a test start a
// competing mutation between a commit and its broadcast.
type hookPublisher struct {
	recordingPublisher
	beforeRecord func(ev domain.Event)
}

func (p *hookPublisher) Publish(ev domain.Event) {
	if p.beforeRecord != nil {
		p.beforeRecord(ev)
	}
	p.recordingPublisher.Publish(ev)
}

func TestManager_EventsFollowCommitOrder(t *testing.T) {
	ctx := context.Background()
	pub := &hookPublisher{}
	m := NewManager(memstore.New(), &mockBlobStore{}, noOpLogger(), WithPublisher(pub))

	created, err := m.CreateStory(ctx, admin, StoryInput{Title: "draft", Content: "body"})
	require.NoError(t, err)

	secondDone := make(chan error, 1)
	var once sync.Once
	pub.beforeRecord = func(ev domain.Event) {
		upd, ok := ev.(domain.StoryUpdated)
		if !ok || upd.Story.Title != "first" {
			return
		}
		once.Do(func() {
			go func() {
				_, err := m.UpdateStory(ctx, created.ID, StoryPatch{Title: ptr("second")})
				secondDone <- err
			}()
			// The competing update must not be able to commit and broadcast before this
			// event is recorded.
			select {
			case err := <-secondDone:
				secondDone <- err
			case <-time.After(100 * time.Millisecond):
			}
		})
	}

	_, err = m.UpdateStory(ctx, created.ID, StoryPatch{Title: ptr("first")})
	require.NoError(t, err)

	select {
	case err := <-secondDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("competing update never finished")
	}

	stored, err := m.StoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", stored.Title)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 3)
	last, ok := pub.events[2].(domain.StoryUpdated)
	require.True(t, ok)
	assert.Equal(t, stored.Title, last.Story.Title)
}
