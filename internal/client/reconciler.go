// Package client keeps a viewer's local mirror of stories and tags in step with the
// server: one seed fetch per connection, then incremental events.
package client

import (
	"github.com/daniilsolovey/newsfeed/internal/domain"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateSynced
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSynced:
		return "synced"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Snapshot is the full server state returned by a seed fetch.
type Snapshot struct {
	Stories []domain.Story
	Tags    []domain.Tag
}

// Reconciler is the single-threaded core of a viewer. It is not safe for concurrent use;
// Client owns one and drives it from its event loop.
type Reconciler struct {
	state   State
	synced  bool
	gen     uint64
	seeding bool
	pending []domain.Event

	stories []domain.Story
	tags    []domain.Tag
}

func NewReconciler() *Reconciler {
	return &Reconciler{state: StateDisconnected}
}

func (r *Reconciler) State() State { return r.state }

// BeginSeed starts a seed fetch for a fresh subscription and returns its generation.
// Events handled until the matching ApplySeed are buffered.
func (r *Reconciler) BeginSeed() uint64 {
	r.gen++
	r.seeding = true
	r.pending = r.pending[:0]

	if r.state == StateDisconnected {
		r.state = StateConnecting
	}

	return r.gen
}

// ApplySeed replaces the mirror with snap and replays buffered events. A snapshot whose
// generation is not the latest one is stale and is discarded; the result reports whether
// snap was applied.
func (r *Reconciler) ApplySeed(gen uint64, snap Snapshot) bool {
	if !r.seeding || gen != r.gen {
		return false
	}

	r.stories = make([]domain.Story, 0, len(snap.Stories))
	for _, s := range snap.Stories {
		r.stories = append(r.stories, s.Clone())
	}
	r.tags = append(make([]domain.Tag, 0, len(snap.Tags)), snap.Tags...)

	for _, ev := range r.pending {
		r.apply(ev)
	}
	r.pending = r.pending[:0]
	r.seeding = false
	r.synced = true
	r.state = StateSynced

	return true
}

// Handle applies ev to the mirror, or buffers it while a seed is in flight. It reports
// whether the mirror changed.
func (r *Reconciler) Handle(ev domain.Event) bool {
	switch {
	case r.seeding:
		r.pending = append(r.pending, ev)
		return false
	case r.state != StateSynced:
		return false
	}

	r.apply(ev)
	return true
}

// Disconnected keeps the mirror as last known good and invalidates any seed in flight.
func (r *Reconciler) Disconnected() {
	r.seeding = false
	r.pending = r.pending[:0]

	if r.synced {
		r.state = StateReconnecting
	} else {
		r.state = StateConnecting
	}
}

// Close ends the session for good. The mirror is kept for inspection.
func (r *Reconciler) Close() {
	r.seeding = false
	r.pending = r.pending[:0]
	r.state = StateDisconnected
}

// Snapshot returns a copy of the mirror.
func (r *Reconciler) Snapshot() Snapshot {
	stories := make([]domain.Story, 0, len(r.stories))
	for _, s := range r.stories {
		stories = append(stories, s.Clone())
	}

	return Snapshot{
		Stories: stories,
		Tags:    append(make([]domain.Tag, 0, len(r.tags)), r.tags...),
	}
}

func (r *Reconciler) apply(ev domain.Event) {
	switch e := ev.(type) {
	case domain.StoryAdded:
		r.upsertStory(e.Story)
	case domain.StoryUpdated:
		r.upsertStory(e.Story)
	case domain.StoryDeleted:
		if i := r.storyIndex(e.ID); i >= 0 {
			r.stories = append(r.stories[:i], r.stories[i+1:]...)
		}
	case domain.TagAdded:
		if i := r.tagIndex(e.Tag.ID); i >= 0 {
			r.tags[i] = e.Tag
		} else {
			r.tags = append(r.tags, e.Tag)
		}
	case domain.TagDeleted:
		if i := r.tagIndex(e.ID); i >= 0 {
			r.tags = append(r.tags[:i], r.tags[i+1:]...)
		}
		for i, s := range r.stories {
			if s.HasTag(e.ID) {
				r.stories[i] = s.WithoutTag(e.ID)
			}
		}
	}
}

// upsertStory replaces the story in place, or prepends it when the mirror lacks it.
func (r *Reconciler) upsertStory(s domain.Story) {
	s = s.Clone()
	if i := r.storyIndex(s.ID); i >= 0 {
		r.stories[i] = s
		return
	}
	r.stories = append([]domain.Story{s}, r.stories...)
}

func (r *Reconciler) storyIndex(id string) int {
	for i := range r.stories {
		if r.stories[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Reconciler) tagIndex(id string) int {
	for i := range r.tags {
		if r.tags[i].ID == id {
			return i
		}
	}
	return -1
}
