package newsportal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
)

// Tags returns all tags ordered by name.
func (m *Manager) Tags(ctx context.Context) ([]domain.Tag, error) {
	list, err := m.db.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get tags: %w", err)
	}
	if list == nil {
		list = []domain.Tag{}
	}

	return list, nil
}

// CreateTag adds a tag. Names are unique regardless of case.
func (m *Manager) CreateTag(ctx context.Context, name, color string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("tag name is required")
	}

	color = strings.TrimSpace(color)
	if color == "" {
		color = domain.DefaultTagColor
	}

	tag := domain.Tag{ID: uuid.NewString(), Name: name, Color: color}

	m.mu.Lock()
	err := m.insertTag(ctx, tag)
	if err == nil {
		m.pub.Publish(domain.TagAdded{Tag: tag})
	}
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.lg.Info("tag created", "id", tag.ID, "name", tag.Name)

	return &tag, nil
}

func (m *Manager) insertTag(ctx context.Context, tag domain.Tag) error {
	existing, err := m.db.TagByName(ctx, tag.Name)
	if err != nil {
		return fmt.Errorf("db get tag by name: %w", err)
	} else if existing != nil {
		return errors.Conflictf("tag %q already exists", existing.Name)
	}

	if err := m.db.InsertTag(ctx, tag); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return err
		}
		return fmt.Errorf("db insert tag: %w", err)
	}

	return nil
}

// DeleteTag removes a tag together with every reference to it.
func (m *Manager) DeleteTag(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	tag, err := m.db.TagByID(ctx, id)
	if err == nil && tag != nil {
		err = m.db.DeleteTag(ctx, id)
		if err == nil {
			m.pub.Publish(domain.TagDeleted{ID: id})
		}
	}
	m.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("db delete tag: %w", err)
	} else if tag == nil {
		return "", errors.NotFound("tag not found")
	}

	m.lg.Info("tag deleted", "id", id, "name", tag.Name)

	return id, nil
}

// SeedDefaultTags creates DefaultTags when no tag exists yet and reports how many were added.
func (m *Manager) SeedDefaultTags(ctx context.Context) (int, error) {
	existing, err := m.Tags(ctx)
	if err != nil {
		return 0, err
	} else if len(existing) > 0 {
		return 0, nil
	}

	for _, t := range DefaultTags {
		if _, err := m.CreateTag(ctx, t.Name, t.Color); err != nil {
			return 0, fmt.Errorf("seed tag %q: %w", t.Name, err)
		}
	}

	return len(DefaultTags), nil
}
