package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	apperrors "github.com/daniilsolovey/newsfeed/internal/errors"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

const uniqueViolation = "23505"

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// Stories returns stories matching q sorted by createdAt DESC. Search is a case-folded
// substring match on title or content; tag ids are matched with array overlap.
func (r *Repository) Stories(ctx context.Context, q feed.Query) ([]domain.Story, error) {
	var stories []Story
	query := r.db.ModelContext(ctx, &stories)

	if q.Search != "" {
		query = query.Where(`(strpos(lower("t"."title"), lower(?0)) > 0 OR strpos(lower("t"."content"), lower(?0)) > 0)`, q.Search)
	}

	if len(q.TagIDs) > 0 {
		query = query.Where(`"t"."tagIds" && ?`, pg.Array(q.TagIDs))
	}

	err := query.
		OrderExpr(`"t"."createdAt" DESC, "t"."storyId" COLLATE "C" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	list := make([]domain.Story, len(stories))
	for i := range stories {
		list[i] = stories[i].ToDomain()
	}

	return list, nil
}

func (r *Repository) StoryByID(ctx context.Context, id string) (*domain.Story, error) {
	story := &Story{}
	err := r.db.ModelContext(ctx, story).
		Where(`"t"."storyId" = ?`, id).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get story by id: %w", err)
	}

	s := story.ToDomain()
	return &s, nil
}

func (r *Repository) InsertStory(ctx context.Context, s domain.Story) error {
	story := NewStory(s)
	if _, err := r.db.ModelContext(ctx, &story).Insert(); err != nil {
		return fmt.Errorf("failed to insert story: %w", err)
	}

	return nil
}

func (r *Repository) UpdateStory(ctx context.Context, s domain.Story) error {
	story := NewStory(s)
	_, err := r.db.ModelContext(ctx, &story).
		ExcludeColumn(Columns.Story.Author, Columns.Story.CreatedAt).
		WherePK().
		Update()
	if err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}

	return nil
}

func (r *Repository) DeleteStory(ctx context.Context, id string) error {
	_, err := r.db.ModelContext(ctx, (*Story)(nil)).
		Where(`"storyId" = ?`, id).
		Delete()
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	return nil
}

func (r *Repository) Tags(ctx context.Context) ([]domain.Tag, error) {
	var tags []Tag
	err := r.db.ModelContext(ctx, &tags).
		OrderExpr(`lower("t"."name") ASC, "t"."tagId" COLLATE "C" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}

	list := make([]domain.Tag, len(tags))
	for i := range tags {
		list[i] = tags[i].ToDomain()
	}

	return list, nil
}

func (r *Repository) TagByID(ctx context.Context, id string) (*domain.Tag, error) {
	return r.oneTag(ctx, `"t"."tagId" = ?`, id)
}

func (r *Repository) TagByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.oneTag(ctx, `lower("t"."name") = lower(?)`, name)
}

func (r *Repository) oneTag(ctx context.Context, cond string, arg any) (*domain.Tag, error) {
	tag := &Tag{}
	err := r.db.ModelContext(ctx, tag).
		Where(cond, arg).
		Limit(1).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	t := tag.ToDomain()
	return &t, nil
}

// InsertTag maps a violation of the case-insensitive name index to a conflict.
func (r *Repository) InsertTag(ctx context.Context, t domain.Tag) error {
	tag := NewTag(t)
	tag.CreatedAt = time.Now().UTC()

	if _, err := r.db.ModelContext(ctx, &tag).Insert(); err != nil {
		var pgErr pg.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return apperrors.Conflictf("tag %q already exists", t.Name).WithCause(err)
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	return nil
}

// DeleteTag strips the tag from stories and removes it inside one transaction.
func (r *Repository) DeleteTag(ctx context.Context, id string) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE "stories" SET "tagIds" = array_remove("tagIds", ?0) WHERE ?0 = ANY("tagIds")`, id)
		if err != nil {
			return fmt.Errorf("failed to strip tag from stories: %w", err)
		}

		_, err = tx.ModelContext(ctx, (*Tag)(nil)).
			Where(`"tagId" = ?`, id).
			Delete()
		if err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}

		return nil
	})
}
