// Package badgerstore is the embedded durable backend: stories and tags are kept as JSON
// values in a Badger database together with a case-folded tag name index.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

const (
	storyPrefix     = "story:"         // story:{id} → Story JSON
	tagPrefix       = "tag:"           // tag:{id} → Tag JSON
	tagByNamePrefix = "idx:tags:name:" // idx:tags:name:{lower(name)} → tagID
)

type Store struct {
	db *badger.DB
	lg *slog.Logger
}

// Open opens (or creates) the database at path. An empty path opens an in-memory database.
func Open(path string, lg *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}

	return open(opts, lg)
}

func open(opts badger.Options, lg *slog.Logger) (*Store, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	lg.Info("badger database opened", "path", opts.Dir)

	return &Store{db: db, lg: lg}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Stories(ctx context.Context, q feed.Query) ([]domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := []domain.Story{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, storyPrefix, func(val []byte) error {
			var st domain.Story
			if err := json.Unmarshal(val, &st); err != nil {
				return err
			}
			if q.Match(st) {
				list = append(list, st)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan stories: %w", err)
	}

	feed.Sort(list)
	return list, nil
}

func (s *Store) StoryByID(ctx context.Context, id string) (*domain.Story, error) {
	var st domain.Story
	found, err := s.get(ctx, storyPrefix+id, &st)
	if err != nil || !found {
		return nil, err
	}
	return &st, nil
}

func (s *Store) InsertStory(ctx context.Context, st domain.Story) error {
	return s.putStory(ctx, st)
}

func (s *Store) UpdateStory(ctx context.Context, st domain.Story) error {
	return s.putStory(ctx, st)
}

func (s *Store) putStory(ctx context.Context, st domain.Story) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal story: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(storyPrefix+st.ID), data)
	})
}

func (s *Store) DeleteStory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(storyPrefix + id))
	})
}

func (s *Store) Tags(ctx context.Context) ([]domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := []domain.Tag{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, tagPrefix, func(val []byte) error {
			var t domain.Tag
			if err := json.Unmarshal(val, &t); err != nil {
				return err
			}
			list = append(list, t)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}

	feed.SortTags(list)
	return list, nil
}

func (s *Store) TagByID(ctx context.Context, id string) (*domain.Tag, error) {
	var t domain.Tag
	found, err := s.get(ctx, tagPrefix+id, &t)
	if err != nil || !found {
		return nil, err
	}
	return &t, nil
}

func (s *Store) TagByName(ctx context.Context, name string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tagID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nameKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tagID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}

	return s.TagByID(ctx, tagID)
}

func (s *Store) InsertTag(ctx context.Context, t domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tag: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(tagPrefix+t.ID), data); err != nil {
			return err
		}
		return txn.Set(nameKey(t.Name), []byte(t.ID))
	})
}

// DeleteTag strips the tag from every story and then removes it with its name index entry.
// References are rewritten through a write batch, which badger splits into as many
// transactions as the store size needs; the tag itself goes last so a failed cascade leaves
// it in place for a retry.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	t, err := s.TagByID(ctx, id)
	if err != nil || t == nil {
		return err
	}

	stripped, err := s.stripTag(ctx, id)
	if err != nil {
		return fmt.Errorf("delete tag %s: strip references: %w", id, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(tagPrefix + id)); err != nil {
			return err
		}
		return txn.Delete(nameKey(t.Name))
	})
	if err != nil {
		return fmt.Errorf("delete tag %s: %w", id, err)
	}

	s.lg.Debug("tag references removed", "tag", id, "stories", stripped)

	return nil
}

func (s *Store) stripTag(ctx context.Context, id string) (int, error) {
	var updated []domain.Story
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, storyPrefix, func(val []byte) error {
			var st domain.Story
			if err := json.Unmarshal(val, &st); err != nil {
				return err
			}
			if st.HasTag(id) {
				updated = append(updated, st.WithoutTag(id))
			}
			return nil
		})
	})
	if err != nil || len(updated) == 0 {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, st := range updated {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		data, err := json.Marshal(st)
		if err != nil {
			return 0, fmt.Errorf("marshal story: %w", err)
		}
		if err := wb.Set([]byte(storyPrefix+st.ID), data); err != nil {
			return 0, err
		}
	}

	if err := wb.Flush(); err != nil {
		return 0, err
	}

	return len(updated), nil
}

func (s *Store) get(ctx context.Context, key string, dest any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}

	return true, nil
}

func scan(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchSize = 100

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}

	return nil
}

func nameKey(name string) []byte {
	return []byte(tagByNamePrefix + strings.ToLower(name))
}
