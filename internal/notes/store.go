package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xaenox/st-notes/internal/models"
	"github.com/xaenox/st-notes/internal/storage"
	"go.uber.org/zap"
)

// ErrPersist marks a mutation that was applied but could not be written to storage.
var ErrPersist = errors.New("notes not persisted")

// Store maps a book id to its ordered list of notes.
type Store interface {
	Load(ctx context.Context, bookID string) []models.Note
	Save(ctx context.Context, bookID string, notes []models.Note) error
	// Upsert and Remove return the resulting list even when the write
	// fails; the error then wraps ErrPersist.
	Upsert(ctx context.Context, bookID string, note models.Note) ([]models.Note, error)
	Remove(ctx context.Context, bookID string, noteID int64) ([]models.Note, error)
}

// KVStore keeps each book's notes as one JSON array under Keyspace.Notes(bookID).
type KVStore struct {
	kv     storage.Storage
	keys   storage.Keyspace
	logger *zap.Logger
}

func NewKVStore(kv storage.Storage, keys storage.Keyspace, logger *zap.Logger) *KVStore {
	return &KVStore{
		kv:     kv,
		keys:   keys,
		logger: logger,
	}
}

// Load never fails: a missing, unreadable or malformed entry yields an empty list.
func (s *KVStore) Load(ctx context.Context, bookID string) []models.Note {
	key := s.keys.Notes(bookID)

	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read notes, starting empty",
			zap.Error(err),
			zap.String("book_id", bookID))
		return []models.Note{}
	}
	if !ok {
		return []models.Note{}
	}

	var notes []models.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.logger.Warn("Discarding malformed notes entry",
			zap.Error(err),
			zap.String("book_id", bookID),
			zap.String("key", key))
		return []models.Note{}
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes
}

// Save replaces the whole stored list for bookID.
func (s *KVStore) Save(ctx context.Context, bookID string, notes []models.Note) error {
	if notes == nil {
		notes = []models.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("%w: book %s: %w", ErrPersist, bookID, err)
	}
	if err := s.kv.Set(ctx, s.keys.Notes(bookID), data); err != nil {
		return fmt.Errorf("%w: book %s: %w", ErrPersist, bookID, err)
	}
	return nil
}

func (s *KVStore) Upsert(ctx context.Context, bookID string, note models.Note) ([]models.Note, error) {
	notes := upsert(s.Load(ctx, bookID), note)
	return notes, s.Save(ctx, bookID, notes)
}

func (s *KVStore) Remove(ctx context.Context, bookID string, noteID int64) ([]models.Note, error) {
	notes, removed := remove(s.Load(ctx, bookID), noteID)
	if !removed {
		return notes, nil
	}
	return notes, s.Save(ctx, bookID, notes)
}

// upsert replaces the note with the same id in place, or appends it.
func upsert(notes []models.Note, note models.Note) []models.Note {
	for i := range notes {
		if notes[i].ID == note.ID {
			notes[i] = note
			return notes
		}
	}
	return append(notes, note)
}

func remove(notes []models.Note, noteID int64) ([]models.Note, bool) {
	kept := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	return kept, len(kept) != len(notes)
}
