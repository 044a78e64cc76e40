package notes

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/st-notes/internal/models"
	"go.uber.org/zap"
)

// Toucher records that a book's notes changed.
type Toucher interface {
	Touch(ctx context.Context, bookID string) error
}

// Notebook is an editing session over one book. Its in-memory list is the
// source of truth: every change is written through to the Store at once, and
// a failed write is kept as a warning instead of undoing the change.
type Notebook struct {
	mu      sync.Mutex
	bookID  string
	notes   []models.Note
	store   Store
	logger  *zap.Logger
	toucher Toucher
	now     func() time.Time
	warning error
}

type NotebookOption func(*Notebook)

func WithToucher(t Toucher) NotebookOption {
	return func(nb *Notebook) {
		nb.toucher = t
	}
}

// WithClock overrides the time source used for new note ids and dates.
func WithClock(now func() time.Time) NotebookOption {
	return func(nb *Notebook) {
		nb.now = now
	}
}

func OpenNotebook(ctx context.Context, store Store, bookID string, logger *zap.Logger, opts ...NotebookOption) *Notebook {
	nb := &Notebook{
		bookID: bookID,
		store:  store,
		logger: logger.With(zap.String("book_id", bookID)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(nb)
	}
	nb.notes = store.Load(ctx, bookID)
	return nb
}

func (nb *Notebook) BookID() string {
	return nb.bookID
}

// Notes returns a copy of the current list.
func (nb *Notebook) Notes() []models.Note {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	return append([]models.Note(nil), nb.notes...)
}

func (nb *Notebook) Note(id int64) (models.Note, bool) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	for _, n := range nb.notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

// Draft returns a fresh note for the editor. It is not stored until Put.
func (nb *Notebook) Draft() models.Note {
	return models.NewNote(nb.now())
}

// Put saves note, replacing any note with the same id.
func (nb *Notebook) Put(ctx context.Context, note models.Note) models.Note {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	note.Normalize(nb.now())
	nb.notes = upsert(nb.notes, note)
	nb.persist(ctx)
	return note
}

// Edit sets one field of a stored note. An unknown note id is a no-op.
func (nb *Notebook) Edit(ctx context.Context, id int64, template models.Template, field, value string) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	for i := range nb.notes {
		if nb.notes[i].ID != id {
			continue
		}
		if err := nb.notes[i].SetField(template, field, value); err != nil {
			return err
		}
		nb.persist(ctx)
		return nil
	}
	return nil
}

// Delete removes the note with id. An unknown id is a no-op.
func (nb *Notebook) Delete(ctx context.Context, id int64) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	var removed bool
	nb.notes, removed = remove(nb.notes, id)
	if removed {
		nb.persist(ctx)
	}
}

func (nb *Notebook) TableOfContents() []TOCEntry {
	return TableOfContents(nb.Notes())
}

// Warning reports the last failed write, or nil once a later write succeeds.
func (nb *Notebook) Warning() error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	return nb.warning
}

func (nb *Notebook) persist(ctx context.Context) {
	if err := nb.store.Save(ctx, nb.bookID, nb.notes); err != nil {
		nb.logger.Warn("Notes kept in memory only", zap.Error(err), zap.Int("notes", len(nb.notes)))
		nb.warning = err
		return
	}
	nb.warning = nil

	if nb.toucher != nil {
		if err := nb.toucher.Touch(ctx, nb.bookID); err != nil {
			nb.logger.Warn("Failed to update book timestamp", zap.Error(err))
		}
	}
}
