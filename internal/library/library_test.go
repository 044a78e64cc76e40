package library

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/st-notes/internal/models"
	"github.com/xaenox/st-notes/internal/storage"
	"go.uber.org/zap/zaptest"
)

func newTestLibrary(t *testing.T) (*Library, *storage.MemoryStorage) {
	t.Helper()
	kv := storage.NewMemoryStorage()
	lib := New(kv, storage.NewKeyspace(""), zaptest.NewLogger(t))
	now := time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC)
	lib.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	return lib, kv
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	book, err := lib.CreateBook(ctx, BookInput{
		Title:    "  Cien años de soledad ",
		Author:   "Gabriel García Márquez",
		Category: "Novela",
		Color:    models.Pink,
	})
	require.NoError(t, err)

	id, err := uuid.Parse(book.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, "Cien años de soledad", book.Title)
	assert.Equal(t, models.Pink, book.Color)
	assert.False(t, book.LastUpdated.IsZero())

	assert.Equal(t, []models.Book{book}, lib.Books(ctx))
	assert.Equal(t, []string{"Novela"}, lib.Categories(ctx))

	got, err := lib.Book(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book, got)
}

func TestCreateBookRequiresTitle(t *testing.T) {
	ctx := context.Background()
	lib, kv := newTestLibrary(t)

	_, err := lib.CreateBook(ctx, BookInput{Title: "   ", Category: "Novela"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	keys, err := kv.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys, "nothing is written for a rejected book")
}

func TestCreateBookPicksColor(t *testing.T) {
	lib, _ := newTestLibrary(t)

	book, err := lib.CreateBook(context.Background(), BookInput{Title: "T", Color: "purple"})
	require.NoError(t, err)
	assert.True(t, book.Color.Valid())
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)
	book, err := lib.CreateBook(ctx, BookInput{Title: "Old", Color: models.Blue})
	require.NoError(t, err)

	updated, err := lib.UpdateBook(ctx, book.ID, BookInput{Title: "New", Author: "A", Category: "Ensayo", Color: models.Green})
	require.NoError(t, err)
	assert.Equal(t, book.ID, updated.ID)
	assert.Equal(t, "New", updated.Title)
	assert.True(t, updated.LastUpdated.After(book.LastUpdated))
	assert.Equal(t, []string{"Ensayo"}, lib.Categories(ctx))

	_, err = lib.UpdateBook(ctx, "missing", BookInput{Title: "X"})
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = lib.UpdateBook(ctx, book.ID, BookInput{})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestDeleteBookRemovesNotes(t *testing.T) {
	ctx := context.Background()
	lib, kv := newTestLibrary(t)
	keep, err := lib.CreateBook(ctx, BookInput{Title: "Keep"})
	require.NoError(t, err)
	drop, err := lib.CreateBook(ctx, BookInput{Title: "Drop"})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "st-notes-"+drop.ID, []byte(`[]`)))

	require.NoError(t, lib.DeleteBook(ctx, drop.ID))
	require.NoError(t, lib.DeleteBook(ctx, "missing"))

	assert.Equal(t, []models.Book{keep}, lib.Books(ctx))
	_, ok, err := kv.Get(ctx, "st-notes-"+drop.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = lib.Book(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestTouch(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)
	book, err := lib.CreateBook(ctx, BookInput{Title: "T"})
	require.NoError(t, err)

	require.NoError(t, lib.Touch(ctx, book.ID))
	got, err := lib.Book(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, got.LastUpdated.After(book.LastUpdated))

	assert.ErrorIs(t, lib.Touch(ctx, "missing"), ErrBookNotFound)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	require.NoError(t, lib.AddCategory(ctx, "Historia"))
	require.NoError(t, lib.AddCategory(ctx, " Historia "))
	require.NoError(t, lib.AddCategory(ctx, "Ciencia"))
	assert.ErrorIs(t, lib.AddCategory(ctx, " "), ErrCategoryRequired)

	assert.Equal(t, []string{"Historia", "Ciencia"}, lib.Categories(ctx))
}

func TestDeleteCategoryClearsBooks(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)
	a, err := lib.CreateBook(ctx, BookInput{Title: "A", Category: "Historia"})
	require.NoError(t, err)
	b, err := lib.CreateBook(ctx, BookInput{Title: "B", Category: "Ciencia"})
	require.NoError(t, err)

	require.NoError(t, lib.DeleteCategory(ctx, "Historia"))

	assert.Equal(t, []string{"Ciencia"}, lib.Categories(ctx))
	books := lib.Books(ctx)
	require.Len(t, books, 2)
	assert.Equal(t, a.ID, books[0].ID)
	assert.Empty(t, books[0].Category)
	assert.Equal(t, b.Category, books[1].Category)

	require.NoError(t, lib.DeleteCategory(ctx, "never-existed"))
	assert.Len(t, lib.Books(ctx), 2)
}

func TestMalformedEntriesLoadEmpty(t *testing.T) {
	ctx := context.Background()
	lib, kv := newTestLibrary(t)
	require.NoError(t, kv.Set(ctx, "st-notes-books", []byte(`{"not":"a list"}`)))
	require.NoError(t, kv.Set(ctx, "st-notes-categories", []byte(`[1,2]`)))

	assert.Empty(t, lib.Books(ctx))
	assert.Empty(t, lib.Categories(ctx))

	// The library stays usable and overwrites the corrupt entry.
	_, err := lib.CreateBook(ctx, BookInput{Title: "Fresh"})
	require.NoError(t, err)
	assert.Len(t, lib.Books(ctx), 1)
}
