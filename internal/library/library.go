// Package library manages the list of books and the category set they draw from.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/st-notes/internal/models"
	"github.com/xaenox/st-notes/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrTitleRequired    = errors.New("book title is required")
	ErrCategoryRequired = errors.New("category name is required")
)

// BookInput carries the user-editable fields of a book.
type BookInput struct {
	Title    string
	Author   string
	Category string
	Color    models.PastelColor
}

type Library struct {
	mu     sync.Mutex
	kv     storage.Storage
	keys   storage.Keyspace
	logger *zap.Logger
	now    func() time.Time
}

func New(kv storage.Storage, keys storage.Keyspace, logger *zap.Logger) *Library {
	return &Library{
		kv:     kv,
		keys:   keys,
		logger: logger,
		now:    time.Now,
	}
}

func (l *Library) Books(ctx context.Context) []models.Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loadBooks(ctx)
}

func (l *Library) Book(ctx context.Context, id string) (models.Book, error) {
	for _, b := range l.Books(ctx) {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
}

// CreateBook adds a book with a fresh time-ordered id. A blank title is
// rejected before anything is written.
func (l *Library) CreateBook(ctx context.Context, in BookInput) (models.Book, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return models.Book{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Book{}, fmt.Errorf("failed to generate book id: %w", err)
	}

	book := models.Book{
		ID:          id.String(),
		Title:       in.Title,
		Author:      in.Author,
		Category:    in.Category,
		Color:       in.Color,
		LastUpdated: l.now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	books := append(l.loadBooks(ctx), book)
	if err := l.saveBooks(ctx, books); err != nil {
		return book, err
	}
	if book.Category != "" {
		if err := l.addCategory(ctx, book.Category); err != nil {
			return book, err
		}
	}
	return book, nil
}

func (l *Library) UpdateBook(ctx context.Context, id string, in BookInput) (models.Book, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return models.Book{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	books := l.loadBooks(ctx)
	for i := range books {
		if books[i].ID != id {
			continue
		}
		books[i].Title = in.Title
		books[i].Author = in.Author
		books[i].Category = in.Category
		books[i].Color = in.Color
		books[i].LastUpdated = l.now().UTC()

		if err := l.saveBooks(ctx, books); err != nil {
			return books[i], err
		}
		if in.Category != "" {
			if err := l.addCategory(ctx, in.Category); err != nil {
				return books[i], err
			}
		}
		return books[i], nil
	}
	return models.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
}

// DeleteBook removes the book and its notes. An unknown id is a no-op.
func (l *Library) DeleteBook(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	books := l.loadBooks(ctx)
	kept := books[:0]
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(books) {
		return nil
	}

	if err := l.saveBooks(ctx, kept); err != nil {
		return err
	}
	if err := l.kv.Delete(ctx, l.keys.Notes(id)); err != nil {
		return fmt.Errorf("failed to delete notes of book %s: %w", id, err)
	}
	return nil
}

// Touch marks a book as updated now.
func (l *Library) Touch(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	books := l.loadBooks(ctx)
	for i := range books {
		if books[i].ID == id {
			books[i].LastUpdated = l.now().UTC()
			return l.saveBooks(ctx, books)
		}
	}
	return fmt.Errorf("%w: %s", ErrBookNotFound, id)
}

func normalizeInput(in BookInput) (BookInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" {
		return in, ErrTitleRequired
	}
	if !in.Color.Valid() {
		in.Color = models.RandomPastel()
	}
	return in, nil
}

func (l *Library) loadBooks(ctx context.Context) []models.Book {
	return loadList[models.Book](ctx, l, l.keys.Books())
}

func (l *Library) saveBooks(ctx context.Context, books []models.Book) error {
	return l.saveJSON(ctx, l.keys.Books(), books)
}

// loadList decodes the JSON array stored under key. A missing, unreadable
// or malformed entry yields an empty list.
func loadList[T any](ctx context.Context, l *Library, key string) []T {
	data, ok, err := l.kv.Get(ctx, key)
	if err != nil {
		l.logger.Warn("Failed to read library entry", zap.Error(err), zap.String("key", key))
		return []T{}
	}
	if !ok {
		return []T{}
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		l.logger.Warn("Discarding malformed library entry", zap.Error(err), zap.String("key", key))
		return []T{}
	}
	if list == nil {
		list = []T{}
	}
	return list
}

func (l *Library) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := l.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
