package library

import (
	"context"
	"strings"
)

func (l *Library) Categories(ctx context.Context) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return loadList[string](ctx, l, l.keys.Categories())
}

// AddCategory adds name to the set. Adding an existing category is a no-op.
func (l *Library) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCategoryRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.addCategory(ctx, name)
}

func (l *Library) addCategory(ctx context.Context, name string) error {
	categories := loadList[string](ctx, l, l.keys.Categories())
	for _, c := range categories {
		if c == name {
			return nil
		}
	}
	return l.saveJSON(ctx, l.keys.Categories(), append(categories, name))
}

// DeleteCategory drops name from the set and clears it from every book
// that used it. The books themselves are kept.
func (l *Library) DeleteCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	categories := loadList[string](ctx, l, l.keys.Categories())
	kept := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) != len(categories) {
		if err := l.saveJSON(ctx, l.keys.Categories(), kept); err != nil {
			return err
		}
	}

	books := l.loadBooks(ctx)
	changed := false
	for i := range books {
		if books[i].Category == name {
			books[i].Category = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return l.saveBooks(ctx, books)
}
