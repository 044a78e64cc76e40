package notes

import (
	"strings"

	"github.com/xaenox/st-notes/internal/models"
)

const (
	// MinTOCEntries is the number of rows a table of contents always shows.
	MinTOCEntries = 6
	// PlaceholderText fills the rows that have no note behind them.
	PlaceholderText = "———————"
)

// TOCEntry is one table-of-contents row. Placeholder rows are display-only.
type TOCEntry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

func TableOfContents(notes []models.Note) []TOCEntry {
	entries := make([]TOCEntry, 0, max(len(notes), MinTOCEntries))
	for _, n := range notes {
		title := n.Title
		if strings.TrimSpace(title) == "" {
			title = models.DefaultTitle
		}
		entries = append(entries, TOCEntry{ID: n.ID, Title: title})
	}
	for i := len(entries); i < MinTOCEntries; i++ {
		entries = append(entries, TOCEntry{ID: int64(i + 1), Title: PlaceholderText, Placeholder: true})
	}
	return entries
}
