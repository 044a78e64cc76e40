package sticky

import (
	"time"

	"github.com/xaenox/st-notes/internal/models"
)

// Note is a freely positioned annotation over the note editor.
type Note struct {
	ID       int64
	Text     string
	Color    models.PastelColor
	Position Position
}

// Board holds the sticky notes of one editing session. Sticky notes are
// not persisted; they are gone once the board is dropped.
type Board struct {
	notes  []Note
	lastID int64
}

func NewBoard() *Board {
	return &Board{}
}

// Add creates an empty note with a random pastel color at DefaultPosition.
func (b *Board) Add(now time.Time) Note {
	id := now.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id

	n := Note{
		ID:       id,
		Color:    models.RandomPastel(),
		Position: DefaultPosition,
	}
	b.notes = append(b.notes, n)
	return n
}

// SetText replaces a note's text. Unknown ids are ignored.
func (b *Board) SetText(id int64, text string) {
	if i := b.index(id); i >= 0 {
		b.notes[i].Text = text
	}
}

// Delete removes a note. Unknown ids are ignored.
func (b *Board) Delete(id int64) {
	if i := b.index(id); i >= 0 {
		b.notes = append(b.notes[:i], b.notes[i+1:]...)
	}
}

func (b *Board) Note(id int64) (Note, bool) {
	if i := b.index(id); i >= 0 {
		return b.notes[i], true
	}
	return Note{}, false
}

// Notes returns the notes in creation order.
func (b *Board) Notes() []Note {
	return append([]Note(nil), b.notes...)
}

func (b *Board) index(id int64) int {
	for i := range b.notes {
		if b.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) move(id int64, p Position) {
	if i := b.index(id); i >= 0 {
		b.notes[i].Position = p
	}
}
