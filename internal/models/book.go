package models

import (
	"math/rand/v2"
	"time"
)

// PastelColor is one of the soft colors used for books and sticky notes.
type PastelColor string

const (
	Yellow PastelColor = "yellow"
	Blue   PastelColor = "blue"
	Green  PastelColor = "green"
	Pink   PastelColor = "pink"
)

// Pastels lists every valid PastelColor in palette order.
var Pastels = []PastelColor{Yellow, Blue, Green, Pink}

func (c PastelColor) Valid() bool {
	for _, p := range Pastels {
		if c == p {
			return true
		}
	}
	return false
}

// RandomPastel picks a palette color uniformly.
func RandomPastel() PastelColor {
	return Pastels[rand.IntN(len(Pastels))]
}

// Book is a user-defined collection of notes
type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Category    string      `json:"category"`
	Color       PastelColor `json:"color"`
	LastUpdated time.Time   `json:"lastUpdated"`
}
