package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownField = errors.New("unknown note field")

// Template names one of the layouts a note can be written in.
type Template string

const (
	CornellTemplate  Template = "cornell"
	FeynmanTemplate  Template = "feynman"
	ChartingTemplate Template = "charting"
	MindMapTemplate  Template = "mindmap"
	LinedTemplate    Template = "lined"
)

// Templates lists the available templates in the order the editor offers them.
var Templates = []Template{CornellTemplate, LinedTemplate, FeynmanTemplate, ChartingTemplate, MindMapTemplate}

func (t Template) Valid() bool {
	for _, v := range Templates {
		if t == v {
			return true
		}
	}
	return false
}

// DefaultTitle is used when a note is saved without a title.
const DefaultTitle = "Sin título"

type Cornell struct {
	Content   string `json:"content" yaml:"content"`
	KeyPoints string `json:"keyPoints" yaml:"keyPoints"`
	Summary   string `json:"summary" yaml:"summary"`
}

type Feynman struct {
	Concept     string `json:"concept" yaml:"concept"`
	Explanation string `json:"explanation" yaml:"explanation"`
	Gaps        string `json:"gaps" yaml:"gaps"`
	Refinement  string `json:"refinement" yaml:"refinement"`
}

type ChartColumn struct {
	Header  string   `json:"header" yaml:"header"`
	Content []string `json:"content" yaml:"content"`
}

type Charting struct {
	Columns []ChartColumn `json:"columns" yaml:"columns"`
}

// Branch is a mind-map node. Children nest recursively.
type Branch struct {
	Text     string   `json:"text" yaml:"text"`
	Children []Branch `json:"children,omitempty" yaml:"children,omitempty"`
}

type MindMap struct {
	Central  string   `json:"central" yaml:"central"`
	Branches []Branch `json:"branches" yaml:"branches"`
}

// Depth reports how many branch levels hang off the central idea.
func (m MindMap) Depth() int {
	return branchDepth(m.Branches)
}

func branchDepth(branches []Branch) int {
	max := 0
	for _, b := range branches {
		if d := 1 + branchDepth(b.Children); d > max {
			max = d
		}
	}
	return max
}

type Lined struct {
	Content string `json:"content" yaml:"content"`
}

// Note is a single document inside a book. Every template keeps its own
// data so switching templates never discards what was written in another.
type Note struct {
	ID       int64    `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Date     string   `json:"date" yaml:"date"`
	Content  string   `json:"content" yaml:"content"`
	Cornell  Cornell  `json:"cornell" yaml:"cornell"`
	Feynman  Feynman  `json:"feynman" yaml:"feynman"`
	Charting Charting `json:"charting" yaml:"charting"`
	MindMap  MindMap  `json:"mindMap" yaml:"mindMap"`
	Lined    Lined    `json:"lined" yaml:"lined"`
}

// NoteSummary is the reduced form shown in note lists.
type NoteSummary struct {
	ID      int64  `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Date    string `json:"date" yaml:"date"`
	Content string `json:"content" yaml:"content"`
}

// NewNote returns an empty note whose id derives from now.
func NewNote(now time.Time) Note {
	date := FormatDate(now)
	return Note{
		ID:       now.UnixMilli(),
		Title:    "Nota " + date,
		Date:     date,
		Charting: Charting{Columns: []ChartColumn{}},
		MindMap:  MindMap{Branches: []Branch{}},
	}
}

// Preview flattens the note to one string for list rendering:
// lined content, else cornell content, else the feynman concept.
func (n Note) Preview() string {
	switch {
	case n.Lined.Content != "":
		return n.Lined.Content
	case n.Cornell.Content != "":
		return n.Cornell.Content
	default:
		return n.Feynman.Concept
	}
}

func (n Note) Summary() NoteSummary {
	content := n.Content
	if content == "" {
		content = n.Preview()
	}
	return NoteSummary{ID: n.ID, Title: n.Title, Date: n.Date, Content: content}
}

// Normalize applies the defaults a note receives when it is saved.
func (n *Note) Normalize(now time.Time) {
	if n.ID == 0 {
		n.ID = now.UnixMilli()
	}
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	if n.Date == "" {
		n.Date = FormatDate(now)
	}
	if n.Charting.Columns == nil {
		n.Charting.Columns = []ChartColumn{}
	}
	if n.MindMap.Branches == nil {
		n.MindMap.Branches = []Branch{}
	}
}

// SetField updates one text field of the given template. The title is
// shared by all templates and may be set with any of them.
func (n *Note) SetField(t Template, field, value string) error {
	if field == "title" {
		n.Title = value
		return nil
	}

	var target *string
	switch t {
	case CornellTemplate:
		switch field {
		case "content":
			target = &n.Cornell.Content
		case "keyPoints":
			target = &n.Cornell.KeyPoints
		case "summary":
			target = &n.Cornell.Summary
		}
	case FeynmanTemplate:
		switch field {
		case "concept":
			target = &n.Feynman.Concept
		case "explanation":
			target = &n.Feynman.Explanation
		case "gaps":
			target = &n.Feynman.Gaps
		case "refinement":
			target = &n.Feynman.Refinement
		}
	case MindMapTemplate:
		if field == "central" {
			target = &n.MindMap.Central
		}
	case LinedTemplate:
		if field == "content" {
			target = &n.Lined.Content
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, t, field)
	}

	*target = value
	return nil
}
