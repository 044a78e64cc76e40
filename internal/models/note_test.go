package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewPriority(t *testing.T) {
	tests := []struct {
		name string
		note Note
		want string
	}{
		{
			name: "Lined wins",
			note: Note{Lined: Lined{Content: "lined"}, Cornell: Cornell{Content: "cornell"}, Feynman: Feynman{Concept: "concept"}},
			want: "lined",
		},
		{
			name: "Cornell before Feynman",
			note: Note{Cornell: Cornell{Content: "cornell"}, Feynman: Feynman{Concept: "concept"}},
			want: "cornell",
		},
		{
			name: "Feynman concept",
			note: Note{Feynman: Feynman{Concept: "concept", Explanation: "ignored"}},
			want: "concept",
		},
		{
			name: "Empty",
			note: Note{MindMap: MindMap{Central: "not previewed"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.note.Preview())
		})
	}
}

func TestSummaryKeepsTemplates(t *testing.T) {
	n := Note{ID: 7, Title: "T", Date: "D", Lined: Lined{Content: "x"}, Cornell: Cornell{KeyPoints: "kept"}}

	s := n.Summary()
	assert.Equal(t, NoteSummary{ID: 7, Title: "T", Date: "D", Content: "x"}, s)
	assert.Equal(t, "kept", n.Cornell.KeyPoints)
}

func TestNewNote(t *testing.T) {
	now := time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)
	n := NewNote(now)

	assert.Equal(t, now.UnixMilli(), n.ID)
	assert.Equal(t, "Octubre 15, 2026", n.Date)
	assert.Equal(t, "Nota Octubre 15, 2026", n.Title)
	assert.NotNil(t, n.Charting.Columns)
	assert.NotNil(t, n.MindMap.Branches)
}

func TestNormalize(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	var n Note
	n.Normalize(now)

	assert.Equal(t, now.UnixMilli(), n.ID)
	assert.Equal(t, DefaultTitle, n.Title)
	assert.Equal(t, "Enero 1, 2024", n.Date)
	assert.Empty(t, n.Charting.Columns)
	assert.NotNil(t, n.MindMap.Branches)
}

func TestSetField(t *testing.T) {
	var n Note

	require.NoError(t, n.SetField(CornellTemplate, "keyPoints", "kp"))
	require.NoError(t, n.SetField(FeynmanTemplate, "gaps", "g"))
	require.NoError(t, n.SetField(LinedTemplate, "content", "l"))
	require.NoError(t, n.SetField(MindMapTemplate, "central", "c"))
	require.NoError(t, n.SetField(ChartingTemplate, "title", "shared"))

	assert.Equal(t, "kp", n.Cornell.KeyPoints)
	assert.Equal(t, "g", n.Feynman.Gaps)
	assert.Equal(t, "l", n.Lined.Content)
	assert.Equal(t, "c", n.MindMap.Central)
	assert.Equal(t, "shared", n.Title)

	err := n.SetField(LinedTemplate, "summary", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
	err = n.SetField(Template("scroll"), "content", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestMindMapDepth(t *testing.T) {
	m := MindMap{
		Central: "root",
		Branches: []Branch{
			{Text: "a"},
			{Text: "b", Children: []Branch{{Text: "b1", Children: []Branch{{Text: "b1x"}}}}},
		},
	}
	assert.Equal(t, 3, m.Depth())
	assert.Equal(t, 0, MindMap{}.Depth())
}

func TestNoteJSONLayout(t *testing.T) {
	n := Note{ID: 1, Title: "A", Date: "2024-01-01", Content: "x", Cornell: Cornell{KeyPoints: "k"}}
	data, err := json.Marshal(n)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "title", "date", "content", "cornell", "feynman", "charting", "mindMap", "lined"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "k", raw["cornell"].(map[string]any)["keyPoints"])
}

func TestPastelColor(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.True(t, RandomPastel().Valid())
	}
	assert.False(t, PastelColor("bg-yellow-100").Valid())
}
