package sticky

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/st-notes/internal/models"
	"go.uber.org/zap/zaptest"
)

type resizable struct {
	width, height float64
}

func (r *resizable) Size() (float64, float64) { return r.width, r.height }

func newTestEngine(t *testing.T, width, height float64) (*Engine, *Board, *resizable) {
	t.Helper()
	board := NewBoard()
	container := &resizable{width: width, height: height}
	return NewEngine(board, container, zaptest.NewLogger(t)), board, container
}

func position(t *testing.T, b *Board, id int64) Position {
	t.Helper()
	n, ok := b.Note(id)
	require.True(t, ok)
	return n.Position
}

func TestDragClampsLargeDelta(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())
	require.Equal(t, Position{X: 70, Y: 20}, note.Position)

	require.True(t, engine.PointerDown(note.ID, Point{X: 10, Y: 10}, Point{X: 5, Y: 5}))
	engine.PointerMove(Point{X: 1010, Y: 1010})

	got := position(t, board, note.ID)
	assert.Equal(t, Position{X: 95, Y: 95}, got)
	x, y := got.CSS()
	assert.Equal(t, "95%", x)
	assert.Equal(t, "95%", y)
}

func TestDragClampsAtZero(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())

	engine.PointerDown(note.ID, Point{}, Point{})
	engine.PointerMove(Point{X: -5000, Y: -5000})

	assert.Equal(t, Position{X: 0, Y: 0}, position(t, board, note.ID))
}

func TestClampProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		p := Position{X: r.Float64() * 95, Y: r.Float64() * 95}
		dx := (r.Float64() - 0.5) * 1e6
		dy := (r.Float64() - 0.5) * 1e6
		got := Move(p, dx, dy, 1+r.Float64()*2000, 1+r.Float64()*2000)

		assert.GreaterOrEqual(t, got.X, 0.0)
		assert.LessOrEqual(t, got.X, 95.0)
		assert.GreaterOrEqual(t, got.Y, 0.0)
		assert.LessOrEqual(t, got.Y, 95.0)
	}
}

func TestDeltasAccumulateFromLastPointer(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())
	board.move(note.ID, Position{})

	engine.PointerDown(note.ID, Point{X: 0, Y: 0}, Point{Y: 10})
	engine.PointerMove(Point{X: 40, Y: 30})
	engine.PointerMove(Point{X: 80, Y: 60})

	got := position(t, board, note.ID)
	assert.InDelta(t, 20.0, got.X, 1e-9)
	assert.InDelta(t, 20.0, got.Y, 1e-9)
}

func TestResizeMidDragUsesNewSize(t *testing.T) {
	engine, board, container := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())
	board.move(note.ID, Position{X: 50, Y: 50})

	engine.PointerDown(note.ID, Point{}, Point{})
	engine.PointerMove(Point{X: 40, Y: 30})
	first := position(t, board, note.ID)
	assert.InDelta(t, 60.0, first.X, 1e-9)
	assert.InDelta(t, 60.0, first.Y, 1e-9)

	container.width, container.height = 800, 600
	engine.PointerMove(Point{X: 80, Y: 60})

	second := position(t, board, note.ID)
	assert.InDelta(t, 65.0, second.X, 1e-9)
	assert.InDelta(t, 65.0, second.Y, 1e-9)
}

func TestUnmeasurableContainerIsNoop(t *testing.T) {
	engine, board, container := newTestEngine(t, 0, 0)
	note := board.Add(time.Now())

	require.True(t, engine.PointerDown(note.ID, Point{}, Point{}))
	engine.PointerMove(Point{X: 100, Y: 100})

	assert.Equal(t, DefaultPosition, position(t, board, note.ID))
	assert.Equal(t, Dragging, engine.State())

	// Once measurable, the delta is taken from the original press.
	container.width, container.height = 1000, 1000
	engine.PointerMove(Point{X: 100, Y: 100})
	got := position(t, board, note.ID)
	assert.InDelta(t, 80.0, got.X, 1e-9)
	assert.InDelta(t, 30.0, got.Y, 1e-9)
}

func TestPointerDownOutsideHandle(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())

	assert.False(t, engine.PointerDown(note.ID, Point{}, Point{X: 5, Y: 21}))
	assert.Equal(t, Idle, engine.State())

	assert.False(t, engine.PointerDown(12345, Point{}, Point{}))
	assert.Equal(t, Idle, engine.State())

	engine.PointerMove(Point{X: 100, Y: 100})
	assert.Equal(t, DefaultPosition, position(t, board, note.ID))
}

func TestOnlyDraggedNoteMoves(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	now := time.Now()
	a := board.Add(now)
	b := board.Add(now)
	require.NotEqual(t, a.ID, b.ID)

	engine.PointerDown(b.ID, Point{}, Point{Y: 20})
	id, dragging := engine.Dragged()
	assert.True(t, dragging)
	assert.Equal(t, b.ID, id)

	engine.PointerMove(Point{X: -40, Y: 30})

	assert.Equal(t, DefaultPosition, position(t, board, a.ID))
	assert.InDelta(t, 60.0, position(t, board, b.ID).X, 1e-9)
	assert.Equal(t, []int64{a.ID, b.ID}, []int64{board.Notes()[0].ID, board.Notes()[1].ID})
}

func TestPointerUpEndsDrag(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())

	engine.PointerDown(note.ID, Point{}, Point{})
	engine.PointerUp()
	assert.Equal(t, Idle, engine.State())
	_, dragging := engine.Dragged()
	assert.False(t, dragging)

	engine.PointerMove(Point{X: 100, Y: 100})
	assert.Equal(t, DefaultPosition, position(t, board, note.ID))
}

func TestDeletedNoteEndsDrag(t *testing.T) {
	engine, board, _ := newTestEngine(t, 400, 300)
	note := board.Add(time.Now())

	engine.PointerDown(note.ID, Point{}, Point{})
	board.Delete(note.ID)
	engine.PointerMove(Point{X: 10, Y: 10})

	assert.Equal(t, Idle, engine.State())
	assert.Empty(t, board.Notes())
}

func TestBoard(t *testing.T) {
	board := NewBoard()
	now := time.Now()
	n := board.Add(now)

	assert.True(t, n.Color.Valid())
	assert.Contains(t, models.Pastels, n.Color)
	assert.Empty(t, n.Text)

	board.SetText(n.ID, "remember")
	board.SetText(999, "ignored")
	got, _ := board.Note(n.ID)
	assert.Equal(t, "remember", got.Text)

	board.Delete(999)
	assert.Len(t, board.Notes(), 1)
	board.Delete(n.ID)
	assert.Empty(t, board.Notes())
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("70%", " 20.5 ")
	require.NoError(t, err)
	assert.Equal(t, Position{X: 70, Y: 20.5}, p)
	assert.Equal(t, "70%,20.5%", p.String())

	_, err = ParsePosition("left", "0%")
	assert.Error(t, err)
	_, err = ParsePosition("0%", "")
	assert.Error(t, err)
}

func TestContainerFunc(t *testing.T) {
	var c Container = ContainerFunc(func() (float64, float64) { return 3, 4 })
	w, h := c.Size()
	assert.Equal(t, 3.0, w)
	assert.Equal(t, 4.0, h)
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "idle", Idle.String())
}
