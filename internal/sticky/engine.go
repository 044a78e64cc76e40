// Package sticky positions sticky notes dragged around inside a container.
//
// Positions are kept as percentages of the container so notes stay in place
// when the container is resized. While a drag is in progress every pointer
// move is converted to pixels against the container's current size, added to
// the note's position and converted back, clamped to [0, 95] on each axis.
package sticky

import "go.uber.org/zap"

// HandleHeight is the height in pixels of the band at the top of a note
// that starts a drag.
const HandleHeight = 20.0

// Container reports the current size of the area notes are placed in.
// A zero or negative dimension means it cannot be measured yet.
type Container interface {
	Size() (width, height float64)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func() (width, height float64)

func (f ContainerFunc) Size() (float64, float64) { return f() }

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Engine turns pointer events into note positions on a Board. It is driven
// from a single event loop and is not safe for concurrent use.
type Engine struct {
	board     *Board
	container Container
	logger    *zap.Logger

	state   State
	dragged int64
	ref     Point
}

func NewEngine(board *Board, container Container, logger *zap.Logger) *Engine {
	return &Engine{
		board:     board,
		container: container,
		logger:    logger,
	}
}

func (e *Engine) State() State {
	return e.state
}

// Dragged returns the id of the note being dragged.
func (e *Engine) Dragged() (int64, bool) {
	return e.dragged, e.state == Dragging
}

// PointerDown starts dragging note id when the press lands on its handle.
// offset is the press location relative to the note's top-left corner.
func (e *Engine) PointerDown(id int64, pointer, offset Point) bool {
	if offset.Y < 0 || offset.Y > HandleHeight {
		return false
	}
	if _, ok := e.board.Note(id); !ok {
		return false
	}

	e.state = Dragging
	e.dragged = id
	e.ref = pointer
	return true
}

// PointerMove moves the dragged note by the pointer's travel since the last
// event. It does nothing while idle or while the container has no size.
func (e *Engine) PointerMove(pointer Point) {
	if e.state != Dragging {
		return
	}

	width, height := e.container.Size()
	if width <= 0 || height <= 0 {
		e.logger.Debug("Container not measurable, skipping move",
			zap.Float64("width", width),
			zap.Float64("height", height))
		return
	}

	note, ok := e.board.Note(e.dragged)
	if !ok {
		e.PointerUp()
		return
	}

	e.board.move(e.dragged, Move(note.Position, pointer.X-e.ref.X, pointer.Y-e.ref.Y, width, height))
	e.ref = pointer
}

// PointerUp ends any drag, wherever the pointer is.
func (e *Engine) PointerUp() {
	e.state = Idle
	e.dragged = 0
	e.ref = Point{}
}

// Move applies a pixel delta to a percentage position within a container of
// the given size and clamps the result.
func Move(p Position, dx, dy, width, height float64) Position {
	x := p.X/100*width + dx
	y := p.Y/100*height + dy
	return Position{
		X: clamp(x / width * 100),
		Y: clamp(y / height * 100),
	}
}
