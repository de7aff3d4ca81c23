// Package tools turns pointer gestures into strokes, shape previews, object
// drags and text placement.
package tools

import (
	"fmt"
	"strings"

	"github.com/example/photoedit/internal/surface"
)

// Tool selects how pointer gestures are interpreted.
type Tool int

const (
	Brush Tool = iota
	Rectangle
	Circle
	Line
	Text
	Select
)

var toolNames = [...]string{"brush", "rectangle", "circle", "line", "text", "select"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool accepts the names printed by String.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// shape maps the shape tools onto surface outlines.
func (t Tool) shape() (surface.Shape, bool) {
	switch t {
	case Rectangle:
		return surface.ShapeRectangle, true
	case Circle:
		return surface.ShapeCircle, true
	case Line:
		return surface.ShapeLine, true
	}
	return 0, false
}

// State is the gesture state.
type State int

const (
	Idle State = iota
	Drawing
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
