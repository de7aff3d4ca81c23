package layers

import (
	"errors"
	"fmt"

	"github.com/example/photoedit/internal/objects"
)

// Op is an inbound layer list action.
type Op string

const (
	OpToggleVisible Op = "toggle-visible"
	OpToggleLock    Op = "toggle-lock"
	OpDelete        Op = "delete"
	OpSelect        Op = "select"
	OpForward       Op = "forward"
	OpBackward      Op = "backward"
)

// ErrUnknownOp is returned by Apply for an unrecognised Op.
var ErrUnknownOp = errors.New("unknown layer op")

// Command targets one object from the layer list.
type Command struct {
	Op Op         `json:"op"`
	ID objects.ID `json:"id"`
}

// Controller carries out layer commands. Unknown ids are no-ops.
type Controller interface {
	ToggleVisible(id objects.ID)
	ToggleLock(id objects.ID)
	DeleteObject(id objects.ID)
	SelectObject(id objects.ID)
	BringForward(id objects.ID)
	SendBackward(id objects.ID)
}

// Apply routes cmd to c.
func Apply(c Controller, cmd Command) error {
	switch cmd.Op {
	case OpToggleVisible:
		c.ToggleVisible(cmd.ID)
	case OpToggleLock:
		c.ToggleLock(cmd.ID)
	case OpDelete:
		c.DeleteObject(cmd.ID)
	case OpSelect:
		c.SelectObject(cmd.ID)
	case OpForward:
		c.BringForward(cmd.ID)
	case OpBackward:
		c.SendBackward(cmd.ID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
	return nil
}
