package remote

import (
	"errors"
	"fmt"

	"github.com/example/photoedit/internal/config"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/geom"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/objects"
	"github.com/example/photoedit/internal/tools"
)

// Inbound message types.
const (
	TypePointer = "pointer"
	TypeTool    = "tool"
	TypeColor   = "color"
	TypeWidth   = "width"
	TypeUndo    = "undo"
	TypeRedo    = "redo"
	TypeLayer   = "layer"
	TypeText    = "text"
	TypeImport  = "import"
)

// Outbound message types. Frames are sent as binary PNG messages.
const (
	TypeLayers  = "layers"
	TypeMessage = "message"
	TypeError   = "error"
)

// ErrBadMessage wraps every rejected inbound message.
var ErrBadMessage = errors.New("bad message")

// Inbound is a client request. Pointer positions are in buffer pixels.
type Inbound struct {
	Type string `json:"type"`

	Phase string  `json:"phase,omitempty"` // down, move, up, leave
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`

	Tool  string `json:"tool,omitempty"`
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`

	ID objects.ID `json:"id"`
	Op layers.Op  `json:"op,omitempty"`

	// Action is type, backspace, commit or cancel for text messages.
	Action string `json:"action,omitempty"`
	Text   string `json:"text,omitempty"`

	Name string `json:"name,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// Outbound is a JSON message to clients.
type Outbound struct {
	Type string      `json:"type"`
	Rows layers.View `json:"rows,omitempty"`
	Kind string      `json:"kind,omitempty"`
	Text string      `json:"text,omitempty"`
}

func badMessage(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadMessage, fmt.Sprintf(format, args...))
}

// apply runs m against s. It must be called on the session goroutine.
func (m Inbound) apply(s *editor.Session) error {
	switch m.Type {
	case TypePointer:
		p := geom.Pt(m.X, m.Y)
		switch m.Phase {
		case "down":
			s.DownAt(p)
		case "move":
			s.MoveAt(p)
		case "up":
			s.UpAt(p)
		case "leave":
			s.PointerLeave()
		default:
			return badMessage("pointer phase %q", m.Phase)
		}
	case TypeTool:
		t, err := tools.ParseTool(m.Tool)
		if err != nil {
			return badMessage("%v", err)
		}
		s.SetTool(t)
	case TypeColor:
		c, err := config.ParseColor(m.Color)
		if err != nil {
			return badMessage("%v", err)
		}
		s.SetColor(c)
	case TypeWidth:
		if m.Width < 1 {
			return badMessage("width %d", m.Width)
		}
		s.SetWidth(m.Width)
	case TypeUndo:
		s.Undo()
	case TypeRedo:
		s.Redo()
	case TypeLayer:
		if err := s.Apply(layers.Command{Op: m.Op, ID: m.ID}); err != nil {
			return badMessage("%v", err)
		}
	case TypeText:
		switch m.Action {
		case "type":
			for _, r := range m.Text {
				s.TypeRune(r)
			}
		case "backspace":
			s.Backspace()
		case "commit":
			s.CommitText()
		case "cancel":
			s.CancelText()
		default:
			return badMessage("text action %q", m.Action)
		}
	case TypeImport:
		if len(m.Data) == 0 {
			return badMessage("import %q has no data", m.Name)
		}
		name := m.Name
		if name == "" {
			name = "upload"
		}
		s.Import(importer.Bytes(name, m.Data))
	default:
		return badMessage("type %q", m.Type)
	}
	return nil
}
