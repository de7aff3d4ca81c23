// Package remote exposes an editor session over WebSocket so a browser or
// another process can drive it, and advertises the server over mDNS.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/layers"
)

const (
	writeWait   = 5 * time.Second
	clientQueue = 16
	maxMessage  = 32 << 20
)

// Hub fans frames, layer views and messages out to connected clients and
// posts their requests to the session.
type Hub struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	sess    *editor.Session
	view    layers.View
	frame   *image.RGBA
	png     []byte

	// frameCh holds at most one pending frame, replaced by newer ones.
	frameCh chan struct{}
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger replaces log.Default.
func WithLogger(l *log.Logger) Option { return func(h *Hub) { h.log = l } }

// WithCheckOrigin overrides the upgrader's same-origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

// NewHub creates a hub. Pass EditorOptions to editor.New and then Attach the
// session.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		log:     log.Default(),
		clients: make(map[*client]struct{}),
		frameCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// EditorOptions wires the hub's sinks and reporter into a session.
func (h *Hub) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithFrameSink(h.frameSink),
		editor.WithPanelSink(h.layersSink),
		editor.WithReporter(h),
	}
}

// Attach sets the session requests are posted to.
func (h *Hub) Attach(s *editor.Session) {
	h.mu.Lock()
	h.sess = s
	h.mu.Unlock()
}

// frameSink runs on the session goroutine; it keeps a copy for the encoder.
func (h *Hub) frameSink(f *image.RGBA) {
	h.mu.Lock()
	if h.frame == nil || h.frame.Bounds() != f.Bounds() {
		h.frame = image.NewRGBA(f.Bounds())
	}
	copy(h.frame.Pix, f.Pix)
	h.mu.Unlock()
	select {
	case h.frameCh <- struct{}{}:
	default:
	}
}

func (h *Hub) layersSink(v layers.View) {
	h.mu.Lock()
	h.view = v
	h.mu.Unlock()
	h.broadcastJSON(Outbound{Type: TypeLayers, Rows: v})
}

// Report forwards user-facing messages to every client.
func (h *Hub) Report(m editor.Message) {
	h.broadcastJSON(Outbound{Type: TypeMessage, Kind: m.Kind.String(), Text: m.Text})
}

// Run encodes frames and broadcasts them until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.frameCh:
			data, err := h.encodeFrame()
			if err != nil {
				h.log.Printf("encode frame: %v", err)
				continue
			}
			h.broadcast(outMsg{kind: websocket.BinaryMessage, data: data})
		}
	}
}

func (h *Hub) encodeFrame() ([]byte, error) {
	h.mu.Lock()
	f := h.frame
	if f == nil {
		h.mu.Unlock()
		return nil, nil
	}
	snap := image.NewRGBA(f.Bounds())
	copy(snap.Pix, f.Pix)
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, snap); err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.png = buf.Bytes()
	h.mu.Unlock()
	return buf.Bytes(), nil
}

// LatestPNG returns the most recently encoded frame, if any.
func (h *Hub) LatestPNG() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.png
}

func (h *Hub) broadcastJSON(m Outbound) {
	data, err := json.Marshal(m)
	if err != nil {
		h.log.Printf("marshal %s: %v", m.Type, err)
		return
	}
	h.broadcast(outMsg{kind: websocket.TextMessage, data: data})
}

func (h *Hub) broadcast(m outMsg) {
	if m.data == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.enqueue(m)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

// ServeHTTP upgrades the request and serves one client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Printf("upgrade: %v", err)
		return
	}
	conn.SetReadLimit(maxMessage)
	c := newClient(conn)

	h.mu.Lock()
	h.clients[c] = struct{}{}
	view := h.view
	latest := h.png
	h.mu.Unlock()

	go c.writeLoop(h.log)
	if data, err := json.Marshal(Outbound{Type: TypeLayers, Rows: view}); err == nil {
		c.enqueue(outMsg{kind: websocket.TextMessage, data: data})
	}
	if latest != nil {
		c.enqueue(outMsg{kind: websocket.BinaryMessage, data: latest})
	}

	h.readLoop(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readLoop(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Printf("read: %v", err)
			}
			return
		}
		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			c.sendError(badMessage("%v", err))
			continue
		}
		h.mu.Lock()
		sess := h.sess
		h.mu.Unlock()
		if sess == nil {
			c.sendError(errNoSession)
			continue
		}
		err = sess.Post(func(s *editor.Session) {
			if err := in.apply(s); err != nil {
				h.log.Printf("client request: %v", err)
				c.sendError(err)
			}
		})
		if err != nil {
			c.sendError(err)
			return
		}
	}
}

var errNoSession = errors.New("no session attached")

type outMsg struct {
	kind int
	data []byte
}

type client struct {
	conn *websocket.Conn
	send chan outMsg
	once sync.Once
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan outMsg, clientQueue), done: make(chan struct{})}
}

// enqueue drops the message when the client is not keeping up.
func (c *client) enqueue(m outMsg) {
	select {
	case <-c.done:
	case c.send <- m:
	default:
	}
}

func (c *client) sendError(err error) {
	data, merr := json.Marshal(Outbound{Type: TypeError, Text: err.Error()})
	if merr != nil {
		return
	}
	c.enqueue(outMsg{kind: websocket.TextMessage, data: data})
}

func (c *client) writeLoop(l *log.Logger) {
	for {
		select {
		case <-c.done:
			return
		case m := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				l.Printf("write deadline: %v", err)
			}
			if err := c.conn.WriteMessage(m.kind, m.data); err != nil {
				l.Printf("write: %v", err)
				c.close()
				return
			}
		}
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
}
