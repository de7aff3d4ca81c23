package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/tools"
)

var quiet = log.New(io.Discard, "", 0)

type harness struct {
	hub  *Hub
	sess *editor.Session
	srv  *httptest.Server
}

func start(t *testing.T) *harness {
	t.Helper()
	h := NewHub(WithLogger(quiet))
	opts := append(h.EditorOptions(), editor.WithLogger(quiet), editor.WithFrameInterval(5*time.Millisecond))
	sess, err := editor.New(surface.Size{Width: 120, Height: 100}, opts...)
	require.NoError(t, err)
	h.Attach(sess)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = sess.Run(ctx) }()
	go h.Run(ctx)
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &harness{hub: h, sess: sess, srv: srv}
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(kind int, data []byte) bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err, "no matching message before deadline")
		if match(kind, data) {
			return
		}
	}
}

func outbound(kind int, data []byte) (Outbound, bool) {
	if kind != websocket.TextMessage {
		return Outbound{}, false
	}
	var out Outbound
	if json.Unmarshal(data, &out) != nil {
		return Outbound{}, false
	}
	return out, true
}

func send(t *testing.T, conn *websocket.Conn, in Inbound) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(in))
}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConnectSendsLayers(t *testing.T) {
	h := start(t)
	conn := h.dial(t)
	readUntil(t, conn, func(kind int, data []byte) bool {
		out, ok := outbound(kind, data)
		return ok && out.Type == TypeLayers && len(out.Rows) == 0
	})
}

func TestImportOverSocketAddsLayer(t *testing.T) {
	h := start(t)
	conn := h.dial(t)
	send(t, conn, Inbound{Type: TypeImport, Name: "red.png", Data: pngBytes(t, 10, 10, color.RGBA{255, 0, 0, 255})})

	var rows layers.View
	readUntil(t, conn, func(kind int, data []byte) bool {
		out, ok := outbound(kind, data)
		if ok && out.Type == TypeLayers && len(out.Rows) == 1 {
			rows = out.Rows
			return true
		}
		return false
	})
	assert.Equal(t, "image 1", rows[0].Name)
	assert.True(t, rows[0].Visible)

	send(t, conn, Inbound{Type: TypeLayer, Op: layers.OpToggleVisible, ID: rows[0].ID})
	readUntil(t, conn, func(kind int, data []byte) bool {
		out, ok := outbound(kind, data)
		return ok && out.Type == TypeLayers && len(out.Rows) == 1 && !out.Rows[0].Visible
	})
}

func TestCorruptImportReportsMessage(t *testing.T) {
	h := start(t)
	conn := h.dial(t)
	send(t, conn, Inbound{Type: TypeImport, Name: "junk.png", Data: []byte("definitely not an image")})
	readUntil(t, conn, func(kind int, data []byte) bool {
		out, ok := outbound(kind, data)
		return ok && out.Type == TypeMessage && out.Kind == editor.MessageImageDecode.String()
	})
	h.hub.mu.Lock()
	defer h.hub.mu.Unlock()
	assert.Empty(t, h.hub.view)
}

func TestBadRequestsGetErrors(t *testing.T) {
	h := start(t)
	conn := h.dial(t)
	isError := func(kind int, data []byte) bool {
		out, ok := outbound(kind, data)
		return ok && out.Type == TypeError
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	readUntil(t, conn, isError)
	send(t, conn, Inbound{Type: "nope"})
	readUntil(t, conn, isError)
	send(t, conn, Inbound{Type: TypeTool, Tool: "spraycan"})
	readUntil(t, conn, isError)

	// The connection survives bad requests.
	send(t, conn, Inbound{Type: TypeImport, Name: "ok.png", Data: pngBytes(t, 4, 4, color.RGBA{0, 0, 255, 255})})
	readUntil(t, conn, func(kind int, data []byte) bool {
		out, ok := outbound(kind, data)
		return ok && out.Type == TypeLayers && len(out.Rows) == 1
	})
}

func TestStrokeReachesFrames(t *testing.T) {
	h := start(t)
	conn := h.dial(t)
	send(t, conn, Inbound{Type: TypeColor, Color: "#000000"})
	send(t, conn, Inbound{Type: TypeWidth, Width: 6})
	send(t, conn, Inbound{Type: TypePointer, Phase: "down", X: 10, Y: 40})
	for x := 20.0; x <= 100; x += 10 {
		send(t, conn, Inbound{Type: TypePointer, Phase: "move", X: x, Y: 40})
	}
	send(t, conn, Inbound{Type: TypePointer, Phase: "up", X: 100, Y: 40})

	readUntil(t, conn, func(kind int, data []byte) bool {
		if kind != websocket.BinaryMessage {
			return false
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return false
		}
		r, _, _, _ := img.At(60, 40).RGBA()
		return r < 0x2000
	})

	resp, err := http.Get(h.srv.URL + "/frame.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestLayersEndpoint(t *testing.T) {
	h := start(t)
	resp, err := http.Get(h.srv.URL + "/layers")
	require.NoError(t, err)
	defer resp.Body.Close()
	var out Outbound
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, TypeLayers, out.Type)
}

func TestApplyValidatesRequests(t *testing.T) {
	sess, err := editor.New(surface.Size{Width: 100, Height: 100}, editor.WithLogger(quiet))
	require.NoError(t, err)
	defer sess.Close()

	for _, in := range []Inbound{
		{Type: TypePointer, Phase: "hover"},
		{Type: TypeTool, Tool: "lasso"},
		{Type: TypeColor, Color: "not-a-colour"},
		{Type: TypeWidth, Width: 0},
		{Type: TypeLayer, Op: "explode"},
		{Type: TypeText, Action: "shout"},
		{Type: TypeImport, Name: "empty.png"},
		{Type: ""},
	} {
		assert.ErrorIs(t, in.apply(sess), ErrBadMessage, "%+v", in)
	}

	require.NoError(t, Inbound{Type: TypeTool, Tool: "text"}.apply(sess))
	assert.Equal(t, tools.Text, sess.Tool())
	require.NoError(t, Inbound{Type: TypePointer, Phase: "down", X: 5, Y: 30}.apply(sess))
	require.NoError(t, Inbound{Type: TypeText, Action: "type", Text: "hey"}.apply(sess))
	_, content, editing := sess.Editing()
	assert.True(t, editing)
	assert.Equal(t, "hey", content)
	require.NoError(t, Inbound{Type: TypeText, Action: "commit"}.apply(sess))
	undo, _ := sess.HistoryDepth()
	assert.Equal(t, 2, undo)
	require.NoError(t, Inbound{Type: TypeUndo}.apply(sess))
	require.NoError(t, Inbound{Type: TypeRedo}.apply(sess))
	require.NoError(t, Inbound{Type: TypeColor, Color: "tomato"}.apply(sess))
	assert.Equal(t, color.RGBA{255, 99, 71, 255}, sess.Pen().Color)
}
