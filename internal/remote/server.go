package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/example/photoedit/internal/editor"
)

// Config controls Serve.
type Config struct {
	Addr     string
	MDNS     bool
	Instance string
}

// Handler routes the WebSocket endpoint and two read-only snapshots.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) {
		data := h.LatestPNG()
		if data == nil {
			http.Error(w, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(data); err != nil {
			h.log.Printf("frame.png: %v", err)
		}
	})
	mux.HandleFunc("/layers", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		view := h.view
		h.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Outbound{Type: TypeLayers, Rows: view}); err != nil {
			h.log.Printf("layers: %v", err)
		}
	})
	return mux
}

// Serve runs sess, the hub and an HTTP server until ctx is done. ready, if
// non-nil, receives the bound address once the listener is up.
func Serve(ctx context.Context, cfg Config, h *Hub, sess *editor.Session, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	h.Attach(sess)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MDNS {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := Advertise(cfg.Instance, port)
		if err != nil {
			h.log.Printf("mdns: %v", err)
		} else {
			defer func() {
				if err := adv.Shutdown(); err != nil {
					h.log.Printf("mdns shutdown: %v", err)
				}
			}()
		}
	}

	srv := &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 2)
	go func() { errCh <- sess.Run(ctx) }()
	go h.Run(ctx)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if ready != nil {
		ready(ln.Addr())
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		h.log.Printf("http shutdown: %v", err)
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return runErr
}
