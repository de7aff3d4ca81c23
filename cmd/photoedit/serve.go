package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/remote"
	"github.com/example/photoedit/internal/surface"
)

// serveCmd runs a headless session driven over WebSocket.
type serveCmd struct {
	*root
	fs       *flag.FlagSet
	addr     string
	canvas   string
	mdns     bool
	instance string
	files    []string
	size     surface.Size
}

func (s *serveCmd) FlagSet() *flag.FlagSet { return s.fs }
func (s *serveCmd) Program() string        { return s.subProgram("serve") }
func (s *serveCmd) Template() string       { return "serve.txt" }

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	defAddr, defMDNS, defInstance := "127.0.0.1:8642", false, ""
	if r != nil && r.config != nil {
		defAddr, defMDNS, defInstance = r.config.Serve.Addr, r.config.Serve.MDNS, r.config.Serve.Instance
	}
	fs.StringVar(&s.addr, "addr", defAddr, "listen address")
	fs.BoolVar(&s.mdns, "mdns", defMDNS, "advertise the server on the local network")
	fs.StringVar(&s.instance, "instance", defInstance, "advertised instance name (defaults to the host name)")
	fs.StringVar(&s.canvas, "canvas", "", "canvas size as WIDTHxHEIGHT or a preset name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	s.files = fs.Args()
	size, err := canvasSize(s.canvas, r)
	if err != nil {
		return nil, err
	}
	s.size = size
	return s, nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "serve: ", log.LstdFlags)
	hub := remote.NewHub(remote.WithLogger(logger))
	opts := append(s.editorOptions(), hub.EditorOptions()...)
	opts = append(opts, editor.WithLogger(logger))
	sess, err := editor.New(s.size, opts...)
	if err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}
	defer sess.Close()
	for _, f := range s.files {
		sess.Import(importer.File(f))
	}

	cfg := remote.Config{Addr: s.addr, MDNS: s.mdns, Instance: s.instance}
	return remote.Serve(ctx, cfg, hub, sess, func(a net.Addr) {
		fmt.Fprintf(os.Stderr, "listening on http://%s/\n", a)
	})
}
