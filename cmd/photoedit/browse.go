package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/example/photoedit/internal/remote"
)

// browseCmd lists editing servers advertised on the local network.
type browseCmd struct {
	*root
	fs      *flag.FlagSet
	timeout time.Duration
	out     io.Writer
}

func (b *browseCmd) FlagSet() *flag.FlagSet { return b.fs }
func (b *browseCmd) Program() string        { return b.subProgram("browse") }
func (b *browseCmd) Template() string       { return "browse.txt" }

var browsePeers = remote.Browse

func parseBrowseCmd(args []string, r *root) (*browseCmd, error) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	b := &browseCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(b)
	fs.DurationVar(&b.timeout, "timeout", 2*time.Second, "how long to wait for answers")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if b.timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	return b, nil
}

func (b *browseCmd) Run() error {
	peers, err := browsePeers(context.Background(), b.timeout)
	if err != nil {
		return fmt.Errorf("failed to browse: %w", err)
	}
	if len(peers) == 0 {
		fmt.Fprintln(b.out, "no servers found")
		return nil
	}
	for _, p := range peers {
		fmt.Fprintf(b.out, "%s\tws://%s/ws\n", p.Instance, p.Addr)
	}
	return nil
}
