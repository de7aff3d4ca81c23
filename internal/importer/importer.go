package importer

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Source yields the bytes of one image to import.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

type fileSource string

// File reads the image at path.
func File(path string) Source { return fileSource(path) }

func (f fileSource) Name() string { return filepath.Base(string(f)) }

func (f fileSource) Open(context.Context) (io.ReadCloser, error) { return os.Open(string(f)) }

type bytesSource struct {
	name string
	data []byte
}

// Bytes imports an in-memory encoded image, e.g. an upload.
func Bytes(name string, data []byte) Source { return bytesSource{name: name, data: data} }

func (b bytesSource) Name() string { return b.name }

func (b bytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// SourceFunc adapts a function that fetches encoded bytes, such as a
// clipboard read or a screenshot request.
type SourceFunc struct {
	Label string
	Fetch func(ctx context.Context) ([]byte, error)
}

func (s SourceFunc) Name() string { return s.Label }

func (s SourceFunc) Open(ctx context.Context) (io.ReadCloser, error) {
	b, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Result is the outcome of one Job. Exactly one of Image and Err is set.
type Result struct {
	Name  string
	Image image.Image
	Err   error
}

// Importer runs decodes on their own goroutines and delivers results on a
// single channel read by the owner of the editor state.
type Importer struct {
	results chan Result

	mu   sync.Mutex
	jobs map[*Job]struct{}
}

// New creates an Importer whose channel buffers up to backlog results.
func New(backlog int) *Importer {
	return &Importer{results: make(chan Result, backlog), jobs: map[*Job]struct{}{}}
}

// Results is where finished jobs are delivered.
func (im *Importer) Results() <-chan Result { return im.results }

// Job is one running import.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the job; a result not yet delivered is dropped.
func (j *Job) Cancel() { j.cancel() }

// Done is closed once the job has delivered or been dropped.
func (j *Job) Done() <-chan struct{} { return j.done }

// Start decodes src in the background.
func (im *Importer) Start(ctx context.Context, src Source) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{cancel: cancel, done: make(chan struct{})}
	im.mu.Lock()
	im.jobs[j] = struct{}{}
	im.mu.Unlock()
	go func() {
		defer func() {
			im.mu.Lock()
			delete(im.jobs, j)
			im.mu.Unlock()
			cancel()
			close(j.done)
		}()
		res := run(ctx, src)
		if ctx.Err() != nil {
			return
		}
		select {
		case im.results <- res:
		case <-ctx.Done():
		}
	}()
	return j
}

func run(ctx context.Context, src Source) Result {
	res := Result{Name: src.Name()}
	rc, err := src.Open(ctx)
	if err != nil {
		res.Err = &DecodeError{Name: src.Name(), Err: err}
		return res
	}
	defer rc.Close()
	res.Image, res.Err = Decode(ctx, src.Name(), rc)
	return res
}

// CancelAll cancels every running job.
func (im *Importer) CancelAll() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for j := range im.jobs {
		j.cancel()
	}
}

// Pending reports how many jobs have not finished.
func (im *Importer) Pending() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return len(im.jobs)
}
