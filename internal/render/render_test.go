package render

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photoedit/internal/objects"
	"github.com/example/photoedit/internal/theme"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestCompositeLayersObjectsOverRaster(t *testing.T) {
	raster := solid(100, 100, white)
	dst := image.NewRGBA(raster.Bounds())
	m := objects.NewModel()
	o := m.Add(objects.NewImage(solid(20, 20, red)), 40, 40)

	require.NoError(t, Composite(dst, raster, m.Objects(), nil, theme.Default()))
	assert.Equal(t, red, dst.RGBAAt(50, 50))
	assert.Equal(t, white, dst.RGBAAt(10, 10))
	assert.Equal(t, white, raster.RGBAAt(50, 50), "raster must not be touched")

	m.SetVisible(o.ID, false)
	require.NoError(t, Composite(dst, raster, m.Objects(), nil, theme.Default()))
	assert.Equal(t, white, dst.RGBAAt(50, 50))
}

func TestCompositeDrawsSelectionOutline(t *testing.T) {
	raster := solid(100, 100, white)
	dst := image.NewRGBA(raster.Bounds())
	m := objects.NewModel()
	o := m.Add(objects.NewImage(solid(20, 20, red)), 40, 40)
	m.Select(o.ID)
	th := theme.Default()

	require.NoError(t, Composite(dst, raster, m.Objects(), m.Selected(), th))
	assert.Equal(t, th.Selection, dst.RGBAAt(40, 40))
	assert.Equal(t, th.Selection, dst.RGBAAt(44, 41))
	assert.Equal(t, red, dst.RGBAAt(46, 41), "dash gap shows the object")

	m.SetVisible(o.ID, false)
	require.NoError(t, Composite(dst, raster, m.Objects(), m.Selected(), th))
	assert.Equal(t, white, dst.RGBAAt(40, 40))
}

func TestSchedulerKeepsLatestOnly(t *testing.T) {
	s := NewScheduler()
	var ran []int
	for i := 0; i < 5; i++ {
		i := i
		s.Schedule(func(context.Context) { ran = append(ran, i) })
	}
	assert.True(t, s.Pending())
	assert.True(t, s.Tick(context.Background()))
	assert.False(t, s.Tick(context.Background()))
	assert.Equal(t, []int{4}, ran)
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	s.Schedule(func(context.Context) { t.Fatal("cancelled task ran") })
	s.Cancel()
	assert.False(t, s.Pending())
	assert.False(t, s.Tick(context.Background()))
}

func TestSchedulerSupersedesRunningTask(t *testing.T) {
	s := NewScheduler()
	started := make(chan struct{})
	var stopped atomic.Bool
	s.Schedule(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		stopped.Store(true)
	})
	done := make(chan struct{})
	go func() {
		s.Tick(context.Background())
		close(done)
	}()
	<-started
	s.Schedule(func(context.Context) {})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("running task was not cancelled")
	}
	assert.True(t, stopped.Load())
	assert.True(t, s.Pending())
}

func TestSchedulerRun(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	s.Schedule(func(context.Context) { close(ran) })
	go s.Run(ctx, time.Millisecond)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	cancel()
}

func TestWithShadowGrowsCanvas(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, red)

	sh := Shadow{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	out, at := WithShadow(img, sh)
	require.NotNil(t, out)
	assert.Equal(t, image.Rect(0, 0, 22, 20), out.Bounds())
	assert.Equal(t, image.Point{}, at)
	assert.NotZero(t, out.RGBAAt(5+8, 5+6).A, "shadow under the cast pixel")
	assert.Equal(t, red, out.RGBAAt(5, 5))
}

func TestWithShadowZeroOpacityIsIdentity(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	out, at := WithShadow(img, Shadow{Radius: 12, Offset: image.Pt(20, 10)})
	assert.Same(t, img, out)
	assert.Equal(t, image.Point{}, at)
}

func TestWithShadowBlurSpreads(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{A: 255})
	out, at := WithShadow(img, Shadow{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1})
	base := at.Add(image.Pt(3, 0))
	require.NotZero(t, out.RGBAAt(base.X, base.Y).A)
	assert.NotZero(t, out.RGBAAt(base.X+1, base.Y).A)
}
