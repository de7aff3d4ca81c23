// Package render composites the raster buffer with the object layer and
// schedules repaints.
package render

import (
	"image"
	"image/draw"

	"github.com/example/photoedit/internal/objects"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/theme"
)

const (
	selectionDash  = 5
	selectionWidth = 2
)

// Composite repaints dst from scratch: canvas background, raster buffer,
// visible objects back to front, then the dashed outline of the selected
// object. Hidden objects are skipped, including the selection outline.
func Composite(dst, raster *image.RGBA, objs []*objects.Object, selected *objects.Object, th *theme.Theme) error {
	if th == nil {
		th = theme.Default()
	}
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(th.Canvas), image.Point{}, draw.Src)
	if raster != nil {
		draw.Draw(dst, b, raster, raster.Bounds().Min, draw.Over)
	}
	for _, o := range objs {
		if !o.Visible {
			continue
		}
		if err := objects.Paint(dst, o); err != nil {
			return err
		}
	}
	if selected != nil && selected.Visible {
		surface.DrawDashedRect(dst, objects.Bounds(selected), selectionDash, selectionWidth, th.Selection, nil)
	}
	return nil
}
