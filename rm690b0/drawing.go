// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"image"
	"image/color"
	"iter"

	"github.com/GermanBionicSystems/badge/surface"
)

// DrawPoints implements surface.Surface.
//
// Each point fills the 2x2 block it belongs to. The first failure aborts the
// remaining points.
func (d *Dev) DrawPoints(pts iter.Seq2[image.Point, color.RGBA]) error {
	for p, c := range pts {
		if !p.In(d.rect) {
			continue
		}
		w := d.hwWindow(span{p.X, p.X}, span{p.Y, p.Y})
		if err := d.setWindow(w); err != nil {
			return err
		}
		if err := d.writePixels(rgb(repeat(c, w.pixels()))); err != nil {
			return err
		}
	}
	return nil
}

// FillRect implements surface.Surface.
//
// The visible part of r is widened to whole 2x2 blocks. Pixels added by the
// widening repeat the nearest pixel of r. When colors runs out, its last
// visible color is repeated, or black when none reached the visible part.
func (d *Dev) FillRect(r image.Rectangle, colors iter.Seq[color.RGBA]) error {
	clip := r.Intersect(d.rect)
	if clip.Empty() {
		return nil
	}
	w := d.hwWindow(spans(clip))
	if err := d.setWindow(w); err != nil {
		return err
	}
	return d.writePixels(rgb(fitWindow(r, clip, w, colors)))
}

// fitWindow reads src row-major over req and yields exactly w.pixels()
// colors covering w. clip is the visible part of req and is contained in w.
func fitWindow(req, clip image.Rectangle, w window, src iter.Seq[color.RGBA]) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		next, stop := iter.Pull(surface.Visible(req, clip, src))
		defer stop()
		var last color.RGBA
		row := make([]color.RGBA, clip.Dx())
		cur := clip.Min.Y - 1
		for y := w.rows.first; y <= w.rows.last; y++ {
			for cy := min(max(y, clip.Min.Y), clip.Max.Y-1); cur < cy; cur++ {
				for i := range row {
					if c, ok := next(); ok {
						last = c
					}
					row[i] = last
				}
			}
			for x := w.cols.first; x <= w.cols.last; x++ {
				cx := min(max(x, clip.Min.X), clip.Max.X-1)
				if !yield(row[cx-clip.Min.X]) {
					return
				}
			}
		}
	}
}
