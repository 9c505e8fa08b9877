// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package surface

import (
	"image"
	"image/color"
	"image/draw"

	"tinygo.org/x/drivers"
)

// Buffered is a tinygo drivers.Displayer drawing on a Surface.
//
// SetPixel only updates a local copy. Display repaints the smallest
// rectangle holding every pixel set since the previous Display. The local
// copy starts black: pixels inside that rectangle that were never set are
// painted black too.
type Buffered struct {
	s     Surface
	img   *image.RGBA
	dirty image.Rectangle
}

// Displayer returns a Buffered covering s.Bounds().
func Displayer(s Surface) *Buffered {
	return &Buffered{s: s, img: image.NewRGBA(s.Bounds())}
}

// Size implements drivers.Displayer.
func (b *Buffered) Size() (x, y int16) {
	return int16(b.img.Rect.Dx()), int16(b.img.Rect.Dy())
}

// SetPixel implements drivers.Displayer. Coordinates are relative to the
// top left corner of the surface.
func (b *Buffered) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y)).Add(b.img.Rect.Min)
	if !p.In(b.img.Rect) {
		return
	}
	b.img.SetRGBA(p.X, p.Y, c)
	b.dirty = b.dirty.Union(image.Rectangle{p, p.Add(image.Pt(1, 1))})
}

// Display implements drivers.Displayer.
func (b *Buffered) Display() error {
	if b.dirty.Empty() {
		return nil
	}
	r := b.dirty
	b.dirty = image.Rectangle{}
	return DrawImage(b.s, r, b.img, r.Min)
}

// Clear sets the whole local copy to c and marks it for repaint.
func (b *Buffered) Clear(c color.RGBA) {
	draw.Draw(b.img, b.img.Rect, &image.Uniform{c}, image.Point{}, draw.Src)
	b.dirty = b.img.Rect
}

var _ drivers.Displayer = &Buffered{}
