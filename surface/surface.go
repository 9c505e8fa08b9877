// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package surface

import (
	"fmt"
	"image"
	"image/color"
	"iter"
	"math"
	"math/bits"

	"periph.io/x/conn/v3/display"
)

// Surface is a display that can be drawn on.
type Surface interface {
	// Bounds returns the drawable area.
	Bounds() image.Rectangle
	// DrawPoints sets every point to its color. Points outside Bounds are
	// ignored.
	DrawPoints(pts iter.Seq2[image.Point, color.RGBA]) error
	// FillRect fills r with colors, read row-major over r. The part of r
	// outside Bounds is clipped away; the colors that would have landed
	// there are skipped. Extra colors are not read. What a short colors does
	// to the rest of r depends on the implementation.
	//
	// Skipped colors are still read, so a request reaching far outside Bounds
	// costs as much as its full area. Fill and DrawImage clip first.
	FillRect(r image.Rectangle, colors iter.Seq[color.RGBA]) error
}

// RGBA converts c to color.RGBA.
func RGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// Solid yields c forever.
func Solid(c color.RGBA) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		for yield(c) {
		}
	}
}

// Fill fills r with a single color.
func Fill(s Surface, r image.Rectangle, c color.Color) error {
	clip := r.Intersect(s.Bounds())
	if clip.Empty() {
		return nil
	}
	return s.FillRect(clip, Solid(RGBA(c)))
}

// Points yields each of pts with color c.
func Points(c color.RGBA, pts ...image.Point) iter.Seq2[image.Point, color.RGBA] {
	return func(yield func(image.Point, color.RGBA) bool) {
		for _, p := range pts {
			if !yield(p, c) {
				return
			}
		}
	}
}

// Pixel sets a single point.
func Pixel(s Surface, p image.Point, c color.Color) error {
	return s.DrawPoints(Points(RGBA(c), p))
}

// Colors yields the colors of src row-major over r, where r.Min maps to sp
// in src.
func Colors(src image.Image, r image.Rectangle, sp image.Point) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		d := sp.Sub(r.Min)
		if img, ok := src.(*image.RGBA); ok {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					if !yield(img.RGBAAt(x+d.X, y+d.Y)) {
						return
					}
				}
			}
			return
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if !yield(RGBA(src.At(x+d.X, y+d.Y))) {
					return
				}
			}
		}
	}
}

// DrawImage copies src, starting at sp, into r. This is the semantics of
// display.Drawer.Draw.
func DrawImage(s Surface, r image.Rectangle, src image.Image, sp image.Point) error {
	clip := r.Intersect(s.Bounds())
	if clip.Empty() {
		return nil
	}
	return s.FillRect(clip, Colors(src, clip, sp.Add(clip.Min.Sub(r.Min))))
}

// Visible yields the colors of a stream laid row-major over r that land in
// clip, row-major over clip. clip must be inside r.
//
// The colors above, left and right of clip are read and dropped. Nothing
// past the last pixel of clip is read.
func Visible(r, clip image.Rectangle, colors iter.Seq[color.RGBA]) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		if clip.Empty() {
			return
		}
		left := span(r.Min.X, clip.Min.X)
		gap := sum(span(clip.Max.X, r.Max.X), left)
		skip := sum(product(span(r.Min.Y, clip.Min.Y), span(r.Min.X, r.Max.X)), left)
		x, rows := 0, clip.Dy()
		for c := range colors {
			if skip > 0 {
				skip--
				continue
			}
			if !yield(c) {
				return
			}
			if x++; x == clip.Dx() {
				if rows--; rows == 0 {
					return
				}
				x, skip = 0, gap
			}
		}
	}
}

// span returns to-from for from <= to, saturated at math.MaxInt.
func span(from, to int) int {
	if d := uint64(to) - uint64(from); d <= math.MaxInt {
		return int(d)
	}
	return math.MaxInt
}

// sum returns a+b for non negative a and b, saturated at math.MaxInt.
func sum(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// product returns a*b for non negative a and b, saturated at math.MaxInt.
func product(a, b int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return math.MaxInt
	}
	return int(lo)
}

// Drawer returns s as a periph display.Drawer.
func Drawer(s Surface) display.Drawer {
	if d, ok := s.(display.Drawer); ok {
		return d
	}
	return &drawer{s}
}

type drawer struct {
	s Surface
}

func (d *drawer) String() string {
	if s, ok := d.s.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("surface.Drawer{%s}", d.s.Bounds())
}

// Halt implements conn.Resource.
func (d *drawer) Halt() error {
	return nil
}

// ColorModel implements display.Drawer.
func (d *drawer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (d *drawer) Bounds() image.Rectangle {
	return d.s.Bounds()
}

// Draw implements display.Drawer.
func (d *drawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return DrawImage(d.s, r, src, sp)
}

var _ display.Drawer = &drawer{}
