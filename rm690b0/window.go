// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"fmt"
	"image"
)

// span is an inclusive range of columns or rows.
type span struct {
	first, last int
}

// align widens s to whole 2 pixel blocks: first rounds down to even, last up
// to odd. The result always contains s.
func (s span) align() span {
	return span{s.first &^ 1, s.last | 1}
}

func (s span) len() int {
	return s.last - s.first + 1
}

func (s span) String() string {
	return fmt.Sprintf("[%d,%d]", s.first, s.last)
}

// spans returns the inclusive column and row ranges of a non-empty r.
func spans(r image.Rectangle) (cols, rows span) {
	return span{r.Min.X, r.Max.X - 1}, span{r.Min.Y, r.Max.Y - 1}
}

// window is an aligned address window in panel coordinates, without the
// column offset.
type window struct {
	cols, rows span
}

func (w window) pixels() int {
	return w.cols.len() * w.rows.len()
}

// hwWindow aligns a requested window. Inverted or out of range spans are a
// caller bug and panic.
func (d *Dev) hwWindow(cols, rows span) window {
	if cols.first > cols.last || rows.first > rows.last {
		panic(misuse("inverted window %s x %s", cols, rows))
	}
	if cols.first < 0 || cols.last >= d.opts.Width || rows.first < 0 || rows.last >= d.opts.Height {
		panic(misuse("window %s x %s outside %dx%d", cols, rows, d.opts.Width, d.opts.Height))
	}
	return window{cols.align(), rows.align()}
}

// setWindow sends the column then the row address range. Only columns carry
// the RAM origin offset.
func (d *Dev) setWindow(w window) error {
	c0 := w.cols.first + d.opts.ColumnOffset
	c1 := w.cols.last + d.opts.ColumnOffset
	if err := d.send(opColumnAddrSet, byte(c0>>8), byte(c0), byte(c1>>8), byte(c1)); err != nil {
		return err
	}
	return d.send(opRowAddrSet, byte(w.rows.first>>8), byte(w.rows.first), byte(w.rows.last>>8), byte(w.rows.last))
}
