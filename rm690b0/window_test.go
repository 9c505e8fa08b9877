// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"testing"

	"github.com/GermanBionicSystems/badge/qspi/qspitest"
)

func TestAlignColumns(t *testing.T) {
	d, _ := newDev(t, nil)
	off := d.opts.ColumnOffset
	for s := 0; s < d.opts.Width; s++ {
		for e := s; e < d.opts.Width; e++ {
			c := d.hwWindow(span{s, e}, span{0, 0}).cols
			first, last := c.first+off, c.last+off
			if first > s+off || last < e+off || (first-off)%2 != 0 || (last-off)%2 != 1 {
				t.Fatalf("[%d,%d] aligned to [%d,%d] with offset", s, e, first, last)
			}
			if c.first < s-1 || c.last > e+1 {
				t.Fatalf("[%d,%d] widened to %s", s, e, c)
			}
		}
	}
}

func TestAlignRows(t *testing.T) {
	d, _ := newDev(t, nil)
	for s := 0; s < d.opts.Height; s++ {
		for e := s; e < d.opts.Height; e++ {
			r := d.hwWindow(span{0, 0}, span{s, e}).rows
			if r.first > s || r.last < e || r.first%2 != 0 || r.last%2 != 1 || r.last >= d.opts.Height {
				t.Fatalf("[%d,%d] aligned to %s", s, e, r)
			}
		}
	}
}

func TestHwWindowMisuse(t *testing.T) {
	d, _ := newDev(t, nil)
	for _, w := range []window{
		{span{5, 4}, span{0, 0}},
		{span{0, 0}, span{10, 2}},
		{span{-1, 3}, span{0, 0}},
		{span{0, 450}, span{0, 0}},
		{span{0, 0}, span{0, 600}},
	} {
		mustMisuse(t, func() { d.hwWindow(w.cols, w.rows) })
	}
}

func TestSetWindow(t *testing.T) {
	d, r := newDev(t, nil)
	if err := d.setWindow(d.hwWindow(span{448, 449}, span{598, 599})); err != nil {
		t.Fatal(err)
	}
	if err := d.setWindow(d.hwWindow(span{300, 300}, span{257, 257})); err != nil {
		t.Fatal(err)
	}
	diffOps(t, r.Ops, []qspitest.IO{
		frame(0x02, 0x2A, 0x01, 0xD0, 0x01, 0xD1),
		frame(0x02, 0x2B, 0x02, 0x56, 0x02, 0x57),
		frame(0x02, 0x2A, 0x01, 0x3C, 0x01, 0x3D),
		frame(0x02, 0x2B, 0x01, 0x00, 0x01, 0x01),
	})
}
