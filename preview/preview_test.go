// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/GermanBionicSystems/badge/surface"
)

var (
	red   = color.RGBA{0xFF, 0, 0, 0xFF}
	blue  = color.RGBA{0, 0, 0xFF, 0xFF}
	black = color.RGBA{0, 0, 0, 0xFF}
)

func TestNewIsBlack(t *testing.T) {
	p := New(&Options{Width: 3, Height: 2})
	if got, want := p.String(), "preview.Panel{3x2}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	img := p.Snapshot()
	for y := range 2 {
		for x := range 3 {
			if got := img.RGBAAt(x, y); got != black {
				t.Errorf("(%d,%d) = %v", x, y, got)
			}
		}
	}
	if p.Changes() != 0 {
		t.Errorf("Changes() = %d", p.Changes())
	}
}

func TestFillRect(t *testing.T) {
	p := New(&Options{Width: 4, Height: 4})
	// 3x2 request hanging off the right edge.
	colors := []color.RGBA{red, red, blue, blue, red, blue}
	seq := func(yield func(color.RGBA) bool) {
		for _, c := range colors {
			if !yield(c) {
				return
			}
		}
	}
	if err := p.FillRect(image.Rect(2, 1, 5, 3), seq); err != nil {
		t.Fatal(err)
	}
	img := p.Snapshot()
	for _, tc := range []struct {
		x, y int
		want color.RGBA
	}{
		{2, 1, red}, {3, 1, red}, {2, 2, blue}, {3, 2, red}, {1, 1, black}, {2, 3, black},
	} {
		if got := img.RGBAAt(tc.x, tc.y); got != tc.want {
			t.Errorf("(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	if p.Changes() != 1 {
		t.Errorf("Changes() = %d, want 1", p.Changes())
	}

	// Entirely outside: nothing changes.
	if err := surface.Fill(p, image.Rect(10, 10, 12, 12), red); err != nil {
		t.Fatal(err)
	}
	if p.Changes() != 1 {
		t.Errorf("Changes() = %d after an invisible fill", p.Changes())
	}
}

func TestFillRectSolidTerminates(t *testing.T) {
	p := New(&Options{Width: 4, Height: 4})
	if err := surface.Fill(p, image.Rect(-10, -10, 100, 100), blue); err != nil {
		t.Fatal(err)
	}
	if got := p.Snapshot().RGBAAt(3, 3); got != blue {
		t.Errorf("(3,3) = %v", got)
	}
}

func TestFillRectFarOutside(t *testing.T) {
	p := New(&Options{Width: 4, Height: 4})
	if err := surface.Fill(p, image.Rect(-1<<40, -1<<40, 1<<40, 1<<40), blue); err != nil {
		t.Fatal(err)
	}
	if got := p.Snapshot().RGBAAt(0, 0); got != blue {
		t.Errorf("(0,0) = %v", got)
	}
	// Every color lands left of the panel.
	four := func(yield func(color.RGBA) bool) {
		for range 4 {
			if !yield(red) {
				return
			}
		}
	}
	if err := p.FillRect(image.Rect(-1<<62, 0, 1<<62, 1), four); err != nil {
		t.Fatal(err)
	}
	if got := p.Snapshot().RGBAAt(0, 0); got != blue {
		t.Errorf("(0,0) = %v, want the previous color", got)
	}
}

func TestDrawPoints(t *testing.T) {
	p := New(&Options{Width: 4, Height: 4})
	half := color.RGBA{0x80, 0, 0, 0x80}
	if err := p.DrawPoints(surface.Points(half, image.Pt(1, 1), image.Pt(9, 9))); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Snapshot().RGBAAt(1, 1), (color.RGBA{0x80, 0, 0, 0xFF}); got != want {
		t.Errorf("(1,1) = %v, want %v", got, want)
	}
	if err := p.DrawPoints(surface.Points(red, image.Pt(-1, 0))); err != nil {
		t.Fatal(err)
	}
	if p.Changes() != 1 {
		t.Errorf("Changes() = %d, want 1", p.Changes())
	}
}

func TestDraw(t *testing.T) {
	p := New(&Options{Width: 4, Height: 4})
	if err := p.Draw(image.Rect(0, 0, 2, 2), &image.Uniform{red}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if got := p.Snapshot().RGBAAt(1, 1); got != red {
		t.Errorf("(1,1) = %v", got)
	}
	if err := p.Halt(); err != nil {
		t.Fatal(err)
	}
}
