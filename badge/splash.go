// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package badge

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font/gofont/goregular"
	"tinygo.org/x/tinyfont"

	"github.com/GermanBionicSystems/badge/surface"
)

//go:embed logo.svg
var logoSVG []byte

// Ramp geometry.
const (
	rampBars   = 32
	rampHeight = 16
	rampTop    = 10
)

var (
	white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	black = color.RGBA{0, 0, 0, 0xFF}
)

// Layout places the splash screen elements.
type Layout struct {
	Logo    image.Rectangle
	NameTag image.Rectangle
	// Status is the baseline origin of the status line.
	Status image.Point
}

// DefaultLayout fits a 450x600 panel.
var DefaultLayout = Layout{
	Logo:    image.Rect(405, 10, 445, 50),
	NameTag: image.Rect(100, 530, 400, 578),
	Status:  image.Pt(100, 592),
}

// DrawRamp draws 32 gray bars, from black to gray 31, with a white block on
// the left of every other bar.
func DrawRamp(s surface.Surface) error {
	for i := range rampBars {
		y := i*rampHeight + rampTop
		if i%2 == 0 {
			if err := surface.Fill(s, image.Rect(50, y, 100, y+rampHeight), white); err != nil {
				return err
			}
		}
		g := uint8(i)
		if err := surface.Fill(s, image.Rect(100, y, 400, y+rampHeight), color.RGBA{g, g, g, 0xFF}); err != nil {
			return err
		}
	}
	return nil
}

// Logo rasterizes the badge logo to a w by h image.
func Logo(w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(logoSVG))
	if err != nil {
		return nil, fmt.Errorf("badge: logo: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())), 1)
	return img, nil
}

// NameTag renders name centered in a rounded frame, white on black.
func NameTag(name string, w, h int) (image.Image, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("badge: name tag: %w", err)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(1, 1, float64(w-2), float64(h-2), 8)
	dc.Stroke()
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: float64(h) / 2}))
	dc.DrawStringAnchored(name, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return dc.Image(), nil
}

// DrawStatus writes a line of small text with its baseline origin at p.
func DrawStatus(s surface.Surface, p image.Point, text string, c color.RGBA) error {
	d := surface.Displayer(s)
	o := p.Sub(s.Bounds().Min)
	tinyfont.WriteLine(d, &tinyfont.Picopixel, int16(o.X), int16(o.Y), text, c)
	return d.Display()
}

// DrawSplash clears s and draws the full splash screen on it.
func DrawSplash(s surface.Surface, l Layout, name, status string) error {
	if err := surface.Fill(s, s.Bounds(), black); err != nil {
		return err
	}
	if err := DrawRamp(s); err != nil {
		return err
	}
	logo, err := Logo(l.Logo.Dx(), l.Logo.Dy())
	if err != nil {
		return err
	}
	if err := surface.DrawImage(s, l.Logo, logo, image.Point{}); err != nil {
		return err
	}
	if name != "" {
		tag, err := NameTag(name, l.NameTag.Dx(), l.NameTag.Dy())
		if err != nil {
			return err
		}
		if err := surface.DrawImage(s, l.NameTag, tag, image.Point{}); err != nil {
			return err
		}
	}
	return DrawStatus(s, l.Status, status, white)
}
