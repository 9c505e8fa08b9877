// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"iter"
	"net/http"
	"sync"
	"time"

	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/badge/surface"
)

// Options for a preview panel.
type Options struct {
	// Width and height of the image buffer.
	Width, Height int

	// Format specifies the image format to send to clients.
	Format Format

	// JPEGQuality ranges from 1 to 100. 0 selects jpeg.DefaultQuality.
	JPEGQuality int

	// Keepalive resends the current frame to clients after this long
	// without change. 0 disables it.
	Keepalive time.Duration
}

// Panel is an in-memory display served over HTTP.
type Panel struct {
	opts Options

	mu       sync.Mutex
	buffer   *image.RGBA
	changes  uint64
	clients  map[*client]struct{}
	snapshot map[Format][]byte
}

// New returns a black panel.
func New(opts *Options) *Panel {
	buffer := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	// The zero alpha channel is fully transparent; make it opaque.
	draw.Draw(buffer, buffer.Bounds(), image.Black, image.Point{}, draw.Src)

	return &Panel{
		opts:     *opts,
		buffer:   buffer,
		clients:  map[*client]struct{}{},
		snapshot: map[Format][]byte{},
	}
}

func (p *Panel) String() string {
	return fmt.Sprintf("preview.Panel{%dx%d}", p.opts.Width, p.opts.Height)
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (p *Panel) Halt() error {
	p.mu.Lock()
	p.terminateClientsLocked()
	p.mu.Unlock()
	return nil
}

// ColorModel implements display.Drawer.
func (p *Panel) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer and surface.Surface.
func (p *Panel) Bounds() image.Rectangle {
	return p.buffer.Rect
}

// Draw implements display.Drawer.
func (p *Panel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.mu.Lock()
	draw.Draw(p.buffer, r, src, sp, draw.Src)
	p.bufferChangedLocked()
	p.mu.Unlock()
	return nil
}

// DrawPoints implements surface.Surface.
func (p *Panel) DrawPoints(pts iter.Seq2[image.Point, color.RGBA]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	changed := false
	for pt, c := range pts {
		if pt.In(p.buffer.Rect) {
			p.buffer.SetRGBA(pt.X, pt.Y, opaque(c))
			changed = true
		}
	}
	if changed {
		p.bufferChangedLocked()
	}
	return nil
}

// FillRect implements surface.Surface.
//
// Pixels left when colors runs out keep their previous value.
func (p *Panel) FillRect(r image.Rectangle, colors iter.Seq[color.RGBA]) error {
	clip := r.Intersect(p.buffer.Rect)
	if clip.Empty() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.bufferChangedLocked()
	x, y := clip.Min.X, clip.Min.Y
	for c := range surface.Visible(r, clip, colors) {
		p.buffer.SetRGBA(x, y, opaque(c))
		if x++; x == clip.Max.X {
			x, y = clip.Min.X, y+1
		}
	}
	return nil
}

// Snapshot returns a copy of the panel content.
func (p *Panel) Snapshot() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := image.NewRGBA(p.buffer.Rect)
	copy(img.Pix, p.buffer.Pix)
	return img
}

// Changes returns the number of drawing operations so far.
func (p *Panel) Changes() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.changes
}

// opaque drops the alpha channel, as a panel does.
func opaque(c color.RGBA) color.RGBA {
	c.A = 0xFF
	return c
}

var _ display.Drawer = (*Panel)(nil)
var _ surface.Surface = (*Panel)(nil)
var _ http.Handler = (*Panel)(nil)
