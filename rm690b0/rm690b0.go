// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/badge/qspi"
	"github.com/GermanBionicSystems/badge/surface"
)

// DefaultOpts is the 450x600 panel of the badge at reduced power.
var DefaultOpts = Opts{
	Width:        450,
	Height:       600,
	ColumnOffset: 16,
	Brightness:   0x80,
	ChunkSize:    64,
}

// Opts defines the options for the device.
type Opts struct {
	// Width and Height are the visible size in pixels. Both must be even.
	Width  int
	Height int
	// ColumnOffset is the controller RAM column of the first visible column.
	ColumnOffset int
	// Brightness is set at the end of Init. 0xFF is the maximum.
	Brightness byte
	// ChunkSize is the size of each bus transfer of a pixel burst.
	ChunkSize int
}

// Dev is a handle to the panel.
//
// It is not safe for concurrent use. Other devices may share the bus.
type Dev struct {
	c    qspi.Conn
	rst  gpio.PinOut
	opts Opts
	rect image.Rectangle
	// buf is the chunk buffer of pixel bursts.
	buf   []byte
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a handle to a RM690B0 panel on c.
//
// rst is the reset line. It may be nil when the board resets the panel
// itself. Init must be called before drawing.
func New(c qspi.Conn, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width%2 != 0 || opts.Height%2 != 0 {
		return nil, fmt.Errorf("rm690b0: invalid size %dx%d, want positive and even", opts.Width, opts.Height)
	}
	if opts.ColumnOffset < 0 || opts.ColumnOffset+opts.Width > 0xFFFF || opts.Height > 0xFFFF {
		return nil, fmt.Errorf("rm690b0: column offset %d does not fit", opts.ColumnOffset)
	}
	if opts.ChunkSize < 4 {
		return nil, errors.New("rm690b0: chunk size must hold the 4 byte write header")
	}
	return &Dev{
		c:     c,
		rst:   rst,
		opts:  *opts,
		rect:  image.Rect(0, 0, opts.Width, opts.Height),
		buf:   make([]byte, opts.ChunkSize),
		sleep: sleep,
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("rm690b0.Dev{%s, %dx%d}", d.c, d.opts.Width, d.opts.Height)
}

// ColorModel implements display.Drawer.
//
// Alpha is ignored. The panel takes 8 bits per channel.
func (d *Dev) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return surface.DrawImage(d, r, src, sp)
}

// SetBrightness sets the panel brightness. 0 turns the light output off
// without touching the panel memory.
func (d *Dev) SetBrightness(b byte) error {
	return d.send(opBrightness, b)
}

// Halt implements conn.Resource.
//
// It turns the brightness down to 0.
func (d *Dev) Halt() error {
	return d.SetBrightness(0)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ display.Drawer = &Dev{}
var _ surface.Surface = &Dev{}
