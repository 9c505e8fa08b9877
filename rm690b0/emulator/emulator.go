// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package emulator emulates a RM690B0 panel behind a qspi.Conn.
//
// It decodes the command framing, the address windows and the pixel bursts
// into an in-memory image, and records the first protocol violation it sees.
// It is used to test the driver end to end and to run the badge on a host
// without the hardware.
package emulator

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/badge/qspi"
)

// Options configures the emulated panel.
type Options struct {
	Width  int
	Height int
	// ColumnOffset is subtracted from the column addresses received.
	ColumnOffset int
	// OnFlush is called when a RAM write is closed, with the rectangle that
	// was written and the panel memory. img must not be retained or
	// modified, and OnFlush must not call back into the Panel.
	OnFlush func(r image.Rectangle, img *image.RGBA)
}

// Command is one decoded transaction.
type Command struct {
	Lead   byte
	Op     byte
	Params []byte
	// Pixels is the number of pixels sent by a RAM write burst.
	Pixels int
}

// Panel implements qspi.Conn.
type Panel struct {
	mu   sync.Mutex
	opts Options
	img  *image.RGBA

	win        image.Rectangle
	format     byte
	brightness byte
	on         bool
	awake      bool
	armed      bool
	dirty      bool

	// Current chip-select assertion.
	inCS   bool
	frame  []byte
	burst  bool
	cursor int
	pixel  []byte

	held     bool
	acquired int
	released int
	cmds     []Command
	err      error
}

// New returns an emulated panel, black and switched off.
func New(opts Options) *Panel {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Rect, &image.Uniform{color.Black}, image.Point{}, draw.Src)
	return &Panel{opts: opts, img: img}
}

func (p *Panel) String() string {
	return fmt.Sprintf("emulator.Panel{%dx%d}", p.opts.Width, p.opts.Height)
}

// Halt implements conn.Resource.
func (p *Panel) Halt() error {
	return nil
}

// Duplex implements conn.Conn.
func (p *Panel) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (p *Panel) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("emulator: read not supported")
	}
	return p.TxPackets([]qspi.Packet{{W: w}})
}

// TxPackets implements qspi.Conn.
func (p *Panel) TxPackets(pkts []qspi.Packet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(pkts) == 0 {
		return nil
	}
	for i := range pkts {
		p.feed(pkts[i].W, pkts[i].Width)
	}
	if pkts[len(pkts)-1].KeepCS {
		if !p.held {
			p.fail("chip-select kept asserted without holding the bus")
		}
		return nil
	}
	p.endCS()
	return nil
}

// AcquireBus implements qspi.Bus.
func (p *Panel) AcquireBus() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held {
		p.fail("bus acquired twice")
		return errors.New("emulator: bus already held")
	}
	p.held = true
	p.acquired++
	return nil
}

// ReleaseBus implements qspi.Bus.
func (p *Panel) ReleaseBus() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.held {
		p.fail("bus released while not held")
		return
	}
	p.held = false
	p.released++
}

// Image returns a copy of the panel memory.
func (p *Panel) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := image.NewRGBA(p.img.Rect)
	copy(img.Pix, p.img.Pix)
	return img
}

// Brightness returns the last brightness set.
func (p *Panel) Brightness() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.brightness
}

// On reports whether the display output was enabled.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Awake reports whether the panel left sleep mode.
func (p *Panel) Awake() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awake
}

// Window returns the current address window, in visible coordinates.
func (p *Panel) Window() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.win
}

// Commands returns the decoded transactions so far.
func (p *Panel) Commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Command(nil), p.cmds...)
}

// BusCounts returns how many times the bus was acquired and released.
func (p *Panel) BusCounts() (acquired, released int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired, p.released
}

// Err returns the first protocol violation seen, if any.
func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Panel) fail(format string, a ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("emulator: "+format, a...)
	}
}

func (p *Panel) feed(b []byte, w qspi.LineWidth) {
	if w == 0 {
		w = qspi.Single
	}
	if !p.inCS {
		p.inCS = true
		p.frame = p.frame[:0]
		p.burst = false
	}
	for len(b) != 0 && len(p.frame) < 4 {
		if w != qspi.Single {
			p.fail("%s lane header", w)
		}
		p.frame = append(p.frame, b[0])
		b = b[1:]
		if len(p.frame) == 4 {
			p.header()
		}
	}
	if len(b) == 0 {
		return
	}
	if !p.burst {
		if w != qspi.Single {
			p.fail("%s lane parameters for command %#02x", w, p.frame[2])
		}
		p.frame = append(p.frame, b...)
		return
	}
	if w != qspi.Quad {
		p.fail("%s lane pixel data", w)
	}
	for _, v := range b {
		p.pixel = append(p.pixel, v)
		if len(p.pixel) == 3 {
			p.writePixel(color.RGBA{p.pixel[0], p.pixel[1], p.pixel[2], 0xFF})
			p.pixel = p.pixel[:0]
		}
	}
}

func (p *Panel) header() {
	lead, op := p.frame[0], p.frame[2]
	switch {
	case lead != 0x02 && lead != 0x32:
		p.fail("unknown lead byte %#02x", lead)
	case p.frame[1] != 0 || p.frame[3] != 0:
		p.fail("malformed address header % x", p.frame)
	}
	if lead != 0x32 || op != 0x2C {
		return
	}
	p.burst = true
	p.cursor = 0
	p.pixel = p.pixel[:0]
	if !p.armed {
		p.fail("pixel burst without memory write command")
	}
	if p.format != 0x77 {
		p.fail("pixel burst with pixel format %#02x", p.format)
	}
	if p.win.Empty() {
		p.fail("pixel burst without address window")
	}
}

func (p *Panel) writePixel(c color.RGBA) {
	if p.win.Empty() {
		p.cursor++
		return
	}
	w := p.win.Dx()
	if p.cursor >= w*p.win.Dy() {
		p.fail("pixel data overflows window %v", p.win)
		p.cursor++
		return
	}
	p.img.SetRGBA(p.win.Min.X+p.cursor%w, p.win.Min.Y+p.cursor/w, c)
	p.cursor++
}

func (p *Panel) endCS() {
	p.inCS = false
	if len(p.frame) < 4 {
		p.fail("transaction of %d bytes", len(p.frame))
		return
	}
	if p.burst {
		p.burst = false
		p.armed = false
		if len(p.pixel) != 0 {
			p.fail("burst ends with %d stray bytes", len(p.pixel))
		}
		if n := p.win.Dx() * p.win.Dy(); p.cursor != n {
			p.fail("burst wrote %d pixels, window %v holds %d", p.cursor, p.win, n)
		}
		p.cmds = append(p.cmds, Command{Lead: 0x32, Op: 0x2C, Pixels: p.cursor})
		p.dirty = true
		return
	}
	lead, op, params := p.frame[0], p.frame[2], p.frame[4:]
	p.cmds = append(p.cmds, Command{Lead: lead, Op: op, Params: append([]byte(nil), params...)})
	p.exec(lead, op, params)
}

// paramLen is the parameter length of the commands that carry a fixed one.
var paramLen = map[byte]int{0x2A: 4, 0x2B: 4, 0x3A: 1, 0x51: 1, 0xFE: 1}

func (p *Panel) exec(lead, op byte, params []byte) {
	if n, ok := paramLen[op]; ok && len(params) != n {
		p.fail("command %#02x with %d parameter bytes, want %d", op, len(params), n)
		return
	}
	switch op {
	case 0x00:
		if lead == 0x32 && p.dirty {
			p.dirty = false
			if p.opts.OnFlush != nil {
				p.opts.OnFlush(p.win, p.img)
			}
		}
	case 0x11:
		p.awake = true
	case 0x29:
		p.on = true
	case 0x2A:
		c0 := (int(params[0])<<8 | int(params[1])) - p.opts.ColumnOffset
		c1 := (int(params[2])<<8 | int(params[3])) - p.opts.ColumnOffset
		if c0 > c1 || c0 < 0 || c1 >= p.opts.Width || c0%2 != 0 || c1%2 != 1 {
			p.fail("column window [%d,%d] invalid", c0, c1)
		}
		p.win.Min.X, p.win.Max.X = c0, c1+1
	case 0x2B:
		r0 := int(params[0])<<8 | int(params[1])
		r1 := int(params[2])<<8 | int(params[3])
		if r0 > r1 || r1 >= p.opts.Height || r0%2 != 0 || r1%2 != 1 {
			p.fail("row window [%d,%d] invalid", r0, r1)
		}
		p.win.Min.Y, p.win.Max.Y = r0, r1+1
	case 0x2C:
		if lead == 0x02 {
			p.armed = true
		}
	case 0x3A:
		p.format = params[0]
	case 0x51:
		p.brightness = params[0]
	}
}

var _ qspi.Conn = &Panel{}
