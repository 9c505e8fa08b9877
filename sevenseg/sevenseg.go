// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sevenseg drives a two digit, multiplexed seven segment display.
//
// The segments a to g are wired to the outputs 0 to 6 of a 74HC595 shift
// register fed by an SPI connection; output 7 is the decimal point, kept off.
// Each digit has its own select line. Only one digit is lit at a time: a
// goroutine alternates between them fast enough for the eye to see both.
//
// The value shown is a byte in hexadecimal, high nibble on the left digit.
package sevenseg

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// DefaultOpts is a common anode display lit 3ms per digit.
var DefaultOpts = Opts{
	CommonAnode: true,
	DigitTime:   3 * time.Millisecond,
}

// Opts defines the options for the device.
type Opts struct {
	// CommonAnode inverts the segment outputs: a segment is lit when its
	// output is low.
	CommonAnode bool
	// DigitTime is how long each digit stays lit per cycle.
	DigitTime time.Duration
}

// glyphs are the segments of the hexadecimal digits, segment a in bit 0.
var glyphs = [16]byte{
	0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07,
	0x7F, 0x6F, 0x77, 0x7C, 0x39, 0x5E, 0x79, 0x71,
}

// ErrHalted is returned by Err after Halt.
var ErrHalted = errors.New("sevenseg: halted")

type frame struct {
	on   bool
	segs [2]byte
}

// Dev is a two digit display.
type Dev struct {
	c    conn.Conn
	high gpio.PinOut
	low  gpio.PinOut
	opts Opts

	mu   sync.Mutex
	want frame
	err  error
	// last is the value in the shift register, -1 when unknown.
	last int

	wake chan struct{}
	halt sync.Once
	stop chan struct{}
	done chan struct{}
}

// New returns a display multiplexed on its own goroutine until Halt. It
// starts blank.
//
// c writes one byte to the shift register per transaction. high and low
// select the left and the right digit.
func New(c conn.Conn, high, low gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.DigitTime <= 0 {
		return nil, fmt.Errorf("sevenseg: invalid digit time %s", opts.DigitTime)
	}
	d := &Dev{
		c:    c,
		high: high,
		low:  low,
		opts: *opts,
		last: -1,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if err := d.high.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("sevenseg: %w", err)
	}
	if err := d.low.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("sevenseg: %w", err)
	}
	if err := d.write(d.segments(0)); err != nil {
		return nil, fmt.Errorf("sevenseg: %w", err)
	}
	go d.run()
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("sevenseg{%s, %s, %s}", d.c, d.high, d.low)
}

// SetNumber shows n in hexadecimal.
func (d *Dev) SetNumber(n uint8) {
	d.set(frame{on: true, segs: [2]byte{glyphs[n>>4], glyphs[n&0x0F]}})
}

// Blank turns both digits off.
func (d *Dev) Blank() {
	d.set(frame{})
}

// Err returns the first error the multiplexing goroutine ran into. The
// display is blanked when that happens.
func (d *Dev) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Halt stops multiplexing and turns both digits off. It returns the error
// that stopped the display, if any. It is safe to call more than once, from
// any goroutine; only the first call reports the error.
func (d *Dev) Halt() error {
	first := false
	d.halt.Do(func() {
		first = true
		close(d.stop)
	})
	<-d.done
	if !first {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.err
	d.err = ErrHalted
	return err
}

func (d *Dev) set(f frame) {
	d.mu.Lock()
	d.want = f
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dev) fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err == nil {
		d.err = err
	}
	d.want = frame{}
}

// segments returns the shift register value lighting glyph.
func (d *Dev) segments(glyph byte) byte {
	if d.opts.CommonAnode {
		return ^glyph
	}
	return glyph
}

// write sends v to the shift register unless it already holds it.
func (d *Dev) write(v byte) error {
	if d.last == int(v) {
		return nil
	}
	if err := d.c.Tx([]byte{v}, nil); err != nil {
		d.last = -1
		return err
	}
	d.last = int(v)
	return nil
}

func (d *Dev) run() {
	defer close(d.done)
	t := time.NewTimer(d.opts.DigitTime)
	defer t.Stop()
	pins := [2]gpio.PinOut{d.high, d.low}
	for {
		d.mu.Lock()
		f := d.want
		d.mu.Unlock()
		if !f.on {
			select {
			case <-d.wake:
				continue
			case <-d.stop:
				return
			}
		}
		for i, p := range pins {
			if err := d.write(d.segments(f.segs[i])); err != nil {
				d.fail(fmt.Errorf("sevenseg: %w", err))
				break
			}
			if err := p.Out(gpio.High); err != nil {
				d.fail(fmt.Errorf("sevenseg: %w", err))
				break
			}
			t.Reset(d.opts.DigitTime)
			stopped := false
			select {
			case <-t.C:
			case <-d.stop:
				stopped = true
			}
			if err := p.Out(gpio.Low); err != nil {
				d.fail(fmt.Errorf("sevenseg: %w", err))
				break
			}
			if stopped {
				return
			}
		}
	}
}
