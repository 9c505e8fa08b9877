// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledstrip

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"
)

// DefaultOpts is five base LEDs and a gamma corrected output.
var DefaultOpts = Opts{
	BaseLEDs: 5,
	Gamma:    true,
}

// Opts defines the options for the strip.
type Opts struct {
	// BaseLEDs is the number of LEDs before the beacon.
	BaseLEDs int
	// Gamma corrects the colors for the eye before they are written.
	Gamma bool
}

// gamma8 maps a linear intensity to the LED duty cycle, with a gamma of 2.8.
var gamma8 [256]byte

func init() {
	for i := range gamma8 {
		gamma8[i] = byte(math.Pow(float64(i)/255, 2.8)*255 + 0.5)
	}
}

// Strip is a row of base LEDs ending with a beacon.
type Strip struct {
	w    io.Writer
	opts Opts

	mu     sync.Mutex
	colors []color.RGBA
	buf    []byte
}

// New returns a strip writing to w. All the LEDs are off until the first
// call.
func New(w io.Writer, opts *Opts) (*Strip, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.BaseLEDs < 0 {
		return nil, fmt.Errorf("ledstrip: invalid number of base LEDs %d", opts.BaseLEDs)
	}
	n := opts.BaseLEDs + 1
	return &Strip{
		w:      w,
		opts:   *opts,
		colors: make([]color.RGBA, n),
		buf:    make([]byte, 3*n),
	}, nil
}

func (s *Strip) String() string {
	return fmt.Sprintf("ledstrip{%d+1}", s.opts.BaseLEDs)
}

// Len returns the number of LEDs, beacon included.
func (s *Strip) Len() int {
	return len(s.colors)
}

// Colors returns the colors last written.
func (s *Strip) Colors() []color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]color.RGBA(nil), s.colors...)
}

// SetAll sets every LED, beacon included.
func (s *Strip) SetAll(c color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.colors {
		s.colors[i] = c
	}
	return s.flushLocked()
}

// SetBase sets the base LEDs and leaves the beacon as is.
func (s *Strip) SetBase(c color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.opts.BaseLEDs {
		s.colors[i] = c
	}
	return s.flushLocked()
}

// SetBeacon sets the last LED only.
func (s *Strip) SetBeacon(c color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors[s.opts.BaseLEDs] = c
	return s.flushLocked()
}

// Halt turns all the LEDs off.
func (s *Strip) Halt() error {
	return s.SetAll(color.RGBA{})
}

func (s *Strip) flushLocked() error {
	for i, c := range s.colors {
		r, g, b := c.R, c.G, c.B
		if s.opts.Gamma {
			r, g, b = gamma8[r], gamma8[g], gamma8[b]
		}
		s.buf[3*i] = r
		s.buf[3*i+1] = g
		s.buf[3*i+2] = b
	}
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("ledstrip: %w", err)
	}
	return nil
}
