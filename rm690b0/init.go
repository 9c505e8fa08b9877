// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"context"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
)

type initStep struct {
	name   string
	op     byte
	params []byte
	// delay is waited after the command.
	delay time.Duration
}

// bringUp is the manufacturer initialization. The final brightness is sent
// after it.
var bringUp = []initStep{
	{"select page 0x20", opPageSelect, []byte{0x20}, 0},
	{"MIPI mode off", opMIPIMode, []byte{0x0A}, 0},
	{"RAM write config", opRAMWriteConfig, []byte{0x80}, 0},
	{"select page 0x00", opPageSelect, []byte{0x00}, 0},
	{"pixel format", opPixelFormat, []byte{0x77}, 0},
	{"display mode", opDisplayMode, []byte{0x00}, 10 * time.Millisecond},
	{"tearing effect off", opTearingOff, nil, 0},
	{"brightness 0", opBrightness, []byte{0x00}, 0},
	{"sleep out", opSleepOut, nil, 120 * time.Millisecond},
	{"display on", opDisplayOn, nil, 10 * time.Millisecond},
}

// Init resets the panel and runs the manufacturer initialization.
//
// Any failure leaves the panel unusable; Init must then be run again.
func (d *Dev) Init(ctx context.Context) error {
	s := initSequence{d: d, ctx: ctx}
	if d.rst != nil {
		s.reset(gpio.High, time.Millisecond)
		s.reset(gpio.Low, 20*time.Millisecond)
		s.reset(gpio.High, 50*time.Millisecond)
		if s.err != nil {
			return s.err
		}
		log.Printf("%s: reset complete", d)
	}
	for _, st := range bringUp {
		s.command(st)
	}
	s.command(initStep{name: "brightness", op: opBrightness, params: []byte{d.opts.Brightness}})
	if s.err != nil {
		return s.err
	}
	log.Printf("%s: manufacturer init complete", d)
	return nil
}

// initSequence runs steps until the first failure.
type initSequence struct {
	d   *Dev
	ctx context.Context
	err error
}

func (s *initSequence) reset(l gpio.Level, wait time.Duration) {
	if s.err != nil {
		return
	}
	if err := s.d.rst.Out(l); err != nil {
		s.err = &InitError{Step: "reset " + l.String(), Err: err}
		return
	}
	s.wait("reset "+l.String(), wait)
}

func (s *initSequence) command(st initStep) {
	if s.err != nil {
		return
	}
	if err := s.d.send(st.op, st.params...); err != nil {
		s.err = &InitError{Step: st.name, Err: err}
		return
	}
	s.wait(st.name, st.delay)
}

func (s *initSequence) wait(step string, d time.Duration) {
	if s.err != nil || d == 0 {
		return
	}
	if err := s.d.sleep(s.ctx, d); err != nil {
		s.err = &InitError{Step: step, Err: err}
	}
}
