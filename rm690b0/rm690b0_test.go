// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GermanBionicSystems/badge/qspi"
	"github.com/GermanBionicSystems/badge/qspi/qspitest"
)

func newDev(t *testing.T, opts *Opts) (*Dev, *qspitest.Record) {
	t.Helper()
	r := &qspitest.Record{}
	d, err := New(r, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(context.Context, time.Duration) error { return nil }
	return d, r
}

// frame is the transaction of a command.
func frame(lead, op byte, params ...byte) qspitest.IO {
	p := []qspi.Packet{{W: []byte{lead}}, {W: []byte{0x00, op, 0x00}}}
	if len(params) != 0 {
		p = append(p, qspi.Packet{W: params})
	}
	return qspitest.IO{Packets: p}
}

// mustMisuse runs f and fails unless it panics with ErrProtocolMisuse.
func mustMisuse(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		v := recover()
		err, ok := v.(error)
		if !ok || !errors.Is(err, ErrProtocolMisuse) {
			t.Errorf("recovered %v, want ErrProtocolMisuse", v)
		}
	}()
	f()
}

func TestNew(t *testing.T) {
	d, _ := newDev(t, nil)
	if got, want := d.String(), "rm690b0.Dev{qspitest.Record, 450x600}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := d.Bounds().Size(); got.X != 450 || got.Y != 600 {
		t.Errorf("Bounds() = %v", d.Bounds())
	}
	if d.opts != DefaultOpts {
		t.Errorf("opts = %+v, want DefaultOpts", d.opts)
	}
}

func TestNewInvalid(t *testing.T) {
	for _, opts := range []Opts{
		{Width: 0, Height: 600, ChunkSize: 64},
		{Width: 451, Height: 600, ChunkSize: 64},
		{Width: 450, Height: 601, ChunkSize: 64},
		{Width: 450, Height: 600, ColumnOffset: -2, ChunkSize: 64},
		{Width: 450, Height: 600, ColumnOffset: 0xFFFF, ChunkSize: 64},
		{Width: 450, Height: 600, ChunkSize: 3},
	} {
		if _, err := New(&qspitest.Record{}, nil, &opts); err == nil {
			t.Errorf("New(%+v) succeeded", opts)
		}
	}
}

func TestSetBrightnessAndHalt(t *testing.T) {
	d, r := newDev(t, nil)
	if err := d.SetBrightness(0xFF); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	want := []qspitest.IO{
		frame(0x02, 0x51, 0xFF),
		frame(0x02, 0x51, 0x00),
	}
	diffOps(t, r.Ops, want)
}
