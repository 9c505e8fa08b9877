// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package qspi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
)

// LineWidth is the number of data lines driven per clock.
type LineWidth uint8

// Supported lane widths.
const (
	Single LineWidth = 1
	Dual   LineWidth = 2
	Quad   LineWidth = 4
)

func (w LineWidth) String() string {
	switch w {
	case Single:
		return "Single"
	case Dual:
		return "Dual"
	case Quad:
		return "Quad"
	default:
		return fmt.Sprintf("LineWidth(%d)", uint8(w))
	}
}

// ErrLineWidth is returned by a transport asked to send a packet at a lane
// width it cannot drive.
var ErrLineWidth = errors.New("qspi: unsupported line width")

// Packet is one segment of a transaction.
type Packet struct {
	// W is written to the bus. Transports do not retain it after TxPackets
	// returns.
	W []byte
	// Width is the lane width used for W. The zero value means Single.
	Width LineWidth
	// KeepCS leaves chip-select asserted once the transaction ends. It is
	// only meaningful on the last packet of a transaction; the next
	// transaction then continues the same assertion.
	KeepCS bool
}

func (p *Packet) width() LineWidth {
	if p.Width == 0 {
		return Single
	}
	return p.Width
}

// Bus is the exclusive ownership primitive of a shared bus.
type Bus interface {
	// AcquireBus blocks until no other device may use the bus.
	AcquireBus() error
	// ReleaseBus gives the bus back. It must be called exactly once per
	// successful AcquireBus.
	ReleaseBus()
}

// Conn is a connection to one device on a QSPI bus.
//
// The embedded conn.Conn Tx is a single lane, write only transaction.
type Conn interface {
	conn.Conn
	Bus
	// TxPackets sends p as a single transaction: chip-select is asserted
	// for the whole list and released after the last packet, unless it sets
	// KeepCS.
	TxPackets(p []Packet) error
}

// Guard holds exclusive ownership of a Bus for the length of a burst.
//
// The zero value with Bus set holds nothing. Acquire takes the bus on first
// use only and Release gives it back at most once, so one deferred Release
// covers every exit path.
type Guard struct {
	Bus  Bus
	held bool
}

// Acquire takes the bus unless the guard already holds it.
func (g *Guard) Acquire() error {
	if g.held {
		return nil
	}
	if err := g.Bus.AcquireBus(); err != nil {
		return err
	}
	g.held = true
	return nil
}

// Release returns the bus if the guard holds it.
func (g *Guard) Release() {
	if !g.held {
		return
	}
	g.held = false
	g.Bus.ReleaseBus()
}

// Held reports whether the guard currently owns the bus.
func (g *Guard) Held() bool {
	return g.held
}
