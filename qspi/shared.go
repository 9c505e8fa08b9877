// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package qspi

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
)

// Shared arbitrates one physical bus between the drivers attached to it.
//
// Create one per bus and hand it to every driver constructor; there is no
// package level state.
type Shared struct {
	name string
	mu   sync.Mutex
}

// NewShared returns the handle of the bus called name.
func NewShared(name string) *Shared {
	return &Shared{name: name}
}

func (s *Shared) String() string {
	return s.name
}

// Attach returns a Conn that sends through c and is arbitrated against the
// other devices of s.
//
// periph only drives a single data line: packets asking for a wider lane
// width fail with ErrLineWidth.
func (s *Shared) Attach(c spi.Conn) Conn {
	return &spiConn{bus: s, c: c}
}

// spiConn adapts a periph spi.Conn.
type spiConn struct {
	bus  *Shared
	c    spi.Conn
	held bool
}

func (s *spiConn) String() string {
	return fmt.Sprintf("%s/%s", s.bus, s.c)
}

// Halt implements conn.Resource.
func (s *spiConn) Halt() error {
	if r, ok := s.c.(conn.Resource); ok {
		return r.Halt()
	}
	return nil
}

// Duplex implements conn.Conn.
func (s *spiConn) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (s *spiConn) Tx(w, r []byte) error {
	if len(r) != 0 {
		return fmt.Errorf("qspi: %s is write only", s)
	}
	return s.TxPackets([]Packet{{W: w}})
}

// TxPackets implements Conn.
func (s *spiConn) TxPackets(p []Packet) error {
	if len(p) == 0 {
		return nil
	}
	sp := make([]spi.Packet, len(p))
	for i := range p {
		if w := p[i].width(); w != Single {
			return fmt.Errorf("%w: %s cannot send %s packets", ErrLineWidth, s, w)
		}
		// Inside a transaction chip-select stays asserted between packets.
		sp[i] = spi.Packet{W: p[i].W, KeepCS: i != len(p)-1 || p[i].KeepCS}
	}
	if !s.held {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
	}
	return s.c.TxPackets(sp)
}

// AcquireBus implements Bus.
func (s *spiConn) AcquireBus() error {
	s.bus.mu.Lock()
	s.held = true
	return nil
}

// ReleaseBus implements Bus.
func (s *spiConn) ReleaseBus() {
	if !s.held {
		return
	}
	s.held = false
	s.bus.mu.Unlock()
}

var _ Conn = &spiConn{}
