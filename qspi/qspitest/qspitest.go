// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package qspitest is meant to be used to test drivers over a fake QSPI
// connection.
package qspitest

import (
	"errors"
	"sync"

	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/badge/qspi"
)

// IO is one recorded transaction.
type IO struct {
	Packets []qspi.Packet
	// Locked is true when the bus was held by the conn while the
	// transaction ran.
	Locked bool
}

// Record implements qspi.Conn and records everything written to it.
//
// The zero value is ready to use.
type Record struct {
	sync.Mutex
	Ops []IO
	// Acquired and Released count AcquireBus and ReleaseBus calls.
	Acquired int
	Released int

	// Fail, when set, is called before a transaction is recorded with the
	// index it would get in Ops. A non-nil error is returned and the
	// transaction is not recorded.
	Fail func(index int, p []qspi.Packet) error
	// AcquireErr is returned by AcquireBus when set.
	AcquireErr error

	held bool
	n    int
}

// ErrUnbalanced is reported by Balanced when the bus was not released
// exactly as many times as it was acquired.
var ErrUnbalanced = errors.New("qspitest: unbalanced bus acquisition")

func (r *Record) String() string {
	return "qspitest.Record"
}

// Halt implements conn.Resource.
func (r *Record) Halt() error {
	return nil
}

// Duplex implements conn.Conn.
func (r *Record) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (r *Record) Tx(w, read []byte) error {
	if len(read) != 0 {
		return errors.New("qspitest: read not supported")
	}
	return r.TxPackets([]qspi.Packet{{W: w, Width: qspi.Single}})
}

// TxPackets implements qspi.Conn.
//
// The packets are deep copied so callers may reuse their buffers.
func (r *Record) TxPackets(p []qspi.Packet) error {
	r.Lock()
	defer r.Unlock()
	idx := r.n
	r.n++
	if r.Fail != nil {
		if err := r.Fail(idx, p); err != nil {
			return err
		}
	}
	io := IO{Packets: make([]qspi.Packet, len(p)), Locked: r.held}
	for i := range p {
		io.Packets[i] = p[i]
		io.Packets[i].W = append([]byte(nil), p[i].W...)
	}
	r.Ops = append(r.Ops, io)
	return nil
}

// AcquireBus implements qspi.Bus.
func (r *Record) AcquireBus() error {
	r.Lock()
	defer r.Unlock()
	if r.AcquireErr != nil {
		return r.AcquireErr
	}
	r.Acquired++
	r.held = true
	return nil
}

// ReleaseBus implements qspi.Bus.
func (r *Record) ReleaseBus() {
	r.Lock()
	defer r.Unlock()
	r.Released++
	r.held = false
}

// Held reports whether the bus is currently acquired.
func (r *Record) Held() bool {
	r.Lock()
	defer r.Unlock()
	return r.held
}

// Balanced returns ErrUnbalanced unless every acquisition was released.
func (r *Record) Balanced() error {
	r.Lock()
	defer r.Unlock()
	if r.Acquired != r.Released || r.held {
		return ErrUnbalanced
	}
	return nil
}

// Payload returns the bytes written by Ops[from:], concatenated.
func (r *Record) Payload(from int) []byte {
	r.Lock()
	defer r.Unlock()
	var out []byte
	for _, io := range r.Ops[from:] {
		for _, p := range io.Packets {
			out = append(out, p.W...)
		}
	}
	return out
}

var _ qspi.Conn = &Record{}
