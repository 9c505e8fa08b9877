// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"fmt"
	"image/color"
	"iter"

	"github.com/GermanBionicSystems/badge/qspi"
)

// writePixels streams px into the current window and closes RAM write mode.
func (d *Dev) writePixels(px iter.Seq[byte]) error {
	if err := d.send(opMemoryWrite); err != nil {
		return err
	}
	if err := d.burst(px); err != nil {
		return err
	}
	if err := d.sendLead(cmdLeadQuad, opNop); err != nil {
		return err
	}
	return d.send(opDisplayOn)
}

// burst sends the quad write header then px in chunks of d.opts.ChunkSize,
// all under one chip-select assertion.
//
// The bus is taken before the first transfer that leaves chip-select
// asserted and given back on return, whatever the outcome.
func (d *Dev) burst(px iter.Seq[byte]) error {
	g := qspi.Guard{Bus: d.c}
	defer g.Release()
	next, stop := iter.Pull(px)
	defer stop()

	b, more := next()
	chunk := append(d.buf[:0], cmdLeadQuad, 0x00, opMemoryWrite, 0x00)
	width := qspi.Single
	for n := 0; len(chunk) != 0; n++ {
		if more {
			if err := g.Acquire(); err != nil {
				return &TransportError{Op: "acquiring bus", Err: err}
			}
		}
		if err := d.c.TxPackets([]qspi.Packet{{W: chunk, Width: width, KeepCS: more}}); err != nil {
			return &TransportError{Op: fmt.Sprintf("pixel chunk %d", n), Err: err}
		}
		width = qspi.Quad
		chunk = d.buf[:0]
		for more && len(chunk) < cap(chunk) {
			chunk = append(chunk, b)
			b, more = next()
		}
	}
	return nil
}

// rgb flattens colors to their R, G, B bytes.
func rgb(colors iter.Seq[color.RGBA]) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for c := range colors {
			if !yield(c.R) || !yield(c.G) || !yield(c.B) {
				return
			}
		}
	}
}

// repeat yields c n times.
func repeat(c color.RGBA, n int) iter.Seq[color.RGBA] {
	return func(yield func(color.RGBA) bool) {
		for range n {
			if !yield(c) {
				return
			}
		}
	}
}
