// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"fmt"

	"github.com/GermanBionicSystems/badge/qspi"
)

const (
	opNop            = 0x00
	opSleepOut       = 0x11
	opRAMWriteConfig = 0x24
	opMIPIMode       = 0x26
	opDisplayOn      = 0x29
	opColumnAddrSet  = 0x2A
	opRowAddrSet     = 0x2B
	opMemoryWrite    = 0x2C
	opTearingOff     = 0x34
	opPixelFormat    = 0x3A
	opBrightness     = 0x51
	opDisplayMode    = 0xC2
	opPageSelect     = 0xFE
)

// Lead bytes select how the rest of the transaction is clocked.
const (
	// cmdLeadSingle: address and data on one lane.
	cmdLeadSingle = 0x02
	// cmdLeadQuad: address on one lane, data on four.
	cmdLeadQuad = 0x32
)

// maxParams is the largest parameter list a command may carry. Anything
// longer is pixel data and goes through writePixels.
const maxParams = 32

// send issues op with params as one single lane transaction.
func (d *Dev) send(op byte, params ...byte) error {
	return d.sendLead(cmdLeadSingle, op, params...)
}

func (d *Dev) sendLead(lead, op byte, params ...byte) error {
	if len(params) > maxParams {
		panic(misuse("command %#02x carries %d parameter bytes", op, len(params)))
	}
	hdr := [4]byte{lead, 0x00, op, 0x00}
	p := []qspi.Packet{{W: hdr[:1]}, {W: hdr[1:]}}
	if len(params) != 0 {
		p = append(p, qspi.Packet{W: params})
	}
	if err := d.c.TxPackets(p); err != nil {
		return &TransportError{Op: fmt.Sprintf("command %#02x", op), Err: err}
	}
	return nil
}
