// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package qspi defines a connection to a device on a variable lane width
// synchronous serial bus (single, dual or quad SPI).
//
// periph's spi.Conn only drives one data line. Display controllers with a
// QSPI interface expect their command header on one line and the pixel
// payload on four, inside the same chip-select assertion. A Conn sends a
// transaction as a list of Packet, each carrying its own lane width, and lets
// the last packet leave chip-select asserted so a burst can span several
// transactions.
//
// Several devices usually share the same clock and data lines. Shared is the
// handle for one physical bus; every driver on it is given the same Shared.
// Each transaction is arbitrated automatically. A driver that must keep other
// devices off the bus across a sequence of transactions holds it with a
// Guard:
//
//	g := qspi.Guard{Bus: c}
//	defer g.Release()
//	if err := g.Acquire(); err != nil {
//		return err
//	}
//
// Two transports are provided: Attach wraps a periph spi.Conn (single lane
// only) and OpenSpidev talks to a Linux spidev node directly so quad
// transfers are available.
package qspi
