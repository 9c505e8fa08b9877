// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rm690b0 controls a 24 bit color AMOLED panel driven by a Raydium
// RM690B0 controller over a QSPI bus.
//
// Every command is framed as a lead byte, a three byte address header
// carrying the opcode, then the parameters. Pixel data is sent as one
// chip-select assertion: a single lane header followed by quad lane chunks.
// The driver holds the shared bus for the whole burst so no other device on
// the same lines can interleave a transaction with it.
//
// The controller addresses its RAM in blocks of 2x2 pixels. Requested
// rectangles are widened to the enclosing block boundaries before being sent;
// the extra pixels repeat the nearest requested one. The driver keeps no
// framebuffer.
//
// The panel must be reset and initialized with Init before anything is drawn.
// Init sets the brightness from Opts; SetBrightness changes it later.
package rm690b0
