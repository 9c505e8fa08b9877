// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledstrip drives the badge's addressable LEDs: a few base LEDs
// followed by a single beacon at the end of the strip.
//
// A Strip writes raw RGB bytes to any io.Writer, which can be a
// periph.io/x/devices/v3/nrzled device or the Console emulator.
package ledstrip
