// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package badge runs the badge: it brings the panel up, draws the splash
// screen, then counts on the seven segment display while the LEDs alternate
// between blue and red.
//
// The hardware is reached through small interfaces so the same App runs on
// the badge and on a desktop with emulated peripherals.
package badge
