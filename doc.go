// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package badge is the firmware of a conference badge with a 450x600 AMOLED
// panel, a two digit counter and a LED strip.
//
// The drivers live in their own packages: rm690b0 for the panel over qspi,
// sevenseg for the counter and ledstrip for the LEDs. Package badge/badge
// ties them together and cmd/badge runs it, on the badge or emulated with
// a browser preview.
package badge
