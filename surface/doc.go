// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package surface defines the drawing capability shared by the badge
// displays.
//
// A Surface only knows how to set individual points and how to fill a
// rectangle from a stream of colors. Everything else, shapes, text, images,
// is built on top of these two operations by the helpers in this package, so
// callers never see how a particular display addresses its memory.
//
// Displayer adapts a Surface to tinygo's drivers.Displayer so the tinygo
// font and shape packages can draw on it.
package surface
