// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview shows a badge display in a web browser.
//
// Panel is an in-memory surface.Surface that is also an http.Handler. Each
// client gets a snapshot of the panel when it connects and a new one after
// every change, as a "multipart/x-mixed-replace" stream (MJPEG, as served by
// IP cameras). Browsers render it in a plain <img> tag.
//
// PNG is the default frame format since it keeps flat colors exact. JPEG can
// be selected with Options.Format or the "format" URL parameter.
package preview
