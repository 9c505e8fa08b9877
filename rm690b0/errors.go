// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rm690b0

import (
	"errors"
	"fmt"
)

// ErrProtocolMisuse is wrapped by the value the driver panics with when it is
// asked for an inverted or out of range address window, or a command longer
// than a single transaction allows. It indicates a bug in the caller.
var ErrProtocolMisuse = errors.New("rm690b0: protocol misuse")

func misuse(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocolMisuse, fmt.Sprintf(format, a...))
}

// TransportError is returned when a bus transaction did not complete. The
// panel may have been left partially updated.
type TransportError struct {
	// Op describes what was being sent.
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rm690b0: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InitError is returned by Init. The panel is not usable until Init succeeds.
type InitError struct {
	// Step names the bring-up step that failed.
	Step string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("rm690b0: init: %s: %v", e.Step, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
