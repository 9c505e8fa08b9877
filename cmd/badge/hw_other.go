// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package main

import "errors"

func openHardware(cfg *Config) (*peripherals, error) {
	return nil, errors.New("the badge hardware is only reachable on linux, use -emulate")
}
