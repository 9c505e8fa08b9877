// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package qspi

import (
	"errors"
	"testing"
	"unsafe"
)

func TestIoctlNumbers(t *testing.T) {
	if got := unsafe.Sizeof(spiIOCTransfer{}); got != spiIOCTransferSize {
		t.Fatalf("sizeof(spiIOCTransfer) = %d, want %d", got, spiIOCTransferSize)
	}
	for _, tc := range []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"SPI_IOC_MESSAGE(1)", iocMessage(1), 0x40206b00},
		{"SPI_IOC_MESSAGE(3)", iocMessage(3), 0x40606b00},
		{"SPI_IOC_WR_MAX_SPEED_HZ", iocWrMaxSpeedHz, 0x40046b04},
		{"SPI_IOC_WR_MODE32", iocWrMode32, 0x40046b05},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %#x, want %#x", tc.name, tc.got, tc.want)
		}
	}
}

func TestBuildTransfers(t *testing.T) {
	x, err := buildTransfers([]Packet{
		{W: []byte{0x32, 0x00, 0x2C, 0x00}},
		{},
		{W: make([]byte, 64), Width: Quad, KeepCS: true},
	}, 80_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if len(x) != 2 {
		t.Fatalf("got %d transfers, want 2", len(x))
	}
	if x[0].length != 4 || x[0].txNbits != 1 || x[0].csChange != 0 {
		t.Errorf("header transfer = %+v", x[0])
	}
	if x[1].length != 64 || x[1].txNbits != 4 || x[1].csChange != 1 || x[1].speedHz != 80_000_000 {
		t.Errorf("payload transfer = %+v", x[1])
	}

	x, err = buildTransfers([]Packet{{W: []byte{1}, KeepCS: false}}, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if x[0].csChange != 0 {
		t.Errorf("csChange = %d on a closing transfer", x[0].csChange)
	}

	if _, err := buildTransfers([]Packet{{W: []byte{1}, Width: 3}}, 1000); !errors.Is(err, ErrLineWidth) {
		t.Errorf("buildTransfers() with width 3 = %v, want ErrLineWidth", err)
	}
}
