// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package qspi

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Mode flags from linux/spi/spi.h.
const (
	spiTxDual = 0x100
	spiTxQuad = 0x200
)

// spiIOCTransfer mirrors struct spi_ioc_transfer.
type spiIOCTransfer struct {
	txBuf       uint64
	rxBuf       uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNbits     uint8
	rxNbits     uint8
	wordDelay   uint8
	pad         uint8
}

const spiIOCTransferSize = 32

// iocW encodes _IOW('k', nr, size).
func iocW(nr, size uintptr) uintptr {
	const (
		iocWrite = 1
		magic    = 'k'
	)
	return iocWrite<<30 | size<<16 | magic<<8 | nr
}

func iocMessage(n int) uintptr {
	return iocW(0, uintptr(n)*spiIOCTransferSize)
}

var (
	iocWrMaxSpeedHz = iocW(4, 4)
	iocWrMode32     = iocW(5, 4)
)

// Spidev is a Conn on a Linux spidev node.
type Spidev struct {
	path string
	fd   int
	hz   uint32
	bus  *Shared
	held bool
}

// OpenSpidev opens the spidev node at path, e.g. "/dev/spidev1.0", with
// dual and quad transmit enabled.
//
// bus arbitrates against other devices wired to the same lines; nil gives
// the device a bus of its own.
func OpenSpidev(path string, f physic.Frequency, mode spi.Mode, bus *Shared) (*Spidev, error) {
	if f <= 0 {
		return nil, fmt.Errorf("qspi: invalid frequency %s", f)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("qspi: %s: %w", path, err)
	}
	m := int(mode&3) | spiTxDual | spiTxQuad
	if err := unix.IoctlSetPointerInt(fd, uint(iocWrMode32), m); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("qspi: %s: setting mode: %w", path, err)
	}
	hz := uint32(f / physic.Hertz)
	if err := unix.IoctlSetPointerInt(fd, uint(iocWrMaxSpeedHz), int(hz)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("qspi: %s: setting speed: %w", path, err)
	}
	if bus == nil {
		bus = NewShared(path)
	}
	return &Spidev{path: path, fd: fd, hz: hz, bus: bus}, nil
}

func (s *Spidev) String() string {
	return s.path
}

// Halt implements conn.Resource.
func (s *Spidev) Halt() error {
	return nil
}

// Close releases the file descriptor.
func (s *Spidev) Close() error {
	s.ReleaseBus()
	return unix.Close(s.fd)
}

// Duplex implements conn.Conn.
func (s *Spidev) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (s *Spidev) Tx(w, r []byte) error {
	if len(r) != 0 {
		return fmt.Errorf("qspi: %s is write only", s)
	}
	return s.TxPackets([]Packet{{W: w}})
}

// TxPackets implements Conn.
func (s *Spidev) TxPackets(p []Packet) error {
	x, err := buildTransfers(p, s.hz)
	if err != nil || len(x) == 0 {
		return err
	}
	if !s.held {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), iocMessage(len(x)), uintptr(unsafe.Pointer(&x[0])))
	runtime.KeepAlive(p)
	if errno != 0 {
		return fmt.Errorf("qspi: %s: %w", s.path, errno)
	}
	return nil
}

// AcquireBus implements Bus.
func (s *Spidev) AcquireBus() error {
	s.bus.mu.Lock()
	s.held = true
	return nil
}

// ReleaseBus implements Bus.
func (s *Spidev) ReleaseBus() {
	if !s.held {
		return
	}
	s.held = false
	s.bus.mu.Unlock()
}

// buildTransfers converts packets to spi_ioc_transfer entries. Empty packets
// are dropped.
//
// For spidev, cs_change on a transfer other than the last one releases
// chip-select between transfers, and on the last one keeps it asserted once
// the message completes.
func buildTransfers(p []Packet, hz uint32) ([]spiIOCTransfer, error) {
	x := make([]spiIOCTransfer, 0, len(p))
	keep := false
	for i := range p {
		w := p[i].width()
		switch w {
		case Single, Dual, Quad:
		default:
			return nil, fmt.Errorf("%w: %s", ErrLineWidth, w)
		}
		if i == len(p)-1 {
			keep = p[i].KeepCS
		}
		if len(p[i].W) == 0 {
			continue
		}
		x = append(x, spiIOCTransfer{
			txBuf:       uint64(uintptr(unsafe.Pointer(&p[i].W[0]))),
			length:      uint32(len(p[i].W)),
			speedHz:     hz,
			bitsPerWord: 8,
			txNbits:     uint8(w),
		})
	}
	if keep && len(x) != 0 {
		x[len(x)-1].csChange = 1
	}
	return x, nil
}

var _ Conn = &Spidev{}
