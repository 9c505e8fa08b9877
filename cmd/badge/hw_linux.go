// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/badge/ledstrip"
	"github.com/GermanBionicSystems/badge/qspi"
	"github.com/GermanBionicSystems/badge/rm690b0"
	"github.com/GermanBionicSystems/badge/sevenseg"
)

// openHardware opens the devices wired to the badge's board.
func openHardware(cfg *Config) (p *peripherals, err error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p = &peripherals{}
	defer func() {
		if err != nil {
			p.close()
		}
	}()

	bus := qspi.NewShared(cfg.Panel.Bus)
	c, err := qspi.OpenSpidev(cfg.Panel.Device, physic.Frequency(cfg.Panel.SpeedMHz)*physic.MegaHertz, spi.Mode(cfg.Panel.Mode), bus)
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, c.Close)
	rst, err := resetPin(cfg.Panel)
	if err != nil {
		return p, err
	}
	if rst != nil {
		p.halt = append(p.halt, rst.Halt)
	}
	dev, err := rm690b0.New(c, rst, panelOpts(cfg))
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, dev.Halt)
	p.panel = dev

	// The shift register sits on the panel's bus.
	sp, err := spireg.Open(cfg.Digits.Port)
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, sp.Close)
	sc, err := sp.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return p, err
	}
	high := gpioreg.ByName(cfg.Digits.High)
	low := gpioreg.ByName(cfg.Digits.Low)
	if high == nil || low == nil {
		return p, fmt.Errorf("digit select pins %q and %q not found", cfg.Digits.High, cfg.Digits.Low)
	}
	digits, err := sevenseg.New(bus.Attach(sc), high, low, &sevenseg.Opts{
		CommonAnode: cfg.Digits.CommonAnode,
		DigitTime:   time.Duration(cfg.Digits.DigitTime),
	})
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, digits.Halt)
	p.digits = digits

	lp, err := spireg.Open(cfg.LEDs.Port)
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, lp.Close)
	leds, err := nrzled.NewSPI(lp, &nrzled.Opts{
		NumPixels: cfg.LEDs.Base + 1,
		Channels:  3,
		Freq:      physic.Frequency(cfg.LEDs.SpeedKHz) * physic.KiloHertz,
	})
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, leds.Halt)
	strip, err := ledstrip.New(leds, ledOpts(cfg))
	if err != nil {
		return p, err
	}
	p.halt = append(p.halt, strip.Halt)
	p.lights = strip
	return p, nil
}

// resetPin returns the panel reset line, nil when there is none.
func resetPin(cfg PanelConfig) (gpio.PinOut, error) {
	if cfg.ResetChip != "" {
		l, err := gpiocdev.RequestLine(cfg.ResetChip, cfg.ResetLine, gpiocdev.AsOutput(1), gpiocdev.WithConsumer("badge"))
		if err != nil {
			return nil, fmt.Errorf("reset line %s:%d: %w", cfg.ResetChip, cfg.ResetLine, err)
		}
		return &cdevPin{l: l, chip: cfg.ResetChip, offset: cfg.ResetLine}, nil
	}
	if cfg.Reset == "" {
		return nil, nil
	}
	p := gpioreg.ByName(cfg.Reset)
	if p == nil {
		return nil, fmt.Errorf("reset pin %q not found", cfg.Reset)
	}
	return p, nil
}

// cdevPin is an output line of the GPIO character device.
type cdevPin struct {
	l      *gpiocdev.Line
	chip   string
	offset int
}

func (c *cdevPin) String() string {
	return c.Name()
}

// Halt implements conn.Resource. It releases the line.
func (c *cdevPin) Halt() error {
	return c.l.Close()
}

// Name implements pin.Pin.
func (c *cdevPin) Name() string {
	return fmt.Sprintf("%s:%d", c.chip, c.offset)
}

// Number implements pin.Pin.
func (c *cdevPin) Number() int {
	return c.offset
}

// Function implements pin.Pin.
func (c *cdevPin) Function() string {
	return "Out"
}

// Out implements gpio.PinOut.
func (c *cdevPin) Out(l gpio.Level) error {
	v := 0
	if l {
		v = 1
	}
	return c.l.SetValue(v)
}

// PWM implements gpio.PinOut.
func (c *cdevPin) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("gpiocdev: PWM is not supported")
}

var _ gpio.PinOut = &cdevPin{}
