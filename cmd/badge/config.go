// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config is the badge configuration file.
type Config struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	// Interval is the counter period.
	Interval Duration `json:"interval"`
	// Splash is how long the splash screen stays before the update.
	Splash Duration `json:"splash"`

	Panel   PanelConfig   `json:"panel"`
	Digits  DigitsConfig  `json:"digits"`
	LEDs    LEDsConfig    `json:"leds"`
	Network NetworkConfig `json:"network"`

	// Emulate replaces the hardware with a browser preview and a console
	// LED strip.
	Emulate bool   `json:"emulate"`
	HTTP    string `json:"http"`
	Format  string `json:"format"`
}

// PanelConfig is the AMOLED panel wiring.
type PanelConfig struct {
	// Device is the spidev node of the quad SPI bus.
	Device   string `json:"device"`
	Bus      string `json:"bus"`
	SpeedMHz int    `json:"speed_mhz"`
	// Mode is the SPI clock mode, 0 to 3. The panel samples in mode 3.
	Mode int `json:"mode"`
	// Reset is the periph name of the reset pin. Empty means no reset pin
	// unless ResetChip is set.
	Reset string `json:"reset"`
	// ResetChip and ResetLine select the reset pin through the GPIO
	// character device instead.
	ResetChip    string `json:"reset_chip"`
	ResetLine    int    `json:"reset_line"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ColumnOffset int    `json:"column_offset"`
	Brightness   byte   `json:"brightness"`
}

// DigitsConfig is the seven segment display wiring.
type DigitsConfig struct {
	// Port is the SPI port of the shift register. It shares the panel's bus.
	Port        string   `json:"port"`
	High        string   `json:"high"`
	Low         string   `json:"low"`
	CommonAnode bool     `json:"common_anode"`
	DigitTime   Duration `json:"digit_time"`
}

// LEDsConfig is the LED strip wiring.
type LEDsConfig struct {
	Port     string `json:"port"`
	Base     int    `json:"base"`
	SpeedKHz int    `json:"speed_khz"`
	Gamma    bool   `json:"gamma"`
}

// NetworkConfig is where the badge connects and updates from.
type NetworkConfig struct {
	// Addr is a host:port that must be reachable for the badge to be
	// online.
	Addr      string `json:"addr"`
	UpdateURL string `json:"update_url"`
	// UpdatePath is where the downloaded firmware image is written.
	UpdatePath string   `json:"update_path"`
	Timeout    Duration `json:"timeout"`
}

// Duration is a time.Duration written as a string in JSON, like "1.5s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns the configuration of the stock badge.
func DefaultConfig() *Config {
	return &Config{
		Status:   "booting",
		Interval: Duration(time.Second),
		Splash:   Duration(5 * time.Second),
		Panel: PanelConfig{
			Device:       "/dev/spidev1.0",
			Bus:          "SPI1",
			SpeedMHz:     40,
			Mode:         3,
			Reset:        "GPIO17",
			Width:        450,
			Height:       600,
			ColumnOffset: 16,
			Brightness:   0x80,
		},
		Digits: DigitsConfig{
			Port:        "SPI1.1",
			High:        "GPIO11",
			Low:         "GPIO10",
			CommonAnode: true,
			DigitTime:   Duration(3 * time.Millisecond),
		},
		LEDs: LEDsConfig{
			Port:     "SPI0.0",
			Base:     5,
			SpeedKHz: 2500,
			Gamma:    true,
		},
		Network: NetworkConfig{
			UpdatePath: "/var/lib/badge/firmware.bin",
			Timeout:    Duration(10 * time.Second),
		},
		HTTP:   "localhost:8080",
		Format: "png",
	}
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d := json.NewDecoder(f)
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m := cfg.Panel.Mode; m < 0 || m > 3 {
		return nil, fmt.Errorf("%s: invalid panel SPI mode %d", path, m)
	}
	return cfg, nil
}
