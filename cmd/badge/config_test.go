// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/badge/ledstrip"
	"github.com/GermanBionicSystems/badge/preview"
	"github.com/GermanBionicSystems/badge/rm690b0"
	"github.com/GermanBionicSystems/badge/rm690b0/emulator"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "badge.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeFile(t, `{
		"name": "Ada",
		"interval": "250ms",
		"panel": {"brightness": 255, "mode": 0},
		"network": {"addr": "10.0.0.1:443"}
	}`)
	got, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Name = "Ada"
	want.Interval = Duration(250 * time.Millisecond)
	want.Panel.Brightness = 0xFF
	want.Panel.Mode = 0
	want.Network.Addr = "10.0.0.1:443"
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("LoadConfig() difference (-got +want):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for _, content := range []string{
		`{"nmae": "typo"}`,
		`{"interval": "soon"}`,
		`{"interval": 5}`,
		`{"panel": {"mode": 4}}`,
		`{"panel": {"mode": -1}}`,
		`{`,
	} {
		if _, err := LoadConfig(writeFile(t, content)); err == nil {
			t.Errorf("LoadConfig(%s) succeeded", content)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadConfig() of a missing file succeeded")
	}
}

func TestDurationJSON(t *testing.T) {
	b, err := json.Marshal(Duration(1500 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"1.5s"` {
		t.Errorf("Marshal() = %s", b)
	}
	var d Duration
	if err := json.Unmarshal(b, &d); err != nil || d != Duration(1500*time.Millisecond) {
		t.Errorf("Unmarshal() = %v, %v", d, err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if m := spi.Mode(cfg.Panel.Mode); m != spi.Mode3 {
		t.Errorf("panel SPI mode = %s, want %s", m, spi.Mode3)
	}
	em := emulator.New(emulator.Options{Width: cfg.Panel.Width, Height: cfg.Panel.Height})
	if _, err := rm690b0.New(em, nil, panelOpts(cfg)); err != nil {
		t.Error(err)
	}
	if _, err := ledstrip.New(io.Discard, ledOpts(cfg)); err != nil {
		t.Error(err)
	}
	if _, err := preview.ParseFormat(cfg.Format); err != nil {
		t.Error(err)
	}
}
