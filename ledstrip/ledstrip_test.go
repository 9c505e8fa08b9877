// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledstrip

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/ansi256"
)

// frames records each write.
type frames struct {
	w   [][]byte
	err error
}

func (f *frames) Write(b []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.w = append(f.w, bytes.Clone(b))
	return len(b), nil
}

func TestGamma(t *testing.T) {
	if gamma8[0] != 0 || gamma8[255] != 255 || gamma8[100] != 19 {
		t.Errorf("gamma8[0, 100, 255] = %d, %d, %d", gamma8[0], gamma8[100], gamma8[255])
	}
	for i := 1; i < len(gamma8); i++ {
		if gamma8[i] < gamma8[i-1] {
			t.Fatalf("gamma8 decreases at %d", i)
		}
	}
}

func TestSetAll(t *testing.T) {
	f := &frames{}
	s, err := New(f, &Opts{BaseLEDs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d", s.Len())
	}
	if err := s.SetAll(color.RGBA{100, 0, 0, 255}); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{{100, 0, 0, 100, 0, 0, 100, 0, 0}}
	if diff := cmp.Diff(f.w, want); diff != "" {
		t.Errorf("writes difference (-got +want):\n%s", diff)
	}
}

func TestBaseAndBeacon(t *testing.T) {
	f := &frames{}
	s, err := New(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	blue := color.RGBA{0, 0, 100, 255}
	white := color.RGBA{255, 255, 255, 255}
	if err := s.SetBase(blue); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBeacon(white); err != nil {
		t.Fatal(err)
	}
	want := bytes.Repeat([]byte{0, 0, 19}, 5)
	want = append(want, 255, 255, 255)
	if diff := cmp.Diff(f.w[1], want); diff != "" {
		t.Errorf("gamma corrected write difference (-got +want):\n%s", diff)
	}
	if got := s.Colors(); got[0] != blue || got[5] != white {
		t.Errorf("Colors() = %v", got)
	}
	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(f.w[2], make([]byte, 18)) {
		t.Errorf("Halt() wrote % x", f.w[2])
	}
}

func TestWriteError(t *testing.T) {
	f := &frames{err: errors.New("unplugged")}
	s, err := New(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetAll(color.RGBA{}); !errors.Is(err, f.err) {
		t.Errorf("SetAll() = %v, want %v", err, f.err)
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New(&frames{}, &Opts{BaseLEDs: -1}); err == nil {
		t.Error("New() accepted a negative count")
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleTo(&buf, nil)
	if n, err := c.Write([]byte{255, 0, 0, 0, 0, 255}); n != 6 || err != nil {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	want := "\r\033[0m" +
		ansi256.Default.Block(color.NRGBA{255, 0, 0, 255}) +
		ansi256.Default.Block(color.NRGBA{0, 0, 255, 255}) +
		"\033[0m "
	if got := buf.String(); got != want {
		t.Errorf("Write() printed %q, want %q", got, want)
	}
	if _, err := c.Write([]byte{1, 2}); err == nil {
		t.Error("Write() accepted a partial pixel")
	}
	buf.Reset()
	if err := c.Halt(); err != nil || !strings.HasPrefix(buf.String(), "\n") {
		t.Errorf("Halt() = %v, printed %q", err, buf.String())
	}
}

func TestStripOnConsole(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(NewConsoleTo(&buf, nil), &Opts{BaseLEDs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetAll(color.RGBA{0, 0, 0, 255}); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), ansi256.Default.Block(color.NRGBA{0, 0, 0, 255})) != 2 {
		t.Errorf("unexpected console output %q", buf.String())
	}
}
