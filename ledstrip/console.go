// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledstrip

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Console shows a LED strip on a terminal with ANSI colors.
//
// It accepts the same raw RGB stream as a real strip, so it can stand in for
// one while testing animations.
type Console struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
}

// NewConsole returns a Console printing to stdout. A nil palette uses
// ansi256.Default.
func NewConsole(p *ansi256.Palette) *Console {
	return NewConsoleTo(colorable.NewColorableStdout(), p)
}

// NewConsoleTo returns a Console printing to w.
func NewConsoleTo(w io.Writer, p *ansi256.Palette) *Console {
	if p == nil {
		p = ansi256.Default
	}
	return &Console{w: w, palette: *p}
}

func (c *Console) String() string {
	return "ledstrip.Console"
}

// Write redraws the line with one block per RGB triplet.
func (c *Console) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("ledstrip: invalid RGB stream length")
	}
	c.buf.Reset()
	_, _ = c.buf.WriteString("\r\033[0m")
	for i := 0; i < len(pixels); i += 3 {
		_, _ = io.WriteString(&c.buf, c.palette.Block(color.NRGBA{pixels[i], pixels[i+1], pixels[i+2], 255}))
	}
	_, _ = c.buf.WriteString("\033[0m ")
	if _, err := c.buf.WriteTo(c.w); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt resets the terminal colors and ends the line.
func (c *Console) Halt() error {
	_, err := io.WriteString(c.w, "\n\033[0m")
	return err
}

var _ io.Writer = &Console{}
var _ fmt.Stringer = &Console{}
