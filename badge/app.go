// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package badge

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/GermanBionicSystems/badge/surface"
)

// Network is the badge's link to the outside world.
type Network interface {
	// Connect joins the network.
	Connect(ctx context.Context) error
	// ApplyUpdate fetches and installs a firmware update, if any.
	ApplyUpdate(ctx context.Context) error
}

// Panel is the main display.
type Panel interface {
	surface.Surface
	// Init brings the display up. It must succeed before drawing.
	Init(ctx context.Context) error
}

// Digits is the two digit counter display.
type Digits interface {
	SetNumber(n uint8)
}

// Lights are the LEDs: base LEDs and a beacon.
type Lights interface {
	SetAll(c color.RGBA) error
	SetBeacon(c color.RGBA) error
}

// EventKind is what triggered an Event.
type EventKind int

// Event kinds.
const (
	Touch EventKind = iota
	Card
)

func (k EventKind) String() string {
	switch k {
	case Touch:
		return "Touch"
	case Card:
		return "Card"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is an input from the badge wearer.
type Event struct {
	Kind EventKind
	// Data is the card identifier for Card events.
	Data []byte
}

// Colors of the status LEDs.
var (
	Red   = color.RGBA{100, 0, 0, 0xFF}
	Blue  = color.RGBA{0, 0, 100, 0xFF}
	Green = color.RGBA{0, 100, 0, 0xFF}
	White = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// DefaultOpts counts every second after showing the splash screen for five
// seconds.
var DefaultOpts = Opts{
	Interval:   time.Second,
	SplashTime: 5 * time.Second,
	Layout:     DefaultLayout,
	Status:     "booting",
}

// Opts defines the options for the App.
type Opts struct {
	// Name is shown on the splash screen. Empty skips the name tag.
	Name string
	// Status is the text on the last line of the splash screen.
	Status string
	// Interval is the counter period.
	Interval time.Duration
	// SplashTime is how long the splash screen stays before the update.
	SplashTime time.Duration
	Layout     Layout
	// Logger receives the progress and the non fatal failures. nil uses
	// log.Default().
	Logger *log.Logger
}

// App drives the badge peripherals.
type App struct {
	panel  Panel
	digits Digits
	lights Lights
	net    Network
	opts   Opts
	log    *log.Logger
}

// New returns an App. It does not touch the hardware until Run.
func New(p Panel, d Digits, l Lights, n Network, opts *Opts) (*App, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if p == nil || d == nil || l == nil || n == nil {
		return nil, errors.New("badge: missing peripheral")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("badge: invalid interval %s", opts.Interval)
	}
	if opts.SplashTime < 0 {
		return nil, fmt.Errorf("badge: invalid splash time %s", opts.SplashTime)
	}
	a := &App{panel: p, digits: d, lights: l, net: n, opts: *opts, log: opts.Logger}
	if a.log == nil {
		a.log = log.Default()
	}
	return a, nil
}

// Run brings the badge up and runs the counter until ctx is done, which it
// then returns the error of.
//
// Network failures are logged and do not stop the badge. A panel failure
// does. events may be nil; once closed, the counter keeps running alone.
func (a *App) Run(ctx context.Context, events <-chan Event) error {
	a.setLights(Red)
	if err := a.net.Connect(ctx); err != nil {
		a.log.Printf("connect: %v", err)
	}
	if err := a.panel.Init(ctx); err != nil {
		return fmt.Errorf("badge: panel: %w", err)
	}
	if err := DrawSplash(a.panel, a.opts.Layout, a.opts.Name, a.opts.Status); err != nil {
		return fmt.Errorf("badge: splash: %w", err)
	}
	a.log.Printf("splash done")
	if err := wait(ctx, a.opts.SplashTime); err != nil {
		return err
	}

	a.setLights(Blue)
	if err := a.net.ApplyUpdate(ctx); err != nil {
		a.log.Printf("update: %v", err)
	}

	var counter uint8
	a.digits.SetNumber(counter)
	a.setLights(Blue)
	t := time.NewTicker(a.opts.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			counter++
			a.digits.SetNumber(counter)
			if counter%2 == 0 {
				a.setLights(Blue)
			} else {
				a.setLights(Red)
			}
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			a.flash(e)
		}
	}
}

func (a *App) flash(e Event) {
	c := White
	if e.Kind == Card {
		c = Green
		a.log.Printf("card %x", e.Data)
	}
	if err := a.lights.SetBeacon(c); err != nil {
		a.log.Printf("lights: %v", err)
	}
}

func (a *App) setLights(c color.RGBA) {
	if err := a.lights.SetAll(c); err != nil {
		a.log.Printf("lights: %v", err)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
