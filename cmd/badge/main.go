// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// badge runs the badge firmware, on the badge or emulated on a desktop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/badge/badge"
	"github.com/GermanBionicSystems/badge/ledstrip"
	"github.com/GermanBionicSystems/badge/preview"
	"github.com/GermanBionicSystems/badge/rm690b0"
	"github.com/GermanBionicSystems/badge/rm690b0/emulator"
)

// peripherals are the badge devices, real or emulated.
type peripherals struct {
	panel  badge.Panel
	digits badge.Digits
	lights badge.Lights
	// halt releases the devices, in reverse order of opening.
	halt []func() error
}

func (p *peripherals) close() {
	for i := len(p.halt) - 1; i >= 0; i-- {
		if err := p.halt[i](); err != nil {
			log.Printf("halt: %v", err)
		}
	}
}

func panelOpts(cfg *Config) *rm690b0.Opts {
	return &rm690b0.Opts{
		Width:        cfg.Panel.Width,
		Height:       cfg.Panel.Height,
		ColumnOffset: cfg.Panel.ColumnOffset,
		Brightness:   cfg.Panel.Brightness,
		ChunkSize:    rm690b0.DefaultOpts.ChunkSize,
	}
}

func ledOpts(cfg *Config) *ledstrip.Opts {
	return &ledstrip.Opts{BaseLEDs: cfg.LEDs.Base, Gamma: cfg.LEDs.Gamma}
}

// consoleDigits logs the counter.
type consoleDigits struct{}

func (consoleDigits) SetNumber(n uint8) {
	log.Printf("digits: %02X", n)
}

// openEmulated runs the panel in an emulator mirrored to an HTTP preview,
// and the LEDs on the terminal.
func openEmulated(cfg *Config) (*peripherals, error) {
	format, err := preview.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	view := preview.New(&preview.Options{
		Width:     cfg.Panel.Width,
		Height:    cfg.Panel.Height,
		Format:    format,
		Keepalive: 10 * time.Second,
	})
	em := emulator.New(emulator.Options{
		Width:        cfg.Panel.Width,
		Height:       cfg.Panel.Height,
		ColumnOffset: cfg.Panel.ColumnOffset,
		OnFlush: func(r image.Rectangle, img *image.RGBA) {
			_ = view.Draw(r, img, r.Min)
		},
	})
	dev, err := rm690b0.New(em, nil, panelOpts(cfg))
	if err != nil {
		return nil, err
	}
	console := ledstrip.NewConsole(nil)
	strip, err := ledstrip.New(console, ledOpts(cfg))
	if err != nil {
		return nil, err
	}

	srv := &http.Server{Addr: cfg.HTTP, Handler: view}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("preview on http://%s/", cfg.HTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("preview: %v", err)
		}
	}()

	return &peripherals{
		panel:  dev,
		digits: consoleDigits{},
		lights: strip,
		halt: []func() error{
			func() error {
				if err := em.Err(); err != nil {
					log.Printf("panel protocol: %v", err)
				}
				_ = view.Halt()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := srv.Shutdown(ctx)
				wg.Wait()
				return err
			},
			strip.Halt,
			console.Halt,
		},
	}, nil
}

func mainImpl() error {
	configPath := flag.String("config", "", "JSON configuration file, defaults apply when empty")
	emulate := flag.Bool("emulate", false, "emulate the hardware, with a browser preview of the panel")
	httpAddr := flag.String("http", "", "preview address with -emulate")
	name := flag.String("name", "", "name shown on the splash screen")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger := log.New(os.Stderr, "badge: ", log.LstdFlags|log.Lmicroseconds)

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "emulate":
			cfg.Emulate = *emulate
		case "http":
			cfg.HTTP = *httpAddr
		case "name":
			cfg.Name = *name
		}
	})

	var p *peripherals
	var err error
	if cfg.Emulate {
		p, err = openEmulated(cfg)
	} else {
		p, err = openHardware(cfg)
	}
	if err != nil {
		return err
	}
	defer p.close()

	app, err := badge.New(p.panel, p.digits, p.lights, newLink(cfg.Network), &badge.Opts{
		Name:       cfg.Name,
		Status:     cfg.Status,
		Interval:   time.Duration(cfg.Interval),
		SplashTime: time.Duration(cfg.Splash),
		Layout:     badge.DefaultLayout,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	var events <-chan badge.Event
	if cfg.Emulate {
		logger.Println("type t for a touch, c <hex> for a card")
		events = readEvents(ctx, os.Stdin, logger)
	}
	if err := app.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Println("shutting down")
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "badge: %s.\n", err)
		os.Exit(1)
	}
}
