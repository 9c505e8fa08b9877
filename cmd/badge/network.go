// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

var errOffline = errors.New("no network configured")

// link is the badge's network: a reachability check and a firmware download.
type link struct {
	cfg    NetworkConfig
	client *http.Client
}

func newLink(cfg NetworkConfig) *link {
	return &link{cfg: cfg, client: &http.Client{Timeout: time.Duration(cfg.Timeout)}}
}

// Connect implements badge.Network.
func (l *link) Connect(ctx context.Context) error {
	if l.cfg.Addr == "" {
		return errOffline
	}
	d := net.Dialer{Timeout: time.Duration(l.cfg.Timeout)}
	c, err := d.DialContext(ctx, "tcp", l.cfg.Addr)
	if err != nil {
		return err
	}
	log.Printf("online: %s", c.RemoteAddr())
	return c.Close()
}

// ApplyUpdate implements badge.Network.
//
// The image is written next to UpdatePath and renamed over it once complete.
func (l *link) ApplyUpdate(ctx context.Context) error {
	if l.cfg.UpdateURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.UpdateURL, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", l.cfg.UpdateURL, resp.Status)
	}
	f, err := os.CreateTemp(filepath.Dir(l.cfg.UpdatePath), ".firmware-*")
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), l.cfg.UpdatePath)
	}
	if err != nil {
		os.Remove(f.Name())
		return err
	}
	log.Printf("firmware update: %d bytes written to %s", n, l.cfg.UpdatePath)
	return nil
}
