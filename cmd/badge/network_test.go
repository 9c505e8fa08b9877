// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConnect(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	l := newLink(NetworkConfig{Addr: strings.TrimPrefix(srv.URL, "http://"), Timeout: Duration(time.Second)})
	if err := l.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := newLink(NetworkConfig{}).Connect(context.Background()); !errors.Is(err, errOffline) {
		t.Errorf("Connect() = %v, want %v", err, errOffline)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Connect(ctx); err == nil {
		t.Error("Connect() with a cancelled context succeeded")
	}
}

func TestApplyUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/firmware.bin" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("new firmware"))
	}))
	defer srv.Close()
	dir := t.TempDir()
	path := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := newLink(NetworkConfig{UpdateURL: srv.URL + "/firmware.bin", UpdatePath: path, Timeout: Duration(time.Second)})
	if err := l.ApplyUpdate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b, err := os.ReadFile(path); err != nil || string(b) != "new firmware" {
		t.Errorf("firmware = %q, %v", b, err)
	}

	l = newLink(NetworkConfig{UpdateURL: srv.URL + "/missing", UpdatePath: path, Timeout: Duration(time.Second)})
	if err := l.ApplyUpdate(context.Background()); err == nil {
		t.Error("ApplyUpdate() of a missing image succeeded")
	}
	if b, _ := os.ReadFile(path); string(b) != "new firmware" {
		t.Errorf("failed update changed the firmware to %q", b)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestApplyUpdateDisabled(t *testing.T) {
	if err := newLink(NetworkConfig{}).ApplyUpdate(context.Background()); err != nil {
		t.Error(err)
	}
}
