// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/badge/badge"
)

func TestParseEvent(t *testing.T) {
	data := []struct {
		line string
		want badge.Event
	}{
		{"t", badge.Event{Kind: badge.Touch}},
		{"  Touch ", badge.Event{Kind: badge.Touch}},
		{"c cafe", badge.Event{Kind: badge.Card, Data: []byte{0xCA, 0xFE}}},
		{"card 0102", badge.Event{Kind: badge.Card, Data: []byte{1, 2}}},
	}
	for _, line := range data {
		got, err := parseEvent(line.line)
		if err != nil {
			t.Errorf("parseEvent(%q) = %v", line.line, err)
			continue
		}
		if diff := cmp.Diff(got, line.want); diff != "" {
			t.Errorf("parseEvent(%q) difference (-got +want):\n%s", line.line, diff)
		}
	}
	for _, line := range []string{"x", "t 1", "c", "c zz", "c 01 02"} {
		if _, err := parseEvent(line); err == nil || err == io.EOF {
			t.Errorf("parseEvent(%q) = %v, want an error", line, err)
		}
	}
	if _, err := parseEvent("   "); err != io.EOF {
		t.Errorf("parseEvent(blank) = %v, want io.EOF", err)
	}
}

func TestReadEvents(t *testing.T) {
	var logs bytes.Buffer
	in := strings.NewReader("t\n\nbogus\nc 2a\n")
	var got []badge.Event
	for e := range readEvents(context.Background(), in, log.New(&logs, "", 0)) {
		got = append(got, e)
	}
	want := []badge.Event{{Kind: badge.Touch}, {Kind: badge.Card, Data: []byte{0x2A}}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("events difference (-got +want):\n%s", diff)
	}
	if !strings.Contains(logs.String(), `unknown event "bogus"`) {
		t.Errorf("bad line not logged: %q", logs.String())
	}
}

func TestReadEventsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := readEvents(ctx, strings.NewReader("t\nt\nt\n"), log.New(io.Discard, "", 0))
	<-ch
	cancel()
	// The reader gives up on the undelivered events and closes the channel.
	for range ch {
	}
}
