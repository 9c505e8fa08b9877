// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/GermanBionicSystems/badge/badge"
)

// parseEvent decodes one line typed at the emulator: "t" is a touch and
// "c <hex>" a card read.
func parseEvent(line string) (badge.Event, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return badge.Event{}, io.EOF
	}
	switch strings.ToLower(f[0]) {
	case "t", "touch":
		if len(f) != 1 {
			return badge.Event{}, fmt.Errorf("touch takes no argument: %q", line)
		}
		return badge.Event{Kind: badge.Touch}, nil
	case "c", "card":
		if len(f) != 2 {
			return badge.Event{}, fmt.Errorf("card wants one hex identifier: %q", line)
		}
		id, err := hex.DecodeString(f[1])
		if err != nil {
			return badge.Event{}, fmt.Errorf("card %q: %w", f[1], err)
		}
		return badge.Event{Kind: badge.Card, Data: id}, nil
	default:
		return badge.Event{}, fmt.Errorf("unknown event %q, want t or c <hex>", f[0])
	}
}

// readEvents sends the events typed on r until r ends or ctx is done, then
// closes the channel. Bad lines are logged and skipped.
func readEvents(ctx context.Context, r io.Reader, logger *log.Logger) <-chan badge.Event {
	ch := make(chan badge.Event)
	go func() {
		defer close(ch)
		s := bufio.NewScanner(r)
		for s.Scan() {
			e, err := parseEvent(s.Text())
			if err == io.EOF {
				continue
			}
			if err != nil {
				logger.Printf("input: %v", err)
				continue
			}
			select {
			case ch <- e:
			case <-ctx.Done():
				return
			}
		}
		if err := s.Err(); err != nil {
			logger.Printf("input: %v", err)
		}
	}()
	return ch
}
