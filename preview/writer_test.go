// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"net/textproto"
	"regexp"
	"strings"
	"testing"
)

var boundaryRe = regexp.MustCompile(`^[a-f0-9]{60,70}$`)

func TestRandomBoundary(t *testing.T) {
	for range 100 {
		if got := randomBoundary(); !boundaryRe.MatchString(got) {
			t.Errorf("Boundary must match the expression %q: %s", boundaryRe.String(), got)
		}
	}
}

func TestWriteFrame(t *testing.T) {
	var out bytes.Buffer
	pw := partWriter{u: &out, boundary: "b"}
	h := textproto.MIMEHeader{}
	for _, body := range []string{"one", "two!"} {
		if err := pw.writeFrame(h, []byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	want := strings.Join([]string{
		"--b",
		"Content-Length: 3",
		"",
		"one",
		"--b",
		"Content-Length: 4",
		"",
		"two!",
		"--b",
		"",
	}, "\r\n")
	if got := out.String(); got != want {
		t.Errorf("writeFrame() wrote %q, want %q", got, want)
	}
}
