// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"log"
	"mime"
	"net/http"
	"net/textproto"
	"net/url"
	"sync"
	"time"
)

// bufferPool stores reusable []byte instances.
var bufferPool = sync.Pool{
	New: func() any {
		return []byte(nil)
	},
}

// pngBuffers is shared by every PNG encoder.
type pngBuffers sync.Pool

func (p *pngBuffers) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBuffers) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

var pngEncoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &pngBuffers{},
}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (p *Panel) formatFromQuery(values url.Values) (Format, error) {
	if value := values.Get("format"); value != "" {
		return ParseFormat(value)
	}
	return p.opts.Format, nil
}

func (p *Panel) bufferChangedLocked() {
	p.changes++
	for f, buffer := range p.snapshot {
		if buffer != nil {
			//lint:ignore SA6002 buffer is []byte and thus pointer-like
			bufferPool.Put(buffer)
		}
		delete(p.snapshot, f)
	}
	for c := range p.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (p *Panel) terminateClientsLocked() {
	for c := range p.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
}

func (p *Panel) encodeLocked(f Format) ([]byte, error) {
	buf := bytes.NewBuffer(bufferPool.Get().([]byte)[:0])
	switch f {
	case PNG:
		if err := pngEncoder.Encode(buf, p.buffer); err != nil {
			return nil, err
		}
	case JPEG:
		q := p.opts.JPEGQuality
		if q == 0 {
			q = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(buf, p.buffer, &jpeg.Options{Quality: q}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("preview: unhandled image format %s", f)
	}
	return buf.Bytes(), nil
}

// grabSnapshot returns the encoded panel content. The caller owns the
// returned slice.
func (p *Panel) grabSnapshot(f Format) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	encoded, ok := p.snapshot[f]
	if !ok {
		var err error
		if encoded, err = p.encodeLocked(f); err != nil {
			return nil, err
		}
		p.snapshot[f] = encoded
	}
	return append(bufferPool.Get().([]byte)[:0], encoded...), nil
}

// ServeHTTP handles HTTP GET requests and sends a stream of images of the
// panel in response. Clients can explicitly request PNG or JPEG images using
// the "format" parameter ("?format=png", "?format=jpeg").
func (p *Panel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("preview: closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	f, err := p.formatFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pw := makePartWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	p.mu.Lock()
	p.clients[c] = struct{}{}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.clients, c)
		p.mu.Unlock()
	}()

	var keepalive <-chan time.Time
	if p.opts.Keepalive > 0 {
		t := time.NewTicker(p.opts.Keepalive)
		defer t.Stop()
		keepalive = t.C
	}

	partHeaders := make(textproto.MIMEHeader)
	partHeaders.Set("Content-Type", mime.FormatMediaType(f.mimeType(), nil))
	partHeaders.Set("Content-Transfer-Encoding", "binary")

	for {
		payload, err := p.grabSnapshot(f)
		if err != nil {
			log.Printf("preview: encoding %s frame failed: %v", f, err)
			return
		}
		err = pw.writeFrame(partHeaders, payload)
		//lint:ignore SA6002 payload is []byte and thus pointer-like
		bufferPool.Put(payload)
		if err != nil {
			// There's no way to report an error inside an image stream; the
			// request just ends.
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		select {
		case <-c.refresh:
		case <-keepalive:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
