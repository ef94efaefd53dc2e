// Package stream provides seekable access over a sequential decompressor.
package stream

import (
	"errors"
	"fmt"
	"io"
)

// Opener builds a fresh decompressing reader positioned at the start of the
// payload. It is invoked once up front and again whenever a backward seek
// forces the stream to be rebuilt. Readers that also implement io.Closer
// are closed before being discarded.
type Opener func() (io.Reader, error)

// Payload is the decompressed RPM payload as a read/seek stream. The codec
// underneath only reads forward, so Seek emulates random access the same way
// the archive's source does: forward seeks discard bytes, backward seeks
// rebuild the decompressor and re-read from the beginning.
//
// Single-owner: one cursor, no internal locking. Concurrent readers must
// open independent archive handles.
type Payload struct {
	open Opener
	r    io.Reader
	pos  int64
}

// NewPayload opens the decompressor once and returns the stream. Codec
// construction errors (including missing-codec capability errors) surface
// here rather than on the first Read.
func NewPayload(open Opener) (*Payload, error) {
	r, err := open()
	if err != nil {
		return nil, err
	}
	return &Payload{open: open, r: r}, nil
}

func (p *Payload) Read(b []byte) (int, error) {
	if p.r == nil {
		r, err := p.open()
		if err != nil {
			return 0, err
		}
		p.r = r
	}
	n, err := p.r.Read(b)
	p.pos += int64(n)
	return n, err
}

// Seek moves the logical position within the decompressed stream.
// io.SeekEnd is unsupported: the decompressed length is unknown until the
// stream has been fully consumed.
func (p *Payload) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = p.pos + offset
	case io.SeekEnd:
		return 0, errors.New("stream: payload length unknown, cannot seek from end")
	default:
		return 0, fmt.Errorf("stream: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, errors.New("stream: seek before start of payload")
	}

	if target < p.pos {
		// Restart the decompressor from the payload start.
		if err := p.Close(); err != nil {
			return p.pos, err
		}
	}
	if target > p.pos {
		if _, err := io.CopyN(io.Discard, p, target-p.pos); err != nil {
			return p.pos, err
		}
	}
	return p.pos, nil
}

// Tell returns the current position within the decompressed stream.
func (p *Payload) Tell() int64 {
	return p.pos
}

// Close releases the current decompressor if it holds resources, surfacing
// any pending codec error. The stream stays usable: the next Read rebuilds
// the decompressor from the payload start.
func (p *Payload) Close() error {
	r := p.r
	p.r = nil
	p.pos = 0
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
