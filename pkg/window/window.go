// Package window provides bounded read-only views over a shared stream.
package window

import (
	"errors"
	"fmt"
	"io"
)

// Section restricts an io.ReadSeeker to the byte range [start, start+size)
// of the underlying stream, exposing it with start as position 0. A negative
// size leaves the window unbounded (it extends to the end of the stream).
//
// The underlying cursor is shared with whoever else reads the stream, so
// every Read re-positions it first. Sections borrow the stream and never
// close it.
type Section struct {
	rs    io.ReadSeeker
	start int64
	size  int64
	pos   int64
}

// NewSection returns a view over rs covering [start, start+size).
// Pass size < 0 for an unbounded view.
func NewSection(rs io.ReadSeeker, start, size int64) *Section {
	return &Section{rs: rs, start: start, size: size}
}

func (s *Section) Read(p []byte) (int, error) {
	if s.size >= 0 {
		remain := s.size - s.pos
		if remain <= 0 {
			return 0, io.EOF
		}
		if int64(len(p)) > remain {
			p = p[:remain]
		}
	}
	if _, err := s.rs.Seek(s.start+s.pos, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := s.rs.Read(p)
	s.pos += int64(n)
	return n, err
}

// Seek moves the view's logical position. Positions beyond a bounded
// window's end are clamped to the end.
func (s *Section) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		if s.size < 0 {
			return 0, errors.New("window: seek from end of unbounded section")
		}
		target = s.size + offset
	default:
		return 0, fmt.Errorf("window: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, errors.New("window: seek before start of section")
	}
	if s.size >= 0 && target > s.size {
		target = s.size
	}
	s.pos = target
	return target, nil
}

// Tell returns the current logical position within the section.
func (s *Section) Tell() int64 {
	return s.pos
}

// Size returns the section length, or a negative value if unbounded.
func (s *Section) Size() int64 {
	return s.size
}
