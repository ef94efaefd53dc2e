// Package rpmfile reads RPM package archives: it locates the compressed
// payload behind the lead/signature/header sections, decompresses it lazily,
// indexes the cpio members inside, and extracts individual members as
// bounded streams without unpacking the payload to disk.
package rpmfile

import (
	"io"
	"os"

	"github.com/ganboing/rpmfile/pkg/cpio"
	"github.com/ganboing/rpmfile/pkg/header"
	"github.com/ganboing/rpmfile/pkg/logger"
	"github.com/ganboing/rpmfile/pkg/stream"
	"github.com/ganboing/rpmfile/pkg/window"
)

// File is a read-only handle on an RPM archive.
//
// Header parsing, payload decompression and the member index are all lazy
// and cached for the handle's lifetime; the underlying file is assumed
// immutable. One cursor is shared by the handle and every view it hands out,
// so a single handle must not be used from multiple goroutines.
type File struct {
	rs     io.ReadSeeker
	ownsFd bool

	hdrDone  bool
	hdrRange header.Range
	hdrTags  map[string]string

	dataFile *stream.Payload

	indexed bool
	members []*cpio.Record
}

// Open opens the RPM archive at name read-only.
func Open(name string) (*File, error) {
	return OpenFile(name, os.O_RDONLY)
}

// OpenFile opens the RPM archive at name. Any flag other than os.O_RDONLY
// fails with ErrUnsupportedMode before the file is touched.
func OpenFile(name string, flag int) (*File, error) {
	if flag != os.O_RDONLY {
		return nil, ErrUnsupportedMode
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &File{rs: f, ownsFd: true}, nil
}

// New wraps an externally supplied stream positioned anywhere. The stream is
// borrowed: Close never closes it.
func New(rs io.ReadSeeker) *File {
	return &File{rs: rs}
}

// Close releases the payload decompressor and, if this handle opened the
// underlying file itself, the file. A borrowed stream is left open.
func (f *File) Close() error {
	var err error
	if f.dataFile != nil {
		err = f.dataFile.Close()
		f.dataFile = nil
	}
	if f.ownsFd {
		if c, ok := f.rs.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
	}
	return err
}

func (f *File) scanHeaders() error {
	if f.hdrDone {
		return nil
	}
	if _, err := f.rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	rng, tags, err := header.Scan(f.rs)
	if err != nil {
		return err
	}
	f.hdrRange, f.hdrTags, f.hdrDone = rng, tags, true
	return nil
}

// Headers returns the decoded RPM header tags.
func (f *File) Headers() (map[string]string, error) {
	if err := f.scanHeaders(); err != nil {
		return nil, err
	}
	return f.hdrTags, nil
}

// HeaderRange returns the byte range of the lead/signature/header region.
func (f *File) HeaderRange() (header.Range, error) {
	if err := f.scanHeaders(); err != nil {
		return header.Range{}, err
	}
	return f.hdrRange, nil
}

// DataOffset returns the absolute offset where the compressed payload begins.
func (f *File) DataOffset() (int64, error) {
	if err := f.scanHeaders(); err != nil {
		return 0, err
	}
	return f.hdrRange.End, nil
}

// DataFile returns the decompressed cpio payload stream. The codec is
// selected once per handle from the archive_compression header tag and the
// resulting stream is cached; a codec missing from this build surfaces here
// as *CapabilityError.
func (f *File) DataFile() (*stream.Payload, error) {
	if f.dataFile != nil {
		return f.dataFile, nil
	}
	if err := f.scanHeaders(); err != nil {
		return nil, err
	}
	tag := f.hdrTags[header.CompressionTag]
	start := f.hdrRange.End
	open := func() (io.Reader, error) {
		return newCodecReader(tag, window.NewSection(f.rs, start, -1))
	}
	p, err := stream.NewPayload(open)
	if err != nil {
		return nil, err
	}
	f.dataFile = p
	return p, nil
}

// Members returns the non-directory members of the archive in the order they
// appear in the payload. The index is built on first call by a single
// forward scan and cached; a malformed record aborts the scan and leaves no
// partial index behind.
func (f *File) Members() ([]*cpio.Record, error) {
	if f.indexed {
		return f.members, nil
	}
	g, err := f.DataFile()
	if err != nil {
		return nil, err
	}
	if _, err := g.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var members []*cpio.Record
	magic := make([]byte, 6)
	for {
		if _, err := io.ReadFull(g, magic[:2]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		if string(magic[:2]) != cpio.Magic[:2] {
			continue
		}
		if _, err := io.ReadFull(g, magic[2:]); err != nil {
			return nil, err
		}
		rec, err := cpio.ReadRecord(g, magic, true)
		if err != nil {
			return nil, err
		}
		if rec.Name == cpio.Trailer {
			break
		}
		if rec.IsDir() {
			logger.Debug("Skipping directory member", "name", rec.Name)
			continue
		}
		members = append(members, rec)
	}

	f.members, f.indexed = members, true
	return members, nil
}

// Member resolves a name to its record. If the archive stores the same name
// more than once, the last occurrence is the most up-to-date version and
// wins.
func (f *File) Member(name string) (*cpio.Record, error) {
	members, err := f.Members()
	if err != nil {
		return nil, err
	}
	for i := len(members) - 1; i >= 0; i-- {
		if members[i].Name == name {
			return members[i], nil
		}
	}
	return nil, &MemberNotFoundError{Name: name}
}

// Open returns a bounded read-only view over the member's content within the
// decompressed payload. The view borrows the payload cursor; interleaving
// reads from multiple views is safe but forces re-positioning.
func (f *File) Open(m *cpio.Record) (*window.Section, error) {
	g, err := f.DataFile()
	if err != nil {
		return nil, err
	}
	return window.NewSection(g, m.FileStart, m.Size), nil
}

// OpenName resolves name via Member and opens the result.
func (f *File) OpenName(name string) (*window.Section, error) {
	m, err := f.Member(name)
	if err != nil {
		return nil, err
	}
	return f.Open(m)
}
