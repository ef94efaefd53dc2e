// Package cpio parses the "new ASCII" (newc) cpio records that make up an
// RPM payload. Only the newc variant (magic 070701) is supported; the old
// binary and portable ASCII variants never appear in RPM payloads.
package cpio

import (
	"fmt"
	"io"
	"strconv"
)

const (
	// Magic is the newc record magic.
	Magic = "070701"

	// Trailer is the member name that terminates an archive.
	Trailer = "TRAILER!!!"

	// headerSize is the fixed header length after the 6-byte magic:
	// 13 fields of 8 ASCII-hex characters each.
	headerSize = 104

	fieldWidth = 8
	fieldCount = 13
)

// Field indexes into Record.Header, in wire order.
const (
	FieldInode = iota
	FieldMode
	FieldUID
	FieldGID
	FieldNlink
	FieldMtime
	FieldFilesize
	FieldDevmajor
	FieldDevminor
	FieldRdevmajor
	FieldRdevminor
	FieldNamesize
	FieldChecksum
)

// File type bits from the mode field.
const (
	typeMask    = 0170000
	typeDir     = 0040000
	typeRegular = 0100000
	typeSymlink = 0120000
)

// FormatError reports a record whose magic is not the supported newc magic.
type FormatError struct {
	Magic  []byte
	Offset int64
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cpio: bad magic %q at offset %d", e.Magic, e.Offset)
}

// Pad returns the number of filler bytes needed to advance pos to the next
// 4-byte boundary.
func Pad(pos int64) int64 {
	return (4 - pos%4) % 4
}

// Record describes one member of a cpio stream. FileStart and InitialOffset
// are absolute offsets within the decompressed payload; Header holds the 13
// raw hex fields verbatim.
type Record struct {
	Name          string
	FileStart     int64
	Size          int64
	InitialOffset int64
	Header        [fieldCount]string
}

func (r *Record) String() string {
	return fmt.Sprintf("<RPMMember %q>", r.Name)
}

func (r *Record) hexField(i int) int64 {
	v, err := strconv.ParseInt(r.Header[i], 16, 64)
	if err != nil {
		return 0
	}
	return v
}

// Mode returns the raw mode field, including the file type bits.
func (r *Record) Mode() int64 {
	return r.hexField(FieldMode)
}

// Inode returns the inode field.
func (r *Record) Inode() int64 {
	return r.hexField(FieldInode)
}

// Nlink returns the link-count field.
func (r *Record) Nlink() int64 {
	return r.hexField(FieldNlink)
}

// Mtime returns the modification time field as a unix timestamp.
func (r *Record) Mtime() int64 {
	return r.hexField(FieldMtime)
}

func (r *Record) IsDir() bool {
	return r.Mode()&typeMask == typeDir
}

func (r *Record) IsRegular() bool {
	return r.Mode()&typeMask == typeRegular
}

func (r *Record) IsSymlink() bool {
	return r.Mode()&typeMask == typeSymlink
}

func tell(rs io.ReadSeeker) (int64, error) {
	return rs.Seek(0, io.SeekCurrent)
}

// ReadRecord decodes one record from rs, which must be positioned
// immediately after the 6-byte magic already consumed by the caller and
// passed in as magic. In skip-content mode the stream is advanced past the
// content and its trailing alignment padding, ready for the next magic
// probe; otherwise the stream is left at the record's FileStart.
func ReadRecord(rs io.ReadSeeker, magic []byte, skipContent bool) (*Record, error) {
	pos, err := tell(rs)
	if err != nil {
		return nil, err
	}
	initialOffset := pos - int64(len(magic))

	if string(magic) != Magic {
		return nil, &FormatError{Magic: magic, Offset: initialOffset}
	}

	var hdr [headerSize]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		return nil, fmt.Errorf("cpio: reading record header at offset %d: %w", initialOffset, err)
	}

	rec := &Record{InitialOffset: initialOffset}
	for i := 0; i < fieldCount; i++ {
		rec.Header[i] = string(hdr[i*fieldWidth : (i+1)*fieldWidth])
	}

	namesize, err := strconv.ParseInt(rec.Header[FieldNamesize], 16, 64)
	if err != nil || namesize < 1 {
		return nil, fmt.Errorf("cpio: invalid namesize %q at offset %d", rec.Header[FieldNamesize], initialOffset)
	}
	name := make([]byte, namesize)
	if _, err := io.ReadFull(rs, name); err != nil {
		return nil, fmt.Errorf("cpio: reading member name at offset %d: %w", initialOffset, err)
	}
	// Drop the trailing NUL terminator.
	rec.Name = string(name[:namesize-1])

	if err := skipPad(rs); err != nil {
		return nil, err
	}
	if rec.FileStart, err = tell(rs); err != nil {
		return nil, err
	}
	if rec.Size, err = strconv.ParseInt(rec.Header[FieldFilesize], 16, 64); err != nil {
		return nil, fmt.Errorf("cpio: invalid filesize %q at offset %d", rec.Header[FieldFilesize], initialOffset)
	}

	if skipContent {
		if _, err := rs.Seek(rec.Size, io.SeekCurrent); err != nil {
			return nil, err
		}
		if err := skipPad(rs); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func skipPad(rs io.ReadSeeker) error {
	pos, err := tell(rs)
	if err != nil {
		return err
	}
	if pad := Pad(pos); pad != 0 {
		if _, err := rs.Seek(pad, io.SeekCurrent); err != nil {
			return err
		}
	}
	return nil
}
