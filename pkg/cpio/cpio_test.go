package cpio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
)

// appendRecord writes one newc record (header, name, content, padding) to b,
// which must currently end on a 4-byte boundary.
func appendRecord(b *bytes.Buffer, name string, mode int64, content []byte) {
	b.WriteString(Magic)
	fields := [fieldCount]int64{
		FieldInode:    1,
		FieldMode:     mode,
		FieldNlink:    1,
		FieldMtime:    1700000000,
		FieldFilesize: int64(len(content)),
		FieldNamesize: int64(len(name) + 1),
	}
	for _, v := range fields {
		fmt.Fprintf(b, "%08x", v)
	}
	b.WriteString(name)
	b.WriteByte(0)
	for Pad(int64(b.Len())) != 0 {
		b.WriteByte(0)
	}
	b.Write(content)
	for Pad(int64(b.Len())) != 0 {
		b.WriteByte(0)
	}
}

func buildArchive(t *testing.T, write func(*bytes.Buffer)) *bytes.Reader {
	t.Helper()
	var b bytes.Buffer
	write(&b)
	appendRecord(&b, Trailer, 0, nil)
	return bytes.NewReader(b.Bytes())
}

// scanAll drives ReadRecord the way an archive scanner does, returning every
// record up to and including the trailer.
func scanAll(t *testing.T, rs io.ReadSeeker) []*Record {
	t.Helper()
	var records []*Record
	magic := make([]byte, 6)
	for {
		if _, err := io.ReadFull(rs, magic); err != nil {
			t.Fatalf("reading magic: %v", err)
		}
		rec, err := ReadRecord(rs, magic, true)
		if err != nil {
			t.Fatalf("ReadRecord: %v", err)
		}
		records = append(records, rec)
		if rec.Name == Trailer {
			return records
		}
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		pos  int64
		want int64
	}{
		{0, 0},
		{1, 3},
		{2, 2},
		{3, 1},
		{4, 0},
		{110, 2},
		{111, 1},
		{112, 0},
	}
	for _, tt := range tests {
		if got := Pad(tt.pos); got != tt.want {
			t.Errorf("Pad(%d) = %d, want %d", tt.pos, got, tt.want)
		}
		if (tt.pos+Pad(tt.pos))%4 != 0 {
			t.Errorf("pos %d + pad not aligned", tt.pos)
		}
	}
}

func TestReadRecord(t *testing.T) {
	contentA := []byte("hello, rpm payload\n")
	contentB := []byte("b")
	rs := buildArchive(t, func(b *bytes.Buffer) {
		appendRecord(b, "./usr/bin/hello", 0100755, contentA)
		appendRecord(b, "./etc", 0040755, nil)
		appendRecord(b, "./etc/hello.conf", 0100644, contentB)
	})

	records := scanAll(t, rs)
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (incl. trailer)", len(records))
	}

	first := records[0]
	if first.Name != "./usr/bin/hello" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.InitialOffset != 0 {
		t.Errorf("InitialOffset = %d, want 0", first.InitialOffset)
	}
	if first.Size != int64(len(contentA)) {
		t.Errorf("Size = %d, want %d", first.Size, len(contentA))
	}
	if !first.IsRegular() || first.IsDir() || first.IsSymlink() {
		t.Errorf("mode predicates wrong for %o", first.Mode())
	}
	if first.Nlink() != 1 || first.Inode() != 1 {
		t.Errorf("Nlink = %d, Inode = %d", first.Nlink(), first.Inode())
	}

	if dir := records[1]; !dir.IsDir() {
		t.Errorf("expected directory record, mode %o", dir.Mode())
	}

	// Each record header starts right after the previous record's padded
	// content.
	for i := 0; i < len(records)-1; i++ {
		r := records[i]
		end := r.FileStart + r.Size
		end += Pad(end)
		if next := records[i+1].InitialOffset; end != next {
			t.Errorf("record %d: content end %d != next InitialOffset %d", i, end, next)
		}
	}

	// FileStart points at the actual content bytes.
	if _, err := rs.Seek(first.FileStart, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, first.Size)
	if _, err := io.ReadFull(rs, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, contentA) {
		t.Errorf("content = %q, want %q", got, contentA)
	}
}

func TestReadRecordKeepContent(t *testing.T) {
	content := []byte("keep me")
	rs := buildArchive(t, func(b *bytes.Buffer) {
		appendRecord(b, "./data", 0100644, content)
	})

	magic := make([]byte, 6)
	if _, err := io.ReadFull(rs, magic); err != nil {
		t.Fatal(err)
	}
	rec, err := ReadRecord(rs, magic, false)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	pos, _ := rs.Seek(0, io.SeekCurrent)
	if pos != rec.FileStart {
		t.Errorf("stream at %d, want FileStart %d", pos, rec.FileStart)
	}
	got := make([]byte, rec.Size)
	if _, err := io.ReadFull(rs, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q, want %q", got, content)
	}
}

func TestReadRecordBadMagic(t *testing.T) {
	for _, magic := range []string{"070707", "070702", "abcdef"} {
		rs := bytes.NewReader(append([]byte(magic), make([]byte, headerSize)...))
		if _, err := io.CopyN(io.Discard, rs, 6); err != nil {
			t.Fatal(err)
		}
		_, err := ReadRecord(rs, []byte(magic), true)
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("magic %q: got %v, want *FormatError", magic, err)
		}
		if ferr.Offset != 0 {
			t.Errorf("magic %q: Offset = %d, want 0", magic, ferr.Offset)
		}
	}
}

func TestSymlinkPredicate(t *testing.T) {
	rs := buildArchive(t, func(b *bytes.Buffer) {
		appendRecord(b, "./usr/bin/h", 0120777, []byte("hello"))
	})
	records := scanAll(t, rs)
	if !records[0].IsSymlink() {
		t.Errorf("expected symlink, mode %o", records[0].Mode())
	}
}
