package header

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/google/rpmpack"
)

func buildRPM(t *testing.T) []byte {
	t.Helper()
	r, err := rpmpack.NewRPM(rpmpack.RPMMetaData{
		Name:    "demo",
		Version: "1.0",
		Release: "1",
		Arch:    "noarch",
		Summary: "demo package",
	})
	if err != nil {
		t.Fatalf("rpmpack.NewRPM: %v", err)
	}
	r.AddFile(rpmpack.RPMFile{
		Name: "/usr/bin/hello",
		Body: []byte("hello\n"),
		Mode: 0100755,
	})
	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatalf("rpmpack write: %v", err)
	}
	return buf.Bytes()
}

func TestScan(t *testing.T) {
	raw := buildRPM(t)
	rng, tags, err := Scan(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if rng.Start != 96 {
		t.Errorf("Range.Start = %d, want 96 (end of lead)", rng.Start)
	}
	if rng.End <= rng.Start || rng.End >= int64(len(raw)) {
		t.Errorf("Range.End = %d, want within (%d, %d)", rng.End, rng.Start, len(raw))
	}

	want := map[string]string{
		"name":           "demo",
		"version":        "1.0",
		"release":        "1",
		"arch":           "noarch",
		"archive_format": "cpio",
		CompressionTag:   "gzip",
	}
	for k, v := range want {
		if tags[k] != v {
			t.Errorf("tags[%q] = %q, want %q", k, tags[k], v)
		}
	}

	// Scan consumed exactly the header region: the payload follows.
	zr, err := gzip.NewReader(bytes.NewReader(raw[rng.End:]))
	if err != nil {
		t.Fatalf("payload after Range.End is not gzip: %v", err)
	}
	if _, err := io.Copy(io.Discard, zr); err != nil {
		t.Fatalf("decompressing payload: %v", err)
	}
}
