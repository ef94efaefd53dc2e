// Package header locates the RPM lead, signature and header sections that
// precede the compressed payload, and decodes the header tags the reader
// cares about.
package header

import (
	"fmt"
	"io"

	"github.com/cavaliergopher/rpm"
)

// leadSize is the fixed length of the RPM lead.
const leadSize = 96

// CompressionTag is the tag map key naming the payload codec. Values seen in
// the wild: "gzip", "bzip2", "xz", "lzma", "zstd"; absent or unknown values
// imply gzip.
const CompressionTag = "archive_compression"

// Range bounds the variable lead/signature/header region in absolute file
// offsets. End is also the offset where the compressed payload begins.
type Range struct {
	Start int64
	End   int64
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Scan parses the RPM sections from r, which must be positioned at offset 0.
// It consumes exactly the lead + signature + header bytes, so after Scan the
// next byte of r is the first byte of the compressed payload.
func Scan(r io.Reader) (Range, map[string]string, error) {
	cr := &countingReader{r: r}
	pkg, err := rpm.Read(cr)
	if err != nil {
		return Range{}, nil, fmt.Errorf("header: scanning rpm sections: %w", err)
	}
	tags := map[string]string{
		"name":           pkg.Name(),
		"version":        pkg.Version(),
		"release":        pkg.Release(),
		"arch":           pkg.Architecture(),
		"summary":        pkg.Summary(),
		"archive_format": pkg.PayloadFormat(),
		CompressionTag:   pkg.PayloadCompression(),
	}
	return Range{Start: leadSize, End: cr.n}, tags, nil
}
