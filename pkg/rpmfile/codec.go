package rpmfile

import (
	"compress/bzip2"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// codecFactory wraps the compressed payload window in a decompressing reader.
type codecFactory func(io.Reader) (io.Reader, error)

// codecs is the codec capability set, resolved at startup. A payload whose
// declared compressor is missing from this set fails with *CapabilityError
// on first DataFile access.
var codecs = map[string]codecFactory{
	"gzip": func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	},
	"bzip2": func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r), nil
	},
	"xz": func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	},
	"lzma": func(r io.Reader) (io.Reader, error) {
		return lzma.NewReader(r)
	},
	"zstd": func(r io.Reader) (io.Reader, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		// IOReadCloser lets the stream release the decoder's worker
		// goroutines through a plain io.Closer.
		return zr.IOReadCloser(), nil
	},
}

// newCodecReader selects the decompressor for the declared compression tag.
// Unknown or absent tags mean gzip, the historical rpm default.
func newCodecReader(tag string, r io.Reader) (io.Reader, error) {
	switch tag {
	case "xz", "lzma", "bzip2", "zstd":
	default:
		tag = "gzip"
	}
	factory, ok := codecs[tag]
	if !ok {
		return nil, &CapabilityError{Codec: tag}
	}
	return factory(r)
}
