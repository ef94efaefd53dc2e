package rpmfile

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMode is returned when an archive is opened with anything
// other than read-only access.
var ErrUnsupportedMode = errors.New("rpmfile: only read-only access is supported")

// MemberNotFoundError reports a name lookup miss. The archive handle stays
// usable after it.
type MemberNotFoundError struct {
	Name string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("rpmfile: member %q could not be found", e.Name)
}

// CapabilityError reports a payload codec with no registered decompressor in
// this build.
type CapabilityError struct {
	Codec string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("rpmfile: no %s decompression support available", e.Codec)
}
