package archive

import (
	"errors"
	"fmt"
)

// Reasons an entry name is rejected before anything is written.
var (
	ErrAbsoluteEntryName = errors.New("refers to an absolute path")
	ErrParentEntryName   = errors.New("contains parent directory components")
)

// UnsafeEntryNameError reports an archive entry whose name would place
// content outside the extraction root. The whole extraction is aborted on
// the first occurrence.
type UnsafeEntryNameError struct {
	Name   string
	Reason error
}

func (e *UnsafeEntryNameError) Error() string {
	return fmt.Sprintf("illegal entry name %q: %v", e.Name, e.Reason)
}

func (e *UnsafeEntryNameError) Unwrap() error {
	return e.Reason
}
