package store

import (
	"errors"
	"fmt"
)

// MalformedKind tells which structural check a stored value failed.
type MalformedKind int

const (
	// MalformedJSON means the stored value could not be parsed as JSON at all.
	MalformedJSON MalformedKind = iota
	// MalformedNotArray means the stored value parsed but is not a JSON array.
	MalformedNotArray
	// MalformedInvalidElement means an array element failed the task shape check.
	MalformedInvalidElement
)

func (k MalformedKind) String() string {
	switch k {
	case MalformedJSON:
		return "invalid json"
	case MalformedNotArray:
		return "not an array"
	case MalformedInvalidElement:
		return "invalid task element"
	default:
		return "unknown"
	}
}

// MalformedStoreError is returned when the persisted collection is structurally invalid.
// It is never recovered inside the store: data is not silently dropped.
type MalformedStoreError struct {
	Key   string
	Kind  MalformedKind
	Index int    // element index, only for MalformedInvalidElement
	Path  string // JSON path inside the element, only for MalformedInvalidElement
	Err   error
}

func (e *MalformedStoreError) Error() string {
	switch e.Kind {
	case MalformedNotArray:
		return fmt.Sprintf("malformed store %q: stored task data must be an array", e.Key)
	case MalformedInvalidElement:
		loc := fmt.Sprintf("[%d]", e.Index)
		if e.Path != "" {
			loc += "." + e.Path
		}
		return fmt.Sprintf("malformed store %q: invalid task at %s: %v", e.Key, loc, e.Err)
	default:
		return fmt.Sprintf("malformed store %q: %v", e.Key, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *MalformedStoreError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is, or wraps, a *MalformedStoreError.
func IsMalformed(err error) bool {
	var malformed *MalformedStoreError
	return errors.As(err, &malformed)
}

var (
	// ErrChecksumMismatch is returned by the file backend when a value does not match its checksum sidecar.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrClosed is returned when a closed backend is used.
	ErrClosed = errors.New("backend closed")
)
