package recorder

import (
	"errors"
	"fmt"
)

// State errors are rejected synchronously before any work begins and are
// always recoverable by retrying in the correct state.
var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
)

// IOError is a file-level failure that names the failing file.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
