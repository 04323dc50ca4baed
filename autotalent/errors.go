package autotalent

import "errors"

var (
	// ErrInvalidConfiguration reports an out-of-range parameter. The
	// previous configuration stays active.
	ErrInvalidConfiguration = errors.New("autotalent: invalid configuration")

	// ErrInvalidState reports a call that is not allowed in the current
	// lifecycle state, such as processing before Configure or any call
	// after Destroy.
	ErrInvalidState = errors.New("autotalent: invalid state")

	// ErrBlockSizeMismatch reports a block whose length differs from the
	// block size of the session.
	ErrBlockSizeMismatch = errors.New("autotalent: block size mismatch")

	// ErrInvalidSampleRate reports a sample rate the engine cannot run at.
	ErrInvalidSampleRate = errors.New("autotalent: invalid sample rate")
)
