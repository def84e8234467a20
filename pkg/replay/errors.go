package replay

import "fmt"

// StreamError wraps a read layer failure during replay. It terminates
// the one subscription it occurred on, nothing else.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("replay stream: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
