package domain

import (
	"fmt"
	"net/http"
)

// ReadError is returned when the bytes of a local file cannot be read.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a remote source can't be downloaded. Status is zero when no
// response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Reason() string {
	if e.Status != 0 {
		return fmt.Sprintf("status %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching %s: %s", e.URL, e.Reason())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Stage string

const (
	StageResize  Stage = "resize"
	StagePersist Stage = "persist"
)

// RemoteCallError wraps a failure of the Resize Engine or the Store.
type RemoteCallError struct {
	Stage Stage
	Err   error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// ValidationError rejects a submission before anything leaves the process.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
