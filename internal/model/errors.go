package model

import (
	"errors"
	"fmt"
)

// FailureKind tags a failed fetch.
type FailureKind int

const (
	// Other is any failure that is not throttling. It is reported, not retried.
	Other FailureKind = iota
	// RateLimited means the API asked the caller to slow down. It is retried.
	RateLimited
)

func (k FailureKind) String() string {
	switch k {
	case RateLimited:
		return "rate limited"
	default:
		return "other"
	}
}

// FetchError is returned by remote API adapters for every failed page fetch.
type FetchError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is, or wraps, a rate-limited FetchError.
func IsRateLimited(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == RateLimited
}

// DataIntegrityError reports a group or stream returned without a name.
type DataIntegrityError struct {
	// Resource is "log group" or "log stream".
	Resource string
	// Index is the position of the offending record in the fetched list.
	Index int
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s at index %d has no name", e.Resource, e.Index)
}
