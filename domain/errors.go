package domain

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when a turn is submitted without an API
// key. The turn is rejected before any session or log mutation.
var ErrMissingCredential = errors.New("missing API credential")

// PersistenceError wraps a transcript log write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("transcript log %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FailureKind classifies a contained completion failure.
type FailureKind string

const (
	FailureAuth      FailureKind = "auth"
	FailureNetwork   FailureKind = "network"
	FailureTimeout   FailureKind = "timeout"
	FailureMalformed FailureKind = "malformed"
	FailureQuota     FailureKind = "quota"
	FailureBackend   FailureKind = "backend"
	FailureBlocked   FailureKind = "blocked"
)

// Failure describes a backend or policy failure that was contained at the
// completion boundary instead of propagated as a hard error.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}
