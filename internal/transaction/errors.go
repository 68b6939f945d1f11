package transaction

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage names the step of the submission protocol that failed. Each stage tells the
// caller something different about what can be retried.
type Stage string

const (
	StageConstruction Stage = "construction"
	StageSigning      Stage = "signing"
	StageSubmission   Stage = "submission"
	StageExecution    Stage = "execution"
)

var (
	// ErrConstruction: the request itself is invalid.
	ErrConstruction = errors.New("transaction construction failed")
	// ErrSigning: the signer declined, timed out or is not ready.
	ErrSigning = errors.New("transaction signing failed")
	// ErrSubmission: the network rejected the signed envelope.
	ErrSubmission = errors.New("transaction submission failed")
	// ErrExecution: the transaction reached the chain but did not commit its effects.
	ErrExecution = errors.New("transaction execution failed")
	// ErrFinalityUnknown: the transaction was accepted but the wait for its outcome
	// ended first. It may still commit; check the hash before building a new one.
	ErrFinalityUnknown = errors.New("transaction outcome unknown")
)

var stageErrors = map[Stage]error{
	StageConstruction: ErrConstruction,
	StageSigning:      ErrSigning,
	StageSubmission:   ErrSubmission,
	StageExecution:    ErrExecution,
}

// Error is returned by every failed submission. Hash is set once the network has
// accepted the envelope; VMStatus only for execution failures. Pending marks an
// execution-stage error whose outcome is not known.
type Error struct {
	Stage    Stage
	Function string
	Hash     string
	VMStatus string
	Pending  bool
	Err      error
}

func (e *Error) sentinel() error {
	if e.Pending {
		return ErrFinalityUnknown
	}
	return stageErrors[e.Stage]
}

func (e *Error) Error() string {
	message := fmt.Sprintf("%s: %s", e.sentinel(), e.Function)
	if e.Hash != "" {
		message += " (" + e.Hash + ")"
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the stage sentinel, so errors.Is(err, ErrSigning) works on any *Error.
// A pending error matches ErrFinalityUnknown and not ErrExecution.
func (e *Error) Is(target error) bool {
	return e.sentinel() == target
}

// StageOf reports the failed stage of err, or "" when err did not come from a submission.
func StageOf(err error) Stage {
	var txErr *Error
	if errors.As(err, &txErr) {
		return txErr.Stage
	}
	return ""
}
