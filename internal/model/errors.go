package model

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is; the typed errors below unwrap to them.
var (
	ErrInvalidSize            = errors.New("invalid register size")
	ErrIndex                  = errors.New("index out of range")
	ErrLengthMismatch         = errors.New("length mismatch")
	ErrUnsupportedOracleShape = errors.New("unsupported oracle shape")
	ErrInvalidGate            = errors.New("invalid gate")
	ErrMalformedResult        = errors.New("malformed execution result")
	ErrNoMeasurement          = errors.New("execution result has no measurement")
)

// InvalidSizeError reports a negative register size, or a register larger
// than Limit (composition target, backend capacity).
type InvalidSizeError struct {
	Register string
	Size     int
	Limit    int
}

func (e *InvalidSizeError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("%s register size must not be negative, got %d", e.Register, e.Size)
	}

	return fmt.Sprintf("%s register of size %d exceeds limit %d", e.Register, e.Size, e.Limit)
}

func (e *InvalidSizeError) Unwrap() error { return ErrInvalidSize }

// IndexError reports a gate or measurement target outside its register.
type IndexError struct {
	Register string
	Index    int
	Size     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range for register of size %d", e.Register, e.Index, e.Size)
}

func (e *IndexError) Unwrap() error { return ErrIndex }

// LengthMismatchError reports measurement index lists of different lengths.
type LengthMismatchError struct {
	Qubits int
	Clbits int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("cannot pair %d qubits with %d classical bits", e.Qubits, e.Clbits)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// UnsupportedOracleShapeError reports an oracle whose qubit count does not fit
// the requested algorithm.
type UnsupportedOracleShapeError struct {
	Algorithm Variant
	Expected  string
	Qubits    int
}

func (e *UnsupportedOracleShapeError) Error() string {
	return fmt.Sprintf("%s expects an oracle of %s, got %d qubits", e.Algorithm, e.Expected, e.Qubits)
}

func (e *UnsupportedOracleShapeError) Unwrap() error { return ErrUnsupportedOracleShape }

// ArityError reports a gate applied to the wrong number of qubits.
type ArityError struct {
	Gate Gate
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("gate %s acts on %d qubit(s), got %d", e.Gate, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrInvalidGate }

// DuplicateQubitError reports a multi-qubit gate that repeats an operand.
type DuplicateQubitError struct {
	Gate  Gate
	Qubit int
}

func (e *DuplicateQubitError) Error() string {
	return fmt.Sprintf("gate %s uses qubit %d more than once", e.Gate, e.Qubit)
}

func (e *DuplicateQubitError) Unwrap() error { return ErrInvalidGate }

// UnknownGateError reports a gate name outside the supported set.
type UnknownGateError struct {
	Name string
}

func (e *UnknownGateError) Error() string {
	return fmt.Sprintf("unknown gate %q", e.Name)
}

func (e *UnknownGateError) Unwrap() error { return ErrInvalidGate }

// MalformedResultError reports a measurement string the classifier cannot read.
type MalformedResultError struct {
	Memory string
	Reason string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("malformed measurement %q: %s", e.Memory, e.Reason)
}

func (e *MalformedResultError) Unwrap() error { return ErrMalformedResult }
