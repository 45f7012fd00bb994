package domain

import (
	"fmt"

	m "kickback.dev/pkg/kickback/internal/model"
)

// Classify reads one measured bit-string of a decision circuit. The oracle
// is constant exactly when every input qubit came back 0. Spaces separating
// registers are ignored; width is the number of measured inputs.
func Classify(memory string, width int) (bool, error) {
	if memory == "" {
		return false, m.ErrNoMeasurement
	}

	digits := 0
	constant := true

	for _, r := range memory {
		switch r {
		case '0':
			digits++
		case '1':
			digits++
			constant = false
		case ' ':
		default:
			return false, &m.MalformedResultError{Memory: memory, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}

	if digits != width {
		return false, &m.MalformedResultError{Memory: memory, Reason: fmt.Sprintf("want %d bits, got %d", width, digits)}
	}

	return constant, nil
}
