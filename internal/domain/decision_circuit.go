// Package domain builds and evaluates the phase-kickback decision circuits
// that tell constant oracles from balanced ones.
package domain

import (
	"fmt"
	"log/slog"

	m "kickback.dev/pkg/kickback/internal/model"
)

const (
	deutschShape      = "2 qubits (1 input + 1 output)"
	deutschJozsaShape = "n+1 qubits with n >= 1"
)

// DeutschCircuit wraps a 2-qubit oracle (input 0, output 1) into the
// single-input decision circuit. Any other oracle size is rejected.
func DeutschCircuit(oracle m.Circuit) (m.Circuit, error) {
	if oracle.Qubits() != 2 {
		return m.Circuit{}, &m.UnsupportedOracleShapeError{
			Algorithm: m.Deutsch,
			Expected:  deutschShape,
			Qubits:    oracle.Qubits(),
		}
	}

	return decisionCircuit(m.Deutsch, oracle)
}

// DeutschJozsaCircuit wraps an oracle over n inputs (qubits 0..n-1) and one
// output (qubit n) into the n-input decision circuit.
func DeutschJozsaCircuit(oracle m.Circuit) (m.Circuit, error) {
	if oracle.Qubits() < 2 {
		return m.Circuit{}, &m.UnsupportedOracleShapeError{
			Algorithm: m.DeutschJozsa,
			Expected:  deutschJozsaShape,
			Qubits:    oracle.Qubits(),
		}
	}

	return decisionCircuit(m.DeutschJozsa, oracle)
}

// BuildCircuit dispatches on variant, resolving Auto from the oracle size.
func BuildCircuit(variant m.Variant, oracle m.Circuit) (m.Circuit, error) {
	switch variant.Resolve(oracle.Qubits()) {
	case m.Deutsch:
		return DeutschCircuit(oracle)
	case m.DeutschJozsa:
		return DeutschJozsaCircuit(oracle)
	case m.Auto:
	}

	return m.Circuit{}, fmt.Errorf("unknown algorithm %q", variant)
}

// decisionCircuit lays out
//
//	X(n); H(0..n); barrier; oracle; barrier; H(0..n-1); measure 0..n-1 -> 0..n-1
//
// on n+1 qubits and n classical bits.
func decisionCircuit(variant m.Variant, oracle m.Circuit) (m.Circuit, error) {
	n := oracle.Qubits() - 1
	inputs := m.Range(0, n)

	circuit, err := m.NewBuilder(n+1, n, fmt.Sprintf("%s(%s)", variant, oracle.Name())).
		X(n).
		H(m.Range(0, n+1)...).
		Barrier().
		Compose(oracle).
		Barrier().
		H(inputs...).
		Measure(inputs, inputs).
		Build()
	if err != nil {
		slog.Error("Failed to build decision circuit", "algorithm", variant, "oracle", oracle.Name(), "error", err)
		return m.Circuit{}, fmt.Errorf("build %s circuit: %w", variant, err)
	}

	slog.Debug("Built decision circuit",
		"algorithm", variant,
		"oracle", oracle.Name(),
		"qubits", circuit.Qubits(),
		"operations", circuit.Len(),
	)

	return circuit, nil
}
