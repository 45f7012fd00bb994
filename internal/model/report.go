package model

import (
	"fmt"
	"strings"
)

// Variant selects which decision circuit is built for an oracle.
type Variant string

const (
	// Deutsch is the strict single-input algorithm (2-qubit oracles only).
	Deutsch Variant = "deutsch"
	// DeutschJozsa is the n-input generalization.
	DeutschJozsa Variant = "deutsch-jozsa"
	// Auto picks Deutsch for 2-qubit oracles and DeutschJozsa otherwise.
	Auto Variant = "auto"
)

// ParseVariant accepts the variant names plus a few spellings used on the command line.
func ParseVariant(value string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return Auto, nil
	case "deutsch", "d":
		return Deutsch, nil
	case "deutsch-jozsa", "deutsch_jozsa", "deutschjozsa", "dj":
		return DeutschJozsa, nil
	}

	return "", fmt.Errorf("unknown algorithm %q (want deutsch, deutsch-jozsa or auto)", value)
}

// Resolve turns Auto (or the empty variant) into a concrete variant for an
// oracle of the given size.
func (v Variant) Resolve(qubits int) Variant {
	if v != Auto && v != "" {
		return v
	}

	if qubits == 2 {
		return Deutsch
	}

	return DeutschJozsa
}

// Verdict is the classification of an oracle.
type Verdict string

const (
	// Constant means the function has the same output for every input.
	Constant Verdict = "constant"
	// Balanced means the function outputs 0 for exactly half of the inputs.
	Balanced Verdict = "balanced"
)

// VerdictOf maps the evaluator's boolean to a Verdict.
func VerdictOf(constant bool) Verdict {
	if constant {
		return Constant
	}

	return Balanced
}

// Evaluation is the outcome of running one decision circuit.
type Evaluation struct {
	Variant  Variant
	Circuit  Circuit
	Memory   string
	Constant bool
}

// Report records the evaluation of one oracle, as shown and persisted by the CLI.
type Report struct {
	Oracle    string  `yaml:"oracle"`
	Source    Path    `yaml:"source,omitempty"`
	Algorithm Variant `yaml:"algorithm"`
	Inputs    int     `yaml:"inputs"`
	Memory    string  `yaml:"memory,omitempty"`
	Verdict   Verdict `yaml:"verdict,omitempty"`
	Error     string  `yaml:"error,omitempty"`
}

// Failed reports whether the evaluation ended with an error.
func (r Report) Failed() bool {
	return r.Error != ""
}
