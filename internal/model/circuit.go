// Package model defines the circuit, oracle and result types used by kickback.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Gate names a quantum gate supported by the circuit model.
type Gate string

const (
	// GateX flips a qubit (Pauli-X).
	GateX Gate = "x"
	// GateH puts a qubit in superposition (Hadamard).
	GateH Gate = "h"
	// GateZ applies a phase flip (Pauli-Z).
	GateZ Gate = "z"
	// GateCX is a controlled flip: qubits are (control, target).
	GateCX Gate = "cx"
	// GateCZ is a controlled phase flip: qubits are (control, target).
	GateCZ Gate = "cz"
	// GateCCX is the Toffoli gate: qubits are (control, control, target).
	GateCCX Gate = "ccx"
	// GateSwap exchanges two qubits.
	GateSwap Gate = "swap"
)

var gateArity = map[Gate]int{
	GateX:    1,
	GateH:    1,
	GateZ:    1,
	GateCX:   2,
	GateCZ:   2,
	GateCCX:  3,
	GateSwap: 2,
}

// Arity returns the number of qubits the gate acts on, or 0 for unknown gates.
func (g Gate) Arity() int {
	return gateArity[g]
}

// Valid reports whether g is a gate the model knows about.
func (g Gate) Valid() bool {
	_, ok := gateArity[g]
	return ok
}

// ParseGate normalizes a gate name ("CX", " h ") into a Gate.
func ParseGate(name string) (Gate, error) {
	gate := Gate(strings.ToLower(strings.TrimSpace(name)))
	if gate == "cnot" {
		gate = GateCX
	}

	if gate == "toffoli" {
		gate = GateCCX
	}

	if !gate.Valid() {
		return "", &UnknownGateError{Name: name}
	}

	return gate, nil
}

// OpKind tags an entry of a circuit's operation sequence.
type OpKind string

const (
	// OpGate applies a gate.
	OpGate OpKind = "gate"
	// OpBarrier is an ordering fence over all qubits.
	OpBarrier OpKind = "barrier"
	// OpMeasure records one qubit into one classical bit.
	OpMeasure OpKind = "measure"
)

// Operation is a single entry of a circuit.
type Operation struct {
	Kind   OpKind
	Gate   Gate   // set for OpGate
	Qubits []int  // gate operands, barrier span, or the measured qubit
	Clbit  int    // set for OpMeasure
	Origin string // circuit this op was composed from, empty when applied directly
}

func (op Operation) clone() Operation {
	op.Qubits = slices.Clone(op.Qubits)
	return op
}

// Equal reports whether two operations are identical.
func (op Operation) Equal(other Operation) bool {
	return op.Kind == other.Kind &&
		op.Gate == other.Gate &&
		op.Clbit == other.Clbit &&
		op.Origin == other.Origin &&
		slices.Equal(op.Qubits, other.Qubits)
}

func (op Operation) String() string {
	switch op.Kind {
	case OpGate:
		return fmt.Sprintf("%s %v", op.Gate, op.Qubits)
	case OpBarrier:
		return fmt.Sprintf("barrier %v", op.Qubits)
	case OpMeasure:
		return fmt.Sprintf("measure %v -> c[%d]", op.Qubits, op.Clbit)
	}

	return string(op.Kind)
}

// Circuit is an immutable description of a quantum computation. Every method
// that extends a circuit returns a new value and leaves the receiver as is.
type Circuit struct {
	name   string
	qubits int
	clbits int
	ops    []Operation
}

// NewCircuit returns an empty circuit with the given register sizes.
func NewCircuit(qubits, clbits int, name string) (Circuit, error) {
	if qubits < 0 {
		return Circuit{}, &InvalidSizeError{Register: "qubit", Size: qubits}
	}

	if clbits < 0 {
		return Circuit{}, &InvalidSizeError{Register: "classical", Size: clbits}
	}

	return Circuit{name: name, qubits: qubits, clbits: clbits}, nil
}

// Name returns the circuit name.
func (c Circuit) Name() string { return c.name }

// Qubits returns the size of the qubit register.
func (c Circuit) Qubits() int { return c.qubits }

// Clbits returns the size of the classical register.
func (c Circuit) Clbits() int { return c.clbits }

// Len returns the number of operations.
func (c Circuit) Len() int { return len(c.ops) }

// Operations returns a copy of the operation sequence.
func (c Circuit) Operations() []Operation {
	ops := make([]Operation, len(c.ops))
	for i, op := range c.ops {
		ops[i] = op.clone()
	}

	return ops
}

// Op returns a copy of the i-th operation.
func (c Circuit) Op(i int) Operation {
	return c.ops[i].clone()
}

// Equal reports whether both circuits have the same registers and operations.
// Names are not compared.
func (c Circuit) Equal(other Circuit) bool {
	return c.qubits == other.qubits &&
		c.clbits == other.clbits &&
		slices.EqualFunc(c.ops, other.ops, Operation.Equal)
}

// with appends ops on a clipped slice so the receiver's backing array is never written.
func (c Circuit) with(ops ...Operation) Circuit {
	c.ops = append(slices.Clip(c.ops), ops...)
	return c
}

func (c Circuit) checkQubit(q int) error {
	if q < 0 || q >= c.qubits {
		return &IndexError{Register: "qubit", Index: q, Size: c.qubits}
	}

	return nil
}

func (c Circuit) checkClbit(b int) error {
	if b < 0 || b >= c.clbits {
		return &IndexError{Register: "classical", Index: b, Size: c.clbits}
	}

	return nil
}

// Apply returns the circuit with gate appended on the given qubits.
func (c Circuit) Apply(gate Gate, qubits ...int) (Circuit, error) {
	op, err := c.gateOp(gate, qubits)
	if err != nil {
		return c, err
	}

	return c.with(op), nil
}

// Barrier returns the circuit with a fence over all qubits appended.
func (c Circuit) Barrier() Circuit {
	return c.with(c.barrierOp())
}

// Compose returns a circuit whose operations are c's followed by other's.
// other must fit in c's registers; it is not modified.
func (c Circuit) Compose(other Circuit) (Circuit, error) {
	ops, err := c.composeOps(other)
	if err != nil {
		return c, err
	}

	return c.with(ops...), nil
}

// Measure pairs qubits[i] with clbits[i], in the order given.
func (c Circuit) Measure(qubits, clbits []int) (Circuit, error) {
	ops, err := c.measureOps(qubits, clbits)
	if err != nil {
		return c, err
	}

	return c.with(ops...), nil
}

// The helpers below validate against c's registers and build the new
// operations without touching c.ops, so Circuit and Builder share them.

func (c Circuit) gateOp(gate Gate, qubits []int) (Operation, error) {
	if !gate.Valid() {
		return Operation{}, &UnknownGateError{Name: string(gate)}
	}

	if len(qubits) != gate.Arity() {
		return Operation{}, &ArityError{Gate: gate, Want: gate.Arity(), Got: len(qubits)}
	}

	for i, q := range qubits {
		if err := c.checkQubit(q); err != nil {
			return Operation{}, err
		}

		if slices.Contains(qubits[:i], q) {
			return Operation{}, &DuplicateQubitError{Gate: gate, Qubit: q}
		}
	}

	return Operation{Kind: OpGate, Gate: gate, Qubits: slices.Clone(qubits)}, nil
}

func (c Circuit) barrierOp() Operation {
	return Operation{Kind: OpBarrier, Qubits: Range(0, c.qubits)}
}

func (c Circuit) composeOps(other Circuit) ([]Operation, error) {
	if other.qubits > c.qubits {
		return nil, &InvalidSizeError{Register: "qubit", Size: other.qubits, Limit: c.qubits}
	}

	if other.clbits > c.clbits {
		return nil, &InvalidSizeError{Register: "classical", Size: other.clbits, Limit: c.clbits}
	}

	ops := make([]Operation, len(other.ops))
	for i, op := range other.ops {
		op = op.clone()
		if op.Origin == "" {
			op.Origin = other.name
		}

		ops[i] = op
	}

	return ops, nil
}

func (c Circuit) measureOps(qubits, clbits []int) ([]Operation, error) {
	if len(qubits) != len(clbits) {
		return nil, &LengthMismatchError{Qubits: len(qubits), Clbits: len(clbits)}
	}

	ops := make([]Operation, 0, len(qubits))

	for i, q := range qubits {
		if err := c.checkQubit(q); err != nil {
			return nil, err
		}

		if err := c.checkClbit(clbits[i]); err != nil {
			return nil, err
		}

		ops = append(ops, Operation{Kind: OpMeasure, Qubits: []int{q}, Clbit: clbits[i]})
	}

	return ops, nil
}

// Range returns the indices [start, end).
func Range(start, end int) []int {
	if end <= start {
		return []int{}
	}

	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}

	return indices
}
