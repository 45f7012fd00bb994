package model

import "slices"

// Builder assembles a circuit in place and keeps the first error.
// Build returns that error, so callers check once at the end. Unlike the
// Circuit methods, each step appends to the builder's own operation slice,
// so building k operations costs O(k).
type Builder struct {
	header Circuit
	ops    []Operation
	err    error
}

// NewBuilder starts a builder on an empty circuit.
func NewBuilder(qubits, clbits int, name string) *Builder {
	header, err := NewCircuit(qubits, clbits, name)

	return &Builder{header: header, err: err}
}

func (b *Builder) push(ops []Operation, err error) *Builder {
	if b.err != nil {
		return b
	}

	if err != nil {
		b.err = err
		return b
	}

	b.ops = append(b.ops, ops...)

	return b
}

// Apply appends gate on qubits.
func (b *Builder) Apply(gate Gate, qubits ...int) *Builder {
	if b.err != nil {
		return b
	}

	op, err := b.header.gateOp(gate, qubits)

	return b.push([]Operation{op}, err)
}

func (b *Builder) each(gate Gate, qubits []int) *Builder {
	if b.err != nil {
		return b
	}

	for _, q := range qubits {
		op, err := b.header.gateOp(gate, []int{q})
		if err != nil {
			b.err = err
			return b
		}

		b.ops = append(b.ops, op)
	}

	return b
}

// X flips each listed qubit.
func (b *Builder) X(qubits ...int) *Builder {
	return b.each(GateX, qubits)
}

// H applies a Hadamard to each listed qubit.
func (b *Builder) H(qubits ...int) *Builder {
	return b.each(GateH, qubits)
}

// Z applies a phase flip to each listed qubit.
func (b *Builder) Z(qubits ...int) *Builder {
	return b.each(GateZ, qubits)
}

// CX appends a controlled flip.
func (b *Builder) CX(control, target int) *Builder {
	return b.Apply(GateCX, control, target)
}

// CCX appends a Toffoli gate.
func (b *Builder) CCX(control1, control2, target int) *Builder {
	return b.Apply(GateCCX, control1, control2, target)
}

// Barrier appends a fence over all qubits.
func (b *Builder) Barrier() *Builder {
	if b.err != nil {
		return b
	}

	b.ops = append(b.ops, b.header.barrierOp())

	return b
}

// Compose appends other's operations.
func (b *Builder) Compose(other Circuit) *Builder {
	if b.err != nil {
		return b
	}

	return b.push(b.header.composeOps(other))
}

// Measure pairs qubits with classical bits.
func (b *Builder) Measure(qubits, clbits []int) *Builder {
	if b.err != nil {
		return b
	}

	return b.push(b.header.measureOps(qubits, clbits))
}

// Build returns the circuit, or the first error met while building it.
// The builder can keep going afterwards without affecting the result.
func (b *Builder) Build() (Circuit, error) {
	if b.err != nil {
		return Circuit{}, b.err
	}

	b.ops = slices.Clip(b.ops)

	circuit := b.header
	circuit.ops = b.ops

	return circuit, nil
}
