package model

import "fmt"

// Path represents a file system path.
type Path string

// OracleGate is one gate of an oracle file.
type OracleGate struct {
	Gate   string `yaml:"gate"`
	Qubits []int  `yaml:"qubits,flow"`
}

// OracleDefinition is the on-disk description of an oracle: Inputs input
// qubits plus one output qubit at index Inputs.
type OracleDefinition struct {
	Name   string       `yaml:"name"`
	Inputs int          `yaml:"inputs"`
	Gates  []OracleGate `yaml:"gates"`
}

// Circuit converts the definition into an oracle circuit. A gate named
// "barrier" becomes a fence over all qubits.
func (d OracleDefinition) Circuit() (Circuit, error) {
	if d.Inputs < 1 {
		return Circuit{}, fmt.Errorf("%w: oracle %q needs at least one input, got %d", ErrInvalidSize, d.Name, d.Inputs)
	}

	circuit, err := NewCircuit(d.Inputs+1, 0, d.Name)
	if err != nil {
		return Circuit{}, err
	}

	for i, g := range d.Gates {
		if g.Gate == string(OpBarrier) {
			circuit = circuit.Barrier()
			continue
		}

		gate, err := ParseGate(g.Gate)
		if err != nil {
			return Circuit{}, fmt.Errorf("oracle %q gate %d: %w", d.Name, i, err)
		}

		circuit, err = circuit.Apply(gate, g.Qubits...)
		if err != nil {
			return Circuit{}, fmt.Errorf("oracle %q gate %d: %w", d.Name, i, err)
		}
	}

	return circuit, nil
}

// DefinitionOf describes an oracle circuit so it can be written to disk.
// Measurements are dropped: oracles never measure.
func DefinitionOf(oracle Circuit) OracleDefinition {
	def := OracleDefinition{
		Name:   oracle.Name(),
		Inputs: oracle.Qubits() - 1,
		Gates:  []OracleGate{},
	}

	for _, op := range oracle.ops {
		switch op.Kind {
		case OpGate:
			def.Gates = append(def.Gates, OracleGate{Gate: string(op.Gate), Qubits: append([]int(nil), op.Qubits...)})
		case OpBarrier:
			def.Gates = append(def.Gates, OracleGate{Gate: string(OpBarrier)})
		case OpMeasure:
		}
	}

	return def
}
