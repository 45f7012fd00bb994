package domain

import (
	"errors"
	"fmt"
	"slices"

	m "kickback.dev/pkg/kickback/internal/model"
)

// ErrUnknownOracle is returned by OracleByName for names outside OracleNames.
var ErrUnknownOracle = errors.New("unknown oracle")

// Canonical oracle names.
const (
	OracleConstantZero   = "constant-0"
	OracleConstantOne    = "constant-1"
	OracleParity         = "parity"
	OracleFirstBit       = "first-bit"
	OracleInvertedParity = "inverted-parity"
)

var oracleFactories = map[string]func(int) (m.Circuit, error){
	OracleConstantZero:   func(n int) (m.Circuit, error) { return ConstantOracle(n, false) },
	OracleConstantOne:    func(n int) (m.Circuit, error) { return ConstantOracle(n, true) },
	OracleParity:         ParityOracle,
	OracleFirstBit:       FirstBitOracle,
	OracleInvertedParity: InvertedParityOracle,
}

// OracleNames lists the canonical oracles in lexical order.
func OracleNames() []string {
	names := make([]string, 0, len(oracleFactories))
	for name := range oracleFactories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// OracleByName builds the canonical oracle called name over n inputs.
func OracleByName(name string, n int) (m.Circuit, error) {
	factory, ok := oracleFactories[name]
	if !ok {
		return m.Circuit{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownOracle, name, OracleNames())
	}

	return factory(n)
}

// ConstantOracle returns f(x) = value over n inputs.
func ConstantOracle(n int, value bool) (m.Circuit, error) {
	name := OracleConstantZero
	if value {
		name = OracleConstantOne
	}

	b, err := oracleBuilder(name, n)
	if err != nil {
		return m.Circuit{}, err
	}

	if value {
		b.X(n)
	}

	return b.Build()
}

// ParityOracle returns f(x) = x0 xor ... xor x(n-1).
func ParityOracle(n int) (m.Circuit, error) {
	b, err := oracleBuilder(OracleParity, n)
	if err != nil {
		return m.Circuit{}, err
	}

	return parity(b, n).Build()
}

// InvertedParityOracle returns the negated parity, which is still balanced.
func InvertedParityOracle(n int) (m.Circuit, error) {
	b, err := oracleBuilder(OracleInvertedParity, n)
	if err != nil {
		return m.Circuit{}, err
	}

	return parity(b, n).X(n).Build()
}

// FirstBitOracle returns f(x) = x0, a single CX from the first input.
func FirstBitOracle(n int) (m.Circuit, error) {
	b, err := oracleBuilder(OracleFirstBit, n)
	if err != nil {
		return m.Circuit{}, err
	}

	return b.CX(0, n).Build()
}

func oracleBuilder(name string, n int) (*m.Builder, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: oracle %s needs at least one input, got %d", m.ErrInvalidSize, name, n)
	}

	return m.NewBuilder(n+1, 0, name), nil
}

func parity(b *m.Builder, n int) *m.Builder {
	for i := range n {
		b.CX(i, n)
	}

	return b
}
