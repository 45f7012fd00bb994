package adapter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	m "kickback.dev/pkg/kickback/internal/model"
)

// Pre-compiled regexps for the OpenQASM 2.0 subset kickback reads.
var (
	registerRegex = regexp.MustCompile(`^(qreg|creg)\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	measureRegex  = regexp.MustCompile(`^measure\s+(\w+)\s*\[\s*(\d+)\s*\]\s*->\s*(\w+)\s*\[\s*(\d+)\s*\]$`)
	operandRegex  = regexp.MustCompile(`^(\w+)\s*\[\s*(\d+)\s*\]$`)
	statementRe   = regexp.MustCompile(`^(\w+)\s+(.+)$`)
)

var errNoQubitRegister = errors.New("no qreg declared")

// QASMAdapter converts circuits to and from OpenQASM 2.0 text.
type QASMAdapter interface {
	Encode(circuit m.Circuit) []byte
	Decode(name string, src []byte) (m.Circuit, error)
}

// OpenQASMAdapter implements QASMAdapter for a single qreg/creg pair and the
// gates of the circuit model.
type OpenQASMAdapter struct{}

// NewOpenQASMAdapter constructs an OpenQASMAdapter.
func NewOpenQASMAdapter() *OpenQASMAdapter {
	return &OpenQASMAdapter{}
}

// Encode renders circuit as OpenQASM 2.0. Operations composed from another
// circuit are preceded by a comment naming it.
func (a *OpenQASMAdapter) Encode(circuit m.Circuit) []byte {
	var buf bytes.Buffer

	buf.WriteString("OPENQASM 2.0;\n")
	buf.WriteString("include \"qelib1.inc\";\n\n")

	if circuit.Name() != "" {
		fmt.Fprintf(&buf, "// %s\n", circuit.Name())
	}

	fmt.Fprintf(&buf, "qreg q[%d];\n", circuit.Qubits())

	if circuit.Clbits() > 0 {
		fmt.Fprintf(&buf, "creg c[%d];\n", circuit.Clbits())
	}

	buf.WriteString("\n")

	origin := ""

	for _, op := range circuit.Operations() {
		if op.Origin != origin {
			origin = op.Origin
			if origin != "" {
				fmt.Fprintf(&buf, "// begin %s\n", origin)
			}
		}

		switch op.Kind {
		case m.OpGate:
			fmt.Fprintf(&buf, "%s %s;\n", op.Gate, operands(op.Qubits))
		case m.OpBarrier:
			fmt.Fprintf(&buf, "barrier %s;\n", operands(op.Qubits))
		case m.OpMeasure:
			fmt.Fprintf(&buf, "measure q[%d] -> c[%d];\n", op.Qubits[0], op.Clbit)
		}
	}

	return buf.Bytes()
}

func operands(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}

	return strings.Join(parts, ",")
}

type qasmStatement struct {
	line   int
	kind   m.OpKind
	gate   m.Gate
	qubits []int
	clbit  int
}

// Decode parses an OpenQASM 2.0 program into a circuit named name.
func (a *OpenQASMAdapter) Decode(name string, src []byte) (m.Circuit, error) {
	qubits, clbits := -1, 0
	qreg, creg := "", ""

	var statements []qasmStatement

	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}

		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || strings.HasPrefix(stmt, "OPENQASM") || strings.HasPrefix(stmt, "include") {
				continue
			}

			if match := registerRegex.FindStringSubmatch(stmt); match != nil {
				size, _ := strconv.Atoi(match[3])

				if match[1] == "qreg" {
					if qreg != "" {
						return m.Circuit{}, fmt.Errorf("line %d: only one qreg is supported", lineNo)
					}

					qreg, qubits = match[2], size
				} else {
					if creg != "" {
						return m.Circuit{}, fmt.Errorf("line %d: only one creg is supported", lineNo)
					}

					creg, clbits = match[2], size
				}

				continue
			}

			parsed, err := parseStatement(stmt, qreg, creg)
			if err != nil {
				return m.Circuit{}, fmt.Errorf("line %d: %w", lineNo, err)
			}

			parsed.line = lineNo
			statements = append(statements, parsed)
		}
	}

	if err := scanner.Err(); err != nil {
		return m.Circuit{}, fmt.Errorf("read qasm: %w", err)
	}

	if qubits < 0 {
		return m.Circuit{}, errNoQubitRegister
	}

	return buildCircuit(name, qubits, clbits, statements)
}

func parseStatement(stmt, qreg, creg string) (qasmStatement, error) {
	if qreg == "" {
		return qasmStatement{}, errNoQubitRegister
	}

	if match := measureRegex.FindStringSubmatch(stmt); match != nil {
		if match[1] != qreg || match[3] != creg {
			return qasmStatement{}, fmt.Errorf("unknown register in %q", stmt)
		}

		q, _ := strconv.Atoi(match[2])
		c, _ := strconv.Atoi(match[4])

		return qasmStatement{kind: m.OpMeasure, qubits: []int{q}, clbit: c}, nil
	}

	match := statementRe.FindStringSubmatch(stmt)
	if match == nil {
		return qasmStatement{}, fmt.Errorf("cannot parse %q", stmt)
	}

	var qubits []int

	for _, operand := range strings.Split(match[2], ",") {
		operand = strings.TrimSpace(operand)
		if operand == qreg {
			continue
		}

		op := operandRegex.FindStringSubmatch(operand)
		if op == nil || op[1] != qreg {
			return qasmStatement{}, fmt.Errorf("unsupported operand %q", operand)
		}

		q, _ := strconv.Atoi(op[2])
		qubits = append(qubits, q)
	}

	if match[1] == string(m.OpBarrier) {
		return qasmStatement{kind: m.OpBarrier}, nil
	}

	gate, err := m.ParseGate(match[1])
	if err != nil {
		return qasmStatement{}, err
	}

	return qasmStatement{kind: m.OpGate, gate: gate, qubits: qubits}, nil
}

func buildCircuit(name string, qubits, clbits int, statements []qasmStatement) (m.Circuit, error) {
	circuit, err := m.NewCircuit(qubits, clbits, name)
	if err != nil {
		return m.Circuit{}, err
	}

	for _, stmt := range statements {
		switch stmt.kind {
		case m.OpBarrier:
			circuit = circuit.Barrier()
		case m.OpMeasure:
			circuit, err = circuit.Measure(stmt.qubits, []int{stmt.clbit})
		case m.OpGate:
			circuit, err = circuit.Apply(stmt.gate, stmt.qubits...)
		}

		if err != nil {
			return m.Circuit{}, fmt.Errorf("line %d: %w", stmt.line, err)
		}
	}

	return circuit, nil
}
