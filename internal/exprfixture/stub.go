package exprfixture

import (
	"fmt"
	"regexp"
	"strings"
)

// StubEvaluator recognizes a fixed handful of quoted-boolean-operand forms
// — `"A" Eqv "B"`, `"A" Xor "B"`, `"A" Or "B"`, `"A" And "B"` — enough to
// demonstrate operator-evaluation golden cases without a real expression
// parser. Anything else is reported as unrecognized.
type StubEvaluator struct{}

var stubExprPattern = regexp.MustCompile(`^"([^"]*)"\s+(Eqv|Xor|Or|And)\s+"([^"]*)"$`)

// Evaluate implements Evaluator.
func (StubEvaluator) Evaluate(expr string, env map[string]interface{}) (interface{}, bool, error) {
	m := stubExprPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, false, nil
	}
	left, op, right := m[1], m[2], m[3]

	a, err := stubBoolOperand(left, env)
	if err != nil {
		return nil, true, err
	}
	b, err := stubBoolOperand(right, env)
	if err != nil {
		return nil, true, err
	}

	switch op {
	case "Eqv":
		return a == b, true, nil
	case "Xor":
		return a != b, true, nil
	case "Or":
		return a || b, true, nil
	case "And":
		return a && b, true, nil
	default:
		return nil, true, fmt.Errorf("exprfixture: unsupported operator %q", op)
	}
}

func stubBoolOperand(token string, env map[string]interface{}) (bool, error) {
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	v, ok := env[token]
	if !ok {
		return false, fmt.Errorf("exprfixture: undefined operand %q", token)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("exprfixture: operand %q is not a boolean", token)
	}
	return b, nil
}
