package formula

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Parser evaluates pricing expressions against a map of physical inputs.
// Expressions are compiled per call with the actual parameters as the
// environment, so undefined variables fail fast instead of defaulting.
type Parser struct{}

// NewParser creates a new formula parser
func NewParser() *Parser {
	return &Parser{}
}

// Evaluate runs an expression with the given parameters and coerces the
// result to float64.
func (p *Parser) Evaluate(expression string, params map[string]interface{}) (float64, error) {
	program, err := expr.Compile(expression, expr.Env(params), expr.AsFloat64())
	if err != nil {
		return 0, fmt.Errorf("failed to compile expression '%s': %w", expression, err)
	}

	result, err := expr.Run(program, params)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate formula: %w", err)
	}

	return toFloat64(result)
}

// Validate checks that an expression compiles against a sample environment.
func (p *Parser) Validate(expression string, sampleParams map[string]interface{}) error {
	_, err := expr.Compile(expression, expr.Env(sampleParams))
	return err
}

func toFloat64(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("unexpected result type: %T", v)
	}
}
