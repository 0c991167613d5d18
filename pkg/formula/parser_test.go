package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Evaluate_SimpleExpression(t *testing.T) {
	parser := NewParser()

	result, err := parser.Evaluate("item_rate / base_qty * qty", map[string]interface{}{
		"item_rate": 50.0,
		"base_qty":  100.0,
		"qty":       8.0,
	})

	require.NoError(t, err)
	assert.Equal(t, 4.0, result)
}

func TestParser_Evaluate_WeightBasedRate(t *testing.T) {
	parser := NewParser()

	// Per-gram pricing against a kilogram roll price.
	result, err := parser.Evaluate("grams / 1000 * item_rate", map[string]interface{}{
		"grams":     250.0,
		"item_rate": 200.0,
	})

	require.NoError(t, err)
	assert.Equal(t, 50.0, result)
}

func TestParser_Evaluate_Conditional(t *testing.T) {
	parser := NewParser()

	// Volume break expressed as a ternary.
	result, err := parser.Evaluate("qty > 100 ? item_rate * 0.9 : item_rate", map[string]interface{}{
		"qty":       150.0,
		"item_rate": 100.0,
	})

	require.NoError(t, err)
	assert.Equal(t, 90.0, result)
}

func TestParser_Evaluate_MissingParam(t *testing.T) {
	parser := NewParser()

	_, err := parser.Evaluate("grams * rate_per_gram", map[string]interface{}{
		"grams": 250.0,
	})

	assert.Error(t, err)
}

func TestParser_Evaluate_InvalidExpression(t *testing.T) {
	parser := NewParser()

	_, err := parser.Evaluate("((grams +", map[string]interface{}{
		"grams": 250.0,
	})

	assert.Error(t, err)
}

func TestParser_Validate(t *testing.T) {
	parser := NewParser()

	sample := map[string]interface{}{"height": 1.0, "width": 1.0}
	assert.NoError(t, parser.Validate("height * width", sample))
	assert.Error(t, parser.Validate("height *", sample))
}

func BenchmarkParser_Evaluate(b *testing.B) {
	parser := NewParser()
	expression := "height * width * qty * sq_inch_rate"
	params := map[string]interface{}{
		"height":       10.0,
		"width":        8.0,
		"qty":          20.0,
		"sq_inch_rate": 0.05,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		parser.Evaluate(expression, params)
	}
}
