package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateBounds(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		valid  bool
	}{
		{"Just below minimum", 9.99, false},
		{"Exact minimum", 10, true},
		{"Exact maximum", 6000, true},
		{"Just above maximum", 6000.01, false},
		{"Zero amount", 0, false},
		{"Mid range", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Evaluate(tt.amount)
			assert.Equal(t, tt.valid, q.Valid)
			if !tt.valid {
				assert.NotEmpty(t, q.Reason)
			} else {
				assert.Empty(t, q.Reason)
			}
		})
	}
}

func TestEvaluateFeeTiers(t *testing.T) {
	t.Run("Below threshold adds flat surcharge", func(t *testing.T) {
		for _, amount := range []float64{10, 20, 49.99} {
			q := Evaluate(amount)
			assert.Equal(t, amount*0.02+1.00, q.Fee, "amount %v", amount)
		}
	})

	t.Run("At and above threshold is percentage only", func(t *testing.T) {
		for _, amount := range []float64{50, 100, 6000} {
			q := Evaluate(amount)
			assert.Equal(t, amount*0.02, q.Fee, "amount %v", amount)
		}
	})

	t.Run("Net is amount minus fee", func(t *testing.T) {
		for _, amount := range []float64{10, 49.99, 50, 123.45, 6000} {
			q := Evaluate(amount)
			assert.Equal(t, amount-q.Fee, q.Net, "amount %v", amount)
		}
	})
}

func TestEvaluateComputesFeeForInvalidAmounts(t *testing.T) {
	// 无效金额也要给出费用预览
	q := Evaluate(5)
	assert.False(t, q.Valid)
	assert.Equal(t, 5*0.02+1.00, q.Fee)
	assert.Equal(t, 5-q.Fee, q.Net)

	q = Evaluate(7000)
	assert.False(t, q.Valid)
	assert.Equal(t, 7000*0.02, q.Fee)
	assert.Equal(t, 7000-q.Fee, q.Net)
}
