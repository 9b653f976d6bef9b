package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_AcceptsAboveThreshold(t *testing.T) {
	label, ok := Gate(LabelShush, 0.85, 0.4)

	assert.True(t, ok)
	assert.Equal(t, LabelShush, label)
}

func TestGate_RejectsBelowThreshold(t *testing.T) {
	_, ok := Gate(LabelPop, 0.35, 0.4)

	assert.False(t, ok)
}

func TestGate_StrictComparison(t *testing.T) {
	t.Run("confidence equal to threshold is uncertain", func(t *testing.T) {
		_, ok := Gate(LabelHum, 0.4, 0.4)

		assert.False(t, ok)
	})

	t.Run("any margin above threshold passes", func(t *testing.T) {
		label, ok := Gate(LabelHum, 0.4+1e-12, 0.4)

		assert.True(t, ok)
		assert.Equal(t, LabelHum, label)
	})
}

func TestGate_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		label, ok := Gate(LabelWhistle, 0.6, 0.4)

		assert.True(t, ok)
		assert.Equal(t, LabelWhistle, label)
	}
}
