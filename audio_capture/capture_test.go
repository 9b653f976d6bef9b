package audio_capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceLength(t *testing.T) {
	t.Run("truncates an over-long capture", func(t *testing.T) {
		samples := []float64{0.1, 0.2, 0.3, 0.4, 0.5}

		out := coerceLength(samples, 3)

		assert.Equal(t, []float64{0.1, 0.2, 0.3}, out)
	})

	t.Run("pads a short capture with silence", func(t *testing.T) {
		samples := []float64{0.1, 0.2}

		out := coerceLength(samples, 4)

		assert.Equal(t, []float64{0.1, 0.2, 0, 0}, out)
	})

	t.Run("leaves an exact capture alone", func(t *testing.T) {
		samples := []float64{0.1, 0.2}

		out := coerceLength(samples, 2)

		assert.Equal(t, samples, out)
	})
}
