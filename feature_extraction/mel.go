package feature_extraction

// Mel scale conversion and triangular filterbank construction. Filters span
// 0 Hz to the Nyquist frequency and are built once per extractor.

import "math"

func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// melFilterbank returns numBands rows of per-bin weights over the one-sided
// power spectrum of an fftSize-point transform.
func melFilterbank(sampleRate, fftSize, numBands int) [][]float64 {
	bins := fftSize/2 + 1
	nyquist := float64(sampleRate) / 2.0

	// numBands+2 evenly spaced points on the mel scale: each filter rises
	// from point m-1 to m and falls to m+1.
	edges := make([]float64, numBands+2)
	maxMel := hzToMel(nyquist)

	for i := range edges {
		edges[i] = melToHz(maxMel * float64(i) / float64(numBands+1))
	}

	binHz := float64(sampleRate) / float64(fftSize)
	filters := make([][]float64, numBands)

	for m := 0; m < numBands; m++ {
		filters[m] = make([]float64, bins)

		lower := edges[m]
		center := edges[m+1]
		upper := edges[m+2]

		for k := 0; k < bins; k++ {
			freq := float64(k) * binHz

			switch {
			case freq <= lower || freq >= upper:
				// outside the triangle
			case freq <= center:
				if center > lower {
					filters[m][k] = (freq - lower) / (center - lower)
				}
			default:
				if upper > center {
					filters[m][k] = (upper - freq) / (upper - center)
				}
			}
		}
	}

	return filters
}
