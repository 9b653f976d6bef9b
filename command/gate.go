package command

// Gate applies the confidence threshold to a classification outcome. The
// comparison is strictly greater-than: a confidence exactly equal to the
// threshold is rejected. A rejected cycle is a valid "uncertain" outcome,
// not an error.
func Gate(label Label, confidence, threshold float64) (Label, bool) {
	if confidence > threshold {
		return label, true
	}

	return "", false
}
