package audio_capture

// Interface acquires a fixed-duration mono window from the live input device.
// CaptureWindow blocks for approximately durationSeconds while samples
// accumulate; the device is held exclusively for the duration of the call
// and released on every exit path.
type Interface interface {
	CaptureWindow(durationSeconds float64, sampleRate int) (*Window, error)
}
