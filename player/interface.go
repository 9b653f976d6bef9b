package player

// Controller owns all mutable playback state (track list position, volume,
// play/pause flags) and is the only component that touches it. Voice-driven
// dispatch and manual keyboard commands both funnel through these methods.
type Controller interface {
	Play() error
	Pause() error
	Stop() error
	NextTrack() error
	PreviousTrack() error
	VolumeUp() error
	VolumeDown() error
	Status() string
}
