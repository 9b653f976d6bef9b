package command

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Controller is the playback capability the dispatcher invokes. Each method
// is safe to call regardless of the player's current state; failures (such
// as an empty track list) are reported through the returned error and
// surfaced to the user verbatim, never retried here.
type Controller interface {
	Play() error
	Pause() error
	NextTrack() error
	PreviousTrack() error
	VolumeUp() error
	VolumeDown() error
}

// Outcome records which action fired for which label, for logging by the
// caller.
type Outcome struct {
	Label  Label
	Action Action
}

type DispatcherConfig struct {
	Mapping    ActionMapping
	Controller Controller
	Logger     *logrus.Logger
}

// NewDispatcher builds a dispatcher over a validated mapping and a playback
// controller.
func NewDispatcher(cfg *DispatcherConfig) (*Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Mapping == nil {
		return nil, fmt.Errorf("mapping is nil")
	}

	if cfg.Controller == nil {
		return nil, fmt.Errorf("controller is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	return &Dispatcher{
		mapping:    cfg.Mapping,
		controller: cfg.Controller,
		logger:     cfg.Logger,
	}, nil
}

// Dispatcher resolves a gated label to its configured action and performs
// exactly one controller invocation.
type Dispatcher struct {
	mapping    ActionMapping
	controller Controller
	logger     *logrus.Logger
}

// Dispatch looks up the action for label and invokes the matching controller
// method. A label missing from the mapping is a ConfigurationError; with a
// mapping built by NewMapping this cannot happen, but it is checked rather
// than tolerated silently.
func (d *Dispatcher) Dispatch(label Label) (*Outcome, error) {
	action, ok := d.mapping[label]
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("label %q has no action mapped", label)}
	}

	d.logger.WithFields(logrus.Fields{
		"label":  label,
		"action": action,
	}).Debug("dispatching playback action")

	var err error

	switch action {
	case ActionPause:
		err = d.controller.Pause()
	case ActionPlay:
		err = d.controller.Play()
	case ActionNext:
		err = d.controller.NextTrack()
	case ActionPrevious:
		err = d.controller.PreviousTrack()
	case ActionVolumeUp:
		err = d.controller.VolumeUp()
	case ActionVolumeDown:
		err = d.controller.VolumeDown()
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("label %q mapped to unknown action %q", label, action)}
	}

	if err != nil {
		return nil, err
	}

	return &Outcome{Label: label, Action: action}, nil
}
