package command

import "fmt"

// Label is one of the six vocal sounds the model is trained on. The set is
// closed: it must match the label space of the loaded model artifact exactly.
type Label string

const (
	LabelShush   Label = "shush"
	LabelClick   Label = "click"
	LabelWhistle Label = "whistle"
	LabelPop     Label = "pop"
	LabelHiss    Label = "hiss"
	LabelHum     Label = "hum"
)

// Action identifies a playback-control operation.
type Action string

const (
	ActionPause      Action = "pause"
	ActionPlay       Action = "play"
	ActionNext       Action = "next"
	ActionPrevious   Action = "previous"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
)

// Labels returns the closed label set in its fixed model order.
func Labels() []Label {
	return []Label{LabelShush, LabelClick, LabelWhistle, LabelPop, LabelHiss, LabelHum}
}

// Actions returns every known playback action.
func Actions() []Action {
	return []Action{ActionPause, ActionPlay, ActionNext, ActionPrevious, ActionVolumeUp, ActionVolumeDown}
}

// ParseLabel converts a string into a Label.
func ParseLabel(s string) (Label, error) {
	for _, l := range Labels() {
		if string(l) == s {
			return l, nil
		}
	}

	return "", fmt.Errorf("unknown command label: %q", s)
}

// ParseAction converts a string into an Action.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions() {
		if string(a) == s {
			return a, nil
		}
	}

	return "", fmt.Errorf("unknown playback action: %q", s)
}
