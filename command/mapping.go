package command

import "fmt"

// ConfigurationError reports an ActionMapping that cannot drive the
// dispatcher: a label without an action, or an unknown label or action name.
// It is fatal at startup; the pipeline never runs with a partial mapping.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// ActionMapping associates every command label with exactly one playback
// action. It is built once at startup and never mutated afterwards.
type ActionMapping map[Label]Action

// NewMapping validates a raw label→action table from configuration. Every
// label in the closed set must be present, and no extra entries are allowed.
func NewMapping(raw map[string]string) (ActionMapping, error) {
	if raw == nil {
		return nil, &ConfigurationError{Reason: "mapping is nil"}
	}

	mapping := make(ActionMapping, len(Labels()))

	for name, actionName := range raw {
		label, err := ParseLabel(name)
		if err != nil {
			return nil, &ConfigurationError{Reason: err.Error()}
		}

		action, err := ParseAction(actionName)
		if err != nil {
			return nil, &ConfigurationError{Reason: err.Error()}
		}

		mapping[label] = action
	}

	for _, label := range Labels() {
		if _, ok := mapping[label]; !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("label %q has no action mapped", label)}
		}
	}

	return mapping, nil
}
