package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRawMapping() map[string]string {
	return map[string]string{
		"shush":   "pause",
		"click":   "play",
		"whistle": "next",
		"pop":     "volume_up",
		"hiss":    "volume_down",
		"hum":     "previous",
	}
}

func TestNewMapping_Complete(t *testing.T) {
	mapping, err := NewMapping(fullRawMapping())
	require.NoError(t, err)

	assert.Len(t, mapping, len(Labels()))
	assert.Equal(t, ActionPause, mapping[LabelShush])
	assert.Equal(t, ActionVolumeUp, mapping[LabelPop])
}

func TestNewMapping_MissingLabel(t *testing.T) {
	raw := fullRawMapping()
	delete(raw, "hiss")

	_, err := NewMapping(raw)

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestNewMapping_UnknownLabel(t *testing.T) {
	raw := fullRawMapping()
	raw["growl"] = "play"

	_, err := NewMapping(raw)

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestNewMapping_UnknownAction(t *testing.T) {
	raw := fullRawMapping()
	raw["click"] = "eject"

	_, err := NewMapping(raw)

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestNewMapping_Nil(t *testing.T) {
	_, err := NewMapping(nil)

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}
