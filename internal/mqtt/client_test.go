package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtonCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/button/my_button/command"
	r := buttonCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "my_button", "button extract")
}

func TestButtonCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/sensor/my_button/state"
	r := buttonCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}

func TestParseMeterPayload(t *testing.T) {

	assert := assert.New(t)

	value, err := ParseMeterPayload([]byte("1234.567"))
	assert.NoError(err)
	assert.InDelta(1234.567, value, 1e-9)

	value, err = ParseMeterPayload([]byte(" 42 \n"))
	assert.NoError(err)
	assert.InDelta(42.0, value, 1e-9)
}

func TestParseMeterPayloadUnavailable(t *testing.T) {

	assert := assert.New(t)

	for _, payload := range []string{"", "unavailable", "Unknown", "none", "null"} {
		_, err := ParseMeterPayload([]byte(payload))
		assert.ErrorIs(err, ErrStaleOrUnavailableSample, payload)
	}

	// a meter reading cannot go backwards below zero
	_, err := ParseMeterPayload([]byte("-5"))
	assert.ErrorIs(err, ErrStaleOrUnavailableSample)
}

func TestParseMeterPayloadGarbage(t *testing.T) {

	assert := assert.New(t)

	_, err := ParseMeterPayload([]byte("12,5 kWh"))
	assert.Error(err)
	assert.NotErrorIs(err, ErrStaleOrUnavailableSample)
}
