package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pattern = "shield/users/+/location"

func TestTopicUser(t *testing.T) {
	user, ok := TopicUser(pattern, "shield/users/u-42/location")
	require.True(t, ok)
	assert.Equal(t, "u-42", user)

	for _, topic := range []string{
		"shield/users//location",
		"shield/users/u-42",
		"shield/devices/u-42/location",
		"shield/users/u-42/location/extra",
	} {
		_, ok := TopicUser(pattern, topic)
		assert.False(t, ok, topic)
	}
}

func TestDecodeLocation(t *testing.T) {
	u, err := DecodeLocation(pattern, "shield/users/u1/location",
		[]byte(`{"latitude":40.7505,"longitude":-73.9934,"accuracy":5,"timestamp":"2026-10-19T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.Subject)
	_, ok := u.Sample.Position()
	assert.True(t, ok)

	denied, err := DecodeLocation(pattern, "shield/users/u1/location",
		[]byte(`{"error":"User denied Geolocation","timestamp":"2026-10-19T12:00:00Z"}`))
	require.NoError(t, err)
	_, ok = denied.Sample.Position()
	assert.False(t, ok)

	_, err = DecodeLocation(pattern, "shield/users/u1/location", []byte(`not json`))
	assert.Error(t, err)
}

func TestNewLocationSubscriber_RejectsPattern(t *testing.T) {
	_, err := NewLocationSubscriber(nil, "shield/users/#")
	assert.Error(t, err)
	_, err = NewLocationSubscriber(nil, "shield/+/+/location")
	assert.Error(t, err)
}
