package natsadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "shield.location.user-1", LocationSubject("user-1"))
	assert.Equal(t, "shield.geofence.a_b.entered", GeofenceSubject("a.b", "entered"))
	assert.Equal(t, "shield.geofence.u1.>", GeofenceUserWildcard("u1"))
	assert.Equal(t, "shield.notify._", NotifySubject(""))
	assert.Equal(t, "x_y_z_w", Token("x*y>z w"))
}

func TestSubjectUser(t *testing.T) {
	user, ok := SubjectUser("shield.geofence.u1.entered", GeofenceSubjectPrefix)
	require.True(t, ok)
	assert.Equal(t, "u1", user)

	_, ok = SubjectUser("shield.location.", LocationSubjectPrefix)
	assert.False(t, ok)
	_, ok = SubjectUser("other.location.u1", LocationSubjectPrefix)
	assert.False(t, ok)
}

func TestDecodeLocation(t *testing.T) {
	u, err := DecodeLocation("shield.location.u1", []byte(`{"latitude":40.7589,"longitude":-73.9851,"accuracy":12,"timestamp":"2026-10-19T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.Subject)
	pos, ok := u.Sample.Position()
	require.True(t, ok)
	assert.InDelta(t, 40.7589, pos.Latitude, 1e-9)

	_, err = DecodeLocation("shield.location.u1", []byte(`{`))
	assert.Error(t, err)
	_, err = DecodeLocation("shield.reports.submitted", []byte(`{}`))
	assert.Error(t, err)
}
