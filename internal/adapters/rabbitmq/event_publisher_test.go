package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

func TestGeofenceRoutingKey(t *testing.T) {
	ev := &domain.GeofenceEvent{Type: domain.EventExited, Area: domain.MonitoredArea{ID: "area3"}}
	assert.Equal(t, "geofence.exited.area3", GeofenceRoutingKey(ev))
}
