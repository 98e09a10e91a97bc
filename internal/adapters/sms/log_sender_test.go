package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := s.Send(context.Background(), domain.SMSMessage{To: "+15550102030", Body: "hello"})
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sms simulated", rec["msg"])
	assert.Equal(t, "+15550102030", rec["to"])
	assert.Equal(t, "hello", rec["body"])
}
