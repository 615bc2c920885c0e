package loki

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockReporter struct{}

func (m *mockReporter) Error(msg string, args ...any) {
}

func Test_ConfigValidation(t *testing.T) {
	cfg := Config{}
	_, err := New(context.Background(), cfg, &mockReporter{})
	assert.Error(t, err)

	cfg.URL = "http://localhost:3100/loki/api/v1/push"
	pusher, err := New(context.Background(), cfg, &mockReporter{})
	assert.NoError(t, err)
	defer pusher.Stop()

	assert.Equal(t, cfg.URL, pusher.config.URL)
	assert.Equal(t, 1000, pusher.config.BatchLimit)
	assert.Equal(t, 5*time.Second, pusher.config.FlushInterval)
	assert.Equal(t, map[string]string{}, pusher.config.Labels)
}
