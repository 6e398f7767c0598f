package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolConfig_Defaults(t *testing.T) {
	cfg, err := newPoolConfig("postgres://survey:pw@localhost:5432/survey_engine", 0)
	require.NoError(t, err)

	assert.Equal(t, int32(defaultMaxConns), cfg.MaxConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)
}

func TestNewPoolConfig_ExplicitMaxConns(t *testing.T) {
	cfg, err := newPoolConfig("postgres://survey:pw@localhost:5432/survey_engine", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), cfg.MaxConns)
}

func TestNewConnection_InvalidConnString(t *testing.T) {
	_, err := NewConnection(context.Background(), "://not-a-connection-string", 0)
	require.Error(t, err)
}
