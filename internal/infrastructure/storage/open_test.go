package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carro-urgencias/internal/infrastructure/storage"
	"github.com/jhoicas/carro-urgencias/pkg/config"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}

	b, err := storage.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, b.Driver)
	assert.NoError(t, b.Ping(ctx))
	assert.NotNil(t, b.Medications)
	assert.NotNil(t, b.Movements)
	assert.NotNil(t, b.Users)
	assert.NoError(t, b.Close(ctx))
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	_, err := storage.Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
