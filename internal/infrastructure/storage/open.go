// Package storage selecciona el backend de persistencia según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/memory"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/mongodb"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/postgres"
	"github.com/jhoicas/carro-urgencias/pkg/config"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

// Backend repositorios y unidad de trabajo del driver elegido.
type Backend struct {
	Driver      string
	Medications repository.MedicationRepository
	Movements   repository.MovementRepository
	Users       repository.UserRepository
	Tx          inventory.TxRunner
	pinger      repository.Pinger
	close       func(context.Context) error
}

// Ping comprueba la conexión del backend.
func (b *Backend) Ping(ctx context.Context) error { return b.pinger.Ping(ctx) }

// Close libera las conexiones.
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open conecta el backend configurado y prepara índices o esquema.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		log.Info().Str("db", cfg.Mongo.Database).Bool("transactions", cfg.Mongo.Transactions).Msg("conectado a MongoDB")
		return &Backend{
			Driver:      config.DriverMongo,
			Medications: store.Medications(),
			Movements:   store.Movements(),
			Users:       store.Users(),
			Tx:          store,
			pinger:      store,
			close:       store.Close,
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("conectado a PostgreSQL")
		tx := postgres.NewTxRunner(pool)
		return &Backend{
			Driver:      config.DriverPostgres,
			Medications: postgres.NewMedicationRepository(pool),
			Movements:   postgres.NewMovementRepository(pool),
			Users:       postgres.NewUserRepository(pool),
			Tx:          tx,
			pinger:      tx,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &Backend{
			Driver:      config.DriverMemory,
			Medications: store.Medications(),
			Movements:   store.Movements(),
			Users:       store.Users(),
			Tx:          store,
			pinger:      store,
		}, nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Store.Driver)
}
