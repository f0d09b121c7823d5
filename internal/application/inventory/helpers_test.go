package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/memory"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// recordingPublisher guarda los eventos; err != nil simula un broker caído.
type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.MovementEvent
	err    error
}

func (p *recordingPublisher) PublishMovement(_ context.Context, e inventory.MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

var errBroker = errors.New("broker no disponible")

type fixture struct {
	store       *memory.Store
	publisher   *recordingPublisher
	movements   *inventory.MovementUseCase
	medications *inventory.MedicationUseCase
	inventory   *inventory.InventoryUseCase
}

// now: 15 de marzo de 2024, 10:30 hora local del carro.
var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	pub := &recordingPublisher{}
	clock := fixedClock{t: now}
	movs := inventory.NewMovementUseCase(s, s.Medications(), s.Movements(), pub, clock, logger.Nop())
	return &fixture{
		store:       s,
		publisher:   pub,
		movements:   movs,
		medications: inventory.NewMedicationUseCase(s.Medications(), movs, clock),
		inventory:   inventory.NewInventoryUseCase(s.Medications(), s.Movements(), clock),
	}
}

func intPtr(v int) *int { return &v }

func (f *fixture) createMed(t *testing.T, name string, minStock, initial int) *dto.MedicationResponse {
	t.Helper()
	med, err := f.medications.Create(context.Background(), "tester", dto.CreateMedicationRequest{
		Name: name, Unit: "ampolla", MinStock: intPtr(minStock), InitialStock: initial,
	})
	require.NoError(t, err)
	return med
}

func (f *fixture) dispense(t *testing.T, medID string, qty int, date, shift string) {
	t.Helper()
	_, err := f.movements.Register(context.Background(), "tester", dto.RegisterMovementRequest{
		MedicationID: medID, Type: "SALIDA", Quantity: qty, Date: date, Shift: shift,
	})
	require.NoError(t, err)
}
