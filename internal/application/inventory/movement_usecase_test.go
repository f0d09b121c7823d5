package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

func TestRegister_UpdatesStockAndPublishes(t *testing.T) {
	f := newFixture(t)
	med := f.createMed(t, "Adrenalina", 5, 10)

	res, err := f.movements.Register(context.Background(), "enf@hospital.org", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "salida", Quantity: 4, Shift: "t",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.CurrentStock)
	assert.NotEmpty(t, res.ID)

	// el INGRESO inicial y la SALIDA
	require.Len(t, f.publisher.events, 2)
	ev := f.publisher.events[1]
	assert.Equal(t, "SALIDA", ev.Type)
	assert.Equal(t, "T", ev.Shift)
	assert.Equal(t, "2024-03-15", ev.Date)
	assert.Equal(t, 6, ev.StockAfter)
	assert.False(t, ev.BelowThreshold)
	assert.Equal(t, "enf@hospital.org", ev.Operator)
}

func TestRegister_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	med := f.createMed(t, "Atropina", 5, 3)

	_, err := f.movements.Register(context.Background(), "", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "SALIDA", Quantity: 5,
	})
	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.medications.GetByID(context.Background(), med.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	n, err := f.store.Movements().Count(context.Background(), repository.MovementFilter{MedicationID: med.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "solo el ingreso inicial")
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	med := f.createMed(t, "Amiodarona", 5, 0)

	cases := []struct {
		name  string
		in    dto.RegisterMovementRequest
		field string
	}{
		{"sin medicamento", dto.RegisterMovementRequest{Type: "INGRESO", Quantity: 1}, "medicamento_id"},
		{"tipo inválido", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "AJUSTE", Quantity: 1}, "tipo"},
		{"cantidad cero", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "INGRESO"}, "cantidad"},
		{"cantidad negativa", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "INGRESO", Quantity: -2}, "cantidad"},
		{"turno inválido", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "INGRESO", Quantity: 1, Shift: "X"}, "turno"},
		{"fecha inválida", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "INGRESO", Quantity: 1, Date: "15/03/2024"}, "fecha"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.movements.Register(context.Background(), "", tc.in)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "se esperaba ValidationError, got %v", err)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestRegister_UnknownOrDeletedMedication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.movements.Register(ctx, "", dto.RegisterMovementRequest{MedicationID: "nope", Type: "INGRESO", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	med := f.createMed(t, "Dopamina", 5, 0)
	require.NoError(t, f.medications.Delete(ctx, med.ID))
	_, err = f.movements.Register(ctx, "", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "INGRESO", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegister_RestockKeepsLatestDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	med := f.createMed(t, "Naloxona", 2, 0)

	_, err := f.movements.Register(ctx, "", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "INGRESO", Quantity: 5, Date: "2024-03-10", ExpiryDate: "2025-01-31", Notes: "L-01",
	})
	require.NoError(t, err)
	_, err = f.movements.Register(ctx, "", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "INGRESO", Quantity: 5, Date: "2024-03-01", Notes: "L-00",
	})
	require.NoError(t, err)

	got, err := f.medications.GetByID(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	require.NotNil(t, got.LastRestock)
	assert.Equal(t, "2024-03-10", got.LastRestock.Date)
	assert.Equal(t, "2025-01-31", got.LastRestock.ExpiryDate)
	assert.Equal(t, "L-01", got.LastRestock.Lot)
}

func TestRegister_PublisherFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	med := f.createMed(t, "Midazolam", 2, 4)
	f.publisher.err = errBroker

	res, err := f.movements.Register(context.Background(), "", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "SALIDA", Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.CurrentStock)
}

func TestHistory_FiltersAndNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createMed(t, "Adenosina", 2, 10)
	b := f.createMed(t, "Bicarbonato", 2, 10)
	f.dispense(t, a.ID, 1, "2024-03-12", "M")
	f.dispense(t, b.ID, 2, "2024-03-14", "N")
	require.NoError(t, f.medications.Delete(ctx, b.ID))

	all, err := f.movements.History(ctx, dto.MovementHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2024-03-15", all[0].Date)
	assert.Equal(t, "2024-03-14", all[2].Date)
	assert.Equal(t, "Bicarbonato", all[2].MedicationName, "el nombre se resuelve aunque esté dado de baja")

	outs, err := f.movements.History(ctx, dto.MovementHistoryRequest{Type: "salida", From: "2024-03-13"})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, b.ID, outs[0].MedicationID)

	_, err = f.movements.History(ctx, dto.MovementHistoryRequest{Type: "OTRO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.movements.History(ctx, dto.MovementHistoryRequest{From: "2024-03-10", To: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_UnknownMedicationName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.store.Run(ctx, func(_ repository.MedicationRepository, movRepo repository.MovementRepository) error {
		return movRepo.Create(ctx, &entity.Movement{
			ID: "huerfano", MedicationID: "borrado-hace-tiempo", Type: entity.MovementTypeOUT, Quantity: 1, Date: now,
		})
	})
	require.NoError(t, err)

	got, err := f.movements.History(ctx, dto.MovementHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inventory.UnknownMedication, got[0].MedicationName)
}
