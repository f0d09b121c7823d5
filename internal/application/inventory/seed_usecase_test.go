package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
)

func TestSeed_RespetaOrdenYOmiteExistentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createMed(t, "Atropina", 10, 0)

	seed := inventory.NewSeedUseCase(f.medications, f.movements)
	res, err := seed.Seed(ctx, "tester", []string{"Adrenalina", " ", "atropina", "Morfina"})
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Equal(t, []string{"atropina"}, res.Skipped)
	assert.Equal(t, "Adrenalina", res.Created[0].Name)
	assert.Equal(t, 10, res.Created[0].MinStock)
	assert.Less(t, res.Created[0].Order, res.Created[1].Order)
}

func TestSampleData_CreaDotacionEIngresos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := inventory.NewSeedUseCase(f.medications, f.movements)

	out, err := seed.SampleData(ctx, "tester")
	require.NoError(t, err)
	assert.Equal(t, len(inventory.DefaultMedications), out.Medications)
	assert.Equal(t, 5, out.Movements)

	history, err := f.movements.History(ctx, dto.MovementHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, history, 5)
	for _, m := range history {
		assert.Equal(t, "INGRESO", m.Type)
		assert.Equal(t, "M", m.Shift)
	}

	meds, err := f.medications.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acido valproico", meds[0].Name)
	assert.Equal(t, 50, meds[0].Quantity)
	assert.Equal(t, 90, meds[4].Quantity)
	assert.Zero(t, meds[5].Quantity)

	// Una segunda carga no duplica medicamentos ni registra ingresos.
	again, err := seed.SampleData(ctx, "tester")
	require.NoError(t, err)
	assert.Zero(t, again.Medications)
	assert.Zero(t, again.Movements)
}
