package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/carro-urgencias/internal/domain/inventory"
)

func TestStockStatus(t *testing.T) {
	cases := []struct {
		name     string
		stock    int
		min      int
		expected string
	}{
		{"sin stock", 0, 10, inventory.StatusOut},
		{"igual al mínimo", 10, 10, inventory.StatusCritical},
		{"bajo el mínimo", 3, 10, inventory.StatusCritical},
		{"límite de bajo", 15, 10, inventory.StatusLow},
		{"sobre 1.5x", 16, 10, inventory.StatusOK},
		{"mínimo impar", 7, 5, inventory.StatusLow},
		{"mínimo impar ok", 8, 5, inventory.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, inventory.StockStatus(tc.stock, tc.min))
		})
	}
}

func TestIsAlert(t *testing.T) {
	assert.True(t, inventory.IsAlert(10, 10))
	assert.False(t, inventory.IsAlert(11, 10))
}

func TestDailyAverage(t *testing.T) {
	assert.Equal(t, "3.33", inventory.DailyAverage(100, 30).StringFixed(2))
	assert.True(t, inventory.DailyAverage(5, 0).IsZero(), "días <= 0 no debe dividir por cero")
}
