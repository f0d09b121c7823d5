package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

// DefaultMedications dotación estándar del carro, en el orden de los cajones.
var DefaultMedications = []string{
	"Acido valproico", "Amiodarona", "Atracurio", "Atropina",
	"Bicarbonato", "Clorfeniramida", "Cloruro de potasio", "Cloruro de sodio",
	"Dexametazona", "Diclofenaco", "Dicynone", "Diazepam", "Dimenhidrato",
	"Dipirona", "Dobutamina", "Efedrina", "Fentanil", "Flumazenil", "Fenitoina",
	"Fenobarbital", "Furosemida", "Gronisetron", "Gluconato de calcio",
	"Hidrocortizona", "Lidocaina", "Metilpredisona", "Metoclopramida",
	"Midazolan", "Morfina", "Norestimina", "Rosiverina", "Sulfato de magnecio",
}

// sampleRestocks cantidad de medicamentos que reciben un ingreso en los datos de prueba.
const sampleRestocks = 5

// SeedResult resumen de una carga.
type SeedResult struct {
	Created []*dto.MedicationResponse
	Skipped []string // nombres que ya existían
}

// SeedUseCase carga la dotación inicial y los datos de prueba.
type SeedUseCase struct {
	medications *MedicationUseCase
	movements   *MovementUseCase
}

// NewSeedUseCase construye el caso de uso.
func NewSeedUseCase(medications *MedicationUseCase, movements *MovementUseCase) *SeedUseCase {
	return &SeedUseCase{medications: medications, movements: movements}
}

// Seed crea cada nombre con stock mínimo por defecto. Los nombres vacíos se ignoran
// y los que ya existen se reportan en Skipped sin abortar la carga.
func (uc *SeedUseCase) Seed(ctx context.Context, operator string, names []string) (*SeedResult, error) {
	res := &SeedResult{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		med, err := uc.medications.Create(ctx, operator, dto.CreateMedicationRequest{Name: name})
		if errors.Is(err, domain.ErrDuplicate) {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed %q: %w", name, err)
		}
		res.Created = append(res.Created, med)
	}
	return res, nil
}

// SampleData carga la dotación estándar y registra un ingreso de turno M
// en los primeros medicamentos creados (50, 60, 70...).
func (uc *SeedUseCase) SampleData(ctx context.Context, operator string) (*dto.SampleDataResponse, error) {
	res, err := uc.Seed(ctx, operator, DefaultMedications)
	if err != nil {
		return nil, err
	}
	n := min(sampleRestocks, len(res.Created))
	for i := 0; i < n; i++ {
		_, err := uc.movements.Register(ctx, operator, dto.RegisterMovementRequest{
			MedicationID: res.Created[i].ID,
			Type:         entity.MovementTypeIN,
			Quantity:     50 + i*10,
			Shift:        entity.ShiftMorning,
			Notes:        fmt.Sprintf("Ingreso inicial %d", i+1),
		})
		if err != nil {
			return nil, err
		}
	}
	return &dto.SampleDataResponse{
		Message:     "Datos de prueba creados",
		Medications: len(res.Created),
		Movements:   n,
	}, nil
}
