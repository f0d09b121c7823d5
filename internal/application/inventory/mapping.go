package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

// UnknownMedication nombre mostrado cuando el historial referencia un ID inexistente.
const UnknownMedication = "Desconocido"

func toMedicationResponse(m *entity.Medication) *dto.MedicationResponse {
	return &dto.MedicationResponse{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit,
		Location:    m.Location,
		Quantity:    m.Quantity,
		MinStock:    m.MinStock,
		Order:       m.Order,
		LastRestock: toRestockDTO(m.LastRestock),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toRestockDTO(r *entity.RestockInfo) *dto.RestockDTO {
	if r == nil {
		return nil
	}
	out := &dto.RestockDTO{Date: r.Date.Format(entity.DateLayout), Lot: r.Lot}
	if r.ExpiryDate != nil {
		out.ExpiryDate = r.ExpiryDate.Format(entity.DateLayout)
	}
	return out
}

func toMovementResponse(m *entity.Movement, medName string) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:             m.ID,
		MedicationID:   m.MedicationID,
		MedicationName: medName,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Date:           m.Date.Format(entity.DateLayout),
		Shift:          m.Shift,
		Notes:          m.Notes,
		Operator:       m.Operator,
		RecordedAt:     m.RecordedAt,
	}
	if m.ExpiryDate != nil {
		out.ExpiryDate = m.ExpiryDate.Format(entity.DateLayout)
	}
	return out
}

// ParseDate interpreta YYYY-MM-DD como día de calendario (UTC).
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "fecha inválida, formato esperado YYYY-MM-DD")
	}
	return t, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func namesByID(meds []*entity.Medication) map[string]string {
	names := make(map[string]string, len(meds))
	for _, m := range meds {
		names[m.ID] = m.Name
	}
	return names
}
