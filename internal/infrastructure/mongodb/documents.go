package mongodb

import (
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

// medicationDoc documento de la colección medicamentos. Active duplica DeletedAt == nil
// para el índice parcial de nombre único.
type medicationDoc struct {
	ID          string      `bson:"_id"`
	Name        string      `bson:"name"`
	Unit        string      `bson:"unit"`
	Quantity    int         `bson:"quantity"`
	MinStock    int         `bson:"min_stock"`
	Location    string      `bson:"location"`
	Order       int         `bson:"order"`
	LastRestock *restockDoc `bson:"last_restock,omitempty"`
	Active      bool        `bson:"active"`
	CreatedAt   time.Time   `bson:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at"`
	DeletedAt   *time.Time  `bson:"deleted_at,omitempty"`
}

type restockDoc struct {
	Date       time.Time  `bson:"date"`
	ExpiryDate *time.Time `bson:"expiry_date,omitempty"`
	Lot        string     `bson:"lot,omitempty"`
}

type movementDoc struct {
	ID           string     `bson:"_id"`
	MedicationID string     `bson:"medication_id"`
	Type         string     `bson:"type"`
	Quantity     int        `bson:"quantity"`
	Date         time.Time  `bson:"date"`
	Shift        string     `bson:"shift,omitempty"`
	ExpiryDate   *time.Time `bson:"expiry_date,omitempty"`
	Notes        string     `bson:"notes,omitempty"`
	Operator     string     `bson:"operator"`
	RecordedAt   time.Time  `bson:"recorded_at"`
}

func toMedicationDoc(m *entity.Medication) medicationDoc {
	return medicationDoc{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit,
		Quantity:    m.Quantity,
		MinStock:    m.MinStock,
		Location:    m.Location,
		Order:       m.Order,
		LastRestock: toRestockDoc(m.LastRestock),
		Active:      m.Active(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   m.DeletedAt,
	}
}

func toRestockDoc(r *entity.RestockInfo) *restockDoc {
	if r == nil {
		return nil
	}
	return &restockDoc{Date: r.Date, ExpiryDate: r.ExpiryDate, Lot: r.Lot}
}

func (d medicationDoc) entity() *entity.Medication {
	m := &entity.Medication{
		ID:        d.ID,
		Name:      d.Name,
		Unit:      d.Unit,
		Quantity:  d.Quantity,
		MinStock:  d.MinStock,
		Location:  d.Location,
		Order:     d.Order,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		DeletedAt: d.DeletedAt,
	}
	if d.LastRestock != nil {
		m.LastRestock = &entity.RestockInfo{
			Date:       d.LastRestock.Date,
			ExpiryDate: d.LastRestock.ExpiryDate,
			Lot:        d.LastRestock.Lot,
		}
	}
	return m
}

func toMovementDoc(m *entity.Movement) movementDoc {
	return movementDoc{
		ID:           m.ID,
		MedicationID: m.MedicationID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		Date:         m.Date,
		Shift:        m.Shift,
		ExpiryDate:   m.ExpiryDate,
		Notes:        m.Notes,
		Operator:     m.Operator,
		RecordedAt:   m.RecordedAt,
	}
}

func (d movementDoc) entity() *entity.Movement {
	return &entity.Movement{
		ID:           d.ID,
		MedicationID: d.MedicationID,
		Type:         d.Type,
		Quantity:     d.Quantity,
		Date:         d.Date,
		Shift:        d.Shift,
		ExpiryDate:   d.ExpiryDate,
		Notes:        d.Notes,
		Operator:     d.Operator,
		RecordedAt:   d.RecordedAt,
	}
}
