package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

// InitialStockNote observación del INGRESO generado al crear un medicamento con stock inicial.
const InitialStockNote = "Stock inicial"

// MsgMedicationNotFound mensaje para el cliente cuando el medicamento no existe o está dado de baja.
const MsgMedicationNotFound = "medicamento no encontrado"

// MedicationUseCase gestiona el catálogo del carro.
type MedicationUseCase struct {
	medRepo   repository.MedicationRepository
	movements *MovementUseCase
	clock     Clock
}

// NewMedicationUseCase construye el caso de uso.
func NewMedicationUseCase(medRepo repository.MedicationRepository, movements *MovementUseCase, clock Clock) *MedicationUseCase {
	return &MedicationUseCase{medRepo: medRepo, movements: movements, clock: clock}
}

// Create da de alta un medicamento al final del carro.
// Si InitialStock > 0 el stock entra como un INGRESO del historial, nunca como cantidad directa.
func (uc *MedicationUseCase) Create(ctx context.Context, operator string, in dto.CreateMedicationRequest) (*dto.MedicationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("nombre", "es requerido")
	}
	minStock := entity.DefaultMinStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	if minStock < 1 {
		return nil, domain.NewValidationError("stock_minimo", "debe ser al menos 1")
	}
	if in.InitialStock < 0 {
		return nil, domain.NewValidationError("stock_inicial", "no puede ser negativo")
	}

	order, err := uc.medRepo.NextOrder(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now().UTC()
	med := &entity.Medication{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      strings.TrimSpace(in.Unit),
		Location:  strings.TrimSpace(in.Location),
		MinStock:  minStock,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.medRepo.Create(ctx, med); err != nil {
		return nil, medicationError(err)
	}

	if in.InitialStock > 0 {
		_, err := uc.movements.Register(ctx, operator, dto.RegisterMovementRequest{
			MedicationID: med.ID,
			Type:         entity.MovementTypeIN,
			Quantity:     in.InitialStock,
			Notes:        InitialStockNote,
		})
		if err != nil {
			return nil, err
		}
		return uc.GetByID(ctx, med.ID)
	}
	return toMedicationResponse(med), nil
}

// Update modifica los datos descriptivos. El stock solo cambia vía movimientos.
func (uc *MedicationUseCase) Update(ctx context.Context, id string, in dto.UpdateMedicationRequest) (*dto.MedicationResponse, error) {
	med, err := uc.activeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("nombre", "no puede estar vacío")
		}
		med.Name = name
	}
	if in.Unit != nil {
		med.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Location != nil {
		med.Location = strings.TrimSpace(*in.Location)
	}
	if in.MinStock != nil {
		if *in.MinStock < 1 {
			return nil, domain.NewValidationError("stock_minimo", "debe ser al menos 1")
		}
		med.MinStock = *in.MinStock
	}
	med.UpdatedAt = uc.clock.Now().UTC()
	if err := uc.medRepo.Update(ctx, med); err != nil {
		return nil, medicationError(err)
	}
	return toMedicationResponse(med), nil
}

// Delete da de baja el medicamento. Su historial se conserva.
func (uc *MedicationUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.activeByID(ctx, id); err != nil {
		return err
	}
	return medicationError(uc.medRepo.SoftDelete(ctx, id, uc.clock.Now().UTC()))
}

// GetByID devuelve un medicamento activo.
func (uc *MedicationUseCase) GetByID(ctx context.Context, id string) (*dto.MedicationResponse, error) {
	med, err := uc.activeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMedicationResponse(med), nil
}

// List devuelve los medicamentos activos en el orden del carro.
func (uc *MedicationUseCase) List(ctx context.Context) ([]*dto.MedicationResponse, error) {
	meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MedicationResponse, 0, len(meds))
	for _, m := range meds {
		out = append(out, toMedicationResponse(m))
	}
	return out, nil
}

func (uc *MedicationUseCase) activeByID(ctx context.Context, id string) (*entity.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "es requerido")
	}
	med, err := uc.medRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if med == nil || !med.Active() {
		return nil, medicationError(domain.ErrNotFound)
	}
	return med, nil
}

// medicationError pone el mensaje de medicamento a los errores de no encontrado y duplicado.
func medicationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.WithMessage(err, MsgMedicationNotFound)
	case errors.Is(err, domain.ErrDuplicate):
		return domain.WithMessage(err, "ya existe un medicamento activo con ese nombre")
	}
	return err
}
