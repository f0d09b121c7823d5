package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// MovementUseCase registra ingresos/salidas y consulta el historial (append-only).
type MovementUseCase struct {
	txRunner  TxRunner
	medRepo   repository.MedicationRepository
	movRepo   repository.MovementRepository
	publisher MovementPublisher
	clock     Clock
	log       *logger.Logger
}

// NewMovementUseCase construye el caso de uso. publisher nil = NopPublisher.
func NewMovementUseCase(
	txRunner TxRunner,
	medRepo repository.MedicationRepository,
	movRepo repository.MovementRepository,
	publisher MovementPublisher,
	clock Clock,
	log *logger.Logger,
) *MovementUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &MovementUseCase{
		txRunner:  txRunner,
		medRepo:   medRepo,
		movRepo:   movRepo,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

// Register valida la entrada, ajusta el stock y agrega el movimiento al historial.
// Una SALIDA que dejaría el stock en negativo se rechaza con *domain.StockError.
func (uc *MovementUseCase) Register(ctx context.Context, operator string, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	mov, err := uc.buildMovement(operator, in)
	if err != nil {
		return nil, err
	}

	med, err := uc.medRepo.GetByID(ctx, mov.MedicationID)
	if err != nil {
		return nil, err
	}
	if med == nil || !med.Active() {
		return nil, domain.WithMessage(domain.ErrNotFound, MsgMedicationNotFound)
	}

	var restock *entity.RestockInfo
	if mov.Type == entity.MovementTypeIN && (med.LastRestock == nil || !mov.Date.Before(med.LastRestock.Date)) {
		restock = &entity.RestockInfo{Date: mov.Date, ExpiryDate: mov.ExpiryDate, Lot: mov.Notes}
	}

	var updated *entity.Medication
	err = uc.txRunner.Run(ctx, func(medRepo repository.MedicationRepository, movRepo repository.MovementRepository) error {
		var err error
		updated, err = medRepo.AdjustQuantity(ctx, mov.MedicationID, mov.Delta(), restock)
		if err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, mov, updated)

	return &dto.RegisterMovementResponse{
		ID:           mov.ID,
		Message:      "Movimiento registrado",
		CurrentStock: updated.Quantity,
	}, nil
}

func (uc *MovementUseCase) buildMovement(operator string, in dto.RegisterMovementRequest) (*entity.Movement, error) {
	in.MedicationID = strings.TrimSpace(in.MedicationID)
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	in.Shift = strings.ToUpper(strings.TrimSpace(in.Shift))

	if in.MedicationID == "" {
		return nil, domain.NewValidationError("medicamento_id", "es requerido")
	}
	if !entity.ValidMovementType(in.Type) {
		return nil, domain.NewValidationError("tipo", "debe ser INGRESO o SALIDA")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("cantidad", "debe ser mayor a 0")
	}
	if !entity.ValidShift(in.Shift) {
		return nil, domain.NewValidationError("turno", "debe ser M, T o N")
	}

	now := uc.clock.Now()
	date := entity.Day(now)
	if strings.TrimSpace(in.Date) != "" {
		d, err := ParseDate("fecha", in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	expiry, err := parseOptionalDate("fecha_vencimiento", in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if operator == "" {
		operator = "anonimo"
	}

	return &entity.Movement{
		ID:           uuid.New().String(),
		MedicationID: in.MedicationID,
		Type:         in.Type,
		Quantity:     in.Quantity,
		Date:         date,
		Shift:        in.Shift,
		ExpiryDate:   expiry,
		Notes:        strings.TrimSpace(in.Notes),
		Operator:     operator,
		RecordedAt:   now.UTC(),
	}, nil
}

// publish es best effort: el movimiento ya quedó persistido.
func (uc *MovementUseCase) publish(ctx context.Context, mov *entity.Movement, med *entity.Medication) {
	event := MovementEvent{
		MovementID:     mov.ID,
		MedicationID:   mov.MedicationID,
		MedicationName: med.Name,
		Type:           mov.Type,
		Quantity:       mov.Quantity,
		Date:           mov.Date.Format(entity.DateLayout),
		Shift:          mov.Shift,
		Operator:       mov.Operator,
		StockAfter:     med.Quantity,
		BelowThreshold: med.BelowThreshold(),
		RecordedAt:     mov.RecordedAt,
	}
	if err := uc.publisher.PublishMovement(ctx, event); err != nil {
		uc.log.Warn().Err(err).
			Str("movement_id", mov.ID).
			Str("medication_id", mov.MedicationID).
			Msg("no se pudo publicar el movimiento")
	}
}

// History devuelve el historial filtrado, más reciente primero, con el nombre de cada medicamento.
func (uc *MovementUseCase) History(ctx context.Context, in dto.MovementHistoryRequest) ([]dto.MovementResponse, error) {
	filter := repository.MovementFilter{
		MedicationID: strings.TrimSpace(in.MedicationID),
		Type:         strings.ToUpper(strings.TrimSpace(in.Type)),
		Limit:        in.Limit,
	}
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return nil, domain.NewValidationError("tipo", "debe ser INGRESO o SALIDA")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	var err error
	if filter.From, err = parseOptionalDate("desde", in.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate("hasta", in.To); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("hasta", "debe ser posterior a desde")
	}

	movements, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return []dto.MovementResponse{}, nil
	}

	ids := make([]string, 0, len(movements))
	seen := make(map[string]bool, len(movements))
	for _, m := range movements {
		if !seen[m.MedicationID] {
			seen[m.MedicationID] = true
			ids = append(ids, m.MedicationID)
		}
	}
	meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{IncludeDeleted: true, IDs: ids})
	if err != nil {
		return nil, err
	}
	names := namesByID(meds)

	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		name, ok := names[m.MedicationID]
		if !ok {
			name = UnknownMedication
		}
		out = append(out, toMovementResponse(m, name))
	}
	return out, nil
}
