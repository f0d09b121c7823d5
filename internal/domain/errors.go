package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// MessageError añade a un error de dominio el mensaje que ve el cliente.
// errors.Is sigue encontrando el error envuelto (ErrNotFound, ErrDuplicate...).
type MessageError struct {
	Err     error
	Message string
}

// WithMessage envuelve err con message. err nil devuelve nil.
func WithMessage(err error, message string) error {
	if err == nil {
		return nil
	}
	return &MessageError{Err: err, Message: message}
}

func (e *MessageError) Error() string { return e.Message }

func (e *MessageError) Unwrap() error { return e.Err }

// ValidationError describe un campo inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye el error para field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StockError rechaza un ajuste que dejaría la cantidad en negativo.
// Es a la vez un error de validación y ErrInsufficientStock.
type StockError struct {
	MedicationID string
	Available    int
	Requested    int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock) y errors.Is(err, ErrInvalidInput).
func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock || target == ErrInvalidInput
}
