package entity

import "time"

// User cuenta de un operador del carro (jefe de servicio o enfermería).
type User struct {
	ID           string
	Email        string // único, en minúsculas
	Name         string
	PasswordHash string // bcrypt; nunca la contraseña en claro
	Role         string // admin | enfermeria
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
