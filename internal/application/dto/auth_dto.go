package dto

import "time"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserRequest body para POST /api/auth/usuarios.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"nombre"`
	Password string `json:"password"`
	Role     string `json:"rol"` // admin | enfermeria; enfermeria por defecto
}

// UserResponse cuenta de operador sin credenciales.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"nombre"`
	Role      string    `json:"rol"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// LoginResponse token emitido y operador autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}
