package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles de operador.
const (
	RoleAdmin      = "admin"      // gestiona el catálogo de medicamentos
	RoleEnfermeria = "enfermeria" // registra ingresos y salidas
)

// Claims incluye los claims estándar JWT más los datos del operador.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Operator identidad extraída de un token válido.
type Operator struct {
	UserID string
	Email  string
	Role   string
}

// Name devuelve el identificador a registrar en los movimientos (email, o user_id si no hay email).
func (o Operator) Name() string {
	if o.Email != "" {
		return o.Email
	}
	return o.UserID
}

// Generate genera un token JWT firmado para el operador.
func Generate(secret string, op Operator, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   op.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: op.UserID,
		Email:  op.Email,
		Role:   op.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el operador.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Operator, error) {
	if secret == "" {
		return Operator{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Operator{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Operator{}, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return Operator{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
