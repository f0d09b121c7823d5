package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
	"github.com/jhoicas/carro-urgencias/pkg/jwt"
)

// minPasswordLength longitud mínima de contraseña.
const minPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de operadores y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	clock    inventory.Clock
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, clock inventory.Clock) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, clock: clock}
}

// RegisterUser crea un operador: hashea password con bcrypt y persiste.
// Devuelve domain.ErrDuplicate si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "email inválido")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "debe tener al menos 8 caracteres")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = jwt.RoleEnfermeria
	}
	if role != jwt.RoleAdmin && role != jwt.RoleEnfermeria {
		return nil, domain.NewValidationError("rol", "debe ser admin o enfermeria")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.WithMessage(err, "ya existe un operador con ese email")
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y contraseña incorrecta responden igual (ErrUnauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.jwtCfg.Secret == "" {
		return nil, domain.NewValidationError("", "autenticación deshabilitada: JWT_SECRET no está definido")
	}
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	op := jwt.Operator{UserID: user.ID, Email: user.Email, Role: user.Role}
	token, err := jwt.Generate(uc.jwtCfg.Secret, op, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ListUsers devuelve las cuentas ordenadas por email.
func (uc *AuthUseCase) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
