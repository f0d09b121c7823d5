package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/auth"
	"github.com/jhoicas/carro-urgencias/internal/application/dto"
)

// AuthHandler login y alta de operadores.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "email y password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// RegisterUser godoc
// @Summary      Registrar operador
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterUserRequest  true  "email, nombre, password, rol"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/usuarios [post]
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var in dto.RegisterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterUser(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUsers godoc
// @Summary      Listar operadores
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/auth/usuarios [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	list, err := h.uc.ListUsers(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(list)
}
