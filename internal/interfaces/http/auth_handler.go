package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiado-sync/internal/application/auth"
	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain"
)

// AuthHandler maneja la autenticación por OTP.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RequestOTP godoc
// @Summary      Solicitar código OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestOTPRequest  true  "phone"
// @Success      200   {object}  dto.RequestOTPResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var in dto.RequestOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RequestOTP(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "phone es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// VerifyOTP godoc
// @Summary      Verificar código OTP y obtener token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyOTPRequest  true  "phone, code"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.VerifyOTP(in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "phone y code son requeridos"})
		case domain.ErrOTPExpired:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "OTP_EXPIRED", Message: "el código expiró, solicita uno nuevo"})
		case domain.ErrOTPMismatch:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "OTP_INVALID", Message: "código incorrecto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
