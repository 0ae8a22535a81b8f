package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-ipv/internal/application/dto"
	"github.com/jhoicas/gestor-ipv/internal/domain"
)

// HeaderConfirm cabecera con la que el cliente confirma una operación destructiva.
const HeaderConfirm = "X-Confirm"

// RequireConfirmation exige confirmación explícita antes de ejecutar el handler
// (cambio de día, borrado de recetas y de agregos).
//
// Acepta la cabecera X-Confirm: true o el query param confirm=true. Sin ella responde
// 428 CONFIRMATION_REQUIRED sin tocar el IPV.
func RequireConfirmation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isTrue(c.Get(HeaderConfirm)) || isTrue(c.Query("confirm")) {
			return c.Next()
		}
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ErrorResponse{
			Code:    "CONFIRMATION_REQUIRED",
			Message: domain.ErrConfirmationRequired.Error(),
		})
	}
}

func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "si", "sí", "yes":
		return true
	}
	return false
}
