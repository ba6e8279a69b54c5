package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiado-sync/internal/application/auth"
	"github.com/jhoicas/fiado-sync/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CustomerUC *usecase.CustomerUseCase
	DebtUC     *usecase.DebtUseCase
	SyncUC     *usecase.SyncUseCase
	SadaqaUC   *usecase.SadaqaUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/request-otp", authHandler.RequestOTP)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Debts (protegido)
	debts := protected.Group("/debts")
	debtHandler := NewDebtHandler(deps.DebtUC)
	debts.Post("/", debtHandler.Create)
	debts.Get("/", debtHandler.List)
	debts.Put("/:id", debtHandler.Update)
	debts.Delete("/:id", debtHandler.Delete)
	debts.Post("/pay", debtHandler.Pay)

	// Sync (protegido): el protocolo que habla el agente del dispositivo
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncUC)
	syncGroup.Post("/push", syncHandler.Push)
	syncGroup.Get("/pull", syncHandler.Pull)

	// Sadaqa (protegido)
	sadaqa := protected.Group("/sadaqa")
	sadaqaHandler := NewSadaqaHandler(deps.SadaqaUC)
	sadaqa.Get("/queue", sadaqaHandler.Queue)
	sadaqa.Post("/opt-in", sadaqaHandler.OptIn)
	sadaqa.Post("/opt-out", sadaqaHandler.OptOut)
	sadaqa.Post("/donate", sadaqaHandler.Donate)
	sadaqa.Get("/history", sadaqaHandler.History)
	sadaqa.Get("/received", sadaqaHandler.Received)
}
