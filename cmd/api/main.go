package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/fiado-sync/internal/application/auth"
	"github.com/jhoicas/fiado-sync/internal/application/usecase"
	"github.com/jhoicas/fiado-sync/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fiado-sync/internal/interfaces/http"
	"github.com/jhoicas/fiado-sync/pkg/config"
	"github.com/jhoicas/fiado-sync/pkg/logger"
)

// logCodeSender es la entrega de OTP por defecto: solo deja rastro en el log.
// El canal real (SMS/WhatsApp) se conecta aquí cuando exista proveedor.
type logCodeSender struct {
	log *logger.Logger
}

func (s *logCodeSender) Send(phone, code string) error {
	s.log.Info().Str("phone", phone).Msg("código OTP generado")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	debtRepo := postgres.NewDebtRepository(pool)
	sadaqaRepo := postgres.NewSadaqaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	devMode := cfg.App.Env == "development"
	authUC := auth.NewAuthUseCase(userRepo, &logCodeSender{log: log}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, devMode)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	debtUC := usecase.NewDebtUseCase(debtRepo, customerRepo)
	syncUC := usecase.NewSyncUseCase(customerRepo, debtRepo)
	sadaqaUC := usecase.NewSadaqaUseCase(txRunner, debtRepo, sadaqaRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fiado Sync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CustomerUC: customerUC,
		DebtUC:     debtUC,
		SyncUC:     syncUC,
		SadaqaUC:   sadaqaUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
