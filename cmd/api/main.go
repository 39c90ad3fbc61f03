package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/application/auth"
	appreports "github.com/tu-usuario/retencion-ar/internal/application/reports"
	appsicore "github.com/tu-usuario/retencion-ar/internal/application/sicore"
	"github.com/tu-usuario/retencion-ar/internal/application/usecase"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
	"github.com/tu-usuario/retencion-ar/internal/domain/tax"
	infrapdf "github.com/tu-usuario/retencion-ar/internal/infrastructure/pdf"
	"github.com/tu-usuario/retencion-ar/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/retencion-ar/internal/interfaces/http"
	"github.com/tu-usuario/retencion-ar/pkg/config"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	repos := postgres.NewRepos(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	vatRate, err := decimal.NewFromString(cfg.AFIP.AssumedVATRate)
	if err != nil || vatRate.IsNegative() || vatRate.IsZero() {
		vatRate = tax.DefaultAssumedVATRate
	}

	companyUC := usecase.NewCompanyUseCase(repos.Companies)
	regimeUC := usecase.NewRegimeUseCase(repos.Regimes)
	partyUC := usecase.NewPartyUseCase(repos.Parties)
	withholdingUC := withholding.NewUseCase(repos, txRunner, log.Component("withholding"), vatRate)
	sicoreUC := appsicore.NewUseCase(repos, log.Component("sicore"))
	certGenerator := infrapdf.NewMarotoCertificateGenerator()
	reportsUC := appreports.NewUseCase(repos, certGenerator, log.Component("reports"))
	authUC := auth.NewAuthUseCase(userRepo, repos.Companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		RegimeUC:      regimeUC,
		PartyUC:       partyUC,
		WithholdingUC: withholdingUC,
		SICOREUC:      sicoreUC,
		ReportsUC:     reportsUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
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
