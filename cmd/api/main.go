package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/credipronto/originacion-api/internal/application/auth"
	"github.com/credipronto/originacion-api/internal/application/corrections"
	"github.com/credipronto/originacion-api/internal/application/documents"
	"github.com/credipronto/originacion-api/internal/application/loans"
	"github.com/credipronto/originacion-api/internal/application/onboarding"
	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/internal/infrastructure/catalog"
	"github.com/credipronto/originacion-api/internal/infrastructure/geoip"
	"github.com/credipronto/originacion-api/internal/infrastructure/notify"
	"github.com/credipronto/originacion-api/internal/infrastructure/postgres"
	"github.com/credipronto/originacion-api/internal/infrastructure/storage"
	httpRouter "github.com/credipronto/originacion-api/internal/interfaces/http"
	"github.com/credipronto/originacion-api/pkg/config"
	"github.com/credipronto/originacion-api/pkg/logger"
)

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
	applicantRepo := postgres.NewApplicantRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	employmentRepo := postgres.NewEmploymentRepository(pool)
	referenceRepo := postgres.NewReferenceRepository(pool)
	appRepo := postgres.NewApplicationRepository(pool)
	verificationRepo := postgres.NewDataVerificationRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Colaboradores externos. Redis es opcional: sin conexión se degrada al
	// notificador nulo y el flujo de negocio sigue intacto.
	var notifier ports.Notifier
	redisNotifier, err := notify.NewRedis(cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, eventos en tiempo real deshabilitados")
		notifier = notify.NopNotifier{}
	} else {
		notifier = redisNotifier
		defer redisNotifier.Close()
	}

	fileStorage, err := storage.NewMinio(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento de documentos")
	}

	geo := geoip.New(cfg.GeoIP, log)
	productCatalog := catalog.New(cfg.Policy)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	onboardingUC := onboarding.NewUseCase(
		applicantRepo, addressRepo, employmentRepo, referenceRepo, appRepo, auditRepo,
		onboarding.Policy{MaxReferences: cfg.Policy.MaxReferences},
		log,
	)
	loansUC := loans.NewUseCase(
		txRunner, appRepo, applicantRepo, addressRepo, employmentRepo, referenceRepo, documentRepo,
		productCatalog, notifier, geo,
		loans.Policy{MinReferences: cfg.Policy.MinReferences, MaxReferences: cfg.Policy.MaxReferences},
		log,
	)
	reconciler := corrections.NewReconciler(cfg.Policy.FullNameLabel, log)
	correctionsUC := corrections.NewUseCase(
		txRunner, verificationRepo, applicantRepo, reconciler, notifier, geo,
		cfg.Policy.FullNameLabel, log,
	)
	documentsUC := documents.NewUseCase(
		txRunner, documentRepo, appRepo, fileStorage, reconciler, notifier, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		OnboardingUC:  onboardingUC,
		LoansUC:       loansUC,
		CorrectionsUC: correctionsUC,
		DocumentsUC:   documentsUC,
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
