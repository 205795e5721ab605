package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/vendor-admin-api/internal/application/auth"
	"github.com/jhoicas/vendor-admin-api/internal/application/document"
	"github.com/jhoicas/vendor-admin-api/internal/application/onboarding"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
	"github.com/jhoicas/vendor-admin-api/internal/infrastructure/memory"
	"github.com/jhoicas/vendor-admin-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/vendor-admin-api/internal/interfaces/http"
	"github.com/jhoicas/vendor-admin-api/pkg/config"
	pkgjwt "github.com/jhoicas/vendor-admin-api/pkg/jwt"
	"github.com/jhoicas/vendor-admin-api/pkg/logger"
	"github.com/jhoicas/vendor-admin-api/pkg/metrics"
	"github.com/jhoicas/vendor-admin-api/pkg/password"
)

// storage repositorios elegidos según STORAGE_DRIVER.
type storage struct {
	admins  repository.AdminRepository
	vendors repository.VendorRepository
	audits  repository.AuditLogRepository
	tx      onboarding.TxRunner
	db      httpRouter.Pinger
	close   func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	tokens, err := pkgjwt.NewService(pkgjwt.Config{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL(),
		Issuer: cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de tokens")
	}

	m := metrics.New()
	authUC := auth.NewAuthUseCase(store.admins, password.NewHasher(), tokens, nil)
	vendorUC := onboarding.NewVendorUseCase(store.vendors, store.audits, store.tx,
		onboarding.WithPhoneRegion(cfg.Vendors.PhoneRegion),
		onboarding.WithTransitionRecorder(m),
	)

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
	}, httpRouter.RouterDeps{
		AuthUC:        authUC,
		VendorUC:      vendorUC,
		Intake:        document.NewIntake(),
		Tokens:        tokens,
		Metrics:       m,
		DB:            store.db,
		Logger:        log,
		ServiceName:   cfg.App.Name,
		UploadTimeout: cfg.Upload.Timeout,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Vendor Admin API",
		}))
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			admins:  memory.NewAdminRepository(s),
			vendors: memory.NewVendorRepository(s),
			audits:  memory.NewAuditLogRepository(s),
			tx:      memory.NewTxRunner(s),
			close:   func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		admins:  postgres.NewAdminRepository(pool),
		vendors: postgres.NewVendorRepository(pool),
		audits:  postgres.NewAuditLogRepository(pool),
		tx:      postgres.NewTxRunner(pool),
		db:      pool,
		close:   pool.Close,
	}, nil
}

func migrateUp(dsn string) error {
	mg, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}
