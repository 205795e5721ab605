package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/vendor-admin-api/internal/application/auth"
	"github.com/jhoicas/vendor-admin-api/internal/application/document"
	"github.com/jhoicas/vendor-admin-api/internal/application/onboarding"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/pkg/logger"
	"github.com/jhoicas/vendor-admin-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	VendorUC      *onboarding.VendorUseCase
	Intake        *document.Intake
	Tokens        TokenVerifier
	Metrics       *metrics.Metrics // opcional
	DB            Pinger           // opcional; nil con almacenamiento en memoria
	Logger        *logger.Logger
	ServiceName   string
	UploadTimeout time.Duration
	Now           func() time.Time
}

// ServerConfig parámetros del servidor Fiber.
type ServerConfig struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

// NewApp construye la aplicación Fiber con el traductor de errores, los middlewares
// transversales y todas las rutas.
func NewApp(cfg ServerConfig, deps RouterDeps) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	errHandler := ErrorHandler(deps.Logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errHandler,
		// el upload se consume en streaming; el tope real lo aplica document.Intake
		StreamRequestBody:     true,
		BodyLimit:             int(document.MaxFileSize) + 1<<20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}
	app.Use(RequestLogger(deps.Logger, errHandler))
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PATCH,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + HeaderRequestID,
		ExposeHeaders: HeaderRequestID,
	}))

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.ServiceName, deps.DB)
	app.Get("/health", health.Live)
	app.Get("/health/ready", health.Ready)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	vendorHandler := NewVendorHandler(deps.VendorUC)

	// Solicitud de vendedor (público)
	api.Post("/vendors", vendorHandler.Apply)

	// Auth (público)
	admin := api.Group("/admin")
	authHandler := NewAuthHandler(deps.AuthUC)
	admin.Post("/register", authHandler.Register)
	admin.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := admin.Group("", AuthMiddleware(deps.Tokens, deps.Now), RequireRole(entity.RoleAdmin))
	protected.Get("/me", authHandler.Me)

	vendors := protected.Group("/vendors")
	vendors.Get("/pending", vendorHandler.ListPending)
	vendors.Get("/:id", vendorHandler.GetByID)
	vendors.Patch("/:id", vendorHandler.UpdateStatus)
	vendors.Get("/:id/audit", vendorHandler.AuditTrail)

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Intake, deps.UploadTimeout)
	documents.Post("/upload", documentHandler.Upload)
	documents.Get("/:key", documentHandler.Get)
}
