package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facex/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facex/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facex/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facex/internal/api/web"
	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

// maxBodySize bounds a whole upload batch, not a single file.
const maxBodySize = 64 * 1024 * 1024

type Dependencies struct {
	Store    *session.Store
	Analyzer handler.Analyzer
	Compiler handler.Compiler
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "FaceX API",
		BodyLimit:    maxBodySize,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Browser dashboard
	r.app.Get("/", web.Handler())

	v1 := r.app.Group("/v1")

	if r.deps != nil {
		imagesHandler := handler.NewImagesHandler(r.deps.Store, r.deps.Analyzer, r.logger)
		reportHandler := handler.NewReportHandler(r.deps.Store, r.deps.Compiler, r.logger)
		sessionHandler := handler.NewSessionHandler(r.deps.Store, r.logger)

		v1.Post("/images", imagesHandler.Upload)
		v1.Get("/images", imagesHandler.List)
		v1.Get("/images/:id", imagesHandler.Get)
		v1.Get("/images/:id/raw", imagesHandler.Raw)
		v1.Post("/images/:id/analyze", imagesHandler.Analyze)

		v1.Get("/report", reportHandler.Generate)
		v1.Delete("/session", sessionHandler.Clear)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
