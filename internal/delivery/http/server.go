package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/place-directory/internal/config"
	"github.com/place-directory/internal/delivery/http/handler"
	"github.com/place-directory/internal/delivery/http/middleware"
)

// Server is the Fiber HTTP server.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	locationHandler *handler.LocationHandler
	reviewHandler   *handler.ReviewHandler
	userHandler     *handler.UserHandler
	featureHandler  *handler.FeatureHandler
	pictureHandler  *handler.PictureHandler
	userResolver    middleware.UserResolver
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userResolver middleware.UserResolver,
	locationHandler *handler.LocationHandler,
	reviewHandler *handler.ReviewHandler,
	userHandler *handler.UserHandler,
	featureHandler *handler.FeatureHandler,
	pictureHandler *handler.PictureHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Place Directory",
		BodyLimit:    12 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		locationHandler: locationHandler,
		reviewHandler:   reviewHandler,
		userHandler:     userHandler,
		featureHandler:  featureHandler,
		pictureHandler:  pictureHandler,
		userResolver:    userResolver,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	s.app.Use(middleware.Session(s.userResolver, s.config.Session.CookieName, s.logger))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Accounts and sessions
	api.Post("/users", s.userHandler.Register)
	api.Post("/sessions", s.userHandler.Login)
	api.Delete("/sessions", s.userHandler.Logout)
	api.Get("/users/me", middleware.RequireAuth(), s.userHandler.Me)
	api.Patch("/users/me", middleware.RequireAuth(), s.userHandler.UpdateProfile)
	api.Put("/users/me/avatar", middleware.RequireAuth(), s.userHandler.UploadAvatar)

	// Feature catalog
	api.Get("/features", s.featureHandler.List)

	// Location query and lifecycle
	api.Get("/locations", s.locationHandler.List)
	api.Get("/locations/map", s.locationHandler.Map)
	api.Post("/locations", middleware.RequireAuth(), s.locationHandler.Create)
	api.Get("/locations/:id", s.locationHandler.Get)
	api.Put("/locations/:id", middleware.RequireAuth(), s.locationHandler.Update)
	api.Delete("/locations/:id", middleware.RequireAuth(), s.locationHandler.Delete)

	// Favorites
	api.Post("/locations/:id/favorite", middleware.RequireAuth(), s.locationHandler.Favorite)
	api.Delete("/locations/:id/favorite", middleware.RequireAuth(), s.locationHandler.Unfavorite)

	// Reviews
	api.Get("/locations/:id/reviews", s.reviewHandler.List)
	api.Post("/locations/:id/reviews", middleware.RequireAuth(), s.reviewHandler.Create)
	api.Put("/reviews/:id", middleware.RequireAuth(), s.reviewHandler.Update)
	api.Delete("/reviews/:id", middleware.RequireAuth(), s.reviewHandler.Delete)

	// Pictures
	api.Post("/locations/:id/pictures", middleware.RequireAuth(), s.pictureHandler.Add)
	api.Patch("/pictures/:id", middleware.RequireAuth(), s.pictureHandler.UpdateAltText)
	api.Delete("/pictures/:id", middleware.RequireAuth(), s.pictureHandler.Delete)
}

// Start begins serving on the configured address.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
