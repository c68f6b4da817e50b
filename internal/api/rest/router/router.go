package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dtroode/furniture-server/internal/api/rest/handler"
	"github.com/dtroode/furniture-server/internal/api/rest/middleware"
	"github.com/dtroode/furniture-server/internal/logger"
	"github.com/dtroode/furniture-server/internal/metrics"
	"github.com/dtroode/furniture-server/internal/model"
	"github.com/dtroode/furniture-server/internal/service"
)

// Options holds transport settings taken from configuration.
type Options struct {
	AllowedOrigins []string
	BodyLimit      string
}

// Router builds the echo instance serving the storefront API.
type Router struct {
	authService     *service.Auth
	productService  *service.Product
	settingsService *service.Settings
	pinger          handler.Pinger
	metrics         *metrics.Metrics
	contextManager  model.ContextManager
	logger          *logger.Logger
	options         Options
}

// New creates new Router instance.
func New(
	authService *service.Auth,
	productService *service.Product,
	settingsService *service.Settings,
	pinger handler.Pinger,
	metrics *metrics.Metrics,
	contextManager model.ContextManager,
	logger *logger.Logger,
	options Options,
) *Router {
	return &Router{
		authService:     authService,
		productService:  productService,
		settingsService: settingsService,
		pinger:          pinger,
		metrics:         metrics,
		contextManager:  contextManager,
		logger:          logger,
		options:         options,
	}
}

// Register wires middleware and every route.
//
// Middleware order: request id, logging, metrics, panic recovery, CORS, body limit.
// Logging and metrics sit outside recovery so a recovered panic is still
// recorded with its final status.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	origins := r.options.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}),
		middleware.NewLogging(r.logger).Handle,
		middleware.NewMetrics(r.metrics).Handle,
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: origins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}),
	)
	if r.options.BodyLimit != "" {
		e.Use(echomw.BodyLimit(r.options.BodyLimit))
	}

	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	api := e.Group("/api")
	r.registerAuthRoutes(api, authenticate)
	r.registerProductRoutes(api, authenticate)
	r.registerSettingsRoutes(api, authenticate)

	e.GET("/health", handler.NewHealth(r.pinger, r.logger).Check)
	if r.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	return e
}

func (r *Router) registerAuthRoutes(api *echo.Group, authenticate *middleware.Authenticate) {
	h := handler.NewAuth(r.authService, r.contextManager, r.logger)

	g := api.Group("/auth")
	g.POST("/login", h.Login)
	g.POST("/register", h.Register, authenticate.Optional)
	g.PUT("/account", h.UpdateAccount, authenticate.Required)
}

func (r *Router) registerProductRoutes(api *echo.Group, authenticate *middleware.Authenticate) {
	h := handler.NewProduct(r.productService, r.logger)

	g := api.Group("/products")
	g.GET("", h.List)
	g.GET("/categories", h.Categories)
	g.GET("/utils/low-stock", h.LowStock, authenticate.Required)
	g.POST("/utils/bulk-price", h.BulkPrice, authenticate.Required)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, authenticate.Required)
	g.PUT("/:id", h.Update, authenticate.Required)
	g.DELETE("/:id", h.Delete, authenticate.Required)
	g.DELETE("/:id/images", h.DeleteImage, authenticate.Required)
}

func (r *Router) registerSettingsRoutes(api *echo.Group, authenticate *middleware.Authenticate) {
	h := handler.NewSettings(r.settingsService, r.logger)

	g := api.Group("/settings")
	g.GET("", h.Get)
	g.PUT("", h.Update, authenticate.Required)
	g.DELETE("/image/:field", h.DeleteImage, authenticate.Required)
}
