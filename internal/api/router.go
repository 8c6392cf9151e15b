package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/stillpoint/clinic-ops/docs"
	"github.com/stillpoint/clinic-ops/internal/api/handler"
	"github.com/stillpoint/clinic-ops/internal/api/middleware"
	"github.com/stillpoint/clinic-ops/internal/core/policy"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
	"github.com/stillpoint/clinic-ops/internal/core/service"
	"github.com/stillpoint/clinic-ops/internal/infrastructure/config"
)

// Dependencies carries the storage backends selected at startup. Mongo and
// Redis are nil in memory mode; the readiness probe reports them as disabled.
type Dependencies struct {
	Users      ports.UserRepository
	Therapists ports.TherapistRepository
	Bookings   ports.BookingRepository
	Revoked    ports.RevocationList
	Settings   ports.SettingsStore
	Notify     service.NotificationSink

	Mongo *mongo.Database
	Redis *redis.Client

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Services ---
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	authService := service.NewAuthService(deps.Users, deps.Therapists, deps.Revoked, cfg.JWTSecret, sessionTTL)
	bookingService := service.NewBookingService(deps.Bookings, deps.Therapists, deps.Notify, deps.Log)
	therapistService := service.NewTherapistService(deps.Therapists, deps.Log)
	slotService := service.NewSlotService(deps.Bookings)

	table := policy.Default()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	therapistHandler := handler.NewTherapistHandler(therapistService, slotService)
	panelHandler := handler.NewPanelHandler(table, bookingService, therapistService, deps.Settings)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	// Session decoding runs everywhere; routes that need a session enforce
	// it themselves (the gateway for pages, RequireSession for the API).
	e.Use(middleware.Session(authService))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.GET(policy.SignInPath, authHandler.SignInPage)
	e.POST(policy.SignInPath, authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut)

	// --- Panel pages (gateway decides per path+role) ---
	panel := e.Group("/panel", middleware.Gateway(table))
	panel.GET("", panelHandler.Dispatch)
	panel.GET("/admin", panelHandler.Admin)
	panel.GET("/therapist", panelHandler.Therapist)
	panel.GET("/client", panelHandler.Client)
	panel.GET("/admin/therapists", panelHandler.AdminTherapists)
	panel.PATCH("/admin/therapists/:id", panelHandler.AdminSetTherapistActive)
	panel.GET("/admin/settings/:key", panelHandler.AdminGetSetting)
	panel.PUT("/admin/settings/:key", panelHandler.AdminPutSetting)

	// --- API routes (token required) ---
	v1 := e.Group("/v1", middleware.RequireSession())
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.List)
	v1.GET("/bookings/:id", bookingHandler.Get)
	v1.POST("/bookings/:id/transition", bookingHandler.Transition)
	v1.PUT("/bookings/:id/tasks", bookingHandler.UpdateTasks)
	v1.PUT("/bookings/:id/note", bookingHandler.UpdateNote)
	v1.GET("/therapists", therapistHandler.List)
	v1.GET("/therapists/:id/slots", therapistHandler.Slots)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
