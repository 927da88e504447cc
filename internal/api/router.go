package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lifeweavers/caseflow/internal/api/handler"
	"github.com/lifeweavers/caseflow/internal/api/middleware"
	"github.com/lifeweavers/caseflow/internal/core/domain"
	"github.com/lifeweavers/caseflow/internal/core/ports"
	"github.com/lifeweavers/caseflow/internal/infrastructure/http/handlers"
)

// Dependencies carries everything the router needs. Services are wired by
// the caller so tests can swap any of them.
type Dependencies struct {
	Mongo *mongo.Database
	Redis *redis.Client

	AuthService       ports.AuthService
	SessionService    ports.SessionService
	UserService       ports.UserService
	TaskService       ports.TaskService
	MessagingService  ports.MessagingService
	PermissionService ports.PermissionService
	Users             ports.UserRepository
	Clients           ports.ClientRepository

	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("caseflow"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.SessionService)
	userHandler := handler.NewUserHandler(deps.UserService)
	impersonationHandler := handler.NewImpersonationHandler(deps.SessionService)
	clientHandler := handler.NewClientHandler(deps.Clients, deps.Users, deps.PermissionService)
	taskHandler := handler.NewTaskHandler(deps.TaskService)
	messageHandler := handler.NewMessageHandler(deps.MessagingService)
	healthHandler := handlers.NewHealthHandler(deps.Mongo, deps.Redis)

	auth := middleware.Auth(deps.JWTSecret)
	actor := middleware.ResolveActor(deps.SessionService)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	e.POST("/auth/logout", authHandler.Logout, auth)

	v1 := e.Group("/v1", auth, actor)

	v1.GET("/users", userHandler.List)
	v1.DELETE("/users/:id", userHandler.Remove)

	// Impersonation control is anchored: starting requires a Super Admin
	// token, and stopping must stay reachable while an overlay is active.
	v1.GET("/impersonation", impersonationHandler.Current)
	v1.POST("/impersonation", impersonationHandler.Start,
		middleware.RequireAnchorRole(domain.RoleSuperAdmin))
	v1.DELETE("/impersonation", impersonationHandler.Stop)

	v1.GET("/clients", clientHandler.List)
	v1.GET("/clients/:id", clientHandler.Get)
	v1.PUT("/clients/:id/team", clientHandler.UpdateTeam,
		middleware.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin))

	v1.GET("/clients/:id/tasks", taskHandler.List)
	v1.POST("/clients/:id/tasks", taskHandler.Add)
	v1.PATCH("/tasks/:id/toggle", taskHandler.Toggle)
	v1.DELETE("/tasks/:id", taskHandler.Delete)

	v1.GET("/messages/threads", messageHandler.ListThreads)
	v1.GET("/messages/eligible-targets", messageHandler.EligibleTargets)
	v1.POST("/messages/threads", messageHandler.CreateThread)

	return e
}
