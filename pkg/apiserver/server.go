package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/orgtrack/orgtrack/pkg/apiserver/handlers"
	"github.com/orgtrack/orgtrack/pkg/apiserver/middleware"
	"github.com/orgtrack/orgtrack/pkg/auth"
	"github.com/orgtrack/orgtrack/pkg/config"
	"github.com/orgtrack/orgtrack/pkg/store/postgres"
	redisclient "github.com/orgtrack/orgtrack/pkg/store/redis"
)

type Server struct {
	router *gin.Engine
	db     *postgres.Store
	redis  *redisclient.Client
	tokens *auth.TokenManager
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *postgres.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		redis:  redis,
		tokens: auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		cfg:    cfg,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(s.db, s.redis, s.tokens, s.logger)
	userHandler := handlers.NewUserHandler(s.db, s.logger)
	departmentHandler := handlers.NewDepartmentHandler(s.db, s.logger)
	employeeHandler := handlers.NewEmployeeHandler(s.db, s.logger)
	taskHandler := handlers.NewTaskHandler(s.db, s.logger)
	goalHandler := handlers.NewGoalHandler(s.db, s.logger)
	journalHandler := handlers.NewJournalHandler(s.db, s.logger)

	api := r.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	{
		authed.Use(middleware.Auth(s.tokens, s.db, s.redis))

		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/me", authHandler.Me)

		authed.POST("/users", userHandler.Create)
		authed.GET("/users", userHandler.List)
		authed.PUT("/users/:id", userHandler.Update)

		authed.POST("/departments", departmentHandler.Create)
		authed.GET("/departments", departmentHandler.List)
		authed.PUT("/departments/:id", departmentHandler.Update)
		authed.DELETE("/departments/:id", departmentHandler.Delete)

		authed.POST("/employees", employeeHandler.Create)
		authed.GET("/employees", employeeHandler.List)

		authed.POST("/tasks", taskHandler.Create)
		authed.GET("/dashboard", taskHandler.Dashboard)
		authed.POST("/tasks/:id/timelogs", taskHandler.LogTime)

		authed.POST("/goals", goalHandler.Create)
		authed.GET("/goals", goalHandler.List)

		authed.POST("/journal", journalHandler.Create)
		authed.GET("/journal", journalHandler.List)
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
