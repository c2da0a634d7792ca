package server

import (
	"net/http"

	"usersbackend/internal/config"
	"usersbackend/internal/handler"
	"usersbackend/internal/middleware"
	"usersbackend/internal/models"
	"usersbackend/internal/repository"
	"usersbackend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	log    *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.log)
	tokens := service.NewTokenIssuer(service.TokenConfig{
		Key:      []byte(s.cfg.JWT.Key),
		Issuer:   s.cfg.JWT.Issuer,
		Audience: s.cfg.JWT.Audience,
		Subject:  s.cfg.JWT.Subject,
		Lifetime: s.cfg.TokenLifetime(),
	})
	authService := service.NewAuthService(userRepo, tokens, s.log)
	importService := service.NewImportService(userRepo, s.log)

	authHandler := handler.NewAuthHandler(authService, s.log)
	usersHandler := handler.NewUsersHandler(importService, userRepo, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	s.router.POST("/api/auth", authHandler.Login)

	authRequired := middleware.Auth(tokens, s.log)

	users := s.router.Group("/api/users")
	{
		users.GET("/generate", usersHandler.Generate)
		users.POST("/batch", usersHandler.BatchImport)
		users.GET("/me", authRequired, usersHandler.MyProfile)
		users.GET("/:username", authRequired, middleware.RequireRole(models.RoleAdmin), usersHandler.ProfileByUsername)
	}
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
