package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"product-catalog/internal/config"
	custommiddleware "product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/transport"
	"product-catalog/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Wire the validation engine against its natural-key lookups
	categoryByName := func(ctx context.Context, name string) (int64, error) {
		c, err := categoryRepo.FindByName(ctx, name)
		if err != nil {
			return 0, err
		}
		return c.ID, nil
	}
	userByEmail := func(ctx context.Context, email string) (int64, error) {
		u, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			return 0, err
		}
		return u.ID, nil
	}
	validators := validation.NewSet(categoryByName, userByEmail)

	// Initialize services
	hasher := service.NewBcryptHasher()
	productService := service.NewProductService(productRepo, categoryRepo, validators.Product)
	categoryService := service.NewCategoryService(categoryRepo, validators.Category)
	userService := service.NewUserService(userRepo, roleRepo, validators.UserInsert, validators.UserUpdate, hasher, logger)
	authService := service.NewAuthService(userService, refreshTokenRepo, hasher, cfg.JWT.Secret)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	userHandler := transport.NewUserHandler(userService, logger)
	authHandler := transport.NewAuthHandler(authService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	writeMiddleware := custommiddleware.RequireAuthority(
		[]string{custommiddleware.AuthorityAdmin, custommiddleware.AuthorityOperator}, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Rate-limit the credential endpoints
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rateLimitMiddleware := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	productHandler.RegisterRoutes(router, authMiddleware, writeMiddleware)
	categoryHandler.RegisterRoutes(router, authMiddleware, writeMiddleware)
	userHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	authHandler.RegisterRoutes(router, authMiddleware, rateLimitMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
