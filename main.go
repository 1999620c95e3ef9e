package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	bootcamprepo "github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	bootcampsvc "github.com/devcamper/devcamper-api/internal/bootcamp/service"
	"github.com/devcamper/devcamper-api/internal/config"
	courserepo "github.com/devcamper/devcamper-api/internal/course/repository"
	coursesvc "github.com/devcamper/devcamper-api/internal/course/service"
	"github.com/devcamper/devcamper-api/internal/database"
	"github.com/devcamper/devcamper-api/internal/geocoder"
	"github.com/devcamper/devcamper-api/internal/oidc"
	"github.com/devcamper/devcamper-api/internal/server"
	"github.com/devcamper/devcamper-api/internal/sessions"
	"github.com/devcamper/devcamper-api/internal/storage"
	"github.com/devcamper/devcamper-api/internal/tokens"
	"github.com/devcamper/devcamper-api/internal/users"
	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/metrics"
	"github.com/devcamper/devcamper-api/pkg/middleware"
)

func main() {
	// LOG_LEVEL is honoured before the config is loaded so config errors are visible
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel, cfg.Server.LogFormat)
	logger.Infof("config loaded: env=%s keycloak=%v mongo=%v redis=%v upload=%s geocoder=%s",
		cfg.Server.Environment, cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "",
		cfg.Upload.Backend, cfg.Geocoder.Provider)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	checks := map[string]server.Check{}

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		defer func() { _ = rdb.Close() }()
	}

	var (
		bootcamps bootcamprepo.Repository
		courses   courserepo.Repository
		userRepo  users.UserRepository
	)
	if cfg.MongoDB.URI != "" {
		client, err := database.Connect(ctx, cfg.MongoDB, database.DefaultRetry)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB.Database)

		if bootcamps, err = bootcamprepo.NewMongoRepo(ctx, db.Collection("bootcamps")); err != nil {
			logger.Fatalf("bootcamps collection: %v", err)
		}
		if courses, err = courserepo.NewMongoRepo(ctx, db.Collection("courses")); err != nil {
			logger.Fatalf("courses collection: %v", err)
		}
		userRepo = users.NewMongoUserRepository(db.Collection("users"))
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set; data is kept in memory and lost on restart")
		bootcamps = bootcamprepo.NewMemoryRepo()
		courses = courserepo.NewMemoryRepo()
		userRepo = users.NewMemoryUserRepository()
	}

	geo, err := geocoder.New(cfg.Geocoder, rdb)
	if err != nil {
		logger.Fatalf("geocoder: %v", err)
	}
	files, err := storage.New(cfg)
	if err != nil {
		logger.Fatalf("upload storage: %v", err)
	}

	var revocations *sessions.Revocations
	if rdb != nil {
		revocations = sessions.NewRevocations(rdb)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := server.NewRouter(server.Deps{
		Config: cfg,
		Bootcamps: bootcampsvc.New(bootcampsvc.Deps{
			Bootcamps:     bootcamps,
			Courses:       courses,
			Geocoder:      geo,
			Files:         files,
			MaxFileUpload: cfg.Upload.MaxFileUpload,
		}),
		Courses:     coursesvc.New(courses, bootcamps),
		Files:       files,
		Verifier:    newVerifier(ctx, cfg),
		Users:       users.NewService(userRepo),
		Revocations: revocations,
		Redis:       rdb,
		Checks:      checks,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("server running in %s mode on %s", cfg.Server.Environment, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	logger.Infof("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newVerifier prefers Keycloak, then the insecure opt-in, then HS256 tokens
// signed with JWT_SECRET.
func newVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.Issuer(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err == nil {
			logger.Infof("verifying tokens against Keycloak realm %q", cfg.Keycloak.Realm)
			return ver
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
		if cfg.Keycloak.AllowInsecureToken {
			logger.Warn("enabling insecure token verifier (integration mode)")
			return oidc.NewInsecureVerifier()
		}
	}
	if cfg.JWT.Secret != "" {
		return tokens.NewVerifier(cfg.JWT.Secret)
	}
	return nil
}
