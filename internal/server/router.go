// Package server assembles the HTTP engine: ambient middleware, health checks,
// metrics, docs and the /api/v1 resource routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/devcamper/devcamper-api/handlers"
	bootcamphandler "github.com/devcamper/devcamper-api/internal/bootcamp/handler"
	bootcampsvc "github.com/devcamper/devcamper-api/internal/bootcamp/service"
	"github.com/devcamper/devcamper-api/internal/config"
	coursehandler "github.com/devcamper/devcamper-api/internal/course/handler"
	coursesvc "github.com/devcamper/devcamper-api/internal/course/service"
	"github.com/devcamper/devcamper-api/internal/sessions"
	"github.com/devcamper/devcamper-api/internal/storage"
	"github.com/devcamper/devcamper-api/internal/users"
	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/middleware"
	"github.com/devcamper/devcamper-api/pkg/web"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

// Check reports whether a dependency is usable; nil means ready.
type Check func(ctx context.Context) error

// Deps are the collaborators the router needs. Verifier, Users,
// Revocations, Redis and Gatherer are optional.
type Deps struct {
	Config      *config.Config
	Bootcamps   bootcampsvc.Service
	Courses     coursesvc.Service
	Files       storage.Receiver
	Verifier    middleware.Verifier
	Users       *users.Service
	Revocations *sessions.Revocations
	Redis       *redis.Client
	Checks      map[string]Check
	Gatherer    prometheus.Gatherer
}

// presignTTL bounds how long a redirected photo URL stays valid.
const presignTTL = 15 * time.Minute

var startTime = time.Now()

// NewRouter builds the gin engine serving the whole API.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.Logger(), middleware.Recovery(), middleware.CORS(), middleware.SecurityHeaders(), middleware.Errors())

	if cfg := d.Config.RateLimit; cfg.Enabled {
		if cfg.UseRedis && d.Redis != nil {
			win := time.Duration(cfg.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, cfg.RPS, cfg.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RPS, cfg.Burst))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		web.Fail(c, http.StatusNotFound, "Route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d.Checks))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	handlers.RegisterSwagger(r)
	registerUploads(r, d.Files)

	protect := protector(d)
	api := r.Group("/api/v1")
	bootcamphandler.RegisterRoutes(api, d.Bootcamps, protect)
	coursehandler.RegisterRoutes(api, d.Courses, protect)

	var (
		lookup  handlers.UserLookup
		revoker handlers.Revoker
	)
	if d.Users != nil {
		lookup = d.Users
	}
	if d.Revocations != nil {
		revoker = d.Revocations
	}
	handlers.NewAuthHandler(lookup, revoker).Register(api, protect)

	return r
}

func protector(d Deps) gin.HandlerFunc {
	if d.Verifier == nil {
		logger.Warnf("no token verifier configured; protected routes will reject every request")
		return func(c *gin.Context) {
			web.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
		}
	}
	var opts []middleware.AuthOption
	if d.Revocations != nil {
		opts = append(opts, middleware.WithRevocations(d.Revocations))
	}
	if d.Users != nil {
		opts = append(opts, middleware.WithResolver(d.Users))
	}
	return middleware.AuthMiddleware(d.Verifier, opts...)
}

// readiness returns 200 only when every check passes.
func readiness(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, check := range checks {
			err := check(ctx)
			deps[name] = err == nil
			if err != nil {
				logger.Warnf("readiness: %s: %v", name, err)
				ready = false
			}
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	}
}

// registerUploads serves stored photos: straight from disk for the
// filesystem backend, via a presigned redirect for MinIO.
func registerUploads(r gin.IRouter, files storage.Receiver) {
	switch f := files.(type) {
	case *storage.FileSystem:
		r.Static("/uploads", f.Root())
	case *storage.MinIOStorage:
		r.GET("/uploads/:name", func(c *gin.Context) {
			name := c.Param("name")
			url, err := f.PresignedURL(c.Request.Context(), name, presignTTL)
			if err != nil {
				logger.Debugf("presign %s: %v", name, err)
				_ = c.Error(weberr.NotFound("File %s not found", name))
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, url)
		})
	}
}
