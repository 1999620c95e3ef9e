// Package database opens the MongoDB client shared by the API and the seeder.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/devcamper/devcamper-api/internal/config"
	"github.com/devcamper/devcamper-api/pkg/logger"
)

const appName = "devcamper-api"

// Retry controls how Connect waits for a MongoDB that is still starting.
// Backoff doubles after every failed attempt.
type Retry struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetry covers a compose stack where the API starts before mongod.
var DefaultRetry = Retry{Attempts: 5, Backoff: time.Second}

// ErrNoURI is returned when MONGODB_URI is unset.
var ErrNoURI = errors.New("MONGODB_URI is required")

// Connect dials cfg.URI and pings the primary. The caller owns the returned
// client and must Disconnect it.
func Connect(ctx context.Context, cfg config.MongoDBConfig, retry Retry) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, ErrNoURI
	}
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	backoff := retry.Backoff
	var lastErr error
	for attempt := 1; attempt <= retry.Attempts; attempt++ {
		client, err := dial(ctx, cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
		if attempt == retry.Attempts {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, retry.Attempts, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("mongo connect: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("after %d attempts: %w", retry.Attempts, lastErr)
}

func dial(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
