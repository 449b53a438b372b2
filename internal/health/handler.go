// Package health exposes the readiness endpoint.
package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to the Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts pgxpool.Pool to the Checker interface.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

// Ping checks database connectivity.
func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Handler handles health check operations. Nil checkers are skipped, so the
// in-memory configuration still reports healthy.
type Handler struct {
	database Checker
	redis    Checker
}

// NewHandler creates a new health handler.
func NewHandler(database, redis Checker) *Handler {
	return &Handler{
		database: database,
		redis:    redis,
	}
}

// Response is the response for the health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Database string `json:"database,omitempty"`
		Redis    string `json:"redis,omitempty"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			resp.Body.Database = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Database = "healthy"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			resp.Body.Redis = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Redis = "healthy"
		}
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
