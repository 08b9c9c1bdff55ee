package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const apiVersion = "1.0.0"

// HealthHandler reports service health including backing-store connectivity.
type HealthHandler struct {
	db    *sqlx.DB
	redis *redis.Client
}

// NewHealthHandler constructs a health handler. A nil redis client is
// reported as disconnected rather than treated as an error.
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Status godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func (h *HealthHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := h.db != nil && h.db.PingContext(ctx) == nil
	redisOK := h.redis != nil && h.redis.Ping(ctx).Err() == nil

	status := "ok"
	code := http.StatusOK
	if !dbOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbOK,
		"redis":    redisOK,
		"version":  apiVersion,
	})
}
