package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/infra"
	"github.com/jmcstoltze/aplicacion-pos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports the SII circuit
// breaker state. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, siiCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		// Stuck DTEs surface here long before anyone reads worker logs.
		dlqDTE, _ := worker.DLQLength(ctx, rdb, worker.QueueDTE)

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"db":      dbStatus,
			"redis":   redisStatus,
			"sii_cb":  siiCB.State().String(),
			"dlq_dte": dlqDTE,
		})
	}
}
