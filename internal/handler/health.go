package handler

import (
	"context"
	"net/http"
	"time"

	"simplesales/internal/infra"
	"simplesales/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthDLQPeek = 5

// dlqResumo omits payload and reason so /health never echoes job data or
// SMTP errors.
type dlqResumo struct {
	JobType  string    `json:"jobType"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failedAt"`
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// rdb and smtpCB are nil when notifications are disabled.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.SMTPBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		var dlq int64
		recentes := []dlqResumo{}
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else {
				dlq, _ = worker.DLQLength(ctx, rdb, worker.QueueNotificacoes)
				entries, _ := worker.DLQPeek(ctx, rdb, worker.QueueNotificacoes, healthDLQPeek)
				for _, e := range entries {
					recentes = append(recentes, dlqResumo{JobType: e.JobType, Attempts: e.Attempts, FailedAt: e.FailedAt})
				}
			}
		}

		smtpStatus := "disabled"
		if smtpCB != nil {
			smtpStatus = string(smtpCB.State())
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"redis":       redisStatus,
			"smtp":        smtpStatus,
			"dlq":         dlq,
			"dlqRecentes": recentes,
		})
	}
}
