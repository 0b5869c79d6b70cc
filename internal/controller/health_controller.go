package controller

import (
	"net/http"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查数据库、Redis 和 ffmpeg 状态，数据库不可用时返回 503
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up"}

	// Redis 和 ffmpeg 为可选组件
	switch {
	case c.Redis == nil:
		components["redis"] = "disabled"
	case c.Redis.Ping(ctx.Request.Context()).Err() != nil:
		components["redis"] = "down"
	default:
		components["redis"] = "up"
	}
	if version, err := util.GetFFmpegVersion(); err != nil {
		components["ffmpeg"] = "unavailable"
	} else {
		components["ffmpeg"] = version
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
