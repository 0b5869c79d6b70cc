package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 数据库统计
// @Description 各表行数、完成记录数以及最近创建的用户和课程
// @Tags 数据管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DatabaseStats}
// @Router /api/admin/dashboard [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	stats, err := c.DashboardService.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
