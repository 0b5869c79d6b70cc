package controller

import (
	"fmt"
	"net/http"
	"time"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// GetProgressDashboard godoc
// @Summary 课程进度总览
// @Description 不传 course_ids 时返回所有课程
// @Tags 报表
// @Produce  json
// @Security BearerAuth
// @Param   course_ids query string false "课程ID，逗号分隔"
// @Success 200 {object} util.Response{data=[]service.CourseReport} "成功"
// @Router /api/admin/reports/progress [get]
func (c *ReportController) GetProgressDashboard(ctx *gin.Context) {
	ids := util.ParseUintList(ctx.QueryArray("course_ids")...)
	reports, err := c.ReportService.ProgressDashboard(ids)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// DownloadExcel godoc
// @Summary 导出 Excel 报表
// @Description 每门课程一个标题行、表头和学员进度行
// @Tags 报表
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param   course_ids query string true "课程ID，逗号分隔"
// @Success 200 {file} file "xlsx 文件"
// @Failure 400 {object} util.Response "未选择课程"
// @Router /api/admin/reports/excel [get]
func (c *ReportController) DownloadExcel(ctx *gin.Context) {
	ids := util.ParseUintList(ctx.QueryArray("course_ids")...)
	if len(ids) == 0 {
		util.BadRequest(ctx, "course_ids is required")
		return
	}
	data, err := c.ReportService.Excel(ids)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	filename := fmt.Sprintf("rapor_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
