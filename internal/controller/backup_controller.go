package controller

import (
	"fmt"
	"net/http"
	"time"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BackupController struct {
	BackupService *service.BackupService
}

func NewBackupController(backupService *service.BackupService) *BackupController {
	return &BackupController{BackupService: backupService}
}

// ExportData godoc
// @Summary 导出数据
// @Description 以 表名 -> 行列表 的 JSON 下载全部业务数据
// @Tags 数据管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {file} file "JSON 备份"
// @Router /api/admin/data/export [get]
func (c *BackupController) ExportData(ctx *gin.Context) {
	data, err := c.BackupService.Export()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	filename := fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportData godoc
// @Summary 导入数据
// @Description 在一个事务中清空现有数据并导入备份，未知的表会被忽略
// @Tags 数据管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "JSON 备份文件"
// @Success 200 {object} util.Response{data=service.ImportSummary} "导入结果"
// @Failure 400 {object} util.Response "备份文件无效"
// @Router /api/admin/data/import [post]
func (c *BackupController) ImportData(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	summary, err := c.BackupService.Import(f)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
