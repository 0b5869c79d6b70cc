package controller

import (
	"mime"
	"net/http"
	"path/filepath"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// GetEligibleUsers godoc
// @Summary 可签发证书的学员
// @Description 返回课程所有已分配学员的进度，前端据此勾选已完成的学员
// @Tags 证书管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.UserProgress} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/certificates/eligible [get]
func (c *CertificateController) GetEligibleUsers(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	users, err := c.CertificateService.EligibleUsers(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// IssueCertificates godoc
// @Summary 批量签发证书
// @Description 未上传文件时为每位学员生成 PDF 证书；已持有证书的学员跳过，未完成课程的学员不签发
// @Tags 证书管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   user_ids formData []int true "学员ID"
// @Param   file formData file false "统一使用的证书文件 PDF 或图片"
// @Success 200 {object} util.Response{data=service.IssueReport} "签发结果"
// @Failure 400 {object} util.Response "未选择学员或文件类型不支持"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/certificates [post]
func (c *CertificateController) IssueCertificates(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userIDs := util.ParseUintList(ctx.PostFormArray("user_ids")...)
	if len(userIDs) == 0 {
		util.BadRequest(ctx, "user_ids is required")
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil && err != http.ErrMissingFile {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.CertificateService.Issue(ctx.Request.Context(), id, userIDs, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// GetMyCertificates godoc
// @Summary 我的证书
// @Description 包含已获得的证书以及已完成但尚未签发证书的课程
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserCertificates} "成功"
// @Router /api/certificates [get]
func (c *CertificateController) GetMyCertificates(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	certs, err := c.CertificateService.ListForUser(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// GetCertificates godoc
// @Summary 全部证书
// @Tags 证书管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate} "成功"
// @Router /api/admin/certificates [get]
func (c *CertificateController) GetCertificates(ctx *gin.Context) {
	certs, err := c.CertificateService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// DownloadCertificate godoc
// @Summary 下载证书
// @Description 证书所有者或管理员可下载，浏览器直链可用 ?token= 传递令牌
// @Tags 证书
// @Produce  octet-stream
// @Security BearerAuth
// @Param   id path int true "证书ID"
// @Success 200 {file} file "证书文件"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/{id}/download [get]
func (c *CertificateController) DownloadCertificate(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	dl, err := c.CertificateService.Download(ctx.Request.Context(), claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	defer dl.Body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(dl.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.DataFromReader(http.StatusOK, -1, contentType, dl.Body, map[string]string{
		"Content-Disposition": `attachment; filename="` + dl.Filename + `"`,
	})
}

// DeleteCertificate godoc
// @Summary 删除证书
// @Tags 证书管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "证书ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/admin/certificates/{id} [delete]
func (c *CertificateController) DeleteCertificate(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CertificateService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "certificate deleted", nil)
}
