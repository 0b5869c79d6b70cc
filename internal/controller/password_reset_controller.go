package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PasswordResetController 需管理员审批的密码重置
type PasswordResetController struct {
	ResetService *service.PasswordResetService
}

func NewPasswordResetController(resetService *service.PasswordResetService) *PasswordResetController {
	return &PasswordResetController{ResetService: resetService}
}

// swagger:model ResetRequestRequest
type ResetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestReset godoc
// @Summary 申请重置密码
// @Description 已有待审批或已批准的申请时返回其状态，否则创建新的申请
// @Tags 密码重置
// @Accept  json
// @Produce  json
// @Param   body body ResetRequestRequest true "账号邮箱"
// @Success 200 {object} util.Response{data=service.ResetRequestResult} "申请状态"
// @Failure 404 {object} util.Response "邮箱未注册"
// @Router /api/auth/password-reset [post]
func (c *PasswordResetController) RequestReset(ctx *gin.Context) {
	var req ResetRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.ResetService.Request(req.Email)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// CheckToken godoc
// @Summary 校验重置令牌
// @Tags 密码重置
// @Produce  json
// @Param   token path string true "重置令牌"
// @Success 200 {object} util.Response "令牌有效"
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/auth/password-reset/{token} [get]
func (c *PasswordResetController) CheckToken(ctx *gin.Context) {
	if err := c.ResetService.CheckToken(ctx.Param("token")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"valid": true})
}

// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ResetPassword godoc
// @Summary 使用令牌重置密码
// @Tags 密码重置
// @Accept  json
// @Produce  json
// @Param   token path string true "重置令牌"
// @Param   body body ResetPasswordRequest true "新密码"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "令牌无效、密码不一致或不符合要求"
// @Router /api/auth/password-reset/{token} [post]
func (c *PasswordResetController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ResetService.Reset(ctx.Param("token"), req.Password, req.ConfirmPassword); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "password reset", nil)
}

// GetRequests godoc
// @Summary 重置申请列表
// @Description 待审批的全部申请以及最近处理过的申请
// @Tags 密码重置
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ResetRequests} "成功"
// @Router /api/admin/password-resets [get]
func (c *PasswordResetController) GetRequests(ctx *gin.Context) {
	list, err := c.ResetService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ApproveRequest godoc
// @Summary 批准重置申请
// @Description 生成 24 小时有效的重置链接并发邮件给用户
// @Tags 密码重置
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response{data=service.ResetApproval} "成功"
// @Failure 404 {object} util.Response "申请不存在"
// @Failure 409 {object} util.Response "申请已处理"
// @Router /api/admin/password-resets/{id}/approve [post]
func (c *PasswordResetController) ApproveRequest(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	approval, err := c.ResetService.Approve(ctx.Request.Context(), id, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, approval)
}

// RejectRequest godoc
// @Summary 拒绝重置申请
// @Tags 密码重置
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response{data=model.PasswordReset} "成功"
// @Failure 404 {object} util.Response "申请不存在"
// @Failure 409 {object} util.Response "申请已处理"
// @Router /api/admin/password-resets/{id}/reject [post]
func (c *PasswordResetController) RejectRequest(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	req, err := c.ResetService.Reject(id, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, req)
}
