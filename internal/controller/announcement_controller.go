package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func NewAnnouncementController(announcementService *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{AnnouncementService: announcementService}
}

// swagger:model AnnouncementRequest
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

// GetAnnouncements godoc
// @Summary 公告列表
// @Description 按发布时间倒序
// @Tags 公告
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Announcement} "成功"
// @Router /api/announcements [get]
func (c *AnnouncementController) GetAnnouncements(ctx *gin.Context) {
	list, err := c.AnnouncementService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// CreateAnnouncement godoc
// @Summary 发布公告
// @Tags 公告
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AnnouncementRequest true "公告内容"
// @Success 201 {object} util.Response{data=model.Announcement} "创建成功"
// @Router /api/admin/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.AnnouncementService.Create(req.Title, req.Content)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// DeleteAnnouncement godoc
// @Summary 删除公告
// @Tags 公告
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公告ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "公告不存在"
// @Router /api/admin/announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.AnnouncementService.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "announcement deleted", nil)
}
