package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// swagger:model GroupRequest
type GroupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	UserIDs     []uint `json:"userIds"`
}

// GetGroups godoc
// @Summary 小组列表
// @Tags 小组管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Group} "成功"
// @Router /api/admin/groups [get]
func (c *GroupController) GetGroups(ctx *gin.Context) {
	groups, err := c.GroupService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// GetGroup godoc
// @Summary 小组详情
// @Tags 小组管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小组ID"
// @Success 200 {object} util.Response{data=model.Group} "成功"
// @Failure 404 {object} util.Response "小组不存在"
// @Router /api/admin/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	group, err := c.GroupService.Get(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// CreateGroup godoc
// @Summary 创建小组
// @Tags 小组管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GroupRequest true "小组信息"
// @Success 201 {object} util.Response{data=model.Group} "创建成功"
// @Router /api/admin/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Create(service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
		UserIDs:     req.UserIDs,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// UpdateGroup godoc
// @Summary 编辑小组
// @Description 重命名并整体替换成员
// @Tags 小组管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小组ID"
// @Param   body body GroupRequest true "小组信息"
// @Success 200 {object} util.Response{data=model.Group} "成功"
// @Failure 404 {object} util.Response "小组不存在"
// @Router /api/admin/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Update(id, service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
		UserIDs:     req.UserIDs,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// DeleteGroup godoc
// @Summary 删除小组
// @Tags 小组管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小组ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "小组不存在"
// @Router /api/admin/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.GroupService.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "group deleted", nil)
}
