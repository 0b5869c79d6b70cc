package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryController 课程分类和证书类型
type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// swagger:model CategoryRequest
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// GetCategories godoc
// @Summary 分类列表
// @Tags 分类管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Category} "成功"
// @Router /api/admin/categories [get]
func (c *CategoryController) GetCategories(ctx *gin.Context) {
	categories, err := c.CategoryService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// CreateCategory godoc
// @Summary 创建分类
// @Tags 分类管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CategoryRequest true "分类信息"
// @Success 201 {object} util.Response{data=model.Category} "创建成功"
// @Router /api/admin/categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.CategoryService.Create(req.Name, req.Description)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// DeleteCategory godoc
// @Summary 删除分类
// @Description 仍被课程或证书类型引用时不能删除
// @Tags 分类管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "分类不存在"
// @Failure 409 {object} util.Response "分类仍在使用"
// @Router /api/admin/categories/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CategoryService.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "category deleted", nil)
}

// GetCertificateTypes godoc
// @Summary 证书类型列表
// @Tags 分类管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CertificateType} "成功"
// @Router /api/admin/certificate-types [get]
func (c *CategoryController) GetCertificateTypes(ctx *gin.Context) {
	types, err := c.CategoryService.ListCertificateTypes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, types)
}

// swagger:model CertificateTypeRequest
type CertificateTypeRequest struct {
	Name                string `json:"name" binding:"required,max=100"`
	Description         string `json:"description"`
	CategoryID          uint   `json:"categoryId" binding:"required"`
	RequiredCourseCount int    `json:"requiredCourseCount" binding:"min=0"`
}

// CreateCertificateType godoc
// @Summary 创建证书类型
// @Tags 分类管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CertificateTypeRequest true "证书类型信息"
// @Success 201 {object} util.Response{data=model.CertificateType} "创建成功"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/admin/certificate-types [post]
func (c *CategoryController) CreateCertificateType(ctx *gin.Context) {
	var req CertificateTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ct, err := c.CategoryService.CreateCertificateType(service.CertificateTypeInput{
		Name:                req.Name,
		Description:         req.Description,
		CategoryID:          req.CategoryID,
		RequiredCourseCount: req.RequiredCourseCount,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, ct)
}
