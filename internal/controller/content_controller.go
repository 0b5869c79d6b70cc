package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// UploadContentRequest defines model for content upload
// swagger:model UploadContentRequest
type UploadContentRequest struct {
	Title string `form:"title"`
	Order int    `form:"order"`
}

// AddVideo godoc
// @Summary 添加视频
// @Description 上传后用 ffmpeg 读取时长并生成缩略图，失败不影响上传；order 为空时追加到末尾
// @Tags 课程内容
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   title formData string false "标题，默认取文件名"
// @Param   order formData int false "顺序"
// @Param   file formData file true "视频文件"
// @Success 201 {object} util.Response{data=model.Video} "创建成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/videos [post]
func (c *ContentController) AddVideo(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UploadContentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	video, err := c.ContentService.AddVideo(ctx.Request.Context(), courseID, req.Title, req.Order, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// AddPdf godoc
// @Summary 添加 PDF
// @Tags 课程内容
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   title formData string false "标题，默认取文件名"
// @Param   order formData int false "顺序"
// @Param   file formData file true "PDF 文件"
// @Success 201 {object} util.Response{data=model.Pdf} "创建成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/pdfs [post]
func (c *ContentController) AddPdf(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UploadContentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	pdf, err := c.ContentService.AddPdf(ctx.Request.Context(), courseID, req.Title, req.Order, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, pdf)
}

// DeleteVideo godoc
// @Summary 删除视频
// @Description 同时删除该视频的学习记录
// @Tags 课程内容
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/admin/videos/{id} [delete]
func (c *ContentController) DeleteVideo(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ContentService.DeleteVideo(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "video deleted", nil)
}

// DeletePdf godoc
// @Summary 删除 PDF
// @Tags 课程内容
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "PDF ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "PDF 不存在"
// @Router /api/admin/pdfs/{id} [delete]
func (c *ContentController) DeletePdf(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ContentService.DeletePdf(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "pdf deleted", nil)
}

// swagger:model UploadTestRequest
type UploadTestRequest struct {
	AnswerKey     string `form:"answer_key" binding:"required"`
	QuestionCount int    `form:"question_count" binding:"required,min=1"`
}

// UploadTest godoc
// @Summary 上传或替换测试资料
// @Description 答案数量不能少于题目数量
// @Tags 课程内容
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   answer_key formData string true "答案，如 A,B,C"
// @Param   question_count formData int true "题目数量"
// @Param   file formData file true "测试资料 PDF 或图片"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 400 {object} util.Response "文件类型不支持或答案不完整"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/test [post]
func (c *ContentController) UploadTest(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UploadTestRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	course, err := c.ContentService.UploadTest(ctx.Request.Context(), courseID, file, req.AnswerKey, req.QuestionCount)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}
