package controller

import (
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 学员学习流程
type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// Dashboard godoc
// @Summary 学习首页
// @Description 返回被分配课程的进度、下一步以及最新公告
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardView} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/dashboard [get]
func (c *LearningController) Dashboard(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	view, err := c.LearningService.Dashboard(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 按顺序返回课程内容、进度和下一步；管理员额外获得所有学员的进度
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseView} "成功"
// @Failure 403 {object} util.Response "未分配该课程"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/learning/courses/{id} [get]
func (c *LearningController) GetCourse(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.LearningService.CourseView(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetVideo godoc
// @Summary 观看视频
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response{data=service.VideoView} "成功"
// @Failure 403 {object} util.Response "未分配该课程"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/learning/videos/{id} [get]
func (c *LearningController) GetVideo(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.LearningService.VideoView(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CompleteVideo godoc
// @Summary 标记视频已看完
// @Description 重复标记不改变首次完成时间
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response{data=service.CompletionResult} "成功"
// @Failure 403 {object} util.Response "未分配该课程"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/learning/videos/{id}/complete [post]
func (c *LearningController) CompleteVideo(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.LearningService.CompleteVideo(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetPdf godoc
// @Summary 查看 PDF
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "PDF ID"
// @Success 200 {object} util.Response{data=service.PdfView} "成功"
// @Failure 403 {object} util.Response "未分配该课程"
// @Failure 404 {object} util.Response "PDF 不存在"
// @Router /api/learning/pdfs/{id} [get]
func (c *LearningController) GetPdf(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.LearningService.PdfView(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// MarkPdfViewed godoc
// @Summary 标记 PDF 已阅读
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "PDF ID"
// @Success 200 {object} util.Response{data=service.CompletionResult} "成功"
// @Router /api/learning/pdfs/{id}/viewed [post]
func (c *LearningController) MarkPdfViewed(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.LearningService.MarkPdfViewed(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetTest godoc
// @Summary 获取课程测试
// @Description 需先完成全部视频和 PDF，已通过的测试不能再次进入
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.TestView} "成功"
// @Failure 400 {object} util.Response "课程没有测试"
// @Failure 403 {object} util.Response "内容未完成"
// @Failure 409 {object} util.Response "测试已通过"
// @Router /api/learning/courses/{id}/test [get]
func (c *LearningController) GetTest(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.LearningService.TestView(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// swagger:model SubmitTestRequest
type SubmitTestRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

// SubmitTest godoc
// @Summary 提交测试答案
// @Description 答案按题号顺序提交，未通过可重考，分数以最后一次为准
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body SubmitTestRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.TestSubmission} "成功"
// @Failure 400 {object} util.Response "答案数量不正确"
// @Failure 409 {object} util.Response "测试已通过"
// @Router /api/learning/courses/{id}/test [post]
func (c *LearningController) SubmitTest(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.LearningService.SubmitTest(ctx.Request.Context(), claims.UserID, claims.IsAdmin(), id, req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
