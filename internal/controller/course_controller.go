package controller

import (
	"mime/multipart"
	"strconv"
	"workplace_training_backend/internal/progress"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CourseController 管理员课程管理
type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// GetCourses godoc
// @Summary 课程列表
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/admin/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	courses, err := c.CourseService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 包含内容、测试资料以及分配的用户和小组
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Get(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

func optionalUint(s string) *uint {
	if id := util.MustParseUint(s); id > 0 {
		return &id
	}
	return nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// contentUploads 按下标对齐 content_titles、content_types、content_orders 与 content_files
func contentUploads(form *multipart.Form) []service.ContentUpload {
	files := form.File["content_files"]
	titles := form.Value["content_titles"]
	types := form.Value["content_types"]
	orders := form.Value["content_orders"]

	uploads := make([]service.ContentUpload, 0, len(files))
	for i, file := range files {
		up := service.ContentUpload{Kind: progress.KindVideo, File: file}
		if i < len(types) && types[i] == string(progress.KindPdf) {
			up.Kind = progress.KindPdf
		}
		if i < len(titles) {
			up.Title = titles[i]
		}
		if i < len(orders) {
			up.Order, _ = strconv.Atoi(orders[i])
		}
		uploads = append(uploads, up)
	}
	return uploads
}

// CreateCourse godoc
// @Summary 创建课程
// @Description 一次提交课程信息、内容文件、测试资料和分配对象；内容按下标对齐 content_titles/content_types/content_orders/content_files
// @Tags 课程管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   title formData string true "课程标题"
// @Param   description formData string false "课程描述"
// @Param   category_id formData int false "分类ID"
// @Param   certificate_type_id formData int false "证书类型ID"
// @Param   passing_score formData int false "及格分数，默认取配置值"
// @Param   test_required formData bool false "是否需要测试"
// @Param   user_ids formData []int false "分配的用户"
// @Param   group_ids formData []int false "分配的小组"
// @Param   content_titles formData []string false "内容标题"
// @Param   content_types formData []string false "内容类型 video|pdf"
// @Param   content_orders formData []int false "内容顺序"
// @Param   content_files formData file false "内容文件"
// @Param   test_file formData file false "测试资料 PDF 或图片"
// @Param   answer_key formData string false "答案，如 A,B,C"
// @Param   question_count formData int false "题目数量"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或文件类型不支持"
// @Router /api/admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	score, err := optionalInt(ctx.PostForm("passing_score"))
	if err != nil {
		util.BadRequest(ctx, "invalid passing_score")
		return
	}

	in := service.CourseInput{
		Title:             ctx.PostForm("title"),
		Description:       ctx.PostForm("description"),
		CategoryID:        optionalUint(ctx.PostForm("category_id")),
		CertificateTypeID: optionalUint(ctx.PostForm("certificate_type_id")),
		PassingScore:      score,
		TestRequired:      ctx.PostForm("test_required") == "true" || ctx.PostForm("test_required") == "on",
		UserIDs:           util.ParseUintList(form.Value["user_ids"]...),
		GroupIDs:          util.ParseUintList(form.Value["group_ids"]...),
	}

	var test *service.TestUpload
	if files := form.File["test_file"]; len(files) > 0 {
		count, _ := strconv.Atoi(ctx.PostForm("question_count"))
		test = &service.TestUpload{
			File:          files[0],
			AnswerKey:     ctx.PostForm("answer_key"),
			QuestionCount: count,
		}
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), in, contentUploads(form), test)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourseRequest assignBy 为空时不修改分配
// swagger:model UpdateCourseRequest
type UpdateCourseRequest struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	CategoryID        *uint  `json:"categoryId"`
	CertificateTypeID *uint  `json:"certificateTypeId"`
	PassingScore      *int   `json:"passingScore"`
	TestRequired      bool   `json:"testRequired"`
	AssignBy          string `json:"assignBy" binding:"omitempty,oneof=users groups"`
	UserIDs           []uint `json:"userIds"`
	GroupIDs          []uint `json:"groupIds"`
}

// UpdateCourse godoc
// @Summary 编辑课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body UpdateCourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.Update(ctx.Request.Context(), id, service.CourseUpdate{
		CourseInput: service.CourseInput{
			Title:             req.Title,
			Description:       req.Description,
			CategoryID:        req.CategoryID,
			CertificateTypeID: req.CertificateTypeID,
			PassingScore:      req.PassingScore,
			TestRequired:      req.TestRequired,
			UserIDs:           req.UserIDs,
			GroupIDs:          req.GroupIDs,
		},
		AssignBy: req.AssignBy,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 同时删除课程内容、学习进度、测试成绩和证书
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "course deleted", nil)
}
