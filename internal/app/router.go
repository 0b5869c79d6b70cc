package app

import (
	"path"
	"path/filepath"
	"workplace_training_backend/docs"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/middleware"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.blacklist))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api/auth")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 密码重置
		public.POST("/password-reset", c.passwordReset.RequestReset)
		public.GET("/password-reset/:token", c.passwordReset.CheckToken)
		public.POST("/password-reset/:token", c.passwordReset.ResetPassword)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/auth/logout", c.auth.Logout)

	// 个人资料
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile/email", c.user.UpdateEmail)
	rg.PUT("/profile/password", c.user.ChangePassword)
	rg.DELETE("/profile", c.user.DeleteAccount)

	rg.GET("/announcements", c.announcement.GetAnnouncements)

	// 学习相关
	learning := rg.Group("/learning")
	{
		learning.GET("/dashboard", c.learning.Dashboard)
		learning.GET("/courses/:id", c.learning.GetCourse)
		learning.GET("/courses/:id/test", c.learning.GetTest)
		learning.POST("/courses/:id/test", c.learning.SubmitTest)
		learning.GET("/videos/:id", c.learning.GetVideo)
		learning.POST("/videos/:id/complete", c.learning.CompleteVideo)
		learning.GET("/pdfs/:id", c.learning.GetPdf)
		learning.POST("/pdfs/:id/viewed", c.learning.MarkPdfViewed)
	}

	// 证书
	rg.GET("/certificates", c.certificate.GetMyCertificates)
	rg.GET("/certificates/:id/download", c.certificate.DownloadCertificate)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg, a.blacklist), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/dashboard", c.dashboard.GetStats)

		// 用户管理
		admin.GET("/users", c.user.GetUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		// 课程管理
		admin.GET("/courses", c.course.GetCourses)
		admin.POST("/courses", c.course.CreateCourse)
		admin.GET("/courses/:id", c.course.GetCourse)
		admin.PUT("/courses/:id", c.course.UpdateCourse)
		admin.DELETE("/courses/:id", c.course.DeleteCourse)

		// 课程内容
		admin.POST("/courses/:id/videos", c.content.AddVideo)
		admin.POST("/courses/:id/pdfs", c.content.AddPdf)
		admin.POST("/courses/:id/test", c.content.UploadTest)
		admin.DELETE("/videos/:id", c.content.DeleteVideo)
		admin.DELETE("/pdfs/:id", c.content.DeletePdf)

		// 证书
		admin.GET("/courses/:id/certificates/eligible", c.certificate.GetEligibleUsers)
		admin.POST("/courses/:id/certificates", c.certificate.IssueCertificates)
		admin.GET("/certificates", c.certificate.GetCertificates)
		admin.DELETE("/certificates/:id", c.certificate.DeleteCertificate)

		// 小组、分类、证书类型
		admin.GET("/groups", c.group.GetGroups)
		admin.POST("/groups", c.group.CreateGroup)
		admin.GET("/groups/:id", c.group.GetGroup)
		admin.PUT("/groups/:id", c.group.UpdateGroup)
		admin.DELETE("/groups/:id", c.group.DeleteGroup)
		admin.GET("/categories", c.category.GetCategories)
		admin.POST("/categories", c.category.CreateCategory)
		admin.DELETE("/categories/:id", c.category.DeleteCategory)
		admin.GET("/certificate-types", c.category.GetCertificateTypes)
		admin.POST("/certificate-types", c.category.CreateCertificateType)

		// 公告
		admin.POST("/announcements", c.announcement.CreateAnnouncement)
		admin.DELETE("/announcements/:id", c.announcement.DeleteAnnouncement)

		// 密码重置审批
		admin.GET("/password-resets", c.passwordReset.GetRequests)
		admin.POST("/password-resets/:id/approve", c.passwordReset.ApproveRequest)
		admin.POST("/password-resets/:id/reject", c.passwordReset.RejectRequest)

		// 报表与数据管理
		admin.GET("/reports/progress", c.report.GetProgressDashboard)
		admin.GET("/reports/excel", c.report.DownloadExcel)
		admin.GET("/data/export", c.backup.ExportData)
		admin.POST("/data/import", c.backup.ImportData)
	}
}

// registerUploadRoutes 只公开课程内容目录，证书文件必须经过下载接口的权限检查
func registerUploadRoutes(router *gin.Engine, root string) {
	for _, dir := range util.PublicUploadDirs {
		router.Static(path.Join("/uploads", dir), filepath.Join(filepath.Clean(root), dir))
	}
}
