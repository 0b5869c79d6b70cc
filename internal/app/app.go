package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/controller"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/configwatcher"
	"workplace_training_backend/pkg/database"
	"workplace_training_backend/pkg/events"
	"workplace_training_backend/pkg/logger"
	"workplace_training_backend/pkg/monitoring"
	"workplace_training_backend/pkg/security"
	"workplace_training_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

// App 持有进程内所有共享资源，处理器通过构造函数获得依赖
type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher events.Publisher
	Cron      *cron.Cron

	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	services        *services
	blacklist       service.TokenBlacklist
	configCallbacks []func(*config.Config)
	stopWatch       context.CancelFunc
}

type repositories struct {
	user          *repository.UserRepository
	course        *repository.CourseRepository
	content       *repository.ContentRepository
	progress      *repository.ProgressRepository
	certificate   *repository.CertificateRepository
	group         *repository.GroupRepository
	category      *repository.CategoryRepository
	announcement  *repository.AnnouncementRepository
	passwordReset *repository.PasswordResetRepository
	backup        *repository.BackupRepository
}

type services struct {
	auth          *service.AuthService
	user          *service.UserService
	storage       *service.StorageService
	content       *service.ContentService
	course        *service.CourseService
	learning      *service.LearningService
	certificate   *service.CertificateService
	report        *service.ReportService
	backup        *service.BackupService
	dashboard     *service.DashboardService
	group         *service.GroupService
	category      *service.CategoryService
	announcement  *service.AnnouncementService
	passwordReset *service.PasswordResetService
}

type controllers struct {
	auth          *controller.AuthController
	user          *controller.UserController
	learning      *controller.LearningController
	course        *controller.CourseController
	content       *controller.ContentController
	certificate   *controller.CertificateController
	report        *controller.ReportController
	backup        *controller.BackupController
	dashboard     *controller.DashboardController
	group         *controller.GroupController
	category      *controller.CategoryController
	announcement  *controller.AnnouncementController
	passwordReset *controller.PasswordResetController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		course:        repository.NewCourseRepository(db),
		content:       repository.NewContentRepository(db),
		progress:      repository.NewProgressRepository(db),
		certificate:   repository.NewCertificateRepository(db),
		group:         repository.NewGroupRepository(db),
		category:      repository.NewCategoryRepository(db),
		announcement:  repository.NewAnnouncementRepository(db),
		passwordReset: repository.NewPasswordResetRepository(db),
		backup:        repository.NewBackupRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, a.blacklist, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(db, repos.course, repos.content, s.storage, cfg)
	s.course = service.NewCourseService(
		db,
		repos.course,
		repos.user,
		repos.group,
		s.content,
		s.storage,
		cfg,
	)
	s.learning = service.NewLearningService(
		db,
		repos.course,
		repos.user,
		repos.content,
		repos.progress,
		repos.announcement,
		s.storage,
		a.Publisher,
	)
	s.certificate = service.NewCertificateService(
		db,
		repos.course,
		repos.user,
		repos.progress,
		repos.certificate,
		s.storage,
		a.Publisher,
	)
	s.report = service.NewReportService(repos.course, repos.progress)
	s.backup = service.NewBackupService(repos.backup)
	s.dashboard = service.NewDashboardService(repos.user, repos.course, repos.progress, repos.backup)
	s.group = service.NewGroupService(repos.group, repos.user)
	s.category = service.NewCategoryService(repos.category)
	s.announcement = service.NewAnnouncementService(repos.announcement)
	s.passwordReset = service.NewPasswordResetService(
		repos.passwordReset,
		repos.user,
		service.NewSMTPMailer(&cfg.Mail),
		a.Publisher,
		cfg,
	)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth),
		user:          controller.NewUserController(s.user),
		learning:      controller.NewLearningController(s.learning),
		course:        controller.NewCourseController(s.course),
		content:       controller.NewContentController(s.content),
		certificate:   controller.NewCertificateController(s.certificate),
		report:        controller.NewReportController(s.report),
		backup:        controller.NewBackupController(s.backup),
		dashboard:     controller.NewDashboardController(s.dashboard),
		group:         controller.NewGroupController(s.group),
		category:      controller.NewCategoryController(s.category),
		announcement:  controller.NewAnnouncementController(s.announcement),
		passwordReset: controller.NewPasswordResetController(s.passwordReset),
		health:        controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, window)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定时清理过期的密码重置申请
func (a *App) startBackgroundTasks(s *services) {
	a.Cron = cron.New()
	if _, err := s.passwordReset.Schedule(a.Cron, a.Config.Scheduler.ResetExpirySpec); err != nil {
		logger.Log.Error("Failed to schedule reset expiry job", zap.Error(err))
		return
	}
	a.Cron.Start()
}

// watchConfig 配置文件变化时更新日志级别并执行已注册的回调
func (a *App) watchConfig() {
	if _, err := os.Stat(configFile); err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetLevel(cfg.Server.Mode)
	})
	err := configwatcher.WatchConfig(ctx, configFile, func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher not started", zap.Error(err))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	// Redis 不可用时令牌黑名单退化为进程内存
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb
	app.blacklist = service.NewTokenBlacklist(rdb)
	app.Publisher = events.NewPublisher(&cfg.Kafka)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		registerUploadRoutes(router, cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)
	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := a.Close(ctx); err != nil {
		logger.Log.Error("Failed to release resources", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}

// Close 释放后台任务、消息发布、追踪和数据库连接
func (a *App) Close(ctx context.Context) error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			logger.Log.Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Warn("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
