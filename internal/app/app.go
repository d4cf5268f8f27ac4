package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/controller"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/store"
	"adaptive_edu_backend/pkg/configwatcher"
	"adaptive_edu_backend/pkg/database"
	"adaptive_edu_backend/pkg/events"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"
	"adaptive_edu_backend/pkg/security"
	"adaptive_edu_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Engines *service.EngineProvider
	Events  events.Publisher

	services        *services
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	question     *repository.QuestionRepository
	mastery      *repository.MasteryRepository
	assessment   *repository.AssessmentRepository
	learningPath *repository.LearningPathRepository
	practice     *repository.PracticeRepository
}

type services struct {
	bank         *service.QuestionBankService
	user         *service.UserService
	mastery      *service.MasteryUpdater
	storage      *service.StorageService
	assessment   *service.AssessmentService
	adaptive     *service.AdaptiveService
	learningPath *service.LearningPathService
	analytics    *service.AnalyticsService
}

type controllers struct {
	health       *controller.HealthController
	subject      *controller.SubjectController
	assessment   *controller.AssessmentController
	learning     *controller.LearningController
	learningPath *controller.LearningPathController
	analytics    *controller.AnalyticsController
	admin        *controller.AdminController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		question:     repository.NewQuestionRepository(db),
		mastery:      repository.NewMasteryRepository(db),
		assessment:   repository.NewAssessmentRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		practice:     repository.NewPracticeRepository(db),
	}
}

// newMasteryStore 按 mastery_store.type 选择掌握度存储
func newMasteryStore(cfg *config.MasteryStoreConfig, repos *repositories, rdb *redis.Client) (store.MasteryStore, error) {
	switch cfg.Type {
	case config.MasteryStoreMemory:
		return store.NewMemoryStore(), nil
	case config.MasteryStoreRedis:
		if rdb == nil {
			return nil, errors.New("mastery_store.type is redis but no redis client is configured")
		}
		return store.NewRedisStore(rdb, cfg.KeyPrefix, cfg.MaxRetries), nil
	case config.MasteryStoreDatabase, "":
		return repos.mastery, nil
	default:
		return nil, fmt.Errorf("unknown mastery_store.type %q", cfg.Type)
	}
}

func (a *App) initServices(repos *repositories, st store.MasteryStore) *services {
	cfg := a.Config
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.bank = service.NewQuestionBankService(repos.question, repos.user)
	s.user = service.NewUserService(repos.user)
	s.mastery = service.NewMasteryUpdater(a.Engines, st, a.Events)
	s.assessment = service.NewAssessmentService(
		s.bank,
		repos.user,
		repos.assessment,
		repos.learningPath,
		s.mastery,
		s.storage,
		cfg.Assessment,
		cfg.Storage.ArchiveReports,
	)
	s.adaptive = service.NewAdaptiveService(s.bank, repos.user, repos.practice, s.mastery)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.user, s.bank)
	s.analytics = service.NewAnalyticsService(repos.user, repos.question, repos.assessment, repos.learningPath, st)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		health:       controller.NewHealthController(a.DB, a.Redis),
		subject:      controller.NewSubjectController(s.bank),
		assessment:   controller.NewAssessmentController(s.assessment),
		learning:     controller.NewLearningController(s.adaptive),
		learningPath: controller.NewLearningPathController(s.learningPath),
		analytics:    controller.NewAnalyticsController(s.analytics),
		admin:        controller.NewAdminController(s.bank, s.user),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins, cfg.Server.Mode != gin.ReleaseMode))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 连接外部依赖（数据库、Redis、NATS、Jaeger）并组装应用
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var rdb *redis.Client
	if cfg.MasteryStore.Type == config.MasteryStoreRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err = database.InitRedis(ctx, &cfg.Redis)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
	}

	var pub events.Publisher = events.Nop{}
	if cfg.Events.Enabled {
		np, err := events.NewNATSPublisher(cfg.Events.URL, cfg.Events.SubjectPrefix)
		if err != nil {
			// 事件是旁路通知，连不上不影响主流程
			logger.Log.Warn("Failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			pub = np
		}
	}

	a, err := New(cfg, db, rdb, pub)
	if err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			a.tracer = tp
		}
	}

	return a, nil
}

// New 在已有连接上组装仓储、服务、控制器和路由。rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pub events.Publisher) (*App, error) {
	params, err := cfg.Engine.Params()
	if err != nil {
		return nil, err
	}
	engines, err := service.NewEngineProvider(params)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		pub = events.Nop{}
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Engines: engines,
		Events:  pub,
	}
	app.RegisterConfigCallback(engines.Reload)

	repos := app.initRepositories(db)
	st, err := newMasteryStore(&cfg.MasteryStore, repos, rdb)
	if err != nil {
		return nil, err
	}
	app.services = app.initServices(repos, st)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	logger.Log.Info("Application assembled",
		zap.String("mastery_store", cfg.MasteryStore.Type),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("events", cfg.Events.Enabled))
	return app, nil
}

// SeedQuestionBank 导入题库文件，供 seed 命令和启动时使用
func (a *App) SeedQuestionBank(ctx context.Context, path string) (*service.ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return a.services.bank.ImportYAML(ctx, f)
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go a.limiter.Run(ctx.Done())

	if a.Config.File != "" {
		go func() {
			reloaders := make([]configwatcher.ConfigReloader, 0, len(a.configCallbacks))
			for _, cb := range a.configCallbacks {
				reloaders = append(reloaders, cb)
			}
			if err := configwatcher.WatchConfig(ctx, a.Config.File, reloaders...); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("listen: %w", err)
	}
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout())
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放 NATS、Redis、数据库和 tracer
func (a *App) Close() {
	if err := a.Events.Close(); err != nil {
		logger.Log.Warn("Failed to close event publisher", zap.Error(err))
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
