package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/JonSnow1807/student-scheduler/internal/handler"
	"github.com/JonSnow1807/student-scheduler/internal/middleware"
	"github.com/JonSnow1807/student-scheduler/internal/repository"
	"github.com/JonSnow1807/student-scheduler/internal/scheduler"
	"github.com/JonSnow1807/student-scheduler/internal/service"
	"github.com/JonSnow1807/student-scheduler/pkg/cache"
	"github.com/JonSnow1807/student-scheduler/pkg/config"
	"github.com/JonSnow1807/student-scheduler/pkg/database"
	"github.com/JonSnow1807/student-scheduler/pkg/logger"
	corsmiddleware "github.com/JonSnow1807/student-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/JonSnow1807/student-scheduler/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: without it report reads fall through to the
	// database on every request.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	timeslotRepo := repository.NewTimeSlotRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.ReportCacheTTL, logr, redisClient != nil)

	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	timeslotSvc := service.NewTimeSlotService(timeslotRepo, validate, logr)
	preferenceSvc := service.NewPreferenceService(preferenceRepo, studentRepo, courseRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(
		studentRepo,
		courseRepo,
		timeslotRepo,
		preferenceRepo,
		assignmentRepo,
		scheduler.NewSATSolver(logr),
		cacheSvc,
		metricsSvc,
		validate,
		cfg.Scheduler,
		logr,
	)

	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	timeslotHandler := handler.NewTimeSlotHandler(timeslotSvc)
	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		students := api.Group("/students")
		{
			students.GET("", studentHandler.List)
			students.POST("", studentHandler.Create)
			students.GET("/:id", studentHandler.Get)
			students.PUT("/:id", studentHandler.Update)
			students.DELETE("/:id", studentHandler.Delete)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.POST("", courseHandler.Create)
			courses.GET("/:id", courseHandler.Get)
			courses.PUT("/:id", courseHandler.Update)
			courses.DELETE("/:id", courseHandler.Delete)
		}

		timeslots := api.Group("/timeslots")
		{
			timeslots.GET("", timeslotHandler.List)
			timeslots.POST("", timeslotHandler.Create)
			timeslots.DELETE("/:id", timeslotHandler.Delete)
		}

		preferences := api.Group("/preferences")
		{
			preferences.GET("", preferenceHandler.ListByStudent)
			preferences.PUT("", preferenceHandler.Upsert)
			preferences.DELETE("/:id", preferenceHandler.Delete)
		}

		schedule := api.Group("/schedule")
		{
			schedule.POST("/optimize", scheduleHandler.Optimize)
			schedule.GET("/report", scheduleHandler.Report)
			schedule.GET("/report/export", scheduleHandler.Export)
			schedule.GET("/assignments", scheduleHandler.Assignments)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "strategy", cfg.Scheduler.Strategy)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
