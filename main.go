package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transport-service/internal/auth"
	"transport-service/internal/config"
	"transport-service/internal/handlers"
	"transport-service/internal/metrics"
	"transport-service/internal/middleware"
	"transport-service/internal/models"
	"transport-service/internal/repository"
	"transport-service/internal/services"
)

func main() {
	cfg := config.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := connectDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := autoMigrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	tokens := auth.NewTokenManager(cfg.App.JWTSecret, time.Duration(cfg.App.TokenTTLHours)*time.Hour)
	m := metrics.New()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	checkRepo := repository.NewDailyCheckRepository(db)
	contractRepo := repository.NewContractRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)

	// Services
	authService := services.NewAuthService(db, userRepo, inviteRepo, tokens)
	inviteService := services.NewInviteService(inviteRepo)
	clientService := services.NewClientService(db, tenantRepo)
	schoolService := services.NewSchoolService(db, schoolRepo)
	vehicleService := services.NewVehicleService(vehicleRepo)
	studentService := services.NewStudentService(db, studentRepo, userRepo, schoolRepo)
	routeService := services.NewRouteService(db, routeRepo, studentRepo, userRepo, schoolRepo, checkRepo)
	contractService := services.NewContractService(db, contractRepo, installmentRepo)
	onboardingService := services.NewOnboardingService(db, tenantRepo, schoolRepo)
	dashboardService := services.NewDashboardService(tenantRepo, userRepo, studentRepo, routeRepo, contractRepo, installmentRepo)
	reportService := services.NewReportService(studentRepo, checkRepo)
	userService := services.NewUserService(userRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, logger)
	inviteHandler := handlers.NewInviteHandler(inviteService, logger)
	clientHandler := handlers.NewClientHandler(clientService, logger)
	schoolHandler := handlers.NewSchoolHandler(schoolService, logger)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, logger)
	studentHandler := handlers.NewStudentHandler(studentService, logger)
	routeHandler := handlers.NewRouteHandler(routeService, logger)
	contractHandler := handlers.NewContractHandler(contractService, m, logger)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger)
	reportHandler := handlers.NewReportHandler(reportService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(m.Middleware())

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		// Public endpoints
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/invites/:token", inviteHandler.GetByToken)
		api.POST("/onboarding/:tenantId/matricula", onboardingHandler.Enroll)

		authed := api.Group("")
		authed.Use(middleware.Authenticate(tokens))
		{
			authed.GET("/dashboard", dashboardHandler.Summary)
			authed.GET("/reports/frequency/:studentId", reportHandler.MonthlyFrequency)

			operator := authed.Group("/clients")
			operator.Use(middleware.RequireRole(models.RoleSuperAdmin))
			{
				operator.POST("", clientHandler.Create)
				operator.GET("", clientHandler.List)
				operator.GET("/:id", clientHandler.Get)
			}

			admin := authed.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/invites", inviteHandler.Create)
				admin.GET("/users/staff", userHandler.ListStaff)
				admin.GET("/users/guardians", userHandler.ListGuardians)

				admin.POST("/schools", schoolHandler.Create)
				admin.POST("/vehicles", vehicleHandler.Create)
				admin.PUT("/vehicles/:id", vehicleHandler.Update)
				admin.DELETE("/vehicles/:id", vehicleHandler.Delete)
				admin.POST("/students", studentHandler.Create)
				admin.PUT("/students/:id/addresses", studentHandler.UpdateAddresses)
				admin.POST("/routes", routeHandler.Create)
				admin.POST("/routes/:id/students", routeHandler.AssignStudent)
				admin.POST("/routes/:id/staff", routeHandler.AssignStaff)

				admin.POST("/contracts", contractHandler.Create)
				admin.POST("/installments/:id/payment", contractHandler.RegisterPayment)
				admin.DELETE("/installments/:id/payment", contractHandler.UndoPayment)
				admin.POST("/installments/bulk-payment", contractHandler.RegisterBulkPayment)
			}

			adminRead := authed.Group("")
			adminRead.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
			{
				adminRead.GET("/schools", schoolHandler.List)
				adminRead.GET("/schools/:id", schoolHandler.Get)
				adminRead.GET("/vehicles", vehicleHandler.List)
				adminRead.GET("/vehicles/:id", vehicleHandler.Get)
				adminRead.GET("/students", studentHandler.List)
				adminRead.GET("/contracts", contractHandler.List)
				adminRead.GET("/contracts/:id", contractHandler.Get)
			}

			guardian := authed.Group("")
			guardian.Use(middleware.RequireRole(models.RoleGuardian))
			{
				guardian.GET("/students/mine", studentHandler.ListMine)
			}

			authed.GET("/students/:id", studentHandler.Get)

			staff := authed.Group("")
			staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDriver, models.RoleMonitor))
			{
				staff.GET("/routes", routeHandler.List)
				staff.GET("/routes/:id", routeHandler.Get)
				staff.GET("/routes/:id/checklist", routeHandler.Checklist)
				staff.POST("/routes/:id/checks", routeHandler.PerformCheck)
			}
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("Starting transport service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}
	logger.Info("Server exited")
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	logLevel := gormlogger.Warn
	if cfg.App.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.Address{},
		&models.User{},
		&models.Invite{},
		&models.School{},
		&models.Vehicle{},
		&models.Student{},
		&models.StudentAddress{},
		&models.Route{},
		&models.RouteStudent{},
		&models.RouteStaff{},
		&models.DailyCheck{},
		&models.Contract{},
		&models.Installment{},
	)
}
