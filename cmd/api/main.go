package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/ems-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/genai"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	assistantService "github.com/cmlabs-hris/ems-backend-go/internal/service/assistant"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/ems-backend-go/internal/service/company"
	employeeService "github.com/cmlabs-hris/ems-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/ems-backend-go/internal/service/payroll"
	performanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/performance"
	verificationService "github.com/cmlabs-hris/ems-backend-go/internal/service/verification"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, postgresql.Schema); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
		slog.Info("Schema migrated")
	}

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)
	transactor := postgresql.NewTransactor(db)

	var locker lock.Locker
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTL)
	} else {
		slog.Warn("REDIS_ADDR not set, clock locks are held in-process only")
		locker = lock.NewMemoryLocker()
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			return fmt.Errorf("initializing local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initializing email service: %w", err)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("initializing jwt service: %w", err)
	}

	model, err := genai.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return fmt.Errorf("initializing model client: %w", err)
	}
	verifier := verificationService.NewVerificationService(model, cfg.AI.Timeout)

	defaultLoc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	hub := sse.NewHub()
	var notifier notification.Sink = hub

	issuer := serviceCompany.NewInvitationCodeIssuer(companyRepo, transactor)
	authService := serviceAuth.NewAuthService(
		transactor,
		companyRepo,
		employeeRepo,
		issuer,
		verifier,
		fileService,
		JWTService,
	)
	companyService := serviceCompany.NewCompanyService(
		companyRepo,
		employeeRepo,
		issuer,
		emailService,
		cfg.App.FrontendURL,
	)
	employeeSvc := employeeService.NewEmployeeService(
		employeeRepo,
		fileService,
		verifier,
		publisher,
		notifier,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		companyRepo,
		employeeRepo,
		fileService,
		verifier,
		locker,
		notifier,
		defaultLoc,
	)
	leaveService := leave.NewLeaveService(leaveRequestRepo, employeeRepo, attendanceRepo, transactor, notifier)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, transactor, cfg.Payroll)
	performanceSvc := performanceService.NewPerformanceService(reviewRepo, employeeRepo)
	assistantSvc := assistantService.NewAssistantService(model, employeeRepo, reviewRepo, cfg.AI.Timeout)

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authService),
		Company:      appHTTP.NewCompanyHandler(companyService),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Verification: appHTTP.NewVerificationHandler(verifier),
		Leave:        appHTTP.NewLeaveHandler(leaveService),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Performance:  appHTTP.NewPerformanceHandler(performanceSvc),
		Assistant:    appHTTP.NewAssistantHandler(assistantSvc),
		Notification: appHTTP.NewNotificationHandler(hub),
	}
	aiLimiter := middleware.NewEmployeeRateLimiter(rate.Limit(cfg.AI.RateLimit), cfg.AI.RateBurst)
	router := appHTTP.NewRouter(cfg.App, cfg.Storage.BasePath, JWTService, aiLimiter, handlers)

	scheduler := cron.NewScheduler()
	cron.NewDeletionJobs(employeeRepo, publisher).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
