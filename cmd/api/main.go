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

	"github.com/pragyatmika/hrms-backend-go/internal/config"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	appHTTP "github.com/pragyatmika/hrms-backend-go/internal/handler/http"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/cron"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/email"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/eventbus"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/jwt"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/keylock"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/storage"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/memory"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/pragyatmika/hrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/pragyatmika/hrms-backend-go/internal/service/auth"
	employeeService "github.com/pragyatmika/hrms-backend-go/internal/service/employee"
	exceptionService "github.com/pragyatmika/hrms-backend-go/internal/service/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/service/file"
	leaveService "github.com/pragyatmika/hrms-backend-go/internal/service/leave"
	notificationService "github.com/pragyatmika/hrms-backend-go/internal/service/notification"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type repositories struct {
	tx                database.Transactor
	admins            user.AdminRepository
	employees         employee.EmployeeRepository
	attendance        attendance.AttendanceRepository
	exceptionRequests exception.RequestRepository
	exceptionArchive  exception.ArchiveRepository
	leaveBalances     leave.BalanceRepository
	leaveRequests     leave.RequestRepository
	holidays          leave.HolidayRepository
}

func postgresRepositories(db *database.DB) repositories {
	return repositories{
		tx:                postgresql.NewTransactor(db),
		admins:            postgresql.NewAdminRepository(db),
		employees:         postgresql.NewEmployeeRepository(db),
		attendance:        postgresql.NewAttendanceRepository(db),
		exceptionRequests: postgresql.NewExceptionRequestRepository(db),
		exceptionArchive:  postgresql.NewExceptionArchiveRepository(db),
		leaveBalances:     postgresql.NewLeaveBalanceRepository(db),
		leaveRequests:     postgresql.NewLeaveRequestRepository(db),
		holidays:          postgresql.NewHolidayRepository(db),
	}
}

func memoryRepositories() repositories {
	store := memory.NewStore()
	return repositories{
		tx:                memory.NewTransactor(store),
		admins:            memory.NewAdminRepository(store),
		employees:         memory.NewEmployeeRepository(store),
		attendance:        memory.NewAttendanceRepository(store),
		exceptionRequests: memory.NewExceptionRequestRepository(store),
		exceptionArchive:  memory.NewExceptionArchiveRepository(store),
		leaveBalances:     memory.NewLeaveBalanceRepository(store),
		leaveRequests:     memory.NewLeaveRequestRepository(store),
		holidays:          memory.NewHolidayRepository(store),
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos repositories
	switch cfg.App.Persistence {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return err
		}
		repos = postgresRepositories(db)
	default:
		slog.Warn("using in-memory persistence, data is lost on restart")
		repos = memoryRepositories()
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "gcs":
		gcs, err := storage.NewGCSStorage(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSCredentialsJSON)
		if err != nil {
			return fmt.Errorf("failed to initialize GCS storage: %w", err)
		}
		defer gcs.Close()
		fileStorage = gcs
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	var locker keylock.Locker = keylock.NewLocal()
	rdb, err := database.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
		locker = keylock.NewRedis(rdb, cfg.Redis.LockTTL)
		slog.Info("using redis attendance locks")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var sinks []notification.Sink
	if cfg.SMTP.Host != "" {
		emailService, err := email.NewEmailService(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		sinks = append(sinks, notificationService.NewEmailSink(emailService))
	}
	if cfg.PubSub.Topic != "" {
		publisher, err := eventbus.NewPubSubPublisher(ctx, cfg.PubSub.ProjectID, cfg.PubSub.Topic, cfg.PubSub.CredentialsJSON)
		if err != nil {
			return fmt.Errorf("failed to initialize pubsub publisher: %w", err)
		}
		defer publisher.Close()
		sinks = append(sinks, notificationService.NewPubSubSink(publisher))
	}
	if len(sinks) == 0 {
		slog.Warn("no notification sinks configured, events will be discarded")
	}
	dispatcher := notificationService.NewDispatcher(sinks, m, notificationService.Config{
		WorkerCount: cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
	})

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	loc := cfg.App.Location
	ledger := attendanceService.NewLedger(repos.attendance, repos.tx, locker, loc)

	authSvc := serviceAuth.NewAuthService(repos.admins, repos.employees, JWTService, cfg.App.AdminSignupKey)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employees, ledger, fileService, m, loc)
	exceptionSvc := exceptionService.NewExceptionService(
		repos.exceptionRequests,
		repos.exceptionArchive,
		repos.employees,
		ledger,
		repos.tx,
		fileService,
		dispatcher,
		m,
		cfg.Notification.AdminEmail,
		loc,
	)
	employeeSvc := employeeService.NewEmployeeService(repos.employees, repos.leaveBalances, repos.tx, fileService, dispatcher, loc)
	leaveSvc := leaveService.NewLeaveService(
		repos.tx,
		repos.leaveBalances,
		repos.leaveRequests,
		repos.holidays,
		repos.employees,
		dispatcher,
		m,
		loc,
	)

	scheduler := cron.NewScheduler()
	cron.NewHousekeepingJobs(repos.exceptionRequests, repos.employees, repos.leaveBalances, m, loc).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	uploadsDir := ""
	if cfg.Storage.Type == "local" {
		uploadsDir = cfg.Storage.BasePath
	}
	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
		UploadsDir:     uploadsDir,
		Metrics:        reg,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Exception:  appHTTP.NewExceptionHandler(exceptionSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc, loc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.App.Env, "persistence", cfg.App.Persistence)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	scheduler.Stop()
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		slog.Error("notification dispatcher did not drain", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
