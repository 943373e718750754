package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/cancel_appointment"
	confirmAppointmentHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/confirm_appointment"
	deleteCenterPolicyHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/delete_center_policy"
	endSessionHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/end_session"
	getAppointmentHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/get_appointment"
	getAppointmentsHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/get_appointments"
	getCenterPolicyHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/get_center_policy"
	getCentersHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/get_centers"
	getSessionHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/get_session"
	rebookAppointmentHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/rebook_appointment"
	refreshAppointmentHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/refresh_appointment"
	startSessionHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/start_session"
	submitBookingHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/submit_booking"
	syncCalendarHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/sync_calendar"
	updateCenterPolicyHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/update_center_policy"
	updateSelectionHandler "github.com/m04kA/SMC-SpaBooking/internal/api/handlers/update_selection"
	"github.com/m04kA/SMC-SpaBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaBooking/internal/config"
	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/infra/calendar"
	appointmentRepo "github.com/m04kA/SMC-SpaBooking/internal/infra/storage/appointment"
	policyRepo "github.com/m04kA/SMC-SpaBooking/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/internal/service/availability"
	"github.com/m04kA/SMC-SpaBooking/internal/service/calendarmirror"
	"github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"
	policyService "github.com/m04kA/SMC-SpaBooking/internal/service/policy"
	"github.com/m04kA/SMC-SpaBooking/internal/service/rebooking"
	"github.com/m04kA/SMC-SpaBooking/internal/service/selection"
	createBookingUC "github.com/m04kA/SMC-SpaBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SpaBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaBooking/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SpaBooking...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены); методы *metrics.Metrics допускают nil
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}

	// Настраиваем connection pool
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	db := dbmetrics.Wrap(sqlDB, metricsCollector)
	defer db.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (календарь напоминаний)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Клиент бэкенда спа-центров
	backendClient := spaapi.NewClient(
		cfg.Backend.URL,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		metricsCollector,
		log,
	)
	log.Info("Backend client initialized (url=%s, timeout=%ds)", cfg.Backend.URL, cfg.Backend.Timeout)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(db)
	policyRepository := policyRepo.NewRepository(db)

	// Календарь напоминаний
	calendarStore := calendar.NewRedisCalendar(redisClient, cfg.Calendar.Name)
	calendarAuthorizer := calendar.NewAuthorizer(
		redisClient,
		cfg.Calendar.Name,
		domain.CalendarAccess(cfg.Calendar.Access),
		cfg.Calendar.GrantOnRequest,
	)
	mirror := calendarmirror.NewSynchronizer(
		calendarStore,
		calendarAuthorizer,
		cfg.Calendar.Alarms(),
		metricsCollector,
		log,
	)

	// Сервисы и use cases
	aggregator := availability.NewAggregator(location, metricsCollector, log)
	carryover := rebooking.NewCarryover()
	policySvc := policyService.NewService(policyRepository, cfg.Booking.Policy(), log)

	createBookingUseCase := createBookingUC.NewUseCase(
		backendClient,
		appointmentRepository,
		mirror,
		log,
	)

	sessions := selection.NewSessions(
		backendClient,
		aggregator,
		createBookingUseCase,
		carryover,
		metricsCollector,
		location,
		log,
	)
	defer sessions.Close()

	lifecycleSvc := lifecycle.NewService(
		backendClient,
		appointmentRepository,
		policySvc,
		mirror,
		carryover,
		log,
	)

	// Инициализируем handlers
	getCenters := getCentersHandler.NewHandler(backendClient, log)
	getCenterPolicy := getCenterPolicyHandler.NewHandler(policySvc, log)
	updateCenterPolicy := updateCenterPolicyHandler.NewHandler(policySvc, log)
	deleteCenterPolicy := deleteCenterPolicyHandler.NewHandler(policySvc, log)

	startSession := startSessionHandler.NewHandler(sessions, log)
	getSession := getSessionHandler.NewHandler(sessions, log)
	endSession := endSessionHandler.NewHandler(sessions, log)
	updateSelection := updateSelectionHandler.NewHandler(sessions, log)
	submitBooking := submitBookingHandler.NewHandler(sessions, log)

	getAppointments := getAppointmentsHandler.NewHandler(lifecycleSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(lifecycleSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(lifecycleSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(lifecycleSvc, log)
	rebookAppointment := rebookAppointmentHandler.NewHandler(lifecycleSvc, log)
	refreshAppointment := refreshAppointmentHandler.NewHandler(lifecycleSvc, log)
	syncCalendar := syncCalendarHandler.NewHandler(lifecycleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Список центров
	api.HandleFunc("/centers", getCenters.Handle).Methods(http.MethodGet)

	// Окна подтверждения и отмены центра
	api.HandleFunc("/centers/{centerId}/policy", getCenterPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/centers/{centerId}/policy", updateCenterPolicy.Handle).Methods(http.MethodPut)
	api.HandleFunc("/centers/{centerId}/policy", deleteCenterPolicy.Handle).Methods(http.MethodDelete)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Customer-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Сессия выбора ---
	protected.HandleFunc("/session", startSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/session", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/session", endSession.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/session/submit", submitBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/session/{step}", updateSelection.Handle).Methods(http.MethodPut)

	// --- Записи ---
	protected.HandleFunc("/appointments", getAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/sync-calendar", syncCalendar.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/rebook", rebookAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/refresh", refreshAppointment.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
