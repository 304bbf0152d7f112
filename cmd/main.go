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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_calendar"
	getWindowsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_windows"
	listAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_appointments"
	listResourcesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_resources"
	purgeAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/purge_appointment"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_appointment"
	setAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/set_availability"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/locker"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	calendarService "github.com/m04kA/SMC-SchedulingService/internal/service/calendar"
	createAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// appointmentStorage хранилище записей, общее для всех потребителей
type appointmentStorage interface {
	createAppointmentUC.AppointmentStore
	rescheduleAppointmentUC.AppointmentStore
	getAvailableSlotsUC.AppointmentStore
	appointmentsService.AppointmentStore
	calendarService.AppointmentStore
}

// catalogStorage каталог ресурсов и услуг
type catalogStorage interface {
	createAppointmentUC.CatalogRepository
	rescheduleAppointmentUC.CatalogRepository
	getAvailableSlotsUC.CatalogRepository
	availabilityService.CatalogRepository
	calendarService.CatalogRepository
}

// resourceLocker блокировка записи по ресурсу
type resourceLocker interface {
	createAppointmentUC.Locker
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		appointments appointmentStorage
		catalog      catalogStorage
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		txManager := txmanager.NewTransactionManager(db)
		appointments = appointmentRepo.NewRepository(db, txManager)
		catalog = catalogRepo.NewRepository(db, txManager)
	default:
		seeded, err := catalogRepo.LoadSeedFile(cfg.Storage.CatalogFile)
		if err != nil {
			log.Fatal("Failed to load catalog from %s: %v", cfg.Storage.CatalogFile, err)
		}
		log.Info("In-memory storage initialized, catalog loaded from %s", cfg.Storage.CatalogFile)

		appointments = appointmentRepo.NewMemoryRepository()
		catalog = seeded
	}

	// Инициализируем блокировки
	var resourceLocks resourceLocker
	switch cfg.Locker.Driver {
	case config.LockerRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Locker.RedisAddr,
			Password: cfg.Locker.RedisPassword,
			DB:       cfg.Locker.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Locker.RedisAddr, err)
		}

		resourceLocks = locker.NewRedis(redisClient, locker.RedisOptions{
			TTL:           time.Duration(cfg.Locker.TTLSeconds) * time.Second,
			RetryInterval: time.Duration(cfg.Locker.RetryIntervalMs) * time.Millisecond,
			WaitTimeout:   time.Duration(cfg.Locker.WaitTimeoutMs) * time.Millisecond,
		}, log)
		log.Info("Redis locker initialized (addr=%s)", cfg.Locker.RedisAddr)
	default:
		resourceLocks = locker.NewLocal()
		log.Info("Local locker initialized")
	}

	// Инициализируем шину событий
	bus := events.NewBus(log)
	bus.Subscribe("log", events.LogHandler(log))

	if cfg.Metrics.Enabled {
		bus.Subscribe("metrics", events.MetricsHandler(metricsCollector))
	}

	var kafkaPublisher *events.KafkaPublisher
	if cfg.Events.Enabled {
		kafkaPublisher, err = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:  cfg.Events.KafkaBrokers,
			Topic:    cfg.Events.Topic,
			ClientID: cfg.Events.ClientID,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize kafka publisher: %v", err)
		}
		bus.Subscribe("kafka", kafkaPublisher.Handle)
		log.Info("Kafka publisher enabled (brokers=%s, topic=%s)", cfg.Events.KafkaBrokers, cfg.Events.Topic)
	}

	// Метрики передаются как nil-интерфейс, если выключены
	var (
		conflictObserver appointmentsService.ConflictObserver
		slotsObserver    getAvailableSlotsUC.SlotsObserver
	)
	if cfg.Metrics.Enabled {
		conflictObserver = metricsCollector
		slotsObserver = metricsCollector
	}

	timeProvider := clock.Real{}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointments,
		resourceLocks,
		bus,
		conflictObserver,
		timeProvider,
		log,
		appointmentsService.Options{
			CommitRetries:        cfg.Scheduling.Retries(),
			AllowEarlyCompletion: cfg.Scheduling.EarlyCompletion(),
		},
	)
	availabilitySvc := availabilityService.NewService(catalog, log)
	calendarSvc := calendarService.NewService(appointments, catalog, log, calendarService.Options{
		DayStartHour:  cfg.Scheduling.StartHour(),
		PixelsPerHour: float64(cfg.Scheduling.PixelsPerHour),
	})

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointments,
		catalog,
		resourceLocks,
		bus,
		conflictObserver,
		timeProvider,
		log,
		createAppointmentUC.Options{CommitRetries: cfg.Scheduling.Retries()},
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointments,
		catalog,
		resourceLocks,
		conflictObserver,
		timeProvider,
		log,
		rescheduleAppointmentUC.Options{CommitRetries: cfg.Scheduling.Retries()},
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointments,
		catalog,
		timeProvider,
		slotsObserver,
		log,
		cfg.Scheduling.SlotGranularityMinutes,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, appointmentsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	purgeAppointment := purgeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	setAvailability := setAvailabilityHandler.NewHandler(availabilitySvc, log)
	getWindows := getWindowsHandler.NewHandler(availabilitySvc, log)
	listResources := listResourcesHandler.NewHandler(availabilitySvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Ресурсы ---
	// Список ресурсов каталога
	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)

	// Недельное расписание ресурса
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Изменение расписания на день недели
	api.HandleFunc("/resources/{resourceId}/availability/{weekday}", setAvailability.Handle).Methods(http.MethodPut)

	// Рабочие окна ресурса на дату
	api.HandleFunc("/resources/{resourceId}/windows", getWindows.Handle).Methods(http.MethodGet)

	// Свободные слоты на дату
	api.HandleFunc("/resources/{resourceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Записи ресурса
	api.HandleFunc("/resources/{resourceId}/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Календарь: неделя, месяц, список
	api.HandleFunc("/resources/{resourceId}/calendar/{view:"+getCalendarHandler.ViewPattern+"}",
		getCalendar.Handle).Methods(http.MethodGet)

	// --- Записи ---
	// Создание записи
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Удаление отменённой записи
	api.HandleFunc("/appointments/{appointmentId}", purgeAppointment.Handle).Methods(http.MethodDelete)

	// Перенос записи
	api.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса: accept, cancel, complete
	api.HandleFunc("/appointments/{appointmentId}/{action:"+updateAppointmentStatusHandler.ActionPattern+"}",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

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

	// Дописываем буфер событий после остановки приёма запросов
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Failed to close kafka publisher: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
