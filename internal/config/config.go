package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Драйверы хранилища
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Драйверы блокировок
const (
	LockerLocal = "local"
	LockerRedis = "redis"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Storage    StorageConfig    `toml:"storage"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Events     EventsConfig     `toml:"events"`
	Locker     LockerConfig     `toml:"locker"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Driver      string `toml:"driver"`       // memory | postgres
	CatalogFile string `toml:"catalog_file"` // TOML каталог для memory
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulingConfig параметры движка расписания
type SchedulingConfig struct {
	SlotGranularityMinutes int   `toml:"slot_granularity_minutes"`
	CommitRetries          *int  `toml:"commit_retries"`
	AllowEarlyCompletion   *bool `toml:"allow_early_completion"`
	DayStartHour           *int  `toml:"day_start_hour"`
	PixelsPerHour          int   `toml:"pixels_per_hour"`
}

// Retries число повторов фиксации
func (c SchedulingConfig) Retries() int {
	if c.CommitRetries == nil {
		return domain.DefaultCommitRetries
	}
	return *c.CommitRetries
}

// EarlyCompletion разрешено ли завершать запись до её окончания
func (c SchedulingConfig) EarlyCompletion() bool {
	if c.AllowEarlyCompletion == nil {
		return true
	}
	return *c.AllowEarlyCompletion
}

// StartHour час начала сетки календаря
func (c SchedulingConfig) StartHour() int {
	if c.DayStartHour == nil {
		return domain.DefaultDayStartHour
	}
	return *c.DayStartHour
}

// EventsConfig публикация событий в Kafka
type EventsConfig struct {
	Enabled      bool   `toml:"enabled"`
	KafkaBrokers string `toml:"kafka_brokers"` // через запятую
	Topic        string `toml:"topic"`
	ClientID     string `toml:"client_id"`
}

// LockerConfig блокировки записи по ресурсу
type LockerConfig struct {
	Driver          string `toml:"driver"` // local | redis
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	TTLSeconds      int    `toml:"ttl_seconds"`
	RetryIntervalMs int    `toml:"retry_interval_ms"`
	WaitTimeoutMs   int    `toml:"wait_timeout_ms"`
}

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return finalize(&cfg)
}

// Parse разбирает конфигурацию из строки
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return finalize(&cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling-service"
	}

	setDefault(&c.Scheduling.SlotGranularityMinutes, domain.DefaultSlotGranularityMinutes)
	setDefault(&c.Scheduling.PixelsPerHour, domain.DefaultPixelsPerHour)

	if c.Events.ClientID == "" {
		c.Events.ClientID = c.Metrics.ServiceName
	}

	if c.Locker.Driver == "" {
		c.Locker.Driver = LockerLocal
	}
	setDefault(&c.Locker.TTLSeconds, 10)
	setDefault(&c.Locker.RetryIntervalMs, 25)
	setDefault(&c.Locker.WaitTimeoutMs, 5000)
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d is out of range", c.Server.HTTPPort))
	}

	switch c.Storage.Driver {
	case StorageMemory:
		if c.Storage.CatalogFile == "" {
			problems = append(problems, "storage.catalog_file is required for memory driver")
		}
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown storage.driver %q", c.Storage.Driver))
	}

	g := c.Scheduling.SlotGranularityMinutes
	if g < domain.MinSlotGranularityMinutes || g > domain.MaxSlotGranularityMinutes {
		problems = append(problems, fmt.Sprintf("scheduling.slot_granularity_minutes %d must be in [%d, %d]",
			g, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes))
	}
	if c.Scheduling.Retries() < 0 {
		problems = append(problems, "scheduling.commit_retries must not be negative")
	}
	if h := c.Scheduling.StartHour(); h < 0 || h > 23 {
		problems = append(problems, fmt.Sprintf("scheduling.day_start_hour %d must be in [0, 23]", h))
	}
	if c.Scheduling.PixelsPerHour <= 0 {
		problems = append(problems, "scheduling.pixels_per_hour must be positive")
	}

	if c.Events.Enabled {
		if strings.TrimSpace(c.Events.KafkaBrokers) == "" || c.Events.Topic == "" {
			problems = append(problems, "events.kafka_brokers and events.topic are required when events are enabled")
		}
	}

	switch c.Locker.Driver {
	case LockerLocal:
	case LockerRedis:
		if c.Locker.RedisAddr == "" {
			problems = append(problems, "locker.redis_addr is required for redis driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown locker.driver %q", c.Locker.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
