package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Database DatabaseConfig `toml:"database"`
	Backend  BackendConfig  `toml:"backend"`
	Redis    RedisConfig    `toml:"redis"`
	Calendar CalendarConfig `toml:"calendar"`
	Booking  BookingConfig  `toml:"booking"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DatabaseConfig локальное хранилище записей (appointments, policy overrides)
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

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// BackendConfig API бэкенда спа-центров
type BackendConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RedisConfig хранилище календаря напоминаний
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CalendarConfig выделенный календарь напоминаний
type CalendarConfig struct {
	Name string `toml:"name"`
	// Access исходный статус разрешения: granted, denied, not_determined
	Access string `toml:"access"`
	// GrantOnRequest ответ на запрос разрешения, когда статус not_determined
	GrantOnRequest bool  `toml:"grant_on_request"`
	AlarmsMinutes  []int `toml:"alarms_minutes"`
}

// Alarms возвращает смещения напоминаний до начала записи
func (c CalendarConfig) Alarms() []time.Duration {
	alarms := make([]time.Duration, 0, len(c.AlarmsMinutes))
	for _, m := range c.AlarmsMinutes {
		alarms = append(alarms, time.Duration(m)*time.Minute)
	}
	return alarms
}

// BookingConfig окна подтверждения и отмены записей
type BookingConfig struct {
	ConfirmOpensHours  int    `toml:"confirm_opens_hours"`
	ConfirmClosesHours int    `toml:"confirm_closes_hours"`
	CancelNoticeHours  int    `toml:"cancel_notice_hours"`
	Timezone           string `toml:"timezone"`
}

// Policy возвращает политику жизненного цикла по умолчанию
func (b BookingConfig) Policy() domain.Policy {
	return domain.Policy{
		ConfirmOpens:  time.Duration(b.ConfirmOpensHours) * time.Hour,
		ConfirmCloses: time.Duration(b.ConfirmClosesHours) * time.Hour,
		CancelNotice:  time.Duration(b.CancelNoticeHours) * time.Hour,
	}
}

// Location возвращает часовой пояс, в котором сравниваются даты расписания
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает конфигурацию из TOML-файла, подставляет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("%w: backend.url is required", ErrInvalidConfig)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: backend.timeout must be positive", ErrInvalidConfig)
	}
	if c.Booking.ConfirmClosesHours < 0 || c.Booking.ConfirmOpensHours <= c.Booking.ConfirmClosesHours {
		return fmt.Errorf("%w: booking.confirm_opens_hours must be greater than confirm_closes_hours", ErrInvalidConfig)
	}
	if c.Booking.CancelNoticeHours < 0 {
		return fmt.Errorf("%w: booking.cancel_notice_hours must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	switch c.Calendar.Access {
	case "granted", "denied", "not_determined":
	default:
		return fmt.Errorf("%w: calendar.access must be granted, denied or not_determined", ErrInvalidConfig)
	}
	if c.Calendar.Name == "" {
		return fmt.Errorf("%w: calendar.name is required", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{Level: "info"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 300,
		},
		Backend: BackendConfig{Timeout: 15},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Calendar: CalendarConfig{
			Name:          "Spa Appointments",
			Access:        "not_determined",
			AlarmsMinutes: []int{24 * 60, 60},
		},
		Booking: BookingConfig{
			ConfirmOpensHours:  int(domain.DefaultConfirmOpens / time.Hour),
			ConfirmClosesHours: int(domain.DefaultConfirmCloses / time.Hour),
			CancelNoticeHours:  int(domain.DefaultCancelNotice / time.Hour),
			Timezone:           "Local",
		},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "spa-booking"},
	}
}
