package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Lockout    LockoutConfig
	Seed       SeedConfig
}

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
	LogLevel string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig is fixed per deployment; nothing here changes per call.
type SchedulingConfig struct {
	InitialBookingDays int
	RescheduleMinDays  int
	RescheduleMaxDays  int
	OpeningTime        string // HH:MM
	ClosingTime        string // HH:MM
	SlotStep           time.Duration
}

type LockoutConfig struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// SeedConfig holds the staff accounts created on first start. Empty email skips the account.
type SeedConfig struct {
	AdminEmail           string
	AdminPassword        string
	ReceptionistEmail    string
	ReceptionistPassword string
	DefaultDoctors       bool
}

var (
	ErrInvalidSchedulingConfig = errors.New("invalid scheduling configuration")
)

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "UTC")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("BOOKING_INITIAL_DAYS", 7)
	viper.SetDefault("RESCHEDULE_MIN_DAYS", 2)
	viper.SetDefault("RESCHEDULE_MAX_DAYS", 30)
	viper.SetDefault("SLOT_OPENING_TIME", "09:00")
	viper.SetDefault("SLOT_CLOSING_TIME", "18:00")
	viper.SetDefault("SLOT_STEP", "60m")

	viper.SetDefault("LOGIN_MAX_ATTEMPTS", 3)
	viper.SetDefault("LOGIN_LOCK_DURATION", "15m")

	viper.SetDefault("SEED_DEFAULT_DOCTORS", true)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Env-only deployments have no .env file
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	slotStep, err := time.ParseDuration(viper.GetString("SLOT_STEP"))
	if err != nil {
		return nil, fmt.Errorf("%w: SLOT_STEP: %v", ErrInvalidSchedulingConfig, err)
	}

	lockDuration, err := time.ParseDuration(viper.GetString("LOGIN_LOCK_DURATION"))
	if err != nil {
		lockDuration = 15 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      viper.GetString("APP_ENV"),
			Timezone: viper.GetString("APP_TIMEZONE"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			InitialBookingDays: viper.GetInt("BOOKING_INITIAL_DAYS"),
			RescheduleMinDays:  viper.GetInt("RESCHEDULE_MIN_DAYS"),
			RescheduleMaxDays:  viper.GetInt("RESCHEDULE_MAX_DAYS"),
			OpeningTime:        viper.GetString("SLOT_OPENING_TIME"),
			ClosingTime:        viper.GetString("SLOT_CLOSING_TIME"),
			SlotStep:           slotStep,
		},
		Lockout: LockoutConfig{
			MaxAttempts:  viper.GetInt("LOGIN_MAX_ATTEMPTS"),
			LockDuration: lockDuration,
		},
		Seed: SeedConfig{
			AdminEmail:           viper.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword:        viper.GetString("SEED_ADMIN_PASSWORD"),
			ReceptionistEmail:    viper.GetString("SEED_RECEPTIONIST_EMAIL"),
			ReceptionistPassword: viper.GetString("SEED_RECEPTIONIST_PASSWORD"),
			DefaultDoctors:       viper.GetBool("SEED_DEFAULT_DOCTORS"),
		},
	}

	if err := config.Scheduling.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the scheduling values that would otherwise silently produce empty grids.
func (c SchedulingConfig) Validate() error {
	if _, err := time.Parse("15:04", c.OpeningTime); err != nil {
		return fmt.Errorf("%w: SLOT_OPENING_TIME must be HH:MM", ErrInvalidSchedulingConfig)
	}
	if _, err := time.Parse("15:04", c.ClosingTime); err != nil {
		return fmt.Errorf("%w: SLOT_CLOSING_TIME must be HH:MM", ErrInvalidSchedulingConfig)
	}
	if c.InitialBookingDays < 0 || c.RescheduleMinDays < 0 || c.RescheduleMaxDays < 0 {
		return fmt.Errorf("%w: day horizons must not be negative", ErrInvalidSchedulingConfig)
	}
	if c.RescheduleMinDays > c.RescheduleMaxDays {
		return fmt.Errorf("%w: RESCHEDULE_MIN_DAYS exceeds RESCHEDULE_MAX_DAYS", ErrInvalidSchedulingConfig)
	}
	return nil
}

// Location resolves the clinic time zone used for calendar-day arithmetic.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
