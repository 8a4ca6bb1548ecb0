package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/credit-engine/pkg/utils"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Business  BusinessConfig
	Cache     CacheConfig
	Health    HealthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SchedulerConfig struct {
	CatalogRefreshSpec string
	Timezone           string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// WeightsConfig holds the scoring weights applied by the comparator.
type WeightsConfig struct {
	Rate        float64
	Eligibility float64
	Speed       float64
	Payment     float64
}

type BusinessConfig struct {
	MaxDebtRatio          string
	HardDebtRatio         string
	PlausibilityMultiple  float64
	PaymentCeiling        float64
	SchedulePreviewRows   int
	CurrencySuffix        string
	IndividualMinIncome   float64
	BusinessMinIncome     float64
	LongDurationThreshold int
	HighRateThreshold     float64
	Weights               WeightsConfig
}

type CacheConfig struct {
	CatalogTTL    time.Duration
	ComparisonTTL time.Duration
}

type HealthConfig struct {
	Timeout time.Duration
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "credit_engine")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SCHEDULER_CATALOG_REFRESH", "0 */15 * * * *")
	v.SetDefault("SCHEDULER_TIMEZONE", "Africa/Douala")
	v.SetDefault("MAX_DEBT_RATIO", "33")
	v.SetDefault("HARD_DEBT_RATIO", "40")
	v.SetDefault("PLAUSIBILITY_MULTIPLE", 60)
	v.SetDefault("PAYMENT_CEILING", 5_000_000)
	v.SetDefault("SCHEDULE_PREVIEW_ROWS", 12)
	v.SetDefault("CURRENCY_SUFFIX", "FCFA")
	v.SetDefault("INDIVIDUAL_MIN_INCOME", 200_000)
	v.SetDefault("BUSINESS_MIN_INCOME", 500_000)
	v.SetDefault("LONG_DURATION_MONTHS", 120)
	v.SetDefault("HIGH_RATE_PERCENT", 15)
	v.SetDefault("WEIGHT_RATE", 0.4)
	v.SetDefault("WEIGHT_ELIGIBILITY", 0.3)
	v.SetDefault("WEIGHT_SPEED", 0.2)
	v.SetDefault("WEIGHT_PAYMENT", 0.1)
	v.SetDefault("CACHE_CATALOG_TTL", "30m")
	v.SetDefault("CACHE_COMPARISON_TTL", "168h")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	cfg := fromViper(v)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetString("DATABASE_PORT"),
			Name:            v.GetString("DATABASE_NAME"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Scheduler: SchedulerConfig{
			CatalogRefreshSpec: v.GetString("SCHEDULER_CATALOG_REFRESH"),
			Timezone:           v.GetString("SCHEDULER_TIMEZONE"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Business: BusinessConfig{
			MaxDebtRatio:          v.GetString("MAX_DEBT_RATIO"),
			HardDebtRatio:         v.GetString("HARD_DEBT_RATIO"),
			PlausibilityMultiple:  v.GetFloat64("PLAUSIBILITY_MULTIPLE"),
			PaymentCeiling:        v.GetFloat64("PAYMENT_CEILING"),
			SchedulePreviewRows:   v.GetInt("SCHEDULE_PREVIEW_ROWS"),
			CurrencySuffix:        v.GetString("CURRENCY_SUFFIX"),
			IndividualMinIncome:   v.GetFloat64("INDIVIDUAL_MIN_INCOME"),
			BusinessMinIncome:     v.GetFloat64("BUSINESS_MIN_INCOME"),
			LongDurationThreshold: v.GetInt("LONG_DURATION_MONTHS"),
			HighRateThreshold:     v.GetFloat64("HIGH_RATE_PERCENT"),
			Weights: WeightsConfig{
				Rate:        v.GetFloat64("WEIGHT_RATE"),
				Eligibility: v.GetFloat64("WEIGHT_ELIGIBILITY"),
				Speed:       v.GetFloat64("WEIGHT_SPEED"),
				Payment:     v.GetFloat64("WEIGHT_PAYMENT"),
			},
		},
		Cache: CacheConfig{
			CatalogTTL:    v.GetDuration("CACHE_CATALOG_TTL"),
			ComparisonTTL: v.GetDuration("CACHE_COMPARISON_TTL"),
		},
		Health: HealthConfig{
			Timeout: v.GetDuration("HEALTH_CHECK_TIMEOUT"),
		},
	}
}

// Default returns the configuration obtained from defaults only, ignoring
// the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Host: "0.0.0.0", Env: "development", ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		Business: BusinessConfig{
			MaxDebtRatio:          "33",
			HardDebtRatio:         "40",
			PlausibilityMultiple:  60,
			PaymentCeiling:        5_000_000,
			SchedulePreviewRows:   12,
			CurrencySuffix:        "FCFA",
			IndividualMinIncome:   200_000,
			BusinessMinIncome:     500_000,
			LongDurationThreshold: 120,
			HighRateThreshold:     15,
			Weights:               WeightsConfig{Rate: 0.4, Eligibility: 0.3, Speed: 0.2, Payment: 0.1},
		},
		Cache:  CacheConfig{CatalogTTL: 30 * time.Minute, ComparisonTTL: 168 * time.Hour},
		Health: HealthConfig{Timeout: 5 * time.Second},
		Scheduler: SchedulerConfig{
			CatalogRefreshSpec: "0 */15 * * * *",
			Timezone:           "Africa/Douala",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	maxRatio, err := utils.DecimalFromString(c.Business.MaxDebtRatio)
	if err != nil {
		return fmt.Errorf("MAX_DEBT_RATIO must be a valid decimal: %w", err)
	}

	hardRatio, err := utils.DecimalFromString(c.Business.HardDebtRatio)
	if err != nil {
		return fmt.Errorf("HARD_DEBT_RATIO must be a valid decimal: %w", err)
	}

	if !maxRatio.IsPositive() || maxRatio.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("MAX_DEBT_RATIO must be in (0, 100]")
	}

	if hardRatio.LessThan(maxRatio) {
		return fmt.Errorf("HARD_DEBT_RATIO must not be lower than MAX_DEBT_RATIO")
	}

	if c.Business.PaymentCeiling <= 0 {
		return fmt.Errorf("PAYMENT_CEILING must be greater than 0")
	}

	if c.Business.PlausibilityMultiple <= 0 {
		return fmt.Errorf("PLAUSIBILITY_MULTIPLE must be greater than 0")
	}

	if c.Business.SchedulePreviewRows < 0 {
		return fmt.Errorf("SCHEDULE_PREVIEW_ROWS must not be negative")
	}

	w := c.Business.Weights
	if w.Rate < 0 || w.Eligibility < 0 || w.Speed < 0 || w.Payment < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}
	if w.Rate+w.Eligibility+w.Speed+w.Payment == 0 {
		return fmt.Errorf("scoring weights must not all be zero")
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a positive duration")
	}

	return nil
}

// GetMaxDebtRatio returns the eligibility ceiling as a percentage.
func (c *Config) GetMaxDebtRatio() float64 {
	ratio, _ := utils.DecimalFromString(c.Business.MaxDebtRatio)
	return ratio.InexactFloat64()
}

// GetHardDebtRatio returns the ratio above which a request is likely rejected.
func (c *Config) GetHardDebtRatio() float64 {
	ratio, _ := utils.DecimalFromString(c.Business.HardDebtRatio)
	return ratio.InexactFloat64()
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Addr returns the Redis host:port address.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}
