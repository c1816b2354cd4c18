package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Strategy names accepted by the scheduling engine.
const (
	StrategyCPSAT  = "cpsat"
	StrategyGreedy = "greedy"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig carries every tunable of the assignment engine. Nothing in
// the engine hardcodes these; callers may override per request.
type SchedulerConfig struct {
	Strategy           string
	StudentsPerSection int
	MaxSections        int
	MinLoad            int
	MaxLoad            int
	WeightBase         int
	WeightStep         int
	UnpreferredPenalty int
	TimeslotStride     int
	SolverTimeLimit    time.Duration
	Seed               int64
	TopTimeslots       int
	ReportCacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Strategy:           v.GetString("SCHEDULER_STRATEGY"),
		StudentsPerSection: v.GetInt("SCHEDULER_STUDENTS_PER_SECTION"),
		MaxSections:        v.GetInt("SCHEDULER_MAX_SECTIONS"),
		MinLoad:            v.GetInt("SCHEDULER_MIN_LOAD"),
		MaxLoad:            v.GetInt("SCHEDULER_MAX_LOAD"),
		WeightBase:         v.GetInt("SCHEDULER_WEIGHT_BASE"),
		WeightStep:         v.GetInt("SCHEDULER_WEIGHT_STEP"),
		UnpreferredPenalty: v.GetInt("SCHEDULER_UNPREFERRED_PENALTY"),
		TimeslotStride:     v.GetInt("SCHEDULER_TIMESLOT_STRIDE"),
		SolverTimeLimit:    parseDuration(v.GetString("SCHEDULER_SOLVER_TIME_LIMIT"), 60*time.Second),
		Seed:               v.GetInt64("SCHEDULER_SEED"),
		TopTimeslots:       v.GetInt("SCHEDULER_TOP_TIMESLOTS"),
		ReportCacheTTL:     parseDuration(v.GetString("SCHEDULER_REPORT_CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_STRATEGY", StrategyCPSAT)
	v.SetDefault("SCHEDULER_STUDENTS_PER_SECTION", 40)
	v.SetDefault("SCHEDULER_MAX_SECTIONS", 5)
	v.SetDefault("SCHEDULER_MIN_LOAD", 3)
	v.SetDefault("SCHEDULER_MAX_LOAD", 5)
	v.SetDefault("SCHEDULER_WEIGHT_BASE", 11)
	v.SetDefault("SCHEDULER_WEIGHT_STEP", 2)
	v.SetDefault("SCHEDULER_UNPREFERRED_PENALTY", -2)
	v.SetDefault("SCHEDULER_TIMESLOT_STRIDE", 7)
	v.SetDefault("SCHEDULER_SOLVER_TIME_LIMIT", "60s")
	v.SetDefault("SCHEDULER_SEED", 42)
	v.SetDefault("SCHEDULER_TOP_TIMESLOTS", 10)
	v.SetDefault("SCHEDULER_REPORT_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
