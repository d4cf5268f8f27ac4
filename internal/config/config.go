package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adaptive_edu_backend/internal/engine"

	"github.com/spf13/viper"
)

const (
	MasteryStoreMemory   = "memory"
	MasteryStoreRedis    = "redis"
	MasteryStoreDatabase = "database"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	MasteryStore MasteryStoreConfig `mapstructure:"mastery_store"`
	Engine       EngineConfig       `mapstructure:"engine"`
	Assessment   AssessmentConfig   `mapstructure:"assessment"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Events       EventsConfig       `mapstructure:"events"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Admin        AdminConfig        `mapstructure:"admin"`

	// 运行时字段（非配置文件）
	File string `mapstructure:"-"` // 实际加载的配置文件路径，热更新时监听
}

type ServerConfig struct {
	Port            string `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DBName     string `mapstructure:"dbname"`
	Charset    string `mapstructure:"charset"`
	ParseTime  bool   `mapstructure:"parse_time"`
	SQLitePath string `mapstructure:"sqlite_path"`
	LogLevel   string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MasteryStoreConfig struct {
	Type       string `mapstructure:"type"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type BandConfig struct {
	Slip  float64 `mapstructure:"slip"`
	Guess float64 `mapstructure:"guess"`
}

type TierConfig struct {
	Weakness float64 `mapstructure:"weakness"`
	Strength float64 `mapstructure:"strength"`
}

type DifficultyConfig struct {
	VeryEasy float64 `mapstructure:"very_easy"`
	Easy     float64 `mapstructure:"easy"`
	Medium   float64 `mapstructure:"medium"`
}

type DurationConfig struct {
	RemedialMinutes int `mapstructure:"remedial_minutes"`
	PracticeMinutes int `mapstructure:"practice_minutes"`
	AdvancedMinutes int `mapstructure:"advanced_minutes"`
	RoundingMinutes int `mapstructure:"rounding_minutes"`
}

// EngineConfig 知识追踪引擎参数，支持热更新
type EngineConfig struct {
	Prior      float64               `mapstructure:"prior"`
	Transit    float64               `mapstructure:"transit"`
	Bands      map[string]BandConfig `mapstructure:"bands"`
	Tiers      TierConfig            `mapstructure:"tiers"`
	Difficulty DifficultyConfig      `mapstructure:"difficulty"`
	Durations  DurationConfig        `mapstructure:"durations"`
}

type AssessmentConfig struct {
	DefaultQuestions int `mapstructure:"default_questions"`
	MaxQuestions     int `mapstructure:"max_questions"`
}

type StorageConfig struct {
	Type           string `mapstructure:"type"`
	ArchiveReports bool   `mapstructure:"archive_reports"`
	ReportPrefix   string `mapstructure:"report_prefix"`
	LocalPath      string `mapstructure:"local_path"`
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessID  string `mapstructure:"minio_access_key"`
	MinioSecret    string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioSecure    bool   `mapstructure:"minio_secure"`
	OSSEndpoint    string `mapstructure:"oss_endpoint"`
	OSSAccessKey   string `mapstructure:"oss_access_key"`
	OSSSecretKey   string `mapstructure:"oss_secret_key"`
	OSSBucket      string `mapstructure:"oss_bucket"`
}

type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_seconds", 5)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.sqlite_path", "data/adaptive_edu.db")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("mastery_store.type", MasteryStoreDatabase)
	v.SetDefault("mastery_store.key_prefix", "mastery")
	v.SetDefault("mastery_store.max_retries", 5)

	d := engine.DefaultParams()
	v.SetDefault("engine.prior", d.Prior)
	v.SetDefault("engine.transit", d.Transit)
	for b, sg := range d.Bands {
		v.SetDefault("engine.bands."+string(b)+".slip", sg.Slip)
		v.SetDefault("engine.bands."+string(b)+".guess", sg.Guess)
	}
	v.SetDefault("engine.tiers.weakness", d.Tiers.Weakness)
	v.SetDefault("engine.tiers.strength", d.Tiers.Strength)
	v.SetDefault("engine.difficulty.very_easy", d.Difficulty.VeryEasy)
	v.SetDefault("engine.difficulty.easy", d.Difficulty.Easy)
	v.SetDefault("engine.difficulty.medium", d.Difficulty.Medium)
	v.SetDefault("engine.durations.remedial_minutes", int(d.Durations.Remedial/time.Minute))
	v.SetDefault("engine.durations.practice_minutes", int(d.Durations.Practice/time.Minute))
	v.SetDefault("engine.durations.advanced_minutes", int(d.Durations.Advanced/time.Minute))
	v.SetDefault("engine.durations.rounding_minutes", int(d.Durations.Rounding/time.Minute))

	v.SetDefault("assessment.default_questions", 10)
	v.SetDefault("assessment.max_questions", 50)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.report_prefix", "reports")

	v.SetDefault("events.url", "nats://127.0.0.1:4222")
	v.SetDefault("events.subject_prefix", "adaptive_edu")

	v.SetDefault("tracing.service_name", "adaptive-edu-backend")

	v.SetDefault("rate_limit.max_requests", 120)
	v.SetDefault("rate_limit.window_minutes", 1)
}

// LoadConfig 从目录 path 读取 config.yaml，并叠加环境变量
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ADAPTIVE_EDU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.sqlite_path", "DATABASE_SQLITE_PATH")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Mastery store / engine
	v.BindEnv("mastery_store.type", "MASTERY_STORE_TYPE")
	v.BindEnv("engine.prior", "ENGINE_PRIOR")
	v.BindEnv("engine.transit", "ENGINE_TRANSIT")

	// Storage / OSS
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.archive_reports", "STORAGE_ARCHIVE_REPORTS")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Events
	v.BindEnv("events.enabled", "EVENTS_ENABLED")
	v.BindEnv("events.url", "NATS_URL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Admin
	v.BindEnv("admin.api_key", "ADMIN_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.SQLitePath != ":memory:" {
		os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755)
	}

	return &cfg, nil
}

// Validate 校验启动期必须正确的配置，引擎参数错误视为致命
func (c *Config) Validate() error {
	if _, err := c.Engine.Params(); err != nil {
		return err
	}

	switch c.MasteryStore.Type {
	case MasteryStoreMemory, MasteryStoreRedis, MasteryStoreDatabase:
	default:
		return fmt.Errorf("unknown mastery_store.type %q", c.MasteryStore.Type)
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	if c.Assessment.DefaultQuestions < 1 {
		return fmt.Errorf("assessment.default_questions must be positive")
	}
	if c.Assessment.MaxQuestions < c.Assessment.DefaultQuestions {
		return fmt.Errorf("assessment.max_questions (%d) below default_questions (%d)",
			c.Assessment.MaxQuestions, c.Assessment.DefaultQuestions)
	}

	if c.Server.Mode == "release" && len(c.Admin.APIKey) < 16 {
		return fmt.Errorf("admin api key is too short (%d chars), must be at least 16 characters in release mode", len(c.Admin.APIKey))
	}
	return nil
}

// Params converts the config section into validated engine parameters.
func (e EngineConfig) Params() (engine.Params, error) {
	p := engine.Params{
		Prior:      e.Prior,
		Transit:    e.Transit,
		Bands:      make(map[engine.Band]engine.SlipGuess, len(e.Bands)),
		Tiers:      engine.TierThresholds{Weakness: e.Tiers.Weakness, Strength: e.Tiers.Strength},
		Difficulty: engine.DifficultyThresholds{VeryEasy: e.Difficulty.VeryEasy, Easy: e.Difficulty.Easy, Medium: e.Difficulty.Medium},
		Durations: engine.ModuleDurations{
			Remedial: time.Duration(e.Durations.RemedialMinutes) * time.Minute,
			Practice: time.Duration(e.Durations.PracticeMinutes) * time.Minute,
			Advanced: time.Duration(e.Durations.AdvancedMinutes) * time.Minute,
			Rounding: time.Duration(e.Durations.RoundingMinutes) * time.Minute,
		},
	}
	for name, b := range e.Bands {
		band, err := engine.ParseBand(name)
		if err != nil {
			return engine.Params{}, fmt.Errorf("%w: %v", engine.ErrInvalidParams, err)
		}
		p.Bands[band] = engine.SlipGuess{Slip: b.Slip, Guess: b.Guess}
	}
	if err := p.Validate(); err != nil {
		return engine.Params{}, err
	}
	return p, nil
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}
