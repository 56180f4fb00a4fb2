package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port        string `yaml:"port"`
	BackendURL  string `yaml:"backend_url"`
	FrontendURL string `yaml:"frontend_url"`
	Env         string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`
}

type DBConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type EtherealConfig struct {
	APIURL   string `yaml:"api_url"`
	Disabled bool   `yaml:"disabled"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	Max    int           `yaml:"max"`
	Window time.Duration `yaml:"window"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	JWT       JWTConfig       `yaml:"jwt"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Ethereal  EtherealConfig  `yaml:"ethereal"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	MQ        MQConfig        `yaml:"mq"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     "5000",
			Env:      "development",
			LogLevel: "info",
		},
		JWT: JWTConfig{
			Secret: "secretkey",
			TTL:    7 * 24 * time.Hour,
		},
		SMTP: SMTPConfig{Port: 587},
		Ethereal: EtherealConfig{
			APIURL: "https://api.nodemailer.com",
		},
		RateLimit: RateLimitConfig{
			Max:    1000,
			Window: 15 * time.Minute,
		},
	}
}

// Load reads .env (optional), then the YAML file named by CONFIG_FILE
// (optional), then lets the process environment override everything.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	overrideFromEnv(cfg)
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.BackendURL = getEnv("BACKEND_URL", cfg.Server.BackendURL)
	cfg.Server.FrontendURL = getEnv("FRONTEND_URL", cfg.Server.FrontendURL)
	cfg.Server.Env = getEnv("ENV", cfg.Server.Env)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)

	cfg.DB.URL = getEnv("DATABASE_URL", cfg.DB.URL)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.TTL = getEnvDuration("JWT_TTL", cfg.JWT.TTL)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvInt("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.User = getEnv("SMTP_USER", cfg.SMTP.User)
	cfg.SMTP.Password = getEnv("SMTP_PASS", cfg.SMTP.Password)
	cfg.SMTP.From = getEnv("MAIL_FROM", cfg.SMTP.From)

	cfg.Ethereal.APIURL = getEnv("ETHEREAL_API_URL", cfg.Ethereal.APIURL)
	if v := os.Getenv("ETHEREAL_DISABLED"); v != "" {
		cfg.Ethereal.Disabled, _ = strconv.ParseBool(v)
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.RateLimit.Max = getEnvInt("RATE_LIMIT_MAX", cfg.RateLimit.Max)
	cfg.RateLimit.Window = getEnvDuration("RATE_LIMIT_WINDOW", cfg.RateLimit.Window)

	cfg.MQ.URL = getEnv("AMQP_URL", cfg.MQ.URL)
}

// SMTPConfigured is true only when host, user and password are all set.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Password != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
