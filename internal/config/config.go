package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SlotCookieConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type RegistrationConfig struct {
	OTPCooldown       string `yaml:"otp_cooldown"`
	OTPLength         int    `yaml:"otp_length"`
	MinPasswordLength int    `yaml:"min_password_length"`
}

type CredentialsConfig struct {
	DurableTTL string `yaml:"durable_ttl"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	API          APIConfig          `yaml:"api"`
	Redis        RedisConfig        `yaml:"redis"`
	SlotCookie   SlotCookieConfig   `yaml:"slot_cookie"`
	Registration RegistrationConfig `yaml:"registration"`
	Credentials  CredentialsConfig  `yaml:"credentials"`
}

type Config struct {
	Port              string
	GinMode           string
	APIBaseURL        string
	APITimeout        time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SlotCookieName    string
	SlotCookieSecret  string
	SlotCookieIssuer  string
	SlotCookieTTL     time.Duration
	OTPCooldown       time.Duration
	OTPLength         int
	MinPasswordLength int
	DurableTTL        time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("GYMPORTAL_CONFIG", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	apiTimeout, err := time.ParseDuration(configFile.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}

	cookieTTL, err := time.ParseDuration(configFile.SlotCookie.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid slot cookie TTL: %w", err)
	}

	otpCooldown, err := time.ParseDuration(configFile.Registration.OTPCooldown)
	if err != nil {
		return nil, fmt.Errorf("invalid otp cooldown: %w", err)
	}

	durableTTL, err := time.ParseDuration(configFile.Credentials.DurableTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid durable credential TTL: %w", err)
	}

	return &Config{
		Port:              fmt.Sprintf("%d", configFile.App.Port),
		GinMode:           configFile.App.GinMode,
		APIBaseURL:        env("GYMPORTAL_API_BASE_URL", configFile.API.BaseURL),
		APITimeout:        apiTimeout,
		RedisAddr:         env("GYMPORTAL_REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:     env("GYMPORTAL_REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:           configFile.Redis.DB,
		SlotCookieName:    configFile.SlotCookie.Name,
		SlotCookieSecret:  env("GYMPORTAL_SLOT_COOKIE_SECRET", configFile.SlotCookie.Secret),
		SlotCookieIssuer:  configFile.SlotCookie.Issuer,
		SlotCookieTTL:     cookieTTL,
		OTPCooldown:       otpCooldown,
		OTPLength:         configFile.Registration.OTPLength,
		MinPasswordLength: configFile.Registration.MinPasswordLength,
		DurableTTL:        durableTTL,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
