package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/studyhub/internal/contact"
)

// ErrMissingConfig 表示启动所需的内容源配置缺失。
var ErrMissingConfig = errors.New("missing required configuration")

const (
	// EnvProduction 表示生产环境，查询错误会降级为空结果。
	EnvProduction = "production"
	// EnvDevelopment 表示开发环境，查询错误直接暴露。
	EnvDevelopment = "development"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr string
	Port       string
	GinMode    string
	AppEnv     string
	LogLevel   string

	SanityProjectID  string
	SanityDataset    string
	SanityAPIToken   string
	SanityAPIVersion string
	SanityUseCDN     bool
	SanityTimeout    time.Duration

	CachePath string
	CacheTTL  time.Duration

	PreviewSecret string

	ContactDefaultPhone     string
	ContactStudyAbroadPhone string
	ContactMessage          string
}

// Production reports whether the service runs with production error policy.
func (c AppConfig) Production() bool {
	return c.AppEnv == EnvProduction
}

// CacheEnabled reports whether query responses are cached locally.
func (c AppConfig) CacheEnabled() bool {
	return c.CachePath != "" && c.CacheTTL > 0
}

// Load 从环境变量读取应用配置，为可选项提供默认值，并校验内容源的必填项。
func Load() (AppConfig, error) {
	port := env("PORT", "8080")

	cfg := AppConfig{
		Port:       port,
		ListenAddr: env("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		GinMode:    env("GIN_MODE", "release"),
		AppEnv:     strings.ToLower(env("APP_ENV", EnvProduction)),
		LogLevel:   strings.ToLower(env("LOG_LEVEL", "info")),

		SanityProjectID:  env("SANITY_PROJECT_ID", ""),
		SanityDataset:    env("SANITY_DATASET", ""),
		SanityAPIToken:   env("SANITY_API_TOKEN", ""),
		SanityAPIVersion: strings.TrimPrefix(env("SANITY_API_VERSION", "2024-01-01"), "v"),

		CachePath:     env("CONTENT_CACHE_PATH", ""),
		PreviewSecret: env("PREVIEW_SECRET", ""),

		ContactDefaultPhone:     env("CONTACT_DEFAULT_PHONE", ""),
		ContactStudyAbroadPhone: env("CONTACT_STUDY_ABROAD_PHONE", ""),
		ContactMessage:          env("CONTACT_MESSAGE", "Hello! I would like more information."),
	}

	var err error
	if cfg.SanityUseCDN, err = envBool("SANITY_USE_CDN", true); err != nil {
		return AppConfig{}, err
	}
	if cfg.SanityTimeout, err = envDuration("SANITY_TIMEOUT", 10*time.Second); err != nil {
		return AppConfig{}, err
	}
	if cfg.CacheTTL, err = envDuration("CONTENT_CACHE_TTL", time.Minute); err != nil {
		return AppConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate 检查内容源身份、数据集、访问凭证与两个联系号码是否齐全。
func (c AppConfig) Validate() error {
	var missing []string
	if c.SanityProjectID == "" {
		missing = append(missing, "SANITY_PROJECT_ID")
	}
	if c.SanityDataset == "" {
		missing = append(missing, "SANITY_DATASET")
	}
	if c.SanityAPIToken == "" {
		missing = append(missing, "SANITY_API_TOKEN")
	}
	if c.ContactDefaultPhone == "" {
		missing = append(missing, "CONTACT_DEFAULT_PHONE")
	}
	if c.ContactStudyAbroadPhone == "" {
		missing = append(missing, "CONTACT_STUDY_ABROAD_PHONE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	defaultDigits := contact.Digits(c.ContactDefaultPhone)
	abroadDigits := contact.Digits(c.ContactStudyAbroadPhone)
	switch {
	case defaultDigits == "":
		return fmt.Errorf("invalid CONTACT_DEFAULT_PHONE %q: no digits", c.ContactDefaultPhone)
	case abroadDigits == "":
		return fmt.Errorf("invalid CONTACT_STUDY_ABROAD_PHONE %q: no digits", c.ContactStudyAbroadPhone)
	case defaultDigits == abroadDigits:
		return errors.New("CONTACT_DEFAULT_PHONE and CONTACT_STUDY_ABROAD_PHONE must be different numbers")
	}

	switch c.AppEnv {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("invalid APP_ENV %q", c.AppEnv)
	}
	return nil
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) (bool, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
