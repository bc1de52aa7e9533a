package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config drives the dimension content module.
type Config struct {
	DefaultLocale string              `yaml:"default_locale" json:"default_locale" env:"CMS_DEFAULT_LOCALE"`
	Webspaces     []WebspaceConfig    `yaml:"webspaces"      json:"webspaces"`
	ContentTypes  []ContentTypeConfig `yaml:"content_types"  json:"content_types"`
	Metadata      MetadataConfig      `yaml:"metadata"       json:"metadata"`
	Routes        RoutesConfig        `yaml:"routes"         json:"routes"`
	Storage       StorageConfig       `yaml:"storage"        json:"storage"`
	Cache         CacheConfig         `yaml:"cache"          json:"cache"`
	Logging       LoggingConfig       `yaml:"logging"        json:"logging"`
	Features      Features            `yaml:"features"       json:"features"`
}

// WebspaceConfig declares a webspace and the locales it serves.
type WebspaceConfig struct {
	Key           string   `yaml:"key"            json:"key"`
	Name          string   `yaml:"name"           json:"name"`
	BaseURL       string   `yaml:"base_url"       json:"base_url"`
	LocalePrefix  bool     `yaml:"locale_prefix"  json:"locale_prefix"`
	Locales       []string `yaml:"locales"        json:"locales"`
	DefaultLocale string   `yaml:"default_locale" json:"default_locale"`
}

// ContentTypeConfig declares a resource key, the capabilities its dimension
// records carry and the template used when the input names none.
type ContentTypeConfig struct {
	ResourceKey     string   `yaml:"resource_key"     json:"resource_key"`
	Capabilities    []string `yaml:"capabilities"     json:"capabilities"`
	DefaultTemplate string   `yaml:"default_template" json:"default_template"`
}

// MetadataConfig points at the structure and form YAML documents.
type MetadataConfig struct {
	Dir     string `yaml:"dir"     json:"dir"     env:"CMS_METADATA_DIR"`
	Pattern string `yaml:"pattern" json:"pattern" env:"CMS_METADATA_PATTERN"`
}

// RoutesConfig controls generated route paths.
type RoutesConfig struct {
	Prefix string `yaml:"prefix" json:"prefix" env:"CMS_ROUTES_PREFIX"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver string `yaml:"driver" json:"driver" env:"CMS_STORAGE_DRIVER"`
	DSN    string `yaml:"dsn"    json:"dsn"    env:"CMS_STORAGE_DSN"`
	Debug  bool   `yaml:"debug"  json:"debug"  env:"CMS_STORAGE_DEBUG"`
}

// CacheConfig toggles read caching around bun repositories.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"     json:"enabled"     env:"CMS_CACHE_ENABLED"`
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl" env:"CMS_CACHE_TTL"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"   json:"provider"   env:"CMS_LOG_PROVIDER"`
	Level     string   `yaml:"level"      json:"level"      env:"CMS_LOG_LEVEL"`
	Format    string   `yaml:"format"     json:"format"     env:"CMS_LOG_FORMAT"`
	AddSource bool     `yaml:"add_source" json:"add_source" env:"CMS_LOG_ADD_SOURCE"`
	Focus     []string `yaml:"focus"      json:"focus"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `yaml:"logger" json:"logger" env:"CMS_FEATURE_LOGGER"`
}

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	LoggingConsole  = "console"
	LoggingGoLogger = "gologger"
)

var (
	ErrDefaultLocaleRequired   = errors.New("cms config: default locale is required")
	ErrWebspaceInvalid         = errors.New("cms config: webspace is invalid")
	ErrContentTypeInvalid      = errors.New("cms config: content type is invalid")
	ErrStorageDriverUnknown    = errors.New("cms config: storage driver is not supported")
	ErrStorageDSNRequired      = errors.New("cms config: storage dsn is required")
	ErrLoggingProviderRequired = errors.New("cms config: logging provider is required when logger feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("cms config: logging provider is not supported")
	ErrLoggingLevelInvalid     = errors.New("cms config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("cms config: logging format is invalid")
)

var capabilityNames = []any{"template", "author", "excerpt", "seo", "webspace", "routable"}

// DefaultConfig returns a single-webspace, memory-backed configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Webspaces: []WebspaceConfig{{
			Key:     "website",
			Name:    "Website",
			BaseURL: "http://localhost",
			Locales: []string{"en"},
		}},
		Metadata: MetadataConfig{
			Pattern: "*.yaml",
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: LoggingConsole,
			Level:    "info",
		},
	}
}

// Load reads the YAML or JSON file at path on top of the defaults and then
// applies environment overrides. An empty path reads the environment only.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if strings.TrimSpace(path) == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("cms config: load %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate ensures the configuration is coherent.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	seen := map[string]bool{}
	for _, webspace := range cfg.Webspaces {
		if err := webspace.validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrWebspaceInvalid, err)
		}
		if seen[webspace.Key] {
			return fmt.Errorf("%w: duplicate key %q", ErrWebspaceInvalid, webspace.Key)
		}
		seen[webspace.Key] = true
	}
	for _, contentType := range cfg.ContentTypes {
		if err := contentType.validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrContentTypeInvalid, err)
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return ErrLoggingProviderUnknown
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return ErrLoggingLevelInvalid
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return ErrLoggingFormatInvalid
		}
	}
	return nil
}

// StorageDriver returns the normalized driver name.
func (cfg Config) StorageDriver() string {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" {
		return StorageMemory
	}
	return driver
}

// DefaultTemplates maps resource keys to their default template.
func (cfg Config) DefaultTemplates() map[string]string {
	out := map[string]string{}
	for _, contentType := range cfg.ContentTypes {
		if contentType.DefaultTemplate != "" {
			out[contentType.ResourceKey] = contentType.DefaultTemplate
		}
	}
	return out
}

func (w WebspaceConfig) validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Key, validation.Required),
		validation.Field(&w.Locales, validation.Required),
		validation.Field(&w.DefaultLocale, validation.By(func(value any) error {
			locale, _ := value.(string)
			if locale != "" && !slices.Contains(w.Locales, locale) {
				return validation.NewError("validation_default_locale", "must be one of the webspace locales")
			}
			return nil
		})),
	)
}

func (c ContentTypeConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ResourceKey, validation.Required),
		validation.Field(&c.Capabilities, validation.Each(validation.In(capabilityNames...))),
	)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingConsole, LoggingGoLogger:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
