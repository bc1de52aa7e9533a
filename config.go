package cms

import "github.com/goliatone/go-cms-content/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired   = runtimeconfig.ErrDefaultLocaleRequired
	ErrWebspaceInvalid         = runtimeconfig.ErrWebspaceInvalid
	ErrContentTypeInvalid      = runtimeconfig.ErrContentTypeInvalid
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	WebspaceConfig    = runtimeconfig.WebspaceConfig
	ContentTypeConfig = runtimeconfig.ContentTypeConfig
	MetadataConfig    = runtimeconfig.MetadataConfig
	RoutesConfig      = runtimeconfig.RoutesConfig
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	Features          = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML or JSON file on top of the defaults and applies
// CMS_* environment overrides. An empty path reads the environment only.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
