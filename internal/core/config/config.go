package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// CORSAllowOrigins is the comma separated list of allowed origins.
	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS" default:"*"`

	// Portal holds the account portal configuration.
	Portal PortalConfig `mapstructure:",squash"`

	// Customs holds the customs portal configuration.
	Customs CustomsConfig `mapstructure:",squash"`

	// Lookup holds the worker pool settings for customs lookups.
	Lookup LookupConfig `mapstructure:",squash"`

	// Browser holds the headless browser settings.
	Browser BrowserConfig `mapstructure:",squash"`

	// Proxy holds the optional upstream proxy settings.
	Proxy ProxyConfig `mapstructure:",squash"`

	// Cache holds the optional Redis cache settings.
	Cache CacheConfig `mapstructure:",squash"`
}

// PortalConfig describes the freight-forwarding account portal.
type PortalConfig struct {
	// BaseURL is the portal origin, e.g. https://portal.example.ge.
	BaseURL string `mapstructure:"PORTAL_BASE_URL" required:"true"`
	// LoginPath is the path of the login form.
	LoginPath string `mapstructure:"PORTAL_LOGIN_PATH" default:"/login"`
	// InTransitPath lists shipments sent to Georgia.
	InTransitPath string `mapstructure:"PORTAL_IN_TRANSIT_PATH" default:"/parcels/in-transit"`
	// ExpectedPath lists shipments that have not arrived yet.
	ExpectedPath string `mapstructure:"PORTAL_EXPECTED_PATH" default:"/parcels/expected"`
	// WarehousePath lists shipments waiting in the warehouse.
	WarehousePath string `mapstructure:"PORTAL_WAREHOUSE_PATH" default:"/parcels/warehouse"`
	// NavTimeout bounds every navigation of the session page.
	NavTimeout time.Duration `mapstructure:"PORTAL_NAV_TIMEOUT" default:"30s"`
	// LoginTimeout bounds the post-submit navigation.
	LoginTimeout time.Duration `mapstructure:"PORTAL_LOGIN_TIMEOUT" default:"15s"`
	// RowsWaitTimeout bounds the wait for the listing rows.
	RowsWaitTimeout time.Duration `mapstructure:"ROWS_WAIT_TIMEOUT" default:"3s"`
	// ModalWaitTimeout bounds the best-effort wait for the detail overlay.
	ModalWaitTimeout time.Duration `mapstructure:"MODAL_WAIT_TIMEOUT" default:"1500ms"`
	// ModalOpenSettle is the fixed delay after the overlay opens.
	ModalOpenSettle time.Duration `mapstructure:"MODAL_OPEN_SETTLE" default:"500ms"`
	// ModalCloseSettle is the fixed delay after the overlay closes.
	ModalCloseSettle time.Duration `mapstructure:"MODAL_CLOSE_SETTLE" default:"300ms"`
	// ModalCloseTimeout bounds each overlay close, independent of the row's deadline.
	ModalCloseTimeout time.Duration `mapstructure:"MODAL_CLOSE_TIMEOUT" default:"5s"`
}

// CustomsConfig describes the public customs tracking portal.
type CustomsConfig struct {
	// SearchURL is the page that embeds the anti-forgery token.
	SearchURL string `mapstructure:"CUSTOMS_SEARCH_URL" required:"true"`
	// APIURL is the search endpoint accepting the form post.
	APIURL string `mapstructure:"CUSTOMS_API_URL" required:"true"`
	// SearchType is the portal's search-type code for parcel lookups.
	SearchType string `mapstructure:"CUSTOMS_SEARCH_TYPE" default:"4"`
	// Lang is the locale flag sent with each search.
	Lang string `mapstructure:"CUSTOMS_LANG" default:"ka"`
}

// LookupConfig sizes the customs lookup worker pool.
type LookupConfig struct {
	// MaxConcurrency is the number of lookups running at once.
	MaxConcurrency int `mapstructure:"LOOKUP_MAX_CONCURRENCY" default:"5"`
	// Timeout bounds a single lookup attempt.
	Timeout time.Duration `mapstructure:"LOOKUP_TIMEOUT" default:"30s"`
	// Retries is the number of extra attempts after the first failure.
	Retries int `mapstructure:"LOOKUP_RETRIES" default:"2"`
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration `mapstructure:"LOOKUP_RETRY_DELAY" default:"0s"`
}

// BrowserConfig controls how Chromium is launched.
type BrowserConfig struct {
	// Headless runs the browser without a window.
	Headless bool `mapstructure:"BROWSER_HEADLESS" default:"true"`
	// Bin overrides the browser binary; empty lets rod find or download one.
	Bin string `mapstructure:"BROWSER_BIN"`
}

// ProxyConfig holds the upstream proxy used by every browser.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// CacheConfig enables the Redis memo of customs lookups.
type CacheConfig struct {
	// RedisURL is redis://[:password@]host[:port][/database]; empty disables caching.
	RedisURL string `mapstructure:"REDIS_URL"`
	// LookupTTL is how long a customs response is reused.
	LookupTTL time.Duration `mapstructure:"LOOKUP_CACHE_TTL" default:"5m"`
}

// AllowOrigins returns the CORS origins in the format fiber expects.
func (c *AppConfig) AllowOrigins() string {
	if strings.TrimSpace(c.CORSAllowOrigins) == "" {
		return "*"
	}
	parts := strings.Split(c.CORSAllowOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := validateLookup(config.Lookup); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", key, err)
		}

		if defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// validateLookup rejects pool settings the worker pool cannot run with.
func validateLookup(c LookupConfig) error {
	switch {
	case c.MaxConcurrency < 1:
		return fmt.Errorf("invalid configuration: LOOKUP_MAX_CONCURRENCY must be at least 1, got %d", c.MaxConcurrency)
	case c.Timeout <= 0:
		return fmt.Errorf("invalid configuration: LOOKUP_TIMEOUT must be positive, got %s", c.Timeout)
	case c.Retries < 0:
		return fmt.Errorf("invalid configuration: LOOKUP_RETRIES must not be negative, got %d", c.Retries)
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
