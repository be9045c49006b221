package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig
	MVC     MVCConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
	// ContextPath is stripped from every request path before routing.
	ContextPath string
}

type MVCConfig struct {
	// ConfigLocation is the properties file holding scanPackage.
	ConfigLocation string
	ScanPackage    string
	// Strict turns duplicate routes and unresolved injections into boot errors.
	Strict bool
	// ParamRendering is "legacy" or "joined", see dispatch.Rendering.
	ParamRendering string
}

type LogConfig struct {
	Level  string
	Format string // console | json
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Well-known properties-file keys.
const (
	KeyScanPackage = "scanPackage"
)

// Load reads .env (if present) and populates a Config from environment
// variables. It does not touch the properties file; see LoadProperties.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:        env("APP_NAME", "GoMVC"),
			Env:         env("APP_ENV", "local"),
			Debug:       envBool("APP_DEBUG", true),
			Port:        env("APP_PORT", "8000"),
			ContextPath: env("APP_CONTEXT_PATH", ""),
		},
		MVC: MVCConfig{
			ConfigLocation: env("CONTEXT_CONFIG_LOCATION", "application.properties"),
			ScanPackage:    env("SCAN_PACKAGE", ""),
			Strict:         envBool("MVC_STRICT", false),
			ParamRendering: env("MVC_PARAM_RENDERING", "legacy"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
		},
		Metrics: MetricsConfig{
			Enabled: envBool("METRICS_ENABLED", true),
			Path:    env("METRICS_PATH", "/metrics"),
		},
	}
}

// LoadProperties reads the properties file at MVC.ConfigLocation and fills
// ScanPackage from it unless SCAN_PACKAGE already set it. The file uses
// key=value lines, which godotenv parses natively.
func (c *Config) LoadProperties() error {
	if c.MVC.ScanPackage == "" {
		props, err := godotenv.Read(c.MVC.ConfigLocation)
		if err != nil {
			return mvcerrors.Config(c.MVC.ConfigLocation, err)
		}
		c.MVC.ScanPackage = strings.TrimSpace(props[KeyScanPackage])
	}
	return c.Validate()
}

// Validate reports the first missing or invalid value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MVC.ScanPackage) == "" {
		return mvcerrors.Config(KeyScanPackage, mvcerrors.New("scan package is required"))
	}
	c.MVC.ParamRendering = strings.ToLower(strings.TrimSpace(c.MVC.ParamRendering))
	switch c.MVC.ParamRendering {
	case "":
		c.MVC.ParamRendering = "legacy"
	case "legacy", "joined":
	default:
		return mvcerrors.Config("MVC_PARAM_RENDERING", mvcerrors.New("must be legacy or joined"))
	}
	return nil
}

// IsProduction returns true when APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
