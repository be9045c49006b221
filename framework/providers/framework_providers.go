package providers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/metrics"
	"github.com/km-arc/go-mvc/framework/routing"
)

// Bean names bound by the framework providers.
const (
	ConfigBean     = "config"
	AppConfigBean  = "appConfig"
	LoggerBean     = "logger"
	MetricsBean    = "metrics"
	RouteTableBean = "routeTable"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound beans:
//   - "config"    → *config.Config
//   - "appConfig" → *config.AppConfig
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config == nil {
		return fmt.Errorf("config provider: no configuration")
	}
	if err := app.Instance(ConfigBean, p.Config); err != nil {
		return err
	}
	return app.Instance(AppConfigBean, &p.Config.App)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger as "logger"; components
// receive it with component.Inject("log", &c.log, "logger").
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return app.Instance(LoggerBean, log)
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus instruments as "metrics" and,
// once the route table exists, records the container and table sizes.
type MetricsServiceProvider struct {
	Metrics *metrics.Metrics
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	if p.Metrics == nil {
		return fmt.Errorf("metrics provider: no registry")
	}
	return app.Instance(MetricsBean, p.Metrics)
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	p.Metrics.SetBeans(len(app.Names()))
	if table, err := container.Resolve[*routing.Table](app, RouteTableBean); err == nil {
		p.Metrics.SetRoutes(table.Len())
	}
	return nil
}
