package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/dispatch"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	"github.com/km-arc/go-mvc/framework/metrics"
	"github.com/km-arc/go-mvc/framework/providers"
	"github.com/km-arc/go-mvc/framework/routing"
	"github.com/km-arc/go-mvc/framework/scanner"
)

// Version of the framework.
const Version = "0.1.0"

const shutdownTimeout = 10 * time.Second

// Application owns one container and everything built from it. Build runs
// the bootstrap once; afterwards the application only serves.
type Application struct {
	Container *container.Container
	Providers *container.ProviderRegistry

	config  *config.Config
	log     *zap.Logger
	catalog *component.Catalog
	extra   []container.ServiceProvider
	metrics *metrics.Metrics

	table      *routing.Table
	dispatcher *dispatch.Dispatcher
	router     *routing.Router
	built      bool
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the application logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Application) { a.log = l }
}

// WithCatalog scans c instead of component.Default().
func WithCatalog(c *component.Catalog) Option {
	return func(a *Application) { a.catalog = c }
}

// WithProviders registers additional service providers after the framework
// ones.
func WithProviders(p ...container.ServiceProvider) Option {
	return func(a *Application) { a.extra = append(a.extra, p...) }
}

// New creates an unbuilt application for cfg.
func New(cfg *config.Config, opts ...Option) *Application {
	a := &Application{
		config:  cfg,
		log:     zap.NewNop(),
		catalog: component.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	a.Container = container.New(container.WithLogger(a.log))
	a.Providers = container.NewProviderRegistry(a.Container)
	return a
}

// Build runs the bootstrap: configuration, framework providers, component
// scan, instantiation, injection, route table, provider boot, freeze. Any
// error aborts it and the application must not serve.
func (a *Application) Build() error {
	if a.built {
		return errors.New("application already built")
	}
	cfg := a.config
	if cfg == nil {
		return mvcerrors.Config("config", errors.New("no configuration"))
	}
	if err := cfg.LoadProperties(); err != nil {
		return err
	}
	rendering, err := dispatch.ParseRendering(cfg.MVC.ParamRendering)
	if err != nil {
		return mvcerrors.Config("MVC_PARAM_RENDERING", err)
	}
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(true)
	}

	if err := a.registerProviders(); err != nil {
		return err
	}

	ids, err := scanner.Scan(a.catalog, cfg.MVC.ScanPackage)
	if err != nil {
		return err
	}
	a.log.Info("components discovered", zap.String("package", cfg.MVC.ScanPackage), zap.Int("count", len(ids)))

	if err := a.Container.Build(a.catalog, ids); err != nil {
		return err
	}
	if err := a.Container.Inject(cfg.MVC.Strict); err != nil {
		return err
	}
	table, err := routing.BuildTable(a.Container, a.log, cfg.MVC.Strict)
	if err != nil {
		return err
	}
	if err := a.Container.Instance(providers.RouteTableBean, table); err != nil {
		return err
	}
	if err := a.Providers.Boot(); err != nil {
		return err
	}
	a.Container.Freeze()

	a.table = table
	a.dispatcher = dispatch.New(a.Container, table,
		dispatch.WithContextPath(cfg.App.ContextPath),
		dispatch.WithRendering(rendering),
		dispatch.WithLogger(a.log),
		dispatch.WithMetrics(a.metrics),
	)
	a.router = routing.New(a.log)
	if a.metrics != nil {
		a.router.Get(cfg.Metrics.Path, a.metrics.Handler())
	}
	a.router.Dispatch(a.dispatcher)
	a.built = true

	a.log.Info("application built",
		zap.Int("beans", len(a.Container.Names())),
		zap.Int("routes", table.Len()),
		zap.Int("unresolved", len(a.Container.Unresolved())),
	)
	return nil
}

func (a *Application) registerProviders() error {
	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: a.config},
		&providers.LoggingServiceProvider{Logger: a.log},
	}
	if a.metrics != nil {
		core = append(core, &providers.MetricsServiceProvider{Metrics: a.metrics})
	}
	for _, p := range append(core, a.extra...) {
		if err := a.Providers.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the HTTP surface; nil before Build.
func (a *Application) Handler() http.Handler {
	if a.router == nil {
		return nil
	}
	return a.router
}

// Dispatcher returns the request dispatcher; nil before Build.
func (a *Application) Dispatcher() *dispatch.Dispatcher { return a.dispatcher }

// Routes lists the route table sorted by path.
func (a *Application) Routes() []routing.RouteInfo {
	if a.table == nil {
		return nil
	}
	return a.table.Entries()
}

// Config returns the application configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.log }

// Run builds the application if needed and serves until ctx is done, then
// shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.built {
		if err := a.Build(); err != nil {
			return err
		}
	}
	srv := &http.Server{
		Addr:              ":" + a.config.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	a.banner()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *Application) banner() {
	cfg := a.config
	bold := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	bold.Printf("%s", cfg.App.Name)
	dim.Printf(" v%s [%s]\n", Version, cfg.App.Env)
	fmt.Printf("  listening on  http://localhost:%s%s\n", cfg.App.Port, cfg.App.ContextPath)
	fmt.Printf("  routes        %d\n", a.table.Len())
	if a.metrics != nil {
		fmt.Printf("  metrics       %s\n", cfg.Metrics.Path)
	}
}
