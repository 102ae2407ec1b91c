package app

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"taskdeck/internal/config"
	"taskdeck/internal/infrastructure/logging"
	"taskdeck/internal/platform"
	"taskdeck/internal/services"
	"taskdeck/internal/types"
	"taskdeck/internal/watcher"
)

// WindowChangedEvent tells the front-end to re-query GetRunningApps
const WindowChangedEvent = "window-changed"

// EmitFunc sends a payload-less event to the front-end
type EmitFunc func(ctx context.Context, event string)

// App struct represents the main application
type App struct {
	ctx     context.Context
	config  *config.Config
	lister  *services.AppLister
	control *services.SystemControl
	watcher *watcher.Watcher
	emit    EmitFunc
	logger  logging.Logger
}

// Dependencies are the collaborators App is assembled from
type Dependencies struct {
	Config    *config.Config
	Logger    logging.Logger
	Windows   platform.WindowAPI
	Processes services.ProcessTable
	Emit      EmitFunc

	// StartCommand runs power commands; defaults to services.StartDetached
	StartCommand services.CommandStarter
}

// NewApp creates a new App for env, wired to the live OS
func NewApp(env string) (*App, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, err
	}

	return NewAppWithDependencies(Dependencies{
		Config: cfg,
		Logger: logger,
		Emit:   emitToFrontend,
	}), nil
}

// NewAppWithDependencies assembles an App from explicit collaborators.
// Missing collaborators are replaced by the live OS implementations. The
// config is copied, so later changes to deps.Config have no effect.
func NewAppWithDependencies(deps Dependencies) *App {
	cfg := config.DefaultConfig()
	if deps.Config != nil {
		cfg = deps.Config.Clone()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	windows := deps.Windows
	if windows == nil {
		windows = platform.NewWindowAPI(logging.WithComponent(logger, "platform"))
	}
	processes := deps.Processes
	if processes == nil {
		processes = services.NewSystemProcessTable(logging.WithComponent(logger, "process_table"))
	}
	emit := deps.Emit
	if emit == nil {
		emit = emitToFrontend
	}
	start := deps.StartCommand
	if start == nil {
		start = services.StartDetached
	}

	return &App{
		config:  cfg,
		lister:  services.NewAppLister(windows, processes, windows, cfg.Apps, logging.WithComponent(logger, "apps")),
		control: services.NewSystemControlWithCommands(processes, platform.PowerCommand, start, logging.WithComponent(logger, "system_control")),
		watcher: watcher.New(windows, cfg.Watcher.QuietPeriod, logging.WithComponent(logger, "watcher")),
		emit:    emit,
		logger:  logger,
	}
}

// WailsLogger routes Wails runtime logs into a's logger. It is a function
// rather than a method so it is not bound to the front-end.
func WailsLogger(a *App) *logging.WailsLoggerAdapter {
	return logging.NewWailsLoggerAdapter(a.logger)
}

func emitToFrontend(ctx context.Context, event string) {
	runtime.EventsEmit(ctx, event)
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	if a.config.Watcher.Enabled {
		a.watcher.Start(ctx, func() {
			a.emit(ctx, WindowChangedEvent)
		})
	}

	a.logger.Info("Application started", "environment", a.config.Environment, "watcher", a.config.Watcher.Enabled)
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {
	a.logger.Debug("Front-end ready")
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("Application shutdown completed")

	if syncer, ok := a.logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
}

// GetRunningApps returns the applications owning visible windows, sorted by
// title. It is empty, never nil, when nothing can be listed.
func (a *App) GetRunningApps() []types.ApplicationEntry {
	return a.lister.ListRunningApplications(a.context())
}

// KillProcess sends a termination signal to pid. It returns false if no
// such process exists or the signal could not be delivered.
func (a *App) KillProcess(pid uint32) bool {
	return a.control.KillProcess(a.context(), pid)
}

// SystemShutdown powers off the machine
func (a *App) SystemShutdown() {
	a.control.Shutdown()
}

// SystemRestart reboots the machine
func (a *App) SystemRestart() {
	a.control.Restart()
}

// SystemSleep suspends the machine
func (a *App) SystemSleep() {
	a.control.Sleep()
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}
